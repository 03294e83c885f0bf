package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"samaj_server/models"
	"samaj_server/services"
)

// ErrUpstream marks a well-formed backend answer that reported failure
// (success:false), as opposed to a transport error.
var ErrUpstream = errors.New("backend reported failure")

// Client is a typed HTTP client for the messaging contract. Every response
// is decoded through the tagged envelope rather than trusting an ambient
// success flag.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		if env.Error != "" {
			return fmt.Errorf("%w: %s", ErrUpstream, env.Error)
		}
		return ErrUpstream
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// ChatList fetches the user's chat summaries.
func (c *Client) ChatList(ctx context.Context, userID string) ([]models.ChatListEntry, error) {
	var entries []models.ChatListEntry
	path := "/chat-list?userId=" + url.QueryEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Messages fetches the full log of a match. userID enables the server-side
// participant check.
func (c *Client) Messages(ctx context.Context, matchID, userID string) ([]models.Message, error) {
	var messages []models.Message
	path := "/messages/" + url.PathEscape(matchID) + "?userId=" + url.QueryEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage posts a message and returns the persisted server record.
func (c *Client) SendMessage(ctx context.Context, input services.SendMessageInput) (*models.Message, error) {
	var message models.Message
	if err := c.do(ctx, http.MethodPost, "/send-message", input, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// MarkDelivered flags the given message ids delivered.
func (c *Client) MarkDelivered(ctx context.Context, ids []string) error {
	return c.do(ctx, http.MethodPost, "/message-delivered", map[string][]string{"ids": ids}, nil)
}

// MarkSeen flags the given message ids seen.
func (c *Client) MarkSeen(ctx context.Context, ids []string) error {
	return c.do(ctx, http.MethodPost, "/message-seen", map[string][]string{"ids": ids}, nil)
}

// CheckMatch asks whether a match exists between two users.
func (c *Client) CheckMatch(ctx context.Context, user1, user2 string) (services.MatchStatus, error) {
	// check-match answers at the top level, outside the envelope.
	path := c.BaseURL + "/check-match?user1=" + url.QueryEscape(user1) + "&user2=" + url.QueryEscape(user2)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return services.MatchStatus{}, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return services.MatchStatus{}, err
	}
	defer resp.Body.Close()

	var status services.MatchStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return services.MatchStatus{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return status, nil
}

// SendRequest expresses interest from -> to and returns the request id.
func (c *Client) SendRequest(ctx context.Context, from, to string) (string, error) {
	body := map[string]string{"from_user_id": from, "to_user_id": to}
	var data struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/send-request", body, &data); err != nil {
		return "", err
	}
	return data.ID, nil
}

// IncomingRequests lists requests addressed to the user, newest first.
func (c *Client) IncomingRequests(ctx context.Context, userID string) ([]models.MatchRequest, error) {
	return c.listRequests(ctx, "/requests/incoming", userID)
}

// OutgoingRequests lists requests sent by the user, newest first.
func (c *Client) OutgoingRequests(ctx context.Context, userID string) ([]models.MatchRequest, error) {
	return c.listRequests(ctx, "/requests/outgoing", userID)
}

func (c *Client) listRequests(ctx context.Context, path, userID string) ([]models.MatchRequest, error) {
	var requests []models.MatchRequest
	if err := c.do(ctx, http.MethodGet, path+"?userId="+url.QueryEscape(userID), nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// Respond accepts or rejects a request. On accept the new match id is
// returned.
func (c *Client) Respond(ctx context.Context, requestID, action, currentUserID string) (string, error) {
	body := map[string]string{
		"requestId":     requestID,
		"action":        action,
		"currentUserId": currentUserID,
	}
	var data struct {
		MatchID string `json:"match_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/requests/respond", body, &data); err != nil {
		return "", err
	}
	return data.MatchID, nil
}

// PublicMessages fetches the tail of the shared room.
func (c *Client) PublicMessages(ctx context.Context, limit int) ([]models.PublicMessage, error) {
	path := "/public-chat"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var messages []models.PublicMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// PublicSend posts to the shared room.
func (c *Client) PublicSend(ctx context.Context, userPhone, text string) error {
	body := map[string]string{"user_phone": userPhone, "message": text}
	return c.do(ctx, http.MethodPost, "/public-chat/send", body, nil)
}
