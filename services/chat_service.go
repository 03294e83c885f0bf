package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"samaj_server/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ChatService owns the per-match message log and the derived chat list.
type ChatService struct {
	Store Store

	// Cache, when set, fronts ChatList with a short-TTL redis entry. The
	// chat list is refetched by every open messages screen on each poll, so
	// even a 2s TTL absorbs most of that read load.
	Cache    *redis.Client
	CacheTTL time.Duration
}

// SendMessageInput carries the send-message request body.
type SendMessageInput struct {
	MatchID   string `json:"match_id"`
	SenderID  string `json:"sender_id"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	ImageURL  string `json:"image_url"`
	AudioURL  string `json:"audio_url"`
	ClientKey string `json:"client_key"`
}

// SendMessage appends a message to the match log and returns the persisted
// record, server id and timestamp included. A repeated send with the same
// client_key returns the already-stored message instead of appending again.
func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (*models.Message, error) {
	match, err := s.Store.GetMatch(ctx, input.MatchID)
	if err != nil {
		return nil, err
	}
	if !match.HasParticipant(input.SenderID) {
		return nil, ErrNotAMatchParticipant
	}
	if input.Message == "" && input.ImageURL == "" && input.AudioURL == "" {
		return nil, ErrEmptyMessage
	}

	msgType := input.Type
	if msgType == "" {
		switch {
		case input.ImageURL != "":
			msgType = models.MessageTypeImage
		case input.AudioURL != "":
			msgType = models.MessageTypeAudio
		default:
			msgType = models.MessageTypeText
		}
	}

	msg := &models.Message{
		ID:         uuid.NewString(),
		MatchID:    match.MatchID,
		SenderID:   input.SenderID,
		ReceiverID: match.Other(input.SenderID),
		Message:    input.Message,
		Type:       msgType,
		ImageURL:   input.ImageURL,
		AudioURL:   input.AudioURL,
		ClientKey:  input.ClientKey,
		Delivered:  false,
		Seen:       false,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	stored, err := s.Store.AppendMessage(ctx, msg)
	if err != nil {
		return nil, err
	}

	s.invalidateChatList(ctx, match.User1, match.User2)
	return stored, nil
}

// ListForMatch returns the full message log in ascending, stable order. The
// participant check applies when the requester identity is supplied; the
// reference client's GET carries none, so an empty requester is let through
// as a documented trust boundary.
func (s *ChatService) ListForMatch(ctx context.Context, matchID, requester string) ([]models.Message, error) {
	match, err := s.Store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if requester != "" && !match.HasParticipant(requester) {
		return nil, ErrNotAMatchParticipant
	}
	return s.Store.ListMessages(ctx, match.MatchID)
}

// MarkDelivered flips delivered=true for each id. Idempotent: already-marked
// and unknown ids are no-ops.
func (s *ChatService) MarkDelivered(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.Store.SetDelivered(ctx, ids)
}

// MarkSeen flips seen=true (and delivered=true with it) for each id.
func (s *ChatService) MarkSeen(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.Store.SetSeen(ctx, ids)
}

// ChatList builds the per-user chat summary, most recent first. Matches with
// no messages yet still appear with an empty preview: the match alone
// unlocks the chat.
func (s *ChatService) ChatList(ctx context.Context, userID string) ([]models.ChatListEntry, error) {
	if cached := s.cachedChatList(ctx, userID); cached != nil {
		return cached, nil
	}

	matches, err := s.Store.ListMatchesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.ChatListEntry, 0, len(matches))
	for _, match := range matches {
		other := match.Other(userID)
		entry := models.ChatListEntry{
			MatchID:  match.MatchID,
			UserID:   other,
			UserName: other,
		}
		if profile, err := s.Store.GetProfile(ctx, other); err == nil {
			if profile.FullName != "" {
				entry.UserName = profile.FullName
			}
			entry.UserAvatar = profile.AvatarURL
		}
		if latest, err := s.Store.LatestMessage(ctx, match.MatchID); err == nil {
			entry.LastMessage = previewText(latest)
			entry.LastMessageTime = latest.CreatedAt
		}
		entries = append(entries, entry)
	}

	sortChatList(entries, matches)
	s.storeChatList(ctx, userID, entries)
	return entries, nil
}

// sortChatList orders entries by last activity: preview time when there is
// one, else the match creation time. matches arrives aligned with entries.
func sortChatList(entries []models.ChatListEntry, matches []models.Match) {
	activity := make(map[string]string, len(matches))
	for _, m := range matches {
		activity[m.MatchID] = m.CreatedAt
	}
	for _, e := range entries {
		if e.LastMessageTime != "" {
			activity[e.MatchID] = e.LastMessageTime
		}
	}
	// RFC3339 strings compare chronologically.
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && activity[entries[j].MatchID] > activity[entries[j-1].MatchID]; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

func previewText(msg *models.Message) string {
	if msg.Message != "" {
		return msg.Message
	}
	switch msg.Type {
	case models.MessageTypeImage:
		return "📷 Photo"
	case models.MessageTypeAudio:
		return "🎤 Audio"
	}
	return ""
}

func (s *ChatService) chatListKey(userID string) string {
	return "chatlist:" + userID
}

func (s *ChatService) cachedChatList(ctx context.Context, userID string) []models.ChatListEntry {
	if s.Cache == nil {
		return nil
	}
	raw, err := s.Cache.Get(ctx, s.chatListKey(userID)).Bytes()
	if err != nil {
		return nil
	}
	var entries []models.ChatListEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return entries
}

func (s *ChatService) storeChatList(ctx context.Context, userID string, entries []models.ChatListEntry) {
	if s.Cache == nil {
		return
	}
	ttl := s.CacheTTL
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, s.chatListKey(userID), raw, ttl).Err(); err != nil {
		log.Printf("Failed to cache chat list for %s: %v", userID, err)
	}
}

func (s *ChatService) invalidateChatList(ctx context.Context, users ...string) {
	if s.Cache == nil {
		return
	}
	for _, u := range users {
		if err := s.Cache.Del(ctx, s.chatListKey(u)).Err(); err != nil {
			log.Printf("Failed to invalidate chat list for %s: %v", u, err)
		}
	}
}
