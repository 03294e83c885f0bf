package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"samaj_server/models"
	"samaj_server/services"
)

// RequestController handles the interest-request inbox and its transitions.
type RequestController struct {
	RequestService *services.RequestService
}

func NewRequestController(service *services.RequestService) *RequestController {
	return &RequestController{RequestService: service}
}

// HandleSendRequest - POST /send-request
func (c *RequestController) HandleSendRequest(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FromUserID string `json:"from_user_id"`
		ToUserID   string `json:"to_user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}

	id, err := c.RequestService.SendRequest(r.Context(), request.FromUserID, request.ToUserID)
	if err != nil {
		log.Printf("Failed to send request %s -> %s: %v", request.FromUserID, request.ToUserID, err)
		WriteError(w, err)
		return
	}
	WriteData(w, map[string]string{"id": id})
}

// HandleIncoming - GET /requests/incoming?userId=
func (c *RequestController) HandleIncoming(w http.ResponseWriter, r *http.Request) {
	c.handleList(w, r, c.RequestService.ListIncoming)
}

// HandleOutgoing - GET /requests/outgoing?userId=
func (c *RequestController) HandleOutgoing(w http.ResponseWriter, r *http.Request) {
	c.handleList(w, r, c.RequestService.ListOutgoing)
}

func (c *RequestController) handleList(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, user string) ([]models.MatchRequest, error)) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		WriteBadRequest(w, "userId is required")
		return
	}

	requests, err := list(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, requests)
}

// HandleRespond - POST /requests/respond
func (c *RequestController) HandleRespond(w http.ResponseWriter, r *http.Request) {
	var request struct {
		RequestID     string `json:"requestId"`
		Action        string `json:"action"`
		CurrentUserID string `json:"currentUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	if request.Action != models.RequestActionAccept && request.Action != models.RequestActionReject {
		WriteBadRequest(w, "action must be accept or reject")
		return
	}

	match, err := c.RequestService.Respond(r.Context(), request.RequestID, request.CurrentUserID, request.Action)
	if err != nil {
		log.Printf("Failed to respond to request %s: %v", request.RequestID, err)
		WriteError(w, err)
		return
	}

	if match != nil {
		WriteData(w, map[string]string{"match_id": match.MatchID})
		return
	}
	WriteOK(w)
}
