package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"samaj_server/services"

	"github.com/gorilla/mux"
)

// ChatController handles the message log, flag marking, and the chat list.
type ChatController struct {
	ChatService *services.ChatService
}

func NewChatController(service *services.ChatService) *ChatController {
	return &ChatController{ChatService: service}
}

// HandleChatList - GET /chat-list?userId=
func (c *ChatController) HandleChatList(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		WriteBadRequest(w, "userId is required")
		return
	}

	entries, err := c.ChatService.ChatList(r.Context(), userID)
	if err != nil {
		log.Printf("Error building chat list for %s: %v", userID, err)
		WriteError(w, err)
		return
	}
	WriteData(w, entries)
}

// HandleGetMessages - GET /messages/{matchId}
//
// The optional userId query parameter enables the participant check; the
// hybrid client omits it, the Go sync client always sends it.
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	requester := r.URL.Query().Get("userId")

	messages, err := c.ChatService.ListForMatch(r.Context(), matchID, requester)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, messages)
}

// HandleSendMessage - POST /send-message
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var input services.SendMessageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	if input.MatchID == "" || input.SenderID == "" {
		WriteBadRequest(w, "match_id and sender_id are required")
		return
	}

	message, err := c.ChatService.SendMessage(r.Context(), input)
	if err != nil {
		log.Printf("Failed to send message in match %s: %v", input.MatchID, err)
		WriteError(w, err)
		return
	}
	WriteData(w, message)
}

// HandleMarkDelivered - POST /message-delivered
func (c *ChatController) HandleMarkDelivered(w http.ResponseWriter, r *http.Request) {
	c.handleMark(w, r, c.ChatService.MarkDelivered)
}

// HandleMarkSeen - POST /message-seen
func (c *ChatController) HandleMarkSeen(w http.ResponseWriter, r *http.Request) {
	c.handleMark(w, r, c.ChatService.MarkSeen)
}

func (c *ChatController) handleMark(w http.ResponseWriter, r *http.Request, mark func(ctx context.Context, ids []string) error) {
	var request struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}

	if err := mark(r.Context(), request.IDs); err != nil {
		WriteError(w, err)
		return
	}
	WriteOK(w)
}
