package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"samaj_server/services"
)

// PublicChatController handles the shared community room.
type PublicChatController struct {
	PublicChatService *services.PublicChatService
}

func NewPublicChatController(service *services.PublicChatService) *PublicChatController {
	return &PublicChatController{PublicChatService: service}
}

// HandleList - GET /public-chat
func (c *PublicChatController) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 0 // service default
	}

	messages, err := c.PublicChatService.List(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, messages)
}

// HandleSend - POST /public-chat/send
func (c *PublicChatController) HandleSend(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserPhone string `json:"user_phone"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}

	message, err := c.PublicChatService.Send(r.Context(), request.UserPhone, request.Message)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, message)
}
