package routes

import (
	"samaj_server/controllers"
	"samaj_server/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up the chat endpoints. Paths are part of the
// client contract and are mounted at the root, unprefixed.
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService) {
	controller := controllers.NewChatController(chatService)

	r.HandleFunc("/chat-list", controller.HandleChatList).Methods("GET")
	r.HandleFunc("/messages/{matchId}", controller.HandleGetMessages).Methods("GET")
	r.HandleFunc("/send-message", controller.HandleSendMessage).Methods("POST")
	r.HandleFunc("/message-delivered", controller.HandleMarkDelivered).Methods("POST")
	r.HandleFunc("/message-seen", controller.HandleMarkSeen).Methods("POST")
}
