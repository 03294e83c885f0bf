package routes

import (
	"samaj_server/controllers"
	"samaj_server/services"

	"github.com/gorilla/mux"
)

// RegisterPublicChatRoutes sets up the shared community room endpoints.
func RegisterPublicChatRoutes(r *mux.Router, publicChatService *services.PublicChatService) {
	controller := controllers.NewPublicChatController(publicChatService)

	r.HandleFunc("/public-chat", controller.HandleList).Methods("GET")
	r.HandleFunc("/public-chat/send", controller.HandleSend).Methods("POST")
}
