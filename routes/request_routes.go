package routes

import (
	"samaj_server/controllers"
	"samaj_server/services"

	"github.com/gorilla/mux"
)

// RegisterRequestRoutes sets up the interest-request endpoints.
func RegisterRequestRoutes(r *mux.Router, requestService *services.RequestService) {
	controller := controllers.NewRequestController(requestService)

	r.HandleFunc("/send-request", controller.HandleSendRequest).Methods("POST")
	r.HandleFunc("/requests/incoming", controller.HandleIncoming).Methods("GET")
	r.HandleFunc("/requests/outgoing", controller.HandleOutgoing).Methods("GET")
	r.HandleFunc("/requests/respond", controller.HandleRespond).Methods("POST")
}
