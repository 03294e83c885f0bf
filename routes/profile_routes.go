package routes

import (
	"samaj_server/controllers"
	"samaj_server/services"

	"github.com/gorilla/mux"
)

// RegisterProfileRoutes sets up the matrimony profile endpoints.
func RegisterProfileRoutes(r *mux.Router, profileService *services.ProfileService) {
	controller := controllers.NewProfileController(profileService)

	r.HandleFunc("/profiles", controller.HandleListProfiles).Methods("GET")
	r.HandleFunc("/profiles", controller.HandleUpsertProfile).Methods("POST")
	r.HandleFunc("/profiles/{phone}", controller.HandleGetProfile).Methods("GET")
}
