package routes

import (
	"samaj_server/controllers"
	"samaj_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up the match-status endpoints.
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService) {
	controller := controllers.NewMatchController(matchService)

	r.HandleFunc("/check-match", controller.HandleCheckMatch).Methods("GET")
	r.HandleFunc("/matches", controller.HandleListMatches).Methods("GET")
}
