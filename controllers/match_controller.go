package controllers

import (
	"net/http"

	"samaj_server/services"
)

// MatchController answers match-status queries.
type MatchController struct {
	MatchService *services.MatchService
}

func NewMatchController(service *services.MatchService) *MatchController {
	return &MatchController{MatchService: service}
}

// HandleCheckMatch - GET /check-match?user1=&user2=
//
// Existing clients parse {matched, match_id} at the top level, so this is
// the one endpoint that does not use the success envelope.
func (c *MatchController) HandleCheckMatch(w http.ResponseWriter, r *http.Request) {
	user1 := r.URL.Query().Get("user1")
	user2 := r.URL.Query().Get("user2")
	if user1 == "" || user2 == "" {
		WriteBadRequest(w, "user1 and user2 are required")
		return
	}

	status, err := c.MatchService.CheckMatch(r.Context(), user1, user2)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// HandleListMatches - GET /matches?userId=
func (c *MatchController) HandleListMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		WriteBadRequest(w, "userId is required")
		return
	}

	matches, err := c.MatchService.MatchesForUser(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, matches)
}
