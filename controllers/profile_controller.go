package controllers

import (
	"encoding/json"
	"net/http"

	"samaj_server/models"
	"samaj_server/services"

	"github.com/gorilla/mux"
)

// ProfileController handles matrimony profile CRUD.
type ProfileController struct {
	ProfileService *services.ProfileService
}

func NewProfileController(service *services.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: service}
}

// HandleListProfiles - GET /profiles
func (c *ProfileController) HandleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := c.ProfileService.ListProfiles(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, profiles)
}

// HandleUpsertProfile - POST /profiles
func (c *ProfileController) HandleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}

	saved, err := c.ProfileService.UpsertProfile(r.Context(), profile)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, saved)
}

// HandleGetProfile - GET /profiles/{phone}
func (c *ProfileController) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	phone := mux.Vars(r)["phone"]

	profile, err := c.ProfileService.GetProfile(r.Context(), phone)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, profile)
}
