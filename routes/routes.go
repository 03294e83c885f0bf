package routes

import (
	"encoding/json"
	"net/http"

	"samaj_server/services"

	"github.com/gorilla/mux"
)

// Services collects everything the router serves. S3 is optional: without a
// bucket configured the presign endpoints are simply not registered.
type Services struct {
	Profile    *services.ProfileService
	Request    *services.RequestService
	Match      *services.MatchService
	Chat       *services.ChatService
	PublicChat *services.PublicChatService
	S3         *services.S3Service
}

// NewRouter builds the full application router.
func NewRouter(s Services) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	RegisterProfileRoutes(r, s.Profile)
	RegisterRequestRoutes(r, s.Request)
	RegisterMatchRoutes(r, s.Match)
	RegisterChatRoutes(r, s.Chat)
	RegisterPublicChatRoutes(r, s.PublicChat)
	if s.S3 != nil {
		RegisterS3Routes(r, s.S3)
	}

	return r
}
