package routes

import (
	"samaj_server/controllers"
	"samaj_server/services"

	"github.com/gorilla/mux"
)

// RegisterS3Routes sets up the presigned-URL endpoints for attachments.
func RegisterS3Routes(r *mux.Router, s3Service *services.S3Service) {
	controller := controllers.NewS3Controller(s3Service)

	r.HandleFunc("/upload-url", controller.HandleUploadURL).Methods("POST")
	r.HandleFunc("/read-url", controller.HandleReadURL).Methods("GET")
}
