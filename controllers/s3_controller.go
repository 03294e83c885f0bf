package controllers

import (
	"encoding/json"
	"net/http"

	"samaj_server/services"
)

// S3Controller hands out presigned upload/read URLs for chat attachments and
// avatars.
type S3Controller struct {
	S3Service *services.S3Service
}

func NewS3Controller(service *services.S3Service) *S3Controller {
	return &S3Controller{S3Service: service}
}

// HandleUploadURL - POST /upload-url
func (c *S3Controller) HandleUploadURL(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FileName string `json:"file_name"`
		FileType string `json:"file_type"`
		Folder   string `json:"folder"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	if request.FileName == "" || request.FileType == "" {
		WriteBadRequest(w, "file_name and file_type are required")
		return
	}
	if request.Folder == "" {
		request.Folder = "chat-media"
	}

	url, key, err := c.S3Service.GenerateUploadURL(r.Context(), request.Folder, request.FileName, request.FileType)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, map[string]string{"upload_url": url, "key": key})
}

// HandleReadURL - GET /read-url?key=
func (c *S3Controller) HandleReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		WriteBadRequest(w, "key is required")
		return
	}

	url, err := c.S3Service.GenerateReadURL(r.Context(), key)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, map[string]string{"url": url})
}
