// controllers/upload.go
package controllers

import (
	"io"
	"net/http"

	"lens-admin/storage"
	"lens-admin/utils"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing.
const maxUploadMemory = 10 << 20

// UploadController lists and stores file assets through the storage manager
type UploadController struct {
	Assets *storage.Manager
}

// NewUploadController creates a new UploadController
func NewUploadController(assets *storage.Manager) *UploadController {
	return &UploadController{Assets: assets}
}

// ListAssets enumerates the assets under a folder, reporting which backend
// served the listing
func (uc *UploadController) ListAssets(w http.ResponseWriter, r *http.Request) {
	folder := r.URL.Query().Get("folder")
	if folder == "" {
		folder = "general"
	}

	files, source, err := uc.Assets.List(r.Context(), folder)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if files == nil {
		files = []storage.FileInfo{}
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"files":  files,
		"source": source,
	})
}

// UploadAsset stores one multipart file under a folder
func (uc *UploadController) UploadAsset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	file, handler, err := r.FormFile("file")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	folder := r.FormValue("folder")
	if folder == "" {
		folder = "general"
	}

	data, err := io.ReadAll(file)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	url, source, err := uc.Assets.Save(r.Context(), folder, handler.Filename, handler.Header.Get("Content-Type"), data)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "File uploaded successfully",
		"url":     url,
		"source":  source,
	})
}
