package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"lens-admin/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localOnlyUploads(t *testing.T) *UploadController {
	t.Helper()
	manager := storage.NewManager(nil, storage.NewLocal(t.TempDir()))
	return NewUploadController(manager)
}

func multipartUpload(t *testing.T, folder, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if folder != "" {
		require.NoError(t, writer.WriteField("folder", folder))
	}
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	r := httptest.NewRequest("POST", "/api/upload", &buf)
	r.Header.Set("Content-Type", writer.FormDataContentType())
	return r
}

func TestUploadAssetFallsBackToLocal(t *testing.T) {
	uc := localOnlyUploads(t)
	rec := httptest.NewRecorder()
	uc.UploadAsset(rec, multipartUpload(t, "frames", "front.jpg", []byte("fake-jpeg")))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "File uploaded successfully", body["message"])
	assert.Equal(t, storage.SourceLocal, body["source"])
	assert.Equal(t, "/uploads/frames/front.jpg", body["url"])
}

func TestUploadAssetDefaultsFolder(t *testing.T) {
	uc := localOnlyUploads(t)
	rec := httptest.NewRecorder()
	uc.UploadAsset(rec, multipartUpload(t, "", "a.txt", []byte("x")))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/uploads/general/a.txt", body["url"])
}

func TestUploadAssetMissingFile(t *testing.T) {
	uc := localOnlyUploads(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("folder", "frames"))
	require.NoError(t, writer.Close())

	r := httptest.NewRequest("POST", "/api/upload", &buf)
	r.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	uc.UploadAsset(rec, r)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No file uploaded")
}

func TestListAssetsReportsSource(t *testing.T) {
	uc := localOnlyUploads(t)

	rec := httptest.NewRecorder()
	uc.UploadAsset(rec, multipartUpload(t, "frames", "b.png", []byte("png")))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	uc.ListAssets(rec, httptest.NewRequest("GET", "/api/upload?folder=frames", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool               `json:"success"`
		Files   []storage.FileInfo `json:"files"`
		Source  string             `json:"source"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, storage.SourceLocal, body.Source)
	require.Len(t, body.Files, 1)
	assert.Equal(t, "b.png", body.Files[0].Name)
}

func TestListAssetsEmptyFolder(t *testing.T) {
	uc := localOnlyUploads(t)
	rec := httptest.NewRecorder()
	uc.ListAssets(rec, httptest.NewRequest("GET", "/api/upload", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []interface{}{}, body["files"])
	assert.Equal(t, storage.SourceLocal, body["source"])
}
