package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		pages int64
	}{
		{0, 50, 0},
		{1, 50, 1},
		{50, 50, 1},
		{51, 50, 2},
		{100, 50, 2},
		{101, 50, 3},
		{7, 3, 3},
	}
	for _, tt := range tests {
		p := NewPagination(tt.total, 1, tt.limit)
		assert.Equal(t, tt.pages, p.Pages, "total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestPageParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/orders?page=3&limit=20", nil)
	page, limit, skip := PageParams(r, 50)
	assert.Equal(t, 3, page)
	assert.Equal(t, 20, limit)
	assert.Equal(t, int64(40), skip)
}

func TestPageParamsDefaultsAndClamping(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/orders", nil)
	page, limit, skip := PageParams(r, 50)
	assert.Equal(t, 1, page)
	assert.Equal(t, 50, limit)
	assert.Equal(t, int64(0), skip)

	r = httptest.NewRequest("GET", "/api/orders?page=zero&limit=-5", nil)
	page, limit, _ = PageParams(r, 50)
	assert.Equal(t, 1, page)
	assert.Equal(t, 50, limit)

	// Values past the int range fall back instead of wrapping.
	r = httptest.NewRequest("GET", "/api/orders?page=99999999999999999999&limit=99999999999999999999", nil)
	page, limit, skip = PageParams(r, 50)
	assert.Equal(t, 1, page)
	assert.Equal(t, 50, limit)
	assert.Equal(t, int64(0), skip)
}

func TestWriteListEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteList(rec, []string{"a", "b"}, NewPagination(12, 2, 5))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Success    bool     `json:"success"`
		Data       []string `json:"data"`
		Pagination struct {
			Total int64 `json:"total"`
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
			Pages int64 `json:"pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, []string{"a", "b"}, body.Data)
	assert.Equal(t, int64(12), body.Pagination.Total)
	assert.Equal(t, int64(3), body.Pagination.Pages)
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, "Order not found")

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Order not found", body["error"])
}
