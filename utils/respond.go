// utils/respond.go
package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Pagination describes the slice of a filtered result set a list response carries.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

// NewPagination computes the derived page count for a result window.
func NewPagination(total int64, page, limit int) Pagination {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{Total: total, Page: page, Limit: limit, Pages: pages}
}

// PageParams parses 1-based page and limit query parameters, clamping
// malformed or out-of-range values to sane defaults.
func PageParams(r *http.Request, defaultLimit int) (page, limit int, skip int64) {
	page = atoiDefault(r.URL.Query().Get("page"), 1)
	limit = atoiDefault(r.URL.Query().Get("limit"), defaultLimit)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit, int64(page-1) * int64(limit)
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// WriteJSON writes a success envelope with the given payload fields merged in.
func WriteJSON(w http.ResponseWriter, status int, payload map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// WriteList writes the uniform list envelope shared by every paginated endpoint.
func WriteList(w http.ResponseWriter, data interface{}, p Pagination) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data":       data,
		"pagination": p,
	})
}

// WriteError writes the failure envelope with the status class of the failure.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
