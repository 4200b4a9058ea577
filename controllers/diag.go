// controllers/diag.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"lens-admin/store"
	"lens-admin/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// DiagController exposes the connection diagnostic used when wiring up a new
// environment
type DiagController struct {
	Store *store.Store
}

// NewDiagController creates a new DiagController
func NewDiagController(s *store.Store) *DiagController {
	return &DiagController{Store: s}
}

// TestConnection verifies database connectivity by listing collections
func (dc *DiagController) TestConnection(w http.ResponseWriter, r *http.Request) {
	db, err := dc.Store.DB()
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	collections, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "MongoDB connection successful",
		"database":    db.Name(),
		"collections": collections,
	})
}
