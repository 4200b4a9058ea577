// controllers/accounts.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"lens-admin/store"
	"lens-admin/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AccountController lists customer accounts. Account documents have no
// assumed shape beyond an id; whatever fields are present pass through.
type AccountController struct {
	Store *store.Store
}

// NewAccountController creates a new AccountController
func NewAccountController(s *store.Store) *AccountController {
	return &AccountController{Store: s}
}

// GetAccounts retrieves the most recent 1000 customer accounts
func (ac *AccountController) GetAccounts(w http.ResponseWriter, r *http.Request) {
	collection, err := ac.Store.Collection("accounts_login")
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(1000)
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cursor.Close(ctx)

	accounts := []bson.M{}
	if err := cursor.All(ctx, &accounts); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data":  accounts,
		"count": len(accounts),
	})
}
