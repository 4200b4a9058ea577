// controllers/payments.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"lens-admin/models"
	"lens-admin/store"
	"lens-admin/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PaymentController handles payment listings; payments are read-only here
type PaymentController struct {
	Store *store.Store
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(s *store.Store) *PaymentController {
	return &PaymentController{Store: s}
}

// GetPayments retrieves the most recent 1000 payments, normalized
func (pc *PaymentController) GetPayments(w http.ResponseWriter, r *http.Request) {
	collection, err := pc.Store.Collection("payments")
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

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	payments := make([]models.Payment, 0, len(docs))
	for _, doc := range docs {
		payments = append(payments, models.NormalizePayment(doc))
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data":  payments,
		"count": len(payments),
	})
}
