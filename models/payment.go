package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment represents a payment record, read-only from this system
type Payment struct {
	ID            primitive.ObjectID `json:"id"`
	OrderID       string             `json:"order_id,omitempty"`
	PaymentMethod string             `json:"payment_method,omitempty"`
	Amount        float64            `json:"amount"`
	Currency      string             `json:"currency,omitempty"`
	Status        string             `json:"status,omitempty"`
	CreatedAt     time.Time          `json:"created_at,omitempty"`
}

// NormalizePayment maps a raw payment document to the canonical Payment.
func NormalizePayment(doc bson.M) Payment {
	payment := Payment{
		OrderID:       CoerceString(doc["order_id"]),
		PaymentMethod: CoerceString(FirstSet(doc, "payment_method", "method")),
		Amount:        CoerceFloat(FirstSet(doc, "amount", "order_total", "total")),
		Currency:      CoerceString(doc["currency"]),
		Status:        CoerceString(FirstSet(doc, "status", "payment_status")),
	}
	if id, ok := doc["_id"].(primitive.ObjectID); ok {
		payment.ID = id
	}
	if created, ok := CoerceTime(FirstSet(doc, "created_at", "created")); ok {
		payment.CreatedAt = created
	}
	return payment
}
