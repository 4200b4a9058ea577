// controllers/orders.go
package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"lens-admin/models"
	"lens-admin/store"
	"lens-admin/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderController handles order-related requests
type OrderController struct {
	Store        *store.Store
	EmailService *utils.EmailService
}

// NewOrderController creates a new OrderController
func NewOrderController(s *store.Store, emailService *utils.EmailService) *OrderController {
	return &OrderController{
		Store:        s,
		EmailService: emailService,
	}
}

// GetOrders retrieves a filtered, paginated page of orders, normalized to the
// canonical shape
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	page, limit, skip := utils.PageParams(r, 50)
	q := r.URL.Query()
	filter := store.BuildOrderFilter(q.Get("status"), q.Get("dateRange"), q.Get("search"), time.Now())

	collection, err := oc.Store.Collection("orders")
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	opts := options.Find().
		SetSort(store.OrderSort()).
		SetSkip(skip).
		SetLimit(int64(limit))
	cursor, err := collection.Find(ctx, filter, opts)
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

	orders := make([]models.Order, 0, len(docs))
	for _, doc := range docs {
		orders = append(orders, models.NormalizeOrder(doc))
	}

	w.Header().Set("Cache-Control", "public, s-maxage=30, stale-while-revalidate=60")
	utils.WriteList(w, orders, utils.NewPagination(total, page, limit))
}

// UpdateOrderStatus updates one order's fulfillment status. The id is tried
// as a native ObjectID first, then as the human-facing order identifier.
// Re-applying the same status succeeds and leaves the order unchanged.
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OrderID == "" || req.Status == "" {
		utils.WriteError(w, http.StatusBadRequest, "Order ID and status are required")
		return
	}

	collection, err := oc.Store.Collection("orders")
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"order_status": req.Status,
		"updated_at":   time.Now().UTC(),
	}}

	var result *mongo.UpdateResult
	if oid, idErr := primitive.ObjectIDFromHex(req.OrderID); idErr == nil {
		result, err = collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if result == nil || result.MatchedCount == 0 {
		result, err = collection.UpdateOne(ctx, bson.M{"order_id": req.OrderID}, update)
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if result.MatchedCount == 0 {
		utils.WriteError(w, http.StatusNotFound, "Order not found")
		return
	}

	oc.notifyStatusChange(req.OrderID, req.Status)

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Order status updated to %s", req.Status),
	})
}

// notifyStatusChange emails the customer about the new status when the order
// carries an email address. Best effort, off the request path.
func (oc *OrderController) notifyStatusChange(orderID, status string) {
	if !oc.EmailService.Enabled() {
		return
	}
	collection, err := oc.Store.Collection("orders")
	if err != nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{"order_id": orderID}
		if oid, err := primitive.ObjectIDFromHex(orderID); err == nil {
			filter = bson.M{"$or": bson.A{bson.M{"_id": oid}, bson.M{"order_id": orderID}}}
		}
		var doc bson.M
		if err := collection.FindOne(ctx, filter).Decode(&doc); err != nil {
			return
		}
		order := models.NormalizeOrder(doc)
		if order.UserEmail == "" {
			return
		}
		if err := oc.EmailService.SendOrderStatusEmail(order.UserEmail, orderID, status); err != nil {
			log.Printf("Failed to send status email to %s: %v", order.UserEmail, err)
		}
	}()
}
