package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address represents a shipping address for an order
type Address struct {
	Name    string `bson:"name,omitempty" json:"name,omitempty"`
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode string `bson:"zipcode,omitempty" json:"zipcode,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// CartItem is one order line: a product snapshot with its lens configuration
// and prescription nested directly on the line, replacing the positional
// "pres_<i>" metadata keys legacy records carry.
type CartItem struct {
	ProductID    string                 `json:"product_id,omitempty"`
	SKU          string                 `json:"skuid,omitempty"`
	Name         string                 `json:"name,omitempty"`
	Price        float64                `json:"price"`
	Quantity     int                    `json:"quantity"`
	Lens         map[string]interface{} `json:"lens,omitempty"`
	Prescription map[string]interface{} `json:"prescription,omitempty"`
}

// Order is the canonical in-memory shape every historical order record maps to
type Order struct {
	ID              primitive.ObjectID `json:"id"`
	OrderID         string             `json:"order_id,omitempty"`
	UserID          string             `json:"user_id,omitempty"`
	UserEmail       string             `json:"user_email,omitempty"`
	Total           float64            `json:"total"`
	PaymentStatus   string             `json:"payment_status,omitempty"`
	OrderStatus     string             `json:"order_status,omitempty"`
	Status          string             `json:"status"`
	IsPartial       bool               `json:"is_partial,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       *time.Time         `json:"updated_at,omitempty"`
	Cart            []CartItem         `json:"cart"`
	ShippingAddress *Address           `json:"shipping_address,omitempty"`
}

// NormalizeOrder maps any historical order shape to the canonical Order. This
// is the single place fallback chains for orders live; handlers downstream see
// one shape. is_partial is an externally managed flag and passes through
// untouched.
func NormalizeOrder(doc bson.M) Order {
	order := Order{
		OrderID:       CoerceString(doc["order_id"]),
		UserID:        CoerceString(doc["user_id"]),
		UserEmail:     CoerceString(FirstSet(doc, "user_email", "customer_email")),
		Total:         CoerceFloat(FirstSet(doc, "order_total", "total")),
		PaymentStatus: CoerceString(doc["payment_status"]),
		OrderStatus:   CoerceString(doc["order_status"]),
		IsPartial:     CoerceBool(doc["is_partial"]),
	}
	if id, ok := doc["_id"].(primitive.ObjectID); ok {
		order.ID = id
	}

	// Status prefers the payment axis over fulfillment, "unknown" when neither
	// exists, matching the dashboard's grouping key.
	order.Status = order.PaymentStatus
	if order.Status == "" {
		order.Status = order.OrderStatus
	}
	if order.Status == "" {
		order.Status = "unknown"
	}

	if created, ok := CoerceTime(FirstSet(doc, "created_at", "created")); ok {
		order.CreatedAt = created
	}
	if updated, ok := CoerceTime(doc["updated_at"]); ok {
		order.UpdatedAt = &updated
	}

	order.Cart = normalizeCart(FirstSet(doc, "cart", "items"))

	if meta, ok := doc["meta_data"].(bson.M); ok {
		applyMetadata(&order, meta)
	}
	return order
}

func normalizeCart(raw interface{}) []CartItem {
	items, ok := raw.(primitive.A)
	if !ok {
		return nil
	}
	cart := make([]CartItem, 0, len(items))
	for _, entry := range items {
		item, ok := entry.(bson.M)
		if !ok {
			continue
		}
		line := CartItem{
			SKU:      CoerceString(FirstSet(item, "skuid", "sku")),
			Name:     CoerceString(FirstSet(item, "name", "title")),
			Price:    CoerceFloat(item["price"]),
			Quantity: CoerceInt(item["quantity"], 1),
		}
		if lens, ok := item["lens"].(bson.M); ok {
			line.Lens = lens
		}
		if product := productSnapshot(item); product != nil {
			line.ProductID = CoerceString(product["_id"])
			if line.SKU == "" {
				line.SKU = CoerceString(FirstSet(product, "skuid", "sku"))
			}
			if line.Name == "" {
				line.Name = CoerceString(FirstSet(product, "name", "title"))
			}
		}
		if line.ProductID == "" {
			line.ProductID = CoerceString(item["product_id"])
		}
		cart = append(cart, line)
	}
	return cart
}

// productSnapshot digs out the embedded product document; some records nest
// it one level deeper under "products".
func productSnapshot(item bson.M) bson.M {
	product, ok := item["product"].(bson.M)
	if !ok {
		return nil
	}
	if nested, ok := product["products"].(bson.M); ok {
		return nested
	}
	return product
}

// applyMetadata folds the free-form metadata map into the order: the
// JSON-encoded shipping address, and per-line prescriptions keyed "pres_<i>"
// by cart position.
func applyMetadata(order *Order, meta bson.M) {
	if raw := CoerceString(meta["shipping_address"]); raw != "" {
		var addr Address
		if err := json.Unmarshal([]byte(raw), &addr); err == nil {
			order.ShippingAddress = &addr
		}
	}
	for i := range order.Cart {
		raw := CoerceString(meta[fmt.Sprintf("pres_%d", i)])
		if raw == "" {
			continue
		}
		var pres map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &pres); err == nil {
			order.Cart[i].Prescription = pres
		}
	}
}
