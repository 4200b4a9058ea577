package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product documents are pass-through: whatever fields a record carries are
// returned to the dashboard. NormalizeProductDoc only repairs the drifted
// fields the rest of the system depends on, in place, without dropping
// anything the caller submitted.

// NormalizeProductDoc canonicalizes the drift-prone fields of a raw product
// document: skuid backfilled from sku, price coerced to a number, a single
// image lifted into an images list.
func NormalizeProductDoc(doc bson.M) bson.M {
	if doc == nil {
		return doc
	}
	if CoerceString(doc["skuid"]) == "" {
		if sku := CoerceString(doc["sku"]); sku != "" {
			doc["skuid"] = sku
		}
	}
	if _, ok := doc["price"]; ok {
		doc["price"] = CoerceFloat(doc["price"])
	}
	if _, ok := doc["images"]; !ok {
		if image := CoerceString(doc["image"]); image != "" {
			doc["images"] = primitive.A{image}
		}
	}
	return doc
}

// productSearchFields are the candidate names free-text search probes, since
// the catalog schema is inconsistent across legacy records.
var productSearchFields = []string{"name", "title", "sku", "skuid", "category", "naming_system"}

// ProductMatchesSearch reports whether a product document matches a free-text
// query, case-insensitively, across the candidate search fields. Used by the
// degraded order-derived catalog path where no collection can be queried.
func ProductMatchesSearch(doc bson.M, query string) bool {
	if query == "" {
		return true
	}
	needle := strings.ToLower(query)
	for _, field := range productSearchFields {
		if value := CoerceString(doc[field]); value != "" {
			if strings.Contains(strings.ToLower(value), needle) {
				return true
			}
		}
	}
	return false
}

// ProductSearchFields exposes the candidate search field names for filter
// construction.
func ProductSearchFields() []string {
	return productSearchFields
}
