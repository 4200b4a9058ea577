// store/resolver.go
package store

import (
	"context"
	"sync"
	"time"

	"lens-admin/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The product catalog has lived under different collection names over the
// years, and some deployments never had one at all. The resolver probes the
// candidates in priority order and caches the answer briefly instead of
// re-listing collections on every request.

// productCollectionCandidates in priority order; the first existing name wins.
var productCollectionCandidates = []string{"products", "product", "product_inventory"}

// derivedOrderWindow bounds the order scan on the degraded no-collection path.
const derivedOrderWindow = 1000

// PickProductCollection selects the highest-priority candidate present in the
// existing collection names. The second return is false when none exist.
func PickProductCollection(existing []string) (string, bool) {
	names := make(map[string]bool, len(existing))
	for _, name := range existing {
		names[name] = true
	}
	for _, candidate := range productCollectionCandidates {
		if names[candidate] {
			return candidate, true
		}
	}
	return "", false
}

// CollectionResolver resolves which collection holds the product catalog,
// caching the answer for a short interval with explicit invalidation on
// catalog writes.
type CollectionResolver struct {
	store *Store
	ttl   time.Duration

	mu        sync.Mutex
	name      string
	found     bool
	checkedAt time.Time
}

// NewCollectionResolver builds a resolver over the given store.
func NewCollectionResolver(s *Store) *CollectionResolver {
	return &CollectionResolver{store: s, ttl: time.Minute}
}

// Resolve returns the active product collection name. found is false when no
// candidate collection exists, in which case callers fall back to deriving
// the catalog from order history.
func (r *CollectionResolver) Resolve(ctx context.Context) (name string, found bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.checkedAt.IsZero() && time.Since(r.checkedAt) < r.ttl {
		return r.name, r.found, nil
	}

	db, err := r.store.DB()
	if err != nil {
		return "", false, err
	}
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return "", false, err
	}

	r.name, r.found = PickProductCollection(existing)
	r.checkedAt = time.Now()
	return r.name, r.found, nil
}

// Invalidate drops the cached resolution, forcing a fresh probe on the next
// request. Called after catalog writes that can create the collection.
func (r *CollectionResolver) Invalidate() {
	r.mu.Lock()
	r.checkedAt = time.Time{}
	r.mu.Unlock()
}

// DerivedProducts synthesizes a product view from a bounded window of recent
// orders. This is the explicit slow path: O(orders x cart-size) with no index
// support, acceptable only as degraded-mode behavior.
func (r *CollectionResolver) DerivedProducts(ctx context.Context) ([]bson.M, error) {
	orders, err := r.store.Collection("orders")
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created", Value: -1}}).
		SetLimit(derivedOrderWindow)
	cursor, err := orders.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return DeriveProductsFromOrders(docs), nil
}

// DeriveProductsFromOrders unwinds each order's cart and deduplicates the
// embedded product snapshots by product id, accumulating how many orders each
// product appeared in and the total quantity sold. Output preserves
// first-seen order of the input.
func DeriveProductsFromOrders(orders []bson.M) []bson.M {
	byID := make(map[string]bson.M)
	var seen []string

	for _, order := range orders {
		items, ok := models.FirstSet(order, "cart", "items").(primitive.A)
		if !ok {
			continue
		}
		for _, entry := range items {
			item, ok := entry.(bson.M)
			if !ok {
				continue
			}
			snapshot := orderItemProduct(item)
			if snapshot == nil {
				continue
			}
			id := models.CoerceString(snapshot["_id"])
			if id == "" {
				continue
			}

			product, ok := byID[id]
			if !ok {
				product = bson.M{}
				for k, v := range snapshot {
					product[k] = v
				}
				models.NormalizeProductDoc(product)
				product["order_count"] = 0
				product["total_quantity"] = 0
				byID[id] = product
				seen = append(seen, id)
			}
			product["order_count"] = product["order_count"].(int) + 1
			product["total_quantity"] = product["total_quantity"].(int) + models.CoerceInt(item["quantity"], 1)
		}
	}

	products := make([]bson.M, 0, len(seen))
	for _, id := range seen {
		products = append(products, byID[id])
	}
	return products
}

func orderItemProduct(item bson.M) bson.M {
	product, ok := item["product"].(bson.M)
	if !ok {
		return nil
	}
	if nested, ok := product["products"].(bson.M); ok {
		return nested
	}
	return product
}
