// controllers/products.go
package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"lens-admin/models"
	"lens-admin/store"
	"lens-admin/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProductController handles catalog requests
type ProductController struct {
	Store    *store.Store
	Resolver *store.CollectionResolver
}

// NewProductController creates a new ProductController
func NewProductController(s *store.Store, resolver *store.CollectionResolver) *ProductController {
	return &ProductController{
		Store:    s,
		Resolver: resolver,
	}
}

// GetProducts retrieves a paginated catalog page, deduplicated by SKU. When
// no product collection exists the catalog is derived from order history.
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	page, limit, skip := utils.PageParams(r, 50)
	q := r.URL.Query()
	search := q.Get("search")

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	name, found, err := pc.Resolver.Resolve(ctx)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !found {
		pc.getDerivedProducts(ctx, w, search, page, limit, skip)
		return
	}

	collection, err := pc.Store.Collection(name)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filter := store.BuildProductFilter(search, q.Get("gender"), q.Get("category"))
	pipeline := store.DedupProductsPipeline(filter, store.ProductSort(q.Get("sort")))

	total, err := pc.countPipeline(ctx, collection, pipeline)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	cursor, err := collection.Aggregate(ctx, store.WithPage(pipeline, skip, limit))
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cursor.Close(ctx)

	products := []bson.M{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Cache-Control", "public, s-maxage=30, stale-while-revalidate=60")
	utils.WriteList(w, products, utils.NewPagination(total, page, limit))
}

func (pc *ProductController) countPipeline(ctx context.Context, collection *mongo.Collection, pipeline []bson.M) (int64, error) {
	cursor, err := collection.Aggregate(ctx, store.WithCount(pipeline))
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var counts []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &counts); err != nil {
		return 0, err
	}
	if len(counts) == 0 {
		return 0, nil
	}
	return counts[0].Total, nil
}

// getDerivedProducts serves the degraded path: the catalog synthesized from
// recent order carts, with search and paging applied in memory.
func (pc *ProductController) getDerivedProducts(ctx context.Context, w http.ResponseWriter, search string, page, limit int, skip int64) {
	derived, err := pc.Resolver.DerivedProducts(ctx)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filtered := make([]bson.M, 0, len(derived))
	for _, product := range derived {
		if models.ProductMatchesSearch(product, search) {
			filtered = append(filtered, product)
		}
	}

	total := int64(len(filtered))
	start := skip
	if start > total {
		start = total
	}
	end := start + int64(limit)
	if end > total {
		end = total
	}

	w.Header().Set("Cache-Control", "public, s-maxage=30, stale-while-revalidate=60")
	utils.WriteList(w, filtered[start:end], utils.NewPagination(total, page, limit))
}

// CreateProduct inserts a new catalog document, stamping server-assigned
// timestamps
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	delete(product, "_id")

	if models.CoerceString(product["name"]) == "" && models.CoerceString(product["title"]) == "" {
		utils.WriteError(w, http.StatusBadRequest, "Product name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	name, found, err := pc.Resolver.Resolve(ctx)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		utils.WriteError(w, http.StatusNotFound, "Products collection not found")
		return
	}

	collection, err := pc.Store.Collection(name)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	now := time.Now().UTC()
	product["created_at"] = now
	product["updated_at"] = now

	result, err := collection.InsertOne(ctx, product)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	pc.Resolver.Invalidate()

	var created bson.M
	if err := collection.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&created); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Product created successfully",
		"data":    created,
	})
}

// GetProduct retrieves one product by native id, falling back to SKU
func (pc *ProductController) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	collection, ok := pc.resolveCollection(ctx, w)
	if !ok {
		return
	}

	var product bson.M
	err := collection.FindOne(ctx, idFilter(productID)).Decode(&product)
	if err == mongo.ErrNoDocuments {
		err = collection.FindOne(ctx, bson.M{"skuid": productID}).Decode(&product)
	}
	if err == mongo.ErrNoDocuments {
		utils.WriteError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": product})
}

// UpdateProduct applies a partial update by native id, falling back to SKU
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["id"]

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	delete(updates, "_id")
	updates["updated_at"] = time.Now().UTC()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	collection, ok := pc.resolveCollection(ctx, w)
	if !ok {
		return
	}

	update := bson.M{"$set": updates}
	result, err := collection.UpdateOne(ctx, idFilter(productID), update)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result.MatchedCount == 0 {
		result, err = collection.UpdateOne(ctx, bson.M{"skuid": productID}, update)
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if result.MatchedCount == 0 {
		utils.WriteError(w, http.StatusNotFound, "Product not found")
		return
	}

	var updated bson.M
	err = collection.FindOne(ctx, idFilter(productID)).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		err = collection.FindOne(ctx, bson.M{"skuid": productID}).Decode(&updated)
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Product updated successfully",
		"data":    updated,
	})
}

// DeleteProduct removes one product by native id, falling back to SKU. Hard
// delete; the catalog keeps no tombstones.
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	collection, ok := pc.resolveCollection(ctx, w)
	if !ok {
		return
	}

	result, err := collection.DeleteOne(ctx, idFilter(productID))
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result.DeletedCount == 0 {
		result, err = collection.DeleteOne(ctx, bson.M{"skuid": productID})
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if result.DeletedCount == 0 {
		utils.WriteError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Product deleted successfully",
	})
}

func (pc *ProductController) resolveCollection(ctx context.Context, w http.ResponseWriter) (*mongo.Collection, bool) {
	name, found, err := pc.Resolver.Resolve(ctx)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if !found {
		utils.WriteError(w, http.StatusNotFound, "Product not found")
		return nil, false
	}
	collection, err := pc.Store.Collection(name)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return collection, true
}

// idFilter treats the id as a native ObjectID when it parses, otherwise as an
// opaque string key that will match nothing and push callers to the SKU
// fallback.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}
