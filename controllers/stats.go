// controllers/stats.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"lens-admin/models"
	"lens-admin/store"
	"lens-admin/utils"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

// StatsController serves the dashboard and analytics aggregation
type StatsController struct {
	Store    *store.Store
	Resolver *store.CollectionResolver
}

// NewStatsController creates a new StatsController
func NewStatsController(s *store.Store, resolver *store.CollectionResolver) *StatsController {
	return &StatsController{
		Store:    s,
		Resolver: resolver,
	}
}

type trendBucket struct {
	Date    string  `bson:"_id" json:"date"`
	Revenue float64 `bson:"revenue" json:"revenue"`
	Orders  int64   `bson:"orders" json:"orders"`
}

type topProduct struct {
	ID        interface{} `bson:"_id" json:"id"`
	Name      string      `bson:"name" json:"name"`
	TotalSold float64     `bson:"totalSold" json:"totalSold"`
	Revenue   float64     `bson:"revenue" json:"revenue"`
}

type statsFacets struct {
	Revenue []struct {
		Total float64 `bson:"total"`
	} `bson:"revenue"`
	StatusCounts []struct {
		Status interface{} `bson:"_id"`
		Count  int64       `bson:"count"`
	} `bson:"statusCounts"`
	DailyStats   []trendBucket `bson:"dailyStats"`
	MonthlyStats []trendBucket `bson:"monthlyStats"`
	TopProducts  []topProduct  `bson:"topProducts"`
}

// GetStats computes every dashboard metric: entity counts run concurrently,
// and all order analytics come back from a single multi-facet pipeline
// instead of one scan per metric.
func (sc *StatsController) GetStats(w http.ResponseWriter, r *http.Request) {
	db, err := sc.Store.DB()
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var (
		productsCount int64
		ordersCount   int64
		usersCount    int64
		paymentsCount int64
		facets        statsFacets
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := sc.countProducts(gctx)
		productsCount = count
		return err
	})
	for _, c := range []struct {
		collection string
		dst        *int64
	}{
		{"orders", &ordersCount},
		{"accounts_login", &usersCount},
		{"payments", &paymentsCount},
	} {
		c := c
		g.Go(func() error {
			count, err := db.Collection(c.collection).CountDocuments(gctx, bson.M{})
			*c.dst = count
			return err
		})
	}
	g.Go(func() error {
		cursor, err := db.Collection("orders").Aggregate(gctx, store.StatsPipeline(time.Now()))
		if err != nil {
			return err
		}
		defer cursor.Close(gctx)
		if cursor.Next(gctx) {
			return cursor.Decode(&facets)
		}
		return cursor.Err()
	})

	if err := g.Wait(); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	totalRevenue := 0.0
	if len(facets.Revenue) > 0 {
		totalRevenue = facets.Revenue[0].Total
	}

	ordersByStatus := make(map[string]int64, len(facets.StatusCounts))
	for _, entry := range facets.StatusCounts {
		status := models.CoerceString(entry.Status)
		if status == "" {
			status = "unknown"
		}
		ordersByStatus[status] = entry.Count
	}

	dailyStats := facets.DailyStats
	if dailyStats == nil {
		dailyStats = []trendBucket{}
	}
	monthlyStats := facets.MonthlyStats
	if monthlyStats == nil {
		monthlyStats = []trendBucket{}
	}
	topProducts := facets.TopProducts
	if topProducts == nil {
		topProducts = []topProduct{}
	}

	w.Header().Set("Cache-Control", "public, s-maxage=300, stale-while-revalidate=600")
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"productsCount":  productsCount,
			"ordersCount":    ordersCount,
			"usersCount":     usersCount,
			"paymentsCount":  paymentsCount,
			"totalRevenue":   decimal.NewFromFloat(totalRevenue).StringFixed(2),
			"ordersByStatus": ordersByStatus,
			"dailyStats":     dailyStats,
			"monthlyStats":   monthlyStats,
			"topProducts":    topProducts,
		},
	})
}

// countProducts counts the catalog through the resolver; with no product
// collection it counts the distinct products derivable from order history.
func (sc *StatsController) countProducts(ctx context.Context) (int64, error) {
	name, found, err := sc.Resolver.Resolve(ctx)
	if err != nil {
		return 0, err
	}
	if found {
		collection, err := sc.Store.Collection(name)
		if err != nil {
			return 0, err
		}
		return collection.CountDocuments(ctx, bson.M{})
	}

	derived, err := sc.Resolver.DerivedProducts(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(derived)), nil
}
