// store/pipeline.go
package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// TopSellerLimit caps the top-sellers facet. Ties at the cut fall to natural
// pipeline order, which the database does not guarantee stable.
const TopSellerLimit = 8

// convertToDouble wraps an expression in the on-error/on-null zero-defaulting
// coercion every monetary sum uses. A single malformed record contributes
// zero instead of failing the whole aggregation.
func convertToDouble(input interface{}) bson.M {
	return bson.M{"$convert": bson.M{
		"input":   input,
		"to":      "double",
		"onError": 0.0,
		"onNull":  0.0,
	}}
}

// orderTotalExpr is the order-total fallback chain: order_total, then total,
// then zero.
func orderTotalExpr() bson.M {
	return bson.M{"$ifNull": bson.A{"$order_total", bson.M{"$ifNull": bson.A{"$total", 0}}}}
}

// orderDateExpr resolves an order's creation timestamp across both historical
// field names, defaulting to evaluation time for records with neither.
func orderDateExpr() bson.M {
	return bson.M{"$toDate": bson.M{
		"$ifNull": bson.A{"$created_at", bson.M{"$ifNull": bson.A{"$created", "$$NOW"}}},
	}}
}

// lineItemsExpr resolves the cart field drift: newer records store line items
// under "items", older ones under "cart".
func lineItemsExpr() bson.M {
	return bson.M{"$ifNull": bson.A{"$items", "$cart"}}
}

// StatsPipeline builds the single multi-facet aggregation behind the
// dashboard: total revenue, status breakdown, daily and monthly time series,
// and top sellers, in one round trip instead of five collection scans.
func StatsPipeline(now time.Time) []bson.M {
	now = now.UTC()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dailyFrom := startOfToday.Add(-30 * 24 * time.Hour)
	monthlyFrom := now.AddDate(-1, 0, 0)

	revenueSum := bson.M{"$sum": convertToDouble(orderTotalExpr())}

	return []bson.M{
		{"$facet": bson.M{
			"revenue": []bson.M{
				{"$group": bson.M{
					"_id":   nil,
					"total": revenueSum,
				}},
			},
			"statusCounts": []bson.M{
				{"$group": bson.M{
					"_id": bson.M{"$ifNull": bson.A{
						"$payment_status",
						bson.M{"$ifNull": bson.A{"$order_status", "unknown"}},
					}},
					"count": bson.M{"$sum": 1},
				}},
			},
			"dailyStats": []bson.M{
				{"$addFields": bson.M{"dateObj": orderDateExpr()}},
				{"$match": bson.M{"dateObj": bson.M{"$gte": dailyFrom}}},
				{"$group": bson.M{
					"_id": bson.M{"$dateToString": bson.M{
						"format":   "%Y-%m-%d",
						"date":     "$dateObj",
						"timezone": "UTC",
					}},
					"revenue": revenueSum,
					"orders":  bson.M{"$sum": 1},
				}},
				{"$sort": bson.M{"_id": 1}},
			},
			"monthlyStats": []bson.M{
				{"$addFields": bson.M{"dateObj": orderDateExpr()}},
				{"$match": bson.M{"dateObj": bson.M{"$gte": monthlyFrom}}},
				{"$group": bson.M{
					"_id": bson.M{"$dateToString": bson.M{
						"format":   "%Y-%m",
						"date":     "$dateObj",
						"timezone": "UTC",
					}},
					"revenue": revenueSum,
					"orders":  bson.M{"$sum": 1},
				}},
				{"$sort": bson.M{"_id": 1}},
			},
			"topProducts": []bson.M{
				{"$addFields": bson.M{"lineItems": lineItemsExpr()}},
				{"$unwind": "$lineItems"},
				{"$group": bson.M{
					"_id":       bson.M{"$ifNull": bson.A{"$lineItems.skuid", "$lineItems.product_id"}},
					"name":      bson.M{"$first": "$lineItems.name"},
					"totalSold": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$lineItems.quantity", 1}}},
					"revenue": bson.M{"$sum": bson.M{"$multiply": bson.A{
						bson.M{"$ifNull": bson.A{"$lineItems.quantity", 1}},
						convertToDouble(bson.M{"$ifNull": bson.A{"$lineItems.price", 0}}),
					}}},
				}},
				{"$sort": bson.M{"totalSold": -1}},
				{"$limit": TopSellerLimit},
			},
		}},
	}
}

// DedupProductsPipeline builds the catalog listing pipeline: coerce the
// price, sort, keep the first document per SKU, then re-sort the canonical
// survivors. The sort before the group is what defines which variant wins.
func DedupProductsPipeline(match bson.M, sort bson.D) []bson.M {
	return []bson.M{
		{"$match": match},
		{"$addFields": bson.M{"price": convertToDouble("$price")}},
		{"$sort": sort},
		{"$group": bson.M{
			"_id": "$skuid",
			"doc": bson.M{"$first": "$$ROOT"},
		}},
		{"$replaceRoot": bson.M{"newRoot": "$doc"}},
		{"$sort": sort},
	}
}

// WithCount appends a counting stage, for the pre-pagination total.
func WithCount(pipeline []bson.M) []bson.M {
	out := make([]bson.M, len(pipeline), len(pipeline)+1)
	copy(out, pipeline)
	return append(out, bson.M{"$count": "total"})
}

// WithPage appends the skip/limit window.
func WithPage(pipeline []bson.M, skip int64, limit int) []bson.M {
	out := make([]bson.M, len(pipeline), len(pipeline)+2)
	copy(out, pipeline)
	return append(out,
		bson.M{"$skip": skip},
		bson.M{"$limit": limit},
	)
}
