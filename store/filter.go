// store/filter.go
package store

import (
	"time"

	"lens-admin/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Timestamps are stored inconsistently as ISO strings or native dates across
// records, so every date filter ORs a string-encoded range against a native
// one. isoMillis matches the string encoding the storefront writes.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Date range filter modes
const (
	RangeToday  = "today"
	Range7Days  = "7days"
	Range30Days = "30days"
)

// DateWindow resolves a dateRange parameter to a UTC window. today and an
// explicit YYYY-MM-DD date expand to a full midnight-to-midnight day;
// 7days/30days are open-ended trailing windows. ok is false for an
// unparseable explicit date.
func DateWindow(mode string, now time.Time) (start, end time.Time, ok bool) {
	now = now.UTC()
	switch mode {
	case RangeToday:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		end = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999000000, time.UTC)
		return start, end, true
	case Range7Days:
		return now.Add(-7 * 24 * time.Hour), time.Time{}, true
	case Range30Days:
		return now.Add(-30 * 24 * time.Hour), time.Time{}, true
	default:
		day, err := time.Parse("2006-01-02", mode)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		start = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		end = time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 999000000, time.UTC)
		return start, end, true
	}
}

// BuildOrderFilter translates the order-list query parameters into a filter
// document. Filter groups combine with AND; alternatives within a group with
// OR, since callers do not know which status axis or timestamp field a given
// record uses.
func BuildOrderFilter(status, dateRange, search string, now time.Time) bson.M {
	var and []bson.M

	if status != "" {
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"order_status": status},
			bson.M{"payment_status": status},
		}})
	}

	if dateRange != "" {
		if start, end, ok := DateWindow(dateRange, now); ok {
			and = append(and, dateRangeClause(start, end, now))
		}
	}

	if search != "" {
		regex := bson.M{"$regex": search, "$options": "i"}
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"order_id": regex},
			bson.M{"user_id": regex},
			bson.M{"user_email": regex},
			bson.M{"customer_email": regex},
		}})
	}

	if len(and) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": and}
}

func dateRangeClause(start, end, now time.Time) bson.M {
	stringRange := bson.M{"$gte": start.UTC().Format(isoMillis)}
	if !end.IsZero() {
		stringRange["$lte"] = end.UTC().Format(isoMillis)
	}

	nativeEnd := end
	if nativeEnd.IsZero() {
		nativeEnd = now
	}
	nativeRange := bson.M{"$gte": start, "$lte": nativeEnd}

	return bson.M{"$or": bson.A{
		bson.M{"created_at": stringRange},
		bson.M{"created": stringRange},
		bson.M{"created_at": nativeRange},
		bson.M{"created": nativeRange},
	}}
}

// OrderSort is newest-first across both timestamp field names, with the
// stable id tiebreak that makes pagination deterministic.
func OrderSort() bson.D {
	return bson.D{
		{Key: "created_at", Value: -1},
		{Key: "created", Value: -1},
		{Key: "_id", Value: -1},
	}
}

// Product sort keys
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// ProductSort maps a sort parameter to a sort document. Every variant ends on
// the id tiebreak.
func ProductSort(key string) bson.D {
	switch key {
	case SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: -1}}
	case SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: -1}}
	default:
		return bson.D{{Key: "_id", Value: -1}}
	}
}

// BuildProductFilter translates the product-list query parameters into a
// filter document: free-text search ORed across the candidate field names,
// gender and category as exact matches.
func BuildProductFilter(search, gender, category string) bson.M {
	filter := bson.M{}
	if search != "" {
		regex := bson.M{"$regex": search, "$options": "i"}
		or := bson.A{}
		for _, field := range models.ProductSearchFields() {
			or = append(or, bson.M{field: regex})
		}
		filter["$or"] = or
	}
	if gender != "" {
		filter["gender"] = gender
	}
	if category != "" {
		filter["category"] = category
	}
	return filter
}
