package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDateWindowToday(t *testing.T) {
	now := time.Date(2026, 8, 30, 23, 59, 59, 999000000, time.UTC)
	start, end, ok := DateWindow(RangeToday, now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 8, 30, 23, 59, 59, 999000000, time.UTC), end)

	// An order created just inside the day is in the window; the following
	// midnight is not.
	inside := time.Date(2026, 8, 30, 23, 59, 59, 998000000, time.UTC)
	nextDay := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	assert.True(t, !inside.Before(start) && !inside.After(end))
	assert.True(t, nextDay.After(end))
}

func TestDateWindowTrailing(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	start, end, ok := DateWindow(Range7Days, now)
	require.True(t, ok)
	assert.Equal(t, now.Add(-7*24*time.Hour), start)
	assert.True(t, end.IsZero())

	start, _, ok = DateWindow(Range30Days, now)
	require.True(t, ok)
	assert.Equal(t, now.Add(-30*24*time.Hour), start)
}

func TestDateWindowExplicitDate(t *testing.T) {
	start, end, ok := DateWindow("2025-01-15", time.Now())
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 15, 23, 59, 59, 999000000, time.UTC), end)

	_, _, ok = DateWindow("not-a-date", time.Now())
	assert.False(t, ok)
}

func TestBuildOrderFilterEmpty(t *testing.T) {
	filter := BuildOrderFilter("", "", "", time.Now())
	assert.Equal(t, bson.M{}, filter)
}

func TestBuildOrderFilterStatusBothAxes(t *testing.T) {
	filter := BuildOrderFilter("paid", "", "", time.Now())
	and, ok := filter["$and"].([]bson.M)
	require.True(t, ok)
	require.Len(t, and, 1)

	or, ok := and[0]["$or"].(bson.A)
	require.True(t, ok)
	assert.Contains(t, or, bson.M{"order_status": "paid"})
	assert.Contains(t, or, bson.M{"payment_status": "paid"})
}

func TestBuildOrderFilterSearchFields(t *testing.T) {
	filter := BuildOrderFilter("", "", "ORD-123", time.Now())
	and := filter["$and"].([]bson.M)
	require.Len(t, and, 1)

	or := and[0]["$or"].(bson.A)
	require.Len(t, or, 4)
	regex := bson.M{"$regex": "ORD-123", "$options": "i"}
	assert.Contains(t, or, bson.M{"order_id": regex})
	assert.Contains(t, or, bson.M{"user_id": regex})
	assert.Contains(t, or, bson.M{"user_email": regex})
	assert.Contains(t, or, bson.M{"customer_email": regex})
}

func TestBuildOrderFilterDateRangeDualEncoding(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	filter := BuildOrderFilter("", RangeToday, "", now)
	and := filter["$and"].([]bson.M)
	require.Len(t, and, 1)

	or := and[0]["$or"].(bson.A)
	require.Len(t, or, 4)

	// String-encoded range on both timestamp field names.
	stringClause := or[0].(bson.M)["created_at"].(bson.M)
	assert.Equal(t, "2026-08-30T00:00:00.000Z", stringClause["$gte"])
	assert.Equal(t, "2026-08-30T23:59:59.999Z", stringClause["$lte"])

	// Native-date range alongside.
	nativeClause := or[2].(bson.M)["created_at"].(bson.M)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), nativeClause["$gte"])
}

func TestBuildOrderFilterBadDateIgnored(t *testing.T) {
	filter := BuildOrderFilter("", "garbage", "", time.Now())
	assert.Equal(t, bson.M{}, filter)
}

func TestOrderSortHasIDTiebreak(t *testing.T) {
	sort := OrderSort()
	require.NotEmpty(t, sort)
	assert.Equal(t, "_id", sort[len(sort)-1].Key)
}

func TestProductSort(t *testing.T) {
	tests := []struct {
		key      string
		first    string
		firstDir int
	}{
		{"", "_id", -1},
		{SortPriceAsc, "price", 1},
		{SortPriceDesc, "price", -1},
		{"bogus", "_id", -1},
	}
	for _, tt := range tests {
		sort := ProductSort(tt.key)
		assert.Equal(t, tt.first, sort[0].Key, "key=%s", tt.key)
		assert.Equal(t, tt.firstDir, sort[0].Value, "key=%s", tt.key)
		assert.Equal(t, "_id", sort[len(sort)-1].Key, "key=%s", tt.key)
	}
}

func TestBuildProductFilter(t *testing.T) {
	filter := BuildProductFilter("aviator", "men", "sunglasses")
	assert.Equal(t, "men", filter["gender"])
	assert.Equal(t, "sunglasses", filter["category"])

	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 6)
	regex := bson.M{"$regex": "aviator", "$options": "i"}
	assert.Contains(t, or, bson.M{"name": regex})
	assert.Contains(t, or, bson.M{"skuid": regex})
	assert.Contains(t, or, bson.M{"naming_system": regex})

	assert.Equal(t, bson.M{}, BuildProductFilter("", "", ""))
}
