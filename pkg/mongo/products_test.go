package mongo

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func filterMap(filter bson.D) map[string]interface{} {
	m := make(map[string]interface{}, len(filter))
	for _, e := range filter {
		m[e.Key] = e.Value
	}
	return m
}

func TestParseProductQueryDefaults(t *testing.T) {
	q := ParseProductQuery(url.Values{})

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, "createdAt", q.SortBy)
	assert.Equal(t, "desc", q.SortOrder)
	assert.Nil(t, q.MinPrice)
	assert.Nil(t, q.MaxPrice)
	assert.Nil(t, q.InStock)
}

func TestParseProductQueryRejectsBadValues(t *testing.T) {
	values := url.Values{}
	values.Set("page", "0")
	values.Set("limit", "9999")
	values.Set("sortBy", "password")
	values.Set("sortOrder", "sideways")
	values.Set("inStock", "maybe")

	q := ParseProductQuery(values)

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 100, q.Limit)
	assert.Equal(t, "createdAt", q.SortBy)
	assert.Equal(t, "desc", q.SortOrder)
	assert.Nil(t, q.InStock)
}

func TestFilterAlwaysRestrictsToActive(t *testing.T) {
	filter := ParseProductQuery(url.Values{}).Filter()

	m := filterMap(filter)
	assert.Equal(t, true, m["isActive"])
	assert.Len(t, filter, 1)
}

func TestFilterSearchMatchesNameOrDescription(t *testing.T) {
	values := url.Values{}
	values.Set("search", "foil")

	m := filterMap(ParseProductQuery(values).Filter())

	or, ok := m["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)

	name := or[0].(bson.D)
	assert.Equal(t, "name", name[0].Key)
	regex := name[0].Value.(bson.Regex)
	assert.Equal(t, "foil", regex.Pattern)
	assert.Equal(t, "i", regex.Options)

	desc := or[1].(bson.D)
	assert.Equal(t, "description", desc[0].Key)
}

func TestFilterSearchEscapesRegexMetacharacters(t *testing.T) {
	values := url.Values{}
	values.Set("search", "2-ply (bulk)")

	m := filterMap(ParseProductQuery(values).Filter())

	or := m["$or"].(bson.A)
	regex := or[0].(bson.D)[0].Value.(bson.Regex)
	assert.Equal(t, `2-ply \(bulk\)`, regex.Pattern)
}

func TestFilterPriceRange(t *testing.T) {
	values := url.Values{}
	values.Set("minPrice", "10")
	values.Set("maxPrice", "50")

	m := filterMap(ParseProductQuery(values).Filter())

	price, ok := m["price"].(bson.D)
	require.True(t, ok)
	assert.Equal(t, bson.D{
		{Key: "$gte", Value: 10.0},
		{Key: "$lte", Value: 50.0},
	}, price)
}

func TestFilterInStockTriState(t *testing.T) {
	inStock := url.Values{}
	inStock.Set("inStock", "true")
	m := filterMap(ParseProductQuery(inStock).Filter())
	assert.Equal(t, bson.D{{Key: "$gt", Value: 0}}, m["stock"])

	outOfStock := url.Values{}
	outOfStock.Set("inStock", "false")
	m = filterMap(ParseProductQuery(outOfStock).Filter())
	assert.Equal(t, 0, m["stock"])

	m = filterMap(ParseProductQuery(url.Values{}).Filter())
	_, present := m["stock"]
	assert.False(t, present)
}

func TestFilterCategoryExactMatch(t *testing.T) {
	values := url.Values{}
	values.Set("category", "cleaning")

	m := filterMap(ParseProductQuery(values).Filter())
	assert.Equal(t, "cleaning", m["category"])
}

func TestSortDirection(t *testing.T) {
	values := url.Values{}
	values.Set("sortBy", "price")
	values.Set("sortOrder", "asc")

	q := ParseProductQuery(values)
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, q.Sort())

	q.SortOrder = "desc"
	assert.Equal(t, bson.D{{Key: "price", Value: -1}}, q.Sort())
}

func TestSkipOffset(t *testing.T) {
	q := ProductQuery{Page: 3, Limit: 10}
	assert.Equal(t, int64(20), q.Skip())
}

func TestPaginateEnvelope(t *testing.T) {
	q := ProductQuery{Page: 1, Limit: 10}
	p := q.Paginate(25)

	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(25), p.TotalProducts)
	assert.True(t, p.HasNextPage)
	assert.False(t, p.HasPrevPage)

	last := ProductQuery{Page: 3, Limit: 10}.Paginate(25)
	assert.False(t, last.HasNextPage)
	assert.True(t, last.HasPrevPage)
}

func TestPaginateOutOfRangePage(t *testing.T) {
	p := ProductQuery{Page: 9, Limit: 10}.Paginate(25)

	assert.Equal(t, 9, p.CurrentPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)
}

func TestPaginateEmptyResult(t *testing.T) {
	p := ProductQuery{Page: 1, Limit: 10}.Paginate(0)

	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.False(t, p.HasPrevPage)
}
