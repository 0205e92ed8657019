package domain

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseListingFilterDefaults(t *testing.T) {
	filter := ParseListingFilter(url.Values{})
	assert.Equal(t, int64(DefaultPage), filter.Page)
	assert.Equal(t, int64(DefaultLimit), filter.Limit)
	assert.Nil(t, filter.MinPrice)
	assert.Nil(t, filter.MaxPrice)
}

func TestParseListingFilterRejectsGarbage(t *testing.T) {
	values := url.Values{}
	values.Set("page", "-3")
	values.Set("limit", "abc")
	values.Set("minPrice", "cheap")

	filter := ParseListingFilter(values)
	assert.Equal(t, int64(DefaultPage), filter.Page)
	assert.Equal(t, int64(DefaultLimit), filter.Limit)
	assert.Nil(t, filter.MinPrice)
}

func TestQueryTranslation(t *testing.T) {
	values := url.Values{}
	values.Set("type", "accommodation")
	values.Set("city", "Pune")
	values.Set("minPrice", "1000")
	values.Set("maxPrice", "9000")
	values.Set("minRating", "4")
	values.Set("search", "gym")

	query := ParseListingFilter(values).Query()

	assert.Equal(t, "accommodation", query["type"])

	city, ok := query["location.city"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "Pune", city.Pattern)
	assert.Equal(t, "i", city.Options)

	price, ok := query["price"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, float64(1000), price["$gte"])
	assert.Equal(t, float64(9000), price["$lte"])

	rating, ok := query["rating"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, float64(4), rating["$gte"])

	or, ok := query["$or"].(bson.A)
	require.True(t, ok)
	assert.Len(t, or, 3)
}

func TestSearchPatternIsEscaped(t *testing.T) {
	values := url.Values{}
	values.Set("search", "a.b*c")

	query := ParseListingFilter(values).Query()
	or := query["$or"].(bson.A)
	name := or[0].(bson.M)["name"].(primitive.Regex)
	assert.Equal(t, `a\.b\*c`, name.Pattern)
}

func TestPublicQueryForcesVisibility(t *testing.T) {
	query := ParseListingFilter(url.Values{}).PublicQuery()
	assert.Equal(t, true, query["availability"])
	assert.Equal(t, ApprovalApproved, query["approvalStatus"])
}

func TestComboQuerySearchesTitle(t *testing.T) {
	values := url.Values{}
	values.Set("search", "starter")
	values.Set("type", "accommodation")

	query := ParseListingFilter(values).ComboQuery()
	assert.Equal(t, true, query["availability"])
	assert.NotContains(t, query, "type")

	or := query["$or"].(bson.A)
	require.Len(t, or, 2)
	assert.Contains(t, or[0].(bson.M), "title")
}

func TestSortMapping(t *testing.T) {
	cases := map[string]bson.D{
		"price-asc":  {{Key: "price", Value: 1}},
		"price-desc": {{Key: "price", Value: -1}},
		"rating":     {{Key: "rating", Value: -1}},
		"":           {{Key: "createdAt", Value: -1}},
		"bogus":      {{Key: "createdAt", Value: -1}},
	}
	for sortBy, expected := range cases {
		filter := ListingFilter{SortBy: sortBy}
		assert.Equal(t, expected, filter.Sort(), "sortBy=%q", sortBy)
	}
}

func TestAdminFilterStatusAndSort(t *testing.T) {
	values := url.Values{}
	values.Set("status", "pending")
	values.Set("sortBy", "oldest")

	filter := ParseAdminListingFilter(values)
	assert.Equal(t, int64(20), filter.Limit)

	query := filter.Query()
	assert.Equal(t, "pending", query["approvalStatus"])
	assert.Equal(t, bson.D{{Key: "createdAt", Value: 1}}, filter.Sort())
}

func TestPaginationMath(t *testing.T) {
	pagination := NewPagination(2, 10, 25)
	assert.Equal(t, int64(2), pagination.Page)
	assert.Equal(t, int64(3), pagination.Pages)

	empty := NewPagination(1, 10, 0)
	assert.Equal(t, int64(0), empty.Pages)
}

func TestSkip(t *testing.T) {
	filter := ListingFilter{Page: 3, Limit: 10}
	assert.Equal(t, int64(20), filter.Skip())
}
