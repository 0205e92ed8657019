package domain

import (
	"math"
	"net/url"
	"regexp"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ListingFilter carries the request-supplied filter parameters shared by the
// listing and combo read paths.
type ListingFilter struct {
	Type      string
	City      string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Search    string
	SortBy    string
	Page      int64
	Limit     int64
}

func ParseListingFilter(values url.Values) ListingFilter {
	filter := ListingFilter{
		Type:   values.Get("type"),
		City:   values.Get("city"),
		Search: values.Get("search"),
		SortBy: values.Get("sortBy"),
		Page:   parsePositive(values.Get("page"), DefaultPage),
		Limit:  parsePositive(values.Get("limit"), DefaultLimit),
	}
	filter.MinPrice = parseFloat(values.Get("minPrice"))
	filter.MaxPrice = parseFloat(values.Get("maxPrice"))
	filter.MinRating = parseFloat(values.Get("minRating"))
	return filter
}

// Query translates the filter into a Mongo filter document for listings.
func (filter ListingFilter) Query() bson.M {
	query := bson.M{}

	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.City != "" {
		query["location.city"] = caseInsensitive(filter.City)
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			price["$lte"] = *filter.MaxPrice
		}
		query["price"] = price
	}
	if filter.MinRating != nil {
		query["rating"] = bson.M{"$gte": *filter.MinRating}
	}
	if filter.Search != "" {
		pattern := caseInsensitive(filter.Search)
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
			bson.M{"location.address": pattern},
		}
	}

	return query
}

// PublicQuery adds the visibility constraint applied to every unauthenticated
// listing read: only available, approved listings are returned.
func (filter ListingFilter) PublicQuery() bson.M {
	query := filter.Query()
	query["availability"] = true
	query["approvalStatus"] = ApprovalApproved
	return query
}

// ComboQuery translates the same parameters for combos. Combos carry no type
// and no approval workflow; search matches title instead of name.
func (filter ListingFilter) ComboQuery() bson.M {
	query := bson.M{}

	if filter.City != "" {
		query["location.city"] = caseInsensitive(filter.City)
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			price["$lte"] = *filter.MaxPrice
		}
		query["price"] = price
	}
	if filter.MinRating != nil {
		query["rating"] = bson.M{"$gte": *filter.MinRating}
	}
	if filter.Search != "" {
		pattern := caseInsensitive(filter.Search)
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	query["availability"] = true
	return query
}

// Sort maps sortBy to a Mongo sort document; unknown values fall back to
// newest first.
func (filter ListingFilter) Sort() bson.D {
	switch filter.SortBy {
	case "price-asc":
		return bson.D{{Key: "price", Value: 1}}
	case "price-desc":
		return bson.D{{Key: "price", Value: -1}}
	case "rating":
		return bson.D{{Key: "rating", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func (filter ListingFilter) Skip() int64 {
	return (filter.Page - 1) * filter.Limit
}

// AdminListingFilter is the admin view over listings: approval status instead
// of the public visibility constraint, newest/oldest sorting.
type AdminListingFilter struct {
	Status string
	Type   string
	City   string
	Search string
	SortBy string
	Page   int64
	Limit  int64
}

func ParseAdminListingFilter(values url.Values) AdminListingFilter {
	return AdminListingFilter{
		Status: values.Get("status"),
		Type:   values.Get("type"),
		City:   values.Get("city"),
		Search: values.Get("search"),
		SortBy: values.Get("sortBy"),
		Page:   parsePositive(values.Get("page"), DefaultPage),
		Limit:  parsePositive(values.Get("limit"), 20),
	}
}

func (filter AdminListingFilter) Query() bson.M {
	query := bson.M{}

	if filter.Status != "" {
		query["approvalStatus"] = filter.Status
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.City != "" {
		query["location.city"] = caseInsensitive(filter.City)
	}
	if filter.Search != "" {
		pattern := caseInsensitive(filter.Search)
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}

	return query
}

func (filter AdminListingFilter) Sort() bson.D {
	if filter.SortBy == "oldest" {
		return bson.D{{Key: "createdAt", Value: 1}}
	}
	return bson.D{{Key: "createdAt", Value: -1}}
}

func (filter AdminListingFilter) Skip() int64 {
	return (filter.Page - 1) * filter.Limit
}

// Pagination is the page metadata block attached to every list response.
type Pagination struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func NewPagination(page, limit, total int64) Pagination {
	pages := int64(0)
	if limit > 0 {
		pages = int64(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}

func caseInsensitive(value string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
}

func parsePositive(value string, fallback int64) int64 {
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}

func parseFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &parsed
}
