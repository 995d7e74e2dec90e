package mongo

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/supplyhub/storefront-api/pkg/global"
	"github.com/supplyhub/storefront-api/pkg/models"
)

var ErrNotFound = errors.New("not found")

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// ProductQuery is the filter/sort/pagination specification for customer
// product listings, parsed from request query parameters.
type ProductQuery struct {
	Page      int
	Limit     int
	Search    string
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	InStock   *bool
	SortBy    string
	SortOrder string
}

var sortableProductFields = map[string]string{
	"name":      "name",
	"price":     "price",
	"category":  "category",
	"stock":     "stock",
	"createdAt": "createdAt",
}

// ParseProductQuery translates raw query parameters into a ProductQuery.
// Out-of-range or malformed values fall back to defaults rather than
// producing an error.
func ParseProductQuery(values url.Values) ProductQuery {
	q := ProductQuery{
		Page:      1,
		Limit:     defaultPageLimit,
		Search:    values.Get("search"),
		Category:  values.Get("category"),
		SortBy:    "createdAt",
		SortOrder: "desc",
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page >= 1 {
		q.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit >= 1 {
		if limit > maxPageLimit {
			limit = maxPageLimit
		}
		q.Limit = limit
	}
	if minPrice, err := strconv.ParseFloat(values.Get("minPrice"), 64); err == nil {
		q.MinPrice = &minPrice
	}
	if maxPrice, err := strconv.ParseFloat(values.Get("maxPrice"), 64); err == nil {
		q.MaxPrice = &maxPrice
	}

	// inStock is tri-state: "true", "false", or absent.
	switch values.Get("inStock") {
	case "true":
		inStock := true
		q.InStock = &inStock
	case "false":
		inStock := false
		q.InStock = &inStock
	}

	if field, ok := sortableProductFields[values.Get("sortBy")]; ok {
		q.SortBy = field
	}
	if values.Get("sortOrder") == "asc" {
		q.SortOrder = "asc"
	}

	return q
}

// Filter builds the document filter. Listings are always restricted to
// active products.
func (q ProductQuery) Filter() bson.D {
	filter := bson.D{{Key: "isActive", Value: true}}

	if q.Search != "" {
		pattern := regexp.QuoteMeta(q.Search)
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: bson.Regex{Pattern: pattern, Options: "i"}}},
			bson.D{{Key: "description", Value: bson.Regex{Pattern: pattern, Options: "i"}}},
		}})
	}

	if q.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: q.Category})
	}

	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.D{}
		if q.MinPrice != nil {
			price = append(price, bson.E{Key: "$gte", Value: *q.MinPrice})
		}
		if q.MaxPrice != nil {
			price = append(price, bson.E{Key: "$lte", Value: *q.MaxPrice})
		}
		filter = append(filter, bson.E{Key: "price", Value: price})
	}

	if q.InStock != nil {
		if *q.InStock {
			filter = append(filter, bson.E{Key: "stock", Value: bson.D{{Key: "$gt", Value: 0}}})
		} else {
			filter = append(filter, bson.E{Key: "stock", Value: 0})
		}
	}

	return filter
}

func (q ProductQuery) Sort() bson.D {
	order := -1
	if q.SortOrder == "asc" {
		order = 1
	}
	return bson.D{{Key: q.SortBy, Value: order}}
}

func (q ProductQuery) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}

// Paginate computes the pagination envelope for a total match count.
// Out-of-range pages yield an empty page, never an error.
func (q ProductQuery) Paginate(total int64) global.Pagination {
	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return global.Pagination{
		CurrentPage:   q.Page,
		TotalPages:    totalPages,
		TotalProducts: total,
		HasNextPage:   q.Page < totalPages,
		HasPrevPage:   q.Page > 1,
	}
}

// ListProducts runs the built query and returns the matching page with
// its pagination envelope.
func ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, global.Pagination, error) {
	collection := GetCollection("products")
	filter := q.Filter()

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, global.Pagination{}, err
	}

	opts := options.Find().
		SetSort(q.Sort()).
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, global.Pagination{}, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, global.Pagination{}, err
	}

	return products, q.Paginate(total), nil
}

func GetProductByID(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	var product models.Product
	err := GetCollection("products").FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if _, err := GetCollection("products").InsertOne(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProductByID applies a partial update and returns the updated
// document. Immutable fields are stripped by the handler before this call.
func UpdateProductByID(ctx context.Context, id bson.ObjectID, updates bson.M) (*models.Product, error) {
	updates["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err := GetCollection("products").FindOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: updates}},
		opts,
	).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func DeleteProductByID(ctx context.Context, id bson.ObjectID) error {
	result, err := GetCollection("products").DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
