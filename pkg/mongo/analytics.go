package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type SalesSummary struct {
	TotalRevenue  float64 `json:"total_revenue" bson:"total_revenue"`
	OrderCount    int     `json:"order_count" bson:"order_count"`
	AvgOrderValue float64 `json:"avg_order_value" bson:"avg_order_value"`
}

type StatusBreakdown struct {
	Status string `json:"status" bson:"_id"`
	Count  int    `json:"count" bson:"count"`
}

type ProductRevenue struct {
	Name    string  `json:"name" bson:"_id"`
	Revenue float64 `json:"revenue" bson:"revenue"`
	Units   int     `json:"units" bson:"units"`
}

type SalesAnalytics struct {
	Summary     SalesSummary      `json:"summary"`
	ByStatus    []StatusBreakdown `json:"by_status"`
	TopProducts []ProductRevenue  `json:"top_products"`
}

// GetSalesAnalytics aggregates order revenue for the admin dashboard.
// Cancelled orders are excluded from revenue but appear in the status
// breakdown.
func GetSalesAnalytics(ctx context.Context) (*SalesAnalytics, error) {
	collection := GetCollection("orders")

	summaryPipeline := bson.A{
		bson.D{
			{Key: "$match", Value: bson.D{
				{Key: "status", Value: bson.D{{Key: "$ne", Value: "cancelled"}}},
			}},
		},
		bson.D{
			{Key: "$group", Value: bson.D{
				{Key: "_id", Value: nil},
				{Key: "total_revenue", Value: bson.D{{Key: "$sum", Value: "$total"}}},
				{Key: "order_count", Value: bson.D{{Key: "$sum", Value: 1}}},
				{Key: "avg_order_value", Value: bson.D{{Key: "$avg", Value: "$total"}}},
			}},
		},
		bson.D{
			{Key: "$project", Value: bson.D{
				{Key: "_id", Value: 0},
				{Key: "total_revenue", Value: bson.D{{Key: "$round", Value: bson.A{"$total_revenue", 2}}}},
				{Key: "order_count", Value: 1},
				{Key: "avg_order_value", Value: bson.D{{Key: "$round", Value: bson.A{"$avg_order_value", 2}}}},
			}},
		},
	}

	cursor, err := collection.Aggregate(ctx, summaryPipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var summaries []SalesSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}

	analytics := &SalesAnalytics{}
	if len(summaries) > 0 {
		analytics.Summary = summaries[0]
	}

	statusPipeline := bson.A{
		bson.D{
			{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$status"},
				{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			}},
		},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}

	statusCursor, err := collection.Aggregate(ctx, statusPipeline)
	if err != nil {
		return nil, err
	}
	defer statusCursor.Close(ctx)

	if err := statusCursor.All(ctx, &analytics.ByStatus); err != nil {
		return nil, err
	}

	// Order items carry a product snapshot, so top sellers group on the
	// snapshotted name rather than joining the live catalog.
	productPipeline := bson.A{
		bson.D{
			{Key: "$match", Value: bson.D{
				{Key: "status", Value: bson.D{{Key: "$ne", Value: "cancelled"}}},
			}},
		},
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{
			{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$items.name"},
				{Key: "revenue", Value: bson.D{{Key: "$sum", Value: bson.D{
					{Key: "$multiply", Value: bson.A{"$items.price", "$items.quantity"}},
				}}}},
				{Key: "units", Value: bson.D{{Key: "$sum", Value: "$items.quantity"}}},
			}},
		},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "revenue", Value: -1}}}},
		bson.D{{Key: "$limit", Value: 5}},
	}

	productCursor, err := collection.Aggregate(ctx, productPipeline)
	if err != nil {
		return nil, err
	}
	defer productCursor.Close(ctx)

	if err := productCursor.All(ctx, &analytics.TopProducts); err != nil {
		return nil, err
	}

	return analytics, nil
}
