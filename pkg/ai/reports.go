package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/supplyhub/storefront-api/pkg/mongo"
)

const salesReportSystemPrompt = `You are a business analyst for a B2B e-commerce storefront.
Generate concise, actionable insights from order and revenue data. Focus on:
- Revenue performance and order volume trends
- Fulfilment pipeline health (pending vs shipped vs delivered)
- Best-selling products and their share of revenue
- Specific recommendations for the back-office team
Keep responses to 3-4 paragraphs maximum, in executive-level language.`

// SalesReport is an AI-generated narrative over the sales aggregates.
type SalesReport struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Analytics   *mongo.SalesAnalytics `json:"analytics"`
	Insights    string                `json:"insights"`
}

// GenerateSalesReport aggregates order data and asks the model for an
// executive summary.
func GenerateSalesReport(ctx context.Context) (*SalesReport, error) {
	analytics, err := mongo.GetSalesAnalytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales analytics: %w", err)
	}

	insights, err := generateCompletion(ctx, salesReportSystemPrompt, formatSalesData(analytics))
	if err != nil {
		return nil, err
	}

	return &SalesReport{
		GeneratedAt: time.Now().UTC(),
		Analytics:   analytics,
		Insights:    insights,
	}, nil
}

func formatSalesData(analytics *mongo.SalesAnalytics) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Total revenue (excluding cancelled orders): $%.2f\n", analytics.Summary.TotalRevenue)
	fmt.Fprintf(&b, "Order count: %d\n", analytics.Summary.OrderCount)
	fmt.Fprintf(&b, "Average order value: $%.2f\n", analytics.Summary.AvgOrderValue)

	b.WriteString("\nOrders by status:\n")
	for _, s := range analytics.ByStatus {
		fmt.Fprintf(&b, "- %s: %d\n", s.Status, s.Count)
	}

	b.WriteString("\nTop products by revenue:\n")
	for _, p := range analytics.TopProducts {
		fmt.Fprintf(&b, "- %s: $%.2f across %d units\n", p.Name, p.Revenue, p.Units)
	}

	return b.String()
}
