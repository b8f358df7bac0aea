package analytics

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"ticketing-api/internal/models"
)

type AnalyticsDBLayer interface {
	EventExists(ctx context.Context, eventID int64) (bool, error)
	GetSaleLines(ctx context.Context, eventIDs []int64, status models.PaymentStatus) ([]SaleLine, error)
}

// Service handles analytics operations
type Service struct {
	DB AnalyticsDBLayer
}

// NewService creates a new analytics service
func NewService(db AnalyticsDBLayer) *Service {
	return &Service{DB: db}
}

// SalesSummary aggregates purchased lines for one or more events.
type SalesSummary struct {
	TotalRevenue     decimal.Decimal     `json:"total_revenue"`
	TotalTicketsSold int                 `json:"total_tickets_sold"`
	PurchaseCount    int                 `json:"purchase_count"`
	DailySales       []DailySalesMetrics `json:"daily_sales"`
	SalesByTier      []TierSalesMetrics  `json:"sales_by_tier"`
}

// EventAnalytics represents aggregated analytics data for an event
type EventAnalytics struct {
	EventID int64 `json:"event_id"`
	SalesSummary
}

// BatchEventAnalytics represents aggregated analytics data for multiple events
type BatchEventAnalytics struct {
	EventIDs []int64 `json:"event_ids"`
	SalesSummary
}

// DailySalesMetrics contains metrics for a single UTC day
type DailySalesMetrics struct {
	Date        string          `json:"date"`
	Revenue     decimal.Decimal `json:"revenue"`
	TicketsSold int             `json:"tickets_sold"`
}

// TierSalesMetrics contains sales metrics for a specific tier
type TierSalesMetrics struct {
	TicketID    int64           `json:"ticket_id"`
	TicketType  string          `json:"ticket_type"`
	TicketsSold int             `json:"tickets_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// GetEventAnalytics returns revenue analytics for a specific event
func (s *Service) GetEventAnalytics(ctx context.Context, eventID int64, status string) (*EventAnalytics, error) {
	ps, err := parseStatus(status)
	if err != nil {
		return nil, err
	}
	ok, err := s.DB.EventExists(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewNotFoundError("Event not found")
	}

	lines, err := s.DB.GetSaleLines(ctx, []int64{eventID}, ps)
	if err != nil {
		return nil, err
	}
	return &EventAnalytics{EventID: eventID, SalesSummary: summarize(lines)}, nil
}

// GetBatchEventAnalytics returns one summary across all given events. Unknown
// ids contribute nothing.
func (s *Service) GetBatchEventAnalytics(ctx context.Context, eventIDs []int64, status string) (*BatchEventAnalytics, error) {
	ps, err := parseStatus(status)
	if err != nil {
		return nil, err
	}
	for _, id := range eventIDs {
		if id <= 0 {
			return nil, models.NewValidationError("event_ids must be positive")
		}
	}
	if eventIDs == nil {
		eventIDs = []int64{}
	}

	lines, err := s.DB.GetSaleLines(ctx, eventIDs, ps)
	if err != nil {
		return nil, err
	}
	return &BatchEventAnalytics{EventIDs: eventIDs, SalesSummary: summarize(lines)}, nil
}

func parseStatus(status string) (models.PaymentStatus, error) {
	if status == "" {
		return "", nil
	}
	ps := models.PaymentStatus(status)
	if !ps.Valid() {
		return "", models.NewValidationError("status must be one of [Pending Completed Failed Refunded]")
	}
	return ps, nil
}

func summarize(lines []SaleLine) SalesSummary {
	summary := SalesSummary{
		TotalRevenue: decimal.Zero,
		DailySales:   make([]DailySalesMetrics, 0),
		SalesByTier:  make([]TierSalesMetrics, 0),
	}

	purchases := make(map[int64]struct{})
	days := make(map[string]int)
	tiers := make(map[int64]int)

	for _, line := range lines {
		summary.TotalRevenue = summary.TotalRevenue.Add(line.Subtotal)
		summary.TotalTicketsSold += line.Quantity
		purchases[line.PurchaseID] = struct{}{}

		day := line.PurchaseDate.UTC().Format("2006-01-02")
		i, ok := days[day]
		if !ok {
			i = len(summary.DailySales)
			days[day] = i
			summary.DailySales = append(summary.DailySales, DailySalesMetrics{Date: day, Revenue: decimal.Zero})
		}
		summary.DailySales[i].Revenue = summary.DailySales[i].Revenue.Add(line.Subtotal)
		summary.DailySales[i].TicketsSold += line.Quantity

		j, ok := tiers[line.TicketID]
		if !ok {
			j = len(summary.SalesByTier)
			tiers[line.TicketID] = j
			summary.SalesByTier = append(summary.SalesByTier, TierSalesMetrics{
				TicketID:   line.TicketID,
				TicketType: line.TicketType,
				Revenue:    decimal.Zero,
			})
		}
		summary.SalesByTier[j].Revenue = summary.SalesByTier[j].Revenue.Add(line.Subtotal)
		summary.SalesByTier[j].TicketsSold += line.Quantity
	}
	summary.PurchaseCount = len(purchases)

	sort.Slice(summary.DailySales, func(a, b int) bool {
		return summary.DailySales[a].Date < summary.DailySales[b].Date
	})
	sort.Slice(summary.SalesByTier, func(a, b int) bool {
		return summary.SalesByTier[a].TicketType < summary.SalesByTier[b].TicketType
	})
	return summary
}
