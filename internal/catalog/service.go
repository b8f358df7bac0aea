package catalog

import (
	"context"
	"strings"
	"time"

	"ticketing-api/internal/catalog/db"
	"ticketing-api/internal/models"
	"ticketing-api/internal/utils"
)

type CatalogDBLayer interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	GetEvent(ctx context.Context, eventID int64) (*models.Event, error)
	SearchEvents(ctx context.Context, q string) ([]models.Event, error)
	FilterEvents(ctx context.Context, f db.EventFilter) ([]models.EventListing, error)
	ListEventTickets(ctx context.Context, eventID int64) ([]models.Ticket, error)
	ListTickets(ctx context.Context) ([]models.Ticket, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListVenues(ctx context.Context) ([]models.Venue, error)
}

// DateBucket names a date range relative to now.
type DateBucket string

const (
	DateToday DateBucket = "today"
	DateWeek  DateBucket = "week"
	DateMonth DateBucket = "month"
	DateYear  DateBucket = "year"
)

// FilterParams are the raw query parameters of an event filter request.
type FilterParams struct {
	Query    string
	Location string
	Date     DateBucket
}

type CatalogService struct {
	DB  CatalogDBLayer
	now func() time.Time
}

func NewCatalogService(db CatalogDBLayer) *CatalogService {
	return &CatalogService{DB: db, now: time.Now}
}

// WithClock replaces the clock used for date buckets.
func (s *CatalogService) WithClock(now func() time.Time) *CatalogService {
	s.now = now
	return s
}

func (s *CatalogService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.DB.ListEvents(ctx)
}

func (s *CatalogService) GetEvent(ctx context.Context, eventID int64) (*models.Event, error) {
	return s.DB.GetEvent(ctx, eventID)
}

func (s *CatalogService) SearchEvents(ctx context.Context, q string) ([]models.Event, error) {
	return s.DB.SearchEvents(ctx, q)
}

// FilterEvents combines the given predicates with AND. Unknown date buckets
// are ignored.
func (s *CatalogService) FilterEvents(ctx context.Context, p FilterParams) ([]models.EventListing, error) {
	f := db.EventFilter{
		Query: strings.TrimSpace(p.Query),
		City:  strings.TrimSpace(p.Location),
	}
	f.From, f.To = s.dateRange(p.Date)
	return s.DB.FilterEvents(ctx, f)
}

// dateRange turns a bucket into bounds. Only "today" has a lower bound, so
// the wider buckets include past events.
func (s *CatalogService) dateRange(bucket DateBucket) (from, to time.Time) {
	now := s.now().UTC()
	switch bucket {
	case DateToday:
		start := utils.StartOfDay(now)
		return start, start.AddDate(0, 0, 1)
	case DateWeek:
		return time.Time{}, now.AddDate(0, 0, 7)
	case DateMonth:
		return time.Time{}, now.AddDate(0, 0, 30)
	case DateYear:
		return time.Time{}, now.AddDate(0, 0, 365)
	}
	return time.Time{}, time.Time{}
}

func (s *CatalogService) ListEventTickets(ctx context.Context, eventID int64) ([]models.Ticket, error) {
	return s.DB.ListEventTickets(ctx, eventID)
}

func (s *CatalogService) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	return s.DB.ListTickets(ctx)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.DB.ListCategories(ctx)
}

func (s *CatalogService) ListVenues(ctx context.Context) ([]models.Venue, error) {
	return s.DB.ListVenues(ctx)
}
