package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ticketing-api/internal/catalog"
	"ticketing-api/internal/catalog/db"
	"ticketing-api/internal/models"
)

// MockCatalogDBLayer is a mock implementation of the CatalogDBLayer interface
type MockCatalogDBLayer struct {
	mock.Mock
}

func (m *MockCatalogDBLayer) ListEvents(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockCatalogDBLayer) GetEvent(ctx context.Context, eventID int64) (*models.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockCatalogDBLayer) SearchEvents(ctx context.Context, q string) ([]models.Event, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockCatalogDBLayer) FilterEvents(ctx context.Context, f db.EventFilter) ([]models.EventListing, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.EventListing), args.Error(1)
}

func (m *MockCatalogDBLayer) ListEventTickets(ctx context.Context, eventID int64) ([]models.Ticket, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]models.Ticket), args.Error(1)
}

func (m *MockCatalogDBLayer) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Ticket), args.Error(1)
}

func (m *MockCatalogDBLayer) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCatalogDBLayer) ListVenues(ctx context.Context) ([]models.Venue, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Venue), args.Error(1)
}

var fixedNow = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func filterFor(t *testing.T, bucket catalog.DateBucket) db.EventFilter {
	t.Helper()
	mockDB := new(MockCatalogDBLayer)
	svc := catalog.NewCatalogService(mockDB).WithClock(func() time.Time { return fixedNow })

	var got db.EventFilter
	mockDB.On("FilterEvents", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(db.EventFilter) }).
		Return([]models.EventListing{}, nil)

	_, err := svc.FilterEvents(context.Background(), catalog.FilterParams{Query: " jazz ", Location: "Springfield", Date: bucket})
	require.NoError(t, err)
	return got
}

func TestFilterEventsToday(t *testing.T) {
	f := filterFor(t, catalog.DateToday)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), f.From)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), f.To)
	assert.Equal(t, "jazz", f.Query)
	assert.Equal(t, "Springfield", f.City)
}

func TestFilterEventsRelativeBucketsHaveNoLowerBound(t *testing.T) {
	cases := map[catalog.DateBucket]time.Time{
		catalog.DateWeek:  fixedNow.AddDate(0, 0, 7),
		catalog.DateMonth: fixedNow.AddDate(0, 0, 30),
		catalog.DateYear:  fixedNow.AddDate(0, 0, 365),
	}
	for bucket, want := range cases {
		t.Run(string(bucket), func(t *testing.T) {
			f := filterFor(t, bucket)
			assert.True(t, f.From.IsZero())
			assert.Equal(t, want, f.To)
		})
	}
}

func TestFilterEventsUnknownBucketIgnored(t *testing.T) {
	f := filterFor(t, "decade")

	assert.True(t, f.From.IsZero())
	assert.True(t, f.To.IsZero())
}
