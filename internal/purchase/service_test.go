package purchase_test

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ticketing-api/internal/logger"
	"ticketing-api/internal/models"
	"ticketing-api/internal/purchase"
	"ticketing-api/internal/purchase/db"
	"ticketing-api/internal/purchase/qr"
)

// MockPurchaseDBLayer is a mock implementation of the PurchaseDBLayer interface
type MockPurchaseDBLayer struct {
	mock.Mock
}

func (m *MockPurchaseDBLayer) CreatePurchase(ctx context.Context, in db.NewPurchase) (*models.Purchase, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Purchase), args.Error(1)
}

func (m *MockPurchaseDBLayer) ListPurchasesByCustomer(ctx context.Context, customerID int64) ([]models.Purchase, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Purchase), args.Error(1)
}

func (m *MockPurchaseDBLayer) GetCustomerPurchase(ctx context.Context, customerID, purchaseID int64) (*models.Purchase, error) {
	args := m.Called(ctx, customerID, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Purchase), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishPurchaseCompleted(ctx context.Context, event models.PurchaseCompletedEvent) error {
	return m.Called(ctx, event).Error(0)
}

func completedPurchase() *models.Purchase {
	return &models.Purchase{
		PurchaseID:    11,
		CustomerID:    3,
		PurchaseDate:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		TotalAmount:   decimal.RequireFromString("51.00"),
		PaymentMethod: models.PaymentCreditCard,
		PaymentStatus: models.PaymentCompleted,
		Items: []models.PurchaseTicket{
			{TicketID: 1, Quantity: 2, Subtotal: decimal.RequireFromString("51.00")},
		},
	}
}

func TestBuyRejectsInvalidCartsBeforeStorage(t *testing.T) {
	mockDB := new(MockPurchaseDBLayer)
	svc := purchase.NewPurchaseService(mockDB, nil, nil, logger.Discard())
	ctx := context.Background()

	cases := map[string]models.PurchaseRequest{
		"empty":          {},
		"zero quantity":  {Tickets: []models.PurchaseLineRequest{{TicketID: 1, Quantity: 0}}},
		"negative id":    {Tickets: []models.PurchaseLineRequest{{TicketID: -1, Quantity: 1}}},
		"duplicate":      {Tickets: []models.PurchaseLineRequest{{TicketID: 1, Quantity: 1}, {TicketID: 1, Quantity: 2}}},
		"unknown method": {Tickets: []models.PurchaseLineRequest{{TicketID: 1, Quantity: 1}}, PaymentMethod: "Bitcoin"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Buy(ctx, 3, req)
			assert.True(t, errors.Is(err, models.ErrValidation), "got %v", err)
		})
	}
	mockDB.AssertNotCalled(t, "CreatePurchase", mock.Anything, mock.Anything)
}

func TestBuyDefaultsPaymentMethodAndPublishes(t *testing.T) {
	mockDB := new(MockPurchaseDBLayer)
	publisher := new(MockPublisher)
	svc := purchase.NewPurchaseService(mockDB, publisher, nil, logger.Discard())
	ctx := context.Background()

	mockDB.On("CreatePurchase", ctx, mock.MatchedBy(func(in db.NewPurchase) bool {
		return in.CustomerID == 3 && in.PaymentMethod == models.PaymentCreditCard && len(in.Lines) == 1
	})).Return(completedPurchase(), nil)
	publisher.On("PublishPurchaseCompleted", mock.Anything, mock.MatchedBy(func(e models.PurchaseCompletedEvent) bool {
		return e.PurchaseID == 11 && len(e.Lines) == 1 && e.EventID != ""
	})).Return(nil)

	resp, err := svc.Buy(ctx, 3, models.PurchaseRequest{Tickets: []models.PurchaseLineRequest{{TicketID: 1, Quantity: 2}}})

	require.NoError(t, err)
	assert.Equal(t, int64(11), resp.PurchaseID)
	assert.Equal(t, "Purchase successful", resp.Message)
	assert.True(t, decimal.RequireFromString("51").Equal(resp.Total))
	mockDB.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestBuySucceedsWhenPublishFails(t *testing.T) {
	mockDB := new(MockPurchaseDBLayer)
	publisher := new(MockPublisher)
	svc := purchase.NewPurchaseService(mockDB, publisher, nil, logger.Discard())

	mockDB.On("CreatePurchase", mock.Anything, mock.Anything).Return(completedPurchase(), nil)
	publisher.On("PublishPurchaseCompleted", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	resp, err := svc.Buy(context.Background(), 3, models.PurchaseRequest{
		Tickets:       []models.PurchaseLineRequest{{TicketID: 1, Quantity: 2}},
		PaymentMethod: "PayPal",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), resp.PurchaseID)
}

func TestBuyPassesThroughStorageErrors(t *testing.T) {
	mockDB := new(MockPurchaseDBLayer)
	svc := purchase.NewPurchaseService(mockDB, nil, nil, logger.Discard())

	mockDB.On("CreatePurchase", mock.Anything, mock.Anything).Return(nil, models.NewInsufficientInventoryError(1))

	_, err := svc.Buy(context.Background(), 3, models.PurchaseRequest{Tickets: []models.PurchaseLineRequest{{TicketID: 1, Quantity: 9}}})

	assert.True(t, errors.Is(err, models.ErrInsufficientInventory))
}

func TestMyPurchasesAndTicketsViews(t *testing.T) {
	mockDB := new(MockPurchaseDBLayer)
	svc := purchase.NewPurchaseService(mockDB, nil, nil, logger.Discard())
	ctx := context.Background()

	p := completedPurchase()
	p.Items[0].Ticket = &models.Ticket{TicketType: "General", Event: &models.Event{EventName: "Jazz Night"}}
	mockDB.On("ListPurchasesByCustomer", ctx, int64(3)).Return([]models.Purchase{*p}, nil)

	purchases, err := svc.MyPurchases(ctx, 3)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, "2025-01-02 03:04:05", purchases[0].PurchaseDate)
	assert.Equal(t, "Jazz Night", purchases[0].Items[0].EventName)
	assert.Equal(t, models.PaymentCompleted, purchases[0].PaymentStatus)

	tickets, err := svc.MyTickets(ctx, 3)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "General", tickets[0].Tickets[0].TicketType)
	assert.Equal(t, "Jazz Night", tickets[0].Tickets[0].Event)
}

func TestPurchaseQR(t *testing.T) {
	mockDB := new(MockPurchaseDBLayer)
	svc := purchase.NewPurchaseService(mockDB, nil, qr.NewQRGenerator("secret"), logger.Discard())
	ctx := context.Background()

	mockDB.On("GetCustomerPurchase", ctx, int64(3), int64(11)).Return(completedPurchase(), nil)
	mockDB.On("GetCustomerPurchase", ctx, int64(4), int64(11)).Return(nil, models.NewNotFoundError("Purchase 11 not found"))

	png, err := svc.PurchaseQR(ctx, 3, 11)
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	_, err = svc.PurchaseQR(ctx, 4, 11)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
