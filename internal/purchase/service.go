package purchase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"ticketing-api/internal/logger"
	"ticketing-api/internal/metrics"
	"ticketing-api/internal/models"
	"ticketing-api/internal/purchase/db"
	"ticketing-api/internal/purchase/qr"
	"ticketing-api/internal/utils"
)

const publishTimeout = 5 * time.Second

type PurchaseDBLayer interface {
	CreatePurchase(ctx context.Context, in db.NewPurchase) (*models.Purchase, error)
	ListPurchasesByCustomer(ctx context.Context, customerID int64) ([]models.Purchase, error)
	GetCustomerPurchase(ctx context.Context, customerID, purchaseID int64) (*models.Purchase, error)
}

// EventPublisher announces committed purchases to other services.
type EventPublisher interface {
	PublishPurchaseCompleted(ctx context.Context, event models.PurchaseCompletedEvent) error
}

type PurchaseService struct {
	DB        PurchaseDBLayer
	Publisher EventPublisher
	QR        *qr.QRGenerator
	Logger    *logger.Logger
	now       func() time.Time
}

// NewPurchaseService wires the service. publisher may be nil.
func NewPurchaseService(db PurchaseDBLayer, publisher EventPublisher, qrGen *qr.QRGenerator, log *logger.Logger) *PurchaseService {
	return &PurchaseService{DB: db, Publisher: publisher, QR: qrGen, Logger: log, now: time.Now}
}

// Buy validates the cart and runs the purchase transaction. Nothing is
// written unless every line can be fulfilled.
func (s *PurchaseService) Buy(ctx context.Context, customerID int64, req models.PurchaseRequest) (*models.PurchaseResponse, error) {
	method, err := validate(req)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	}

	start := time.Now()
	p, err := s.DB.CreatePurchase(ctx, db.NewPurchase{
		CustomerID:    customerID,
		PaymentMethod: method,
		PurchasedAt:   s.now(),
		Lines:         req.Tickets,
	})
	metrics.PurchaseTxDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues(outcome(err)).Inc()
		s.Logger.Warn("PURCHASE", fmt.Sprintf("customer %d purchase rejected: %v", customerID, err))
		return nil, err
	}

	sold := 0
	for _, item := range p.Items {
		sold += item.Quantity
	}
	metrics.PurchasesTotal.WithLabelValues(metrics.OutcomeCompleted).Inc()
	metrics.TicketsSoldTotal.Add(float64(sold))
	s.Logger.LogPurchase("COMPLETED", p.PurchaseID, fmt.Sprintf("customer=%d tickets=%d total=%s", customerID, sold, p.TotalAmount.StringFixed(2)))

	s.publish(ctx, p)

	return &models.PurchaseResponse{
		Message:    "Purchase successful",
		PurchaseID: p.PurchaseID,
		Total:      p.TotalAmount,
	}, nil
}

func validate(req models.PurchaseRequest) (models.PaymentMethod, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return "", err
	}

	seen := make(map[int64]bool, len(req.Tickets))
	for _, line := range req.Tickets {
		if seen[line.TicketID] {
			return "", models.NewValidationError("Ticket ID %d appears more than once", line.TicketID)
		}
		seen[line.TicketID] = true
	}

	method := models.PaymentMethod(strings.TrimSpace(req.PaymentMethod))
	if method == "" {
		method = models.PaymentCreditCard
	}
	if !method.Valid() {
		return "", models.NewValidationError("Unsupported payment method %q", req.PaymentMethod)
	}
	return method, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, models.ErrInsufficientInventory):
		return metrics.OutcomeInsufficient
	case errors.Is(err, models.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, models.ErrValidation):
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeError
}

// publish is best effort: the purchase has already committed.
func (s *PurchaseService) publish(ctx context.Context, p *models.Purchase) {
	if s.Publisher == nil {
		return
	}

	event := models.PurchaseCompletedEvent{
		EventID:     utils.GenerateUUID(),
		PurchaseID:  p.PurchaseID,
		CustomerID:  p.CustomerID,
		TotalAmount: p.TotalAmount,
		Method:      p.PaymentMethod,
		OccurredAt:  utils.FormatDateTime(p.PurchaseDate),
	}
	for _, item := range p.Items {
		event.Lines = append(event.Lines, models.PurchaseLineItem{
			TicketID: item.TicketID,
			Quantity: item.Quantity,
			Subtotal: item.Subtotal,
		})
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.Publisher.PublishPurchaseCompleted(ctx, event); err != nil {
		metrics.EventPublishFailures.Inc()
		s.Logger.Error("KAFKA", fmt.Sprintf("purchase %d event not published: %v", p.PurchaseID, err))
	}
}

// MyPurchases lists the customer's purchases with their items.
func (s *PurchaseService) MyPurchases(ctx context.Context, customerID int64) ([]models.PurchaseView, error) {
	purchases, err := s.DB.ListPurchasesByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	views := make([]models.PurchaseView, 0, len(purchases))
	for _, p := range purchases {
		view := models.PurchaseView{
			PurchaseID:    p.PurchaseID,
			PurchaseDate:  utils.FormatDateTime(p.PurchaseDate),
			TotalAmount:   p.TotalAmount,
			PaymentMethod: p.PaymentMethod,
			PaymentStatus: p.PaymentStatus,
			Items:         make([]models.PurchaseItemView, 0, len(p.Items)),
		}
		for _, item := range p.Items {
			ticketType, eventName := describe(item)
			view.Items = append(view.Items, models.PurchaseItemView{
				TicketID:   item.TicketID,
				TicketType: ticketType,
				EventName:  eventName,
				Quantity:   item.Quantity,
				Subtotal:   item.Subtotal,
			})
		}
		views = append(views, view)
	}
	return views, nil
}

// MyTickets is the ticket-centric view of the same history.
func (s *PurchaseService) MyTickets(ctx context.Context, customerID int64) ([]models.MyTicketsView, error) {
	purchases, err := s.DB.ListPurchasesByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	views := make([]models.MyTicketsView, 0, len(purchases))
	for _, p := range purchases {
		view := models.MyTicketsView{
			PurchaseID:    p.PurchaseID,
			TotalAmount:   p.TotalAmount,
			PaymentMethod: p.PaymentMethod,
			PurchaseDate:  utils.FormatDateTime(p.PurchaseDate),
			Tickets:       make([]models.TicketLineView, 0, len(p.Items)),
		}
		for _, item := range p.Items {
			ticketType, eventName := describe(item)
			view.Tickets = append(view.Tickets, models.TicketLineView{
				TicketType: ticketType,
				Event:      eventName,
				Quantity:   item.Quantity,
				Subtotal:   item.Subtotal,
			})
		}
		views = append(views, view)
	}
	return views, nil
}

// PurchaseQR renders the receipt QR for one of the customer's purchases.
func (s *PurchaseService) PurchaseQR(ctx context.Context, customerID, purchaseID int64) ([]byte, error) {
	p, err := s.DB.GetCustomerPurchase(ctx, customerID, purchaseID)
	if err != nil {
		return nil, err
	}
	return s.QR.GenerateReceiptQR(p)
}

func describe(item models.PurchaseTicket) (ticketType, eventName string) {
	ticketType, eventName = "Unknown", "Unknown"
	if item.Ticket != nil {
		ticketType = item.Ticket.TicketType
		if item.Ticket.Event != nil {
			eventName = item.Ticket.Event.EventName
		}
	}
	return ticketType, eventName
}
