package admin

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"ticketing-api/internal/logger"
	"ticketing-api/internal/models"
	"ticketing-api/internal/utils"
)

const (
	defaultOrganizer = "Admin"
	errEventNotOwned = "Event not found or not yours"
)

type AdminDBLayer interface {
	CategoryExists(ctx context.Context, id int64) (bool, error)
	VenueExists(ctx context.Context, id int64) (bool, error)
	EventExists(ctx context.Context, id int64) (bool, error)
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)

	CreateEvent(ctx context.Context, event *models.Event) error
	ListEvents(ctx context.Context, organizerEmail string) ([]models.Event, error)
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	UpdateEvent(ctx context.Context, event *models.Event, columns ...string) error
	DeleteEvent(ctx context.Context, id int64) error

	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	GetTicket(ctx context.Context, id int64) (*models.Ticket, error)
	UpdateTicket(ctx context.Context, ticket *models.Ticket, columns ...string) error
	DeleteTicket(ctx context.Context, id int64) error

	CreateVenue(ctx context.Context, venue *models.Venue) error
	GetVenue(ctx context.Context, id int64) (*models.Venue, error)
	UpdateVenue(ctx context.Context, venue *models.Venue, columns ...string) error
	DeleteVenue(ctx context.Context, id int64) error

	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category, columns ...string) error
	DeleteCategory(ctx context.Context, id int64) error

	ListPurchases(ctx context.Context) ([]models.Purchase, error)
	SetPaymentStatus(ctx context.Context, purchaseID int64, status models.PaymentStatus) error
}

type AdminService struct {
	DB     AdminDBLayer
	Logger *logger.Logger
}

func NewAdminService(db AdminDBLayer, log *logger.Logger) *AdminService {
	return &AdminService{DB: db, Logger: log}
}

// CreateEvent stores a new Upcoming event owned by the acting admin. When the
// request omits an organizer name the admin's full name is used.
func (s *AdminService) CreateEvent(ctx context.Context, adminID int64, req models.EventCreateRequest) (*models.Event, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	at, err := utils.ParseDateTime(req.EventDate)
	if err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, req.CategoryID, req.VenueID); err != nil {
		return nil, err
	}
	admin, err := s.DB.GetCustomer(ctx, adminID)
	if err != nil {
		return nil, err
	}

	organizer := req.OrganizerName
	if organizer == "" {
		organizer = admin.FullName()
	}
	if organizer == "" {
		organizer = defaultOrganizer
	}
	status := models.EventUpcoming
	if req.Status != "" {
		status = models.EventStatus(req.Status)
	}

	event := &models.Event{
		EventName:      req.EventName,
		EventDate:      at,
		Description:    req.Description,
		OrganizerName:  organizer,
		OrganizerEmail: admin.Email,
		CategoryID:     req.CategoryID,
		VenueID:        req.VenueID,
		TotalTickets:   req.TotalTickets,
		Status:         status,
	}
	if err := s.DB.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	s.Logger.Info("ADMIN", fmt.Sprintf("event %d created by customer %d", event.EventID, adminID))
	return event, nil
}

func (s *AdminService) checkRefs(ctx context.Context, categoryID, venueID int64) error {
	if categoryID != 0 {
		ok, err := s.DB.CategoryExists(ctx, categoryID)
		if err != nil {
			return err
		}
		if !ok {
			return models.NewNotFoundError("Category %d not found", categoryID)
		}
	}
	if venueID != 0 {
		ok, err := s.DB.VenueExists(ctx, venueID)
		if err != nil {
			return err
		}
		if !ok {
			return models.NewNotFoundError("Venue %d not found", venueID)
		}
	}
	return nil
}

// ownedEvent loads event id if adminID organizes it. Events of other admins
// are reported as missing.
func (s *AdminService) ownedEvent(ctx context.Context, adminID, id int64) (*models.Event, error) {
	admin, err := s.DB.GetCustomer(ctx, adminID)
	if err != nil {
		return nil, err
	}
	event, err := s.DB.GetEvent(ctx, id)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if event == nil || event.OrganizerEmail != admin.Email {
		return nil, models.NewNotFoundError(errEventNotOwned)
	}
	return event, nil
}

// ListEvents returns the events the acting admin organizes.
func (s *AdminService) ListEvents(ctx context.Context, adminID int64) ([]models.Event, error) {
	admin, err := s.DB.GetCustomer(ctx, adminID)
	if err != nil {
		return nil, err
	}
	return s.DB.ListEvents(ctx, admin.Email)
}

// UpdateEvent applies only the fields present in req and writes only their
// columns.
func (s *AdminService) UpdateEvent(ctx context.Context, adminID, id int64, req models.EventUpdateRequest) (*models.Event, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	event, err := s.ownedEvent(ctx, adminID, id)
	if err != nil {
		return nil, err
	}

	var categoryID, venueID int64
	var columns []string
	if req.EventName != nil {
		event.EventName = *req.EventName
		columns = append(columns, "event_name")
	}
	if req.EventDate != nil {
		at, err := utils.ParseDateTime(*req.EventDate)
		if err != nil {
			return nil, err
		}
		event.EventDate = at
		columns = append(columns, "event_date")
	}
	if req.Description != nil {
		event.Description = *req.Description
		columns = append(columns, "description")
	}
	if req.OrganizerName != nil {
		event.OrganizerName = *req.OrganizerName
		columns = append(columns, "organizer_name")
	}
	if req.CategoryID != nil && *req.CategoryID != event.CategoryID {
		categoryID = *req.CategoryID
		event.CategoryID = categoryID
		columns = append(columns, "category_id")
	}
	if req.VenueID != nil && *req.VenueID != event.VenueID {
		venueID = *req.VenueID
		event.VenueID = venueID
		columns = append(columns, "venue_id")
	}
	if req.TotalTickets != nil {
		event.TotalTickets = *req.TotalTickets
		columns = append(columns, "total_tickets")
	}
	if req.Status != nil {
		event.Status = models.EventStatus(*req.Status)
		columns = append(columns, "status")
	}

	if err := s.checkRefs(ctx, categoryID, venueID); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return event, nil
	}
	if err := s.DB.UpdateEvent(ctx, event, columns...); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *AdminService) DeleteEvent(ctx context.Context, adminID, id int64) error {
	if _, err := s.ownedEvent(ctx, adminID, id); err != nil {
		return err
	}
	if err := s.DB.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("ADMIN", fmt.Sprintf("event %d deleted by customer %d", id, adminID))
	return nil
}

func (s *AdminService) CreateTicket(ctx context.Context, req models.TicketCreateRequest) (*models.Ticket, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, models.NewValidationError("price must not be negative")
	}
	ok, err := s.DB.EventExists(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewNotFoundError("Event not found")
	}

	ticket := &models.Ticket{
		EventID:           req.EventID,
		TicketType:        req.TicketType,
		Price:             req.Price,
		QuantityAvailable: req.QuantityAvailable,
	}
	if err := s.DB.CreateTicket(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *AdminService) UpdateTicket(ctx context.Context, id int64, req models.TicketUpdateRequest) (*models.Ticket, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, models.NewValidationError("price must not be negative")
	}
	ticket, err := s.DB.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	var columns []string
	if req.TicketType != nil {
		ticket.TicketType = *req.TicketType
		columns = append(columns, "ticket_type")
	}
	if req.Price != nil {
		ticket.Price = *req.Price
		columns = append(columns, "price")
	}
	if req.QuantityAvailable != nil {
		ticket.QuantityAvailable = *req.QuantityAvailable
		columns = append(columns, "quantity_available")
	}
	if len(columns) == 0 {
		return ticket, nil
	}
	if err := s.DB.UpdateTicket(ctx, ticket, columns...); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *AdminService) DeleteTicket(ctx context.Context, id int64) error {
	return s.DB.DeleteTicket(ctx, id)
}

func (s *AdminService) CreateVenue(ctx context.Context, req models.VenueCreateRequest) (*models.Venue, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	venue := &models.Venue{
		VenueName: req.VenueName,
		Address:   req.Address,
		City:      req.City,
		Capacity:  req.Capacity,
		Phone:     req.Phone,
	}
	if err := s.DB.CreateVenue(ctx, venue); err != nil {
		return nil, err
	}
	return venue, nil
}

func (s *AdminService) UpdateVenue(ctx context.Context, id int64, req models.VenueUpdateRequest) (*models.Venue, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	venue, err := s.DB.GetVenue(ctx, id)
	if err != nil {
		return nil, err
	}
	var columns []string
	if req.VenueName != nil {
		venue.VenueName = *req.VenueName
		columns = append(columns, "venue_name")
	}
	if req.Address != nil {
		venue.Address = *req.Address
		columns = append(columns, "address")
	}
	if req.City != nil {
		venue.City = *req.City
		columns = append(columns, "city")
	}
	if req.Capacity != nil {
		venue.Capacity = *req.Capacity
		columns = append(columns, "capacity")
	}
	if req.Phone != nil {
		venue.Phone = *req.Phone
		columns = append(columns, "phone")
	}
	if len(columns) == 0 {
		return venue, nil
	}
	if err := s.DB.UpdateVenue(ctx, venue, columns...); err != nil {
		return nil, err
	}
	return venue, nil
}

func (s *AdminService) DeleteVenue(ctx context.Context, id int64) error {
	return s.DB.DeleteVenue(ctx, id)
}

func (s *AdminService) CreateCategory(ctx context.Context, req models.CategoryCreateRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	category := &models.Category{CategoryName: req.CategoryName, Description: req.Description}
	if err := s.DB.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *AdminService) UpdateCategory(ctx context.Context, id int64, req models.CategoryUpdateRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	category, err := s.DB.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	var columns []string
	if req.CategoryName != nil {
		category.CategoryName = *req.CategoryName
		columns = append(columns, "category_name")
	}
	if req.Description != nil {
		category.Description = *req.Description
		columns = append(columns, "description")
	}
	if len(columns) == 0 {
		return category, nil
	}
	if err := s.DB.UpdateCategory(ctx, category, columns...); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *AdminService) DeleteCategory(ctx context.Context, id int64) error {
	return s.DB.DeleteCategory(ctx, id)
}

func (s *AdminService) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	return s.DB.ListPurchases(ctx)
}

// SetPaymentStatus changes only the status column. Refunds do not return
// inventory.
func (s *AdminService) SetPaymentStatus(ctx context.Context, purchaseID int64, req models.PaymentStatusRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	status := models.PaymentStatus(req.PaymentStatus)
	if err := s.DB.SetPaymentStatus(ctx, purchaseID, status); err != nil {
		return err
	}
	s.Logger.LogPurchase("STATUS", purchaseID, fmt.Sprintf("payment status set to %s", status))
	return nil
}
