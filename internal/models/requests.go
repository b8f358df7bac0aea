package models

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,max=72"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone" validate:"omitempty,max=15"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type PurchaseLineRequest struct {
	TicketID int64 `json:"ticket_id" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,gt=0"`
}

type PurchaseRequest struct {
	Tickets       []PurchaseLineRequest `json:"tickets" validate:"required,min=1,dive"`
	PaymentMethod string                `json:"payment_method"`
}

type EventCreateRequest struct {
	EventName     string `json:"event_name" validate:"required"`
	EventDate     string `json:"event_date" validate:"required"`
	Description   string `json:"description"`
	OrganizerName string `json:"organizer_name"`
	CategoryID    int64  `json:"category_id" validate:"required,gt=0"`
	VenueID       int64  `json:"venue_id" validate:"required,gt=0"`
	TotalTickets  int    `json:"total_tickets" validate:"required,gt=0"`
	Status        string `json:"status" validate:"omitempty,oneof=Upcoming Ongoing Completed Cancelled"`
}

// EventUpdateRequest carries only the fields present in the request body.
type EventUpdateRequest struct {
	EventName     *string `json:"event_name" validate:"omitempty,min=1"`
	EventDate     *string `json:"event_date"`
	Description   *string `json:"description"`
	OrganizerName *string `json:"organizer_name" validate:"omitempty,min=1"`
	CategoryID    *int64  `json:"category_id" validate:"omitempty,gt=0"`
	VenueID       *int64  `json:"venue_id" validate:"omitempty,gt=0"`
	TotalTickets  *int    `json:"total_tickets" validate:"omitempty,gt=0"`
	Status        *string `json:"status" validate:"omitempty,oneof=Upcoming Ongoing Completed Cancelled"`
}

type TicketCreateRequest struct {
	EventID           int64           `json:"event_id" validate:"required,gt=0"`
	TicketType        string          `json:"ticket_type" validate:"required,max=50"`
	Price             decimal.Decimal `json:"price"`
	QuantityAvailable int             `json:"quantity_available" validate:"gte=0"`
}

type TicketUpdateRequest struct {
	TicketType        *string          `json:"ticket_type" validate:"omitempty,min=1,max=50"`
	Price             *decimal.Decimal `json:"price"`
	QuantityAvailable *int             `json:"quantity_available" validate:"omitempty,gte=0"`
}

type VenueCreateRequest struct {
	VenueName string `json:"venue_name" validate:"required,max=100"`
	Address   string `json:"address" validate:"required,max=200"`
	City      string `json:"city" validate:"required,max=50"`
	Capacity  int    `json:"capacity" validate:"required,gt=0"`
	Phone     string `json:"phone" validate:"omitempty,max=15"`
}

type VenueUpdateRequest struct {
	VenueName *string `json:"venue_name" validate:"omitempty,min=1,max=100"`
	Address   *string `json:"address" validate:"omitempty,min=1,max=200"`
	City      *string `json:"city" validate:"omitempty,min=1,max=50"`
	Capacity  *int    `json:"capacity" validate:"omitempty,gt=0"`
	Phone     *string `json:"phone" validate:"omitempty,max=15"`
}

type CategoryCreateRequest struct {
	CategoryName string `json:"category_name" validate:"required,max=50"`
	Description  string `json:"description"`
}

type CategoryUpdateRequest struct {
	CategoryName *string `json:"category_name" validate:"omitempty,min=1,max=50"`
	Description  *string `json:"description"`
}

type PaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=Pending Completed Failed Refunded"`
}
