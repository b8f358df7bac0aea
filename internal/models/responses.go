package models

import (
	"github.com/shopspring/decimal"
)

type LoginResponse struct {
	Token string `json:"token"`
}

type MeResponse struct {
	CustomerID int64 `json:"customer_id"`
	Role       Role  `json:"role"`
}

type PurchaseResponse struct {
	Message    string          `json:"message"`
	PurchaseID int64           `json:"purchase_id"`
	Total      decimal.Decimal `json:"total"`
}

// EventListing is an event joined with its venue and category plus the
// cheapest tier price, null when the event has no tiers.
type EventListing struct {
	*Event
	MinPrice decimal.NullDecimal `json:"min_price"`
}

type PurchaseItemView struct {
	TicketID   int64           `json:"ticket_id"`
	TicketType string          `json:"ticket_type"`
	EventName  string          `json:"event_name"`
	Quantity   int             `json:"quantity"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type PurchaseView struct {
	PurchaseID    int64              `json:"purchase_id"`
	PurchaseDate  string             `json:"purchase_date"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	PaymentMethod PaymentMethod      `json:"payment_method"`
	PaymentStatus PaymentStatus      `json:"payment_status"`
	Items         []PurchaseItemView `json:"items"`
}

type TicketLineView struct {
	TicketType string          `json:"ticket_type"`
	Event      string          `json:"event"`
	Quantity   int             `json:"quantity"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type MyTicketsView struct {
	PurchaseID    int64            `json:"purchase_id"`
	TotalAmount   decimal.Decimal  `json:"total_amount"`
	PaymentMethod PaymentMethod    `json:"payment_method"`
	PurchaseDate  string           `json:"purchase_date"`
	Tickets       []TicketLineView `json:"tickets"`
}

// PurchaseCompletedEvent is published once a purchase has committed.
type PurchaseCompletedEvent struct {
	EventID     string             `json:"event_id"`
	PurchaseID  int64              `json:"purchase_id"`
	CustomerID  int64              `json:"customer_id"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Method      PaymentMethod      `json:"payment_method"`
	Lines       []PurchaseLineItem `json:"lines"`
	OccurredAt  string             `json:"occurred_at"`
}

type PurchaseLineItem struct {
	TicketID int64           `json:"ticket_id"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
