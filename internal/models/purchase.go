package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "Credit Card"
	PaymentDebitCard  PaymentMethod = "Debit Card"
	PaymentPayPal     PaymentMethod = "PayPal"
	PaymentCash       PaymentMethod = "Cash"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentDebitCard, PaymentPayPal, PaymentCash:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentRefunded  PaymentStatus = "Refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type Purchase struct {
	bun.BaseModel `bun:"table:purchases,alias:purchase"`

	PurchaseID    int64           `bun:"purchase_id,pk,autoincrement" json:"purchase_id"`
	CustomerID    int64           `bun:"customer_id,notnull" json:"customer_id"`
	PurchaseDate  time.Time       `bun:"purchase_date,notnull" json:"purchase_date"`
	TotalAmount   decimal.Decimal `bun:"total_amount,type:decimal(10,2),notnull" json:"total_amount"`
	PaymentMethod PaymentMethod   `bun:"payment_method,notnull" json:"payment_method"`
	PaymentStatus PaymentStatus   `bun:"payment_status,notnull,default:'Pending'" json:"payment_status"`

	Customer *Customer        `bun:"rel:belongs-to,join:customer_id=customer_id" json:"customer,omitempty"`
	Items    []PurchaseTicket `bun:"-" json:"items,omitempty"`
}

// PurchaseTicket is one (ticket tier, quantity) line of a purchase.
type PurchaseTicket struct {
	bun.BaseModel `bun:"table:purchase_tickets,alias:purchase_ticket"`

	PurchaseTicketID int64           `bun:"purchase_ticket_id,pk,autoincrement" json:"purchase_ticket_id"`
	PurchaseID       int64           `bun:"purchase_id,notnull,unique:uq_purchase_ticket_purchase_id_ticket_id" json:"purchase_id"`
	TicketID         int64           `bun:"ticket_id,notnull,unique:uq_purchase_ticket_purchase_id_ticket_id" json:"ticket_id"`
	Quantity         int             `bun:"quantity,notnull" json:"quantity"`
	Subtotal         decimal.Decimal `bun:"subtotal,type:decimal(10,2),notnull" json:"subtotal"`

	Ticket *Ticket `bun:"rel:belongs-to,join:ticket_id=ticket_id" json:"ticket,omitempty"`
}
