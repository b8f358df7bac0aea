package models

import (
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Ticket is a sellable tier of admission for an event, not an individual seat.
type Ticket struct {
	bun.BaseModel `bun:"table:tickets,alias:ticket"`

	TicketID          int64           `bun:"ticket_id,pk,autoincrement" json:"ticket_id"`
	EventID           int64           `bun:"event_id,notnull" json:"event_id"`
	TicketType        string          `bun:"ticket_type,notnull" json:"ticket_type"`
	Price             decimal.Decimal `bun:"price,type:decimal(10,2),notnull" json:"price"`
	QuantityAvailable int             `bun:"quantity_available,notnull" json:"quantity_available"`

	Event *Event `bun:"rel:belongs-to,join:event_id=event_id" json:"event,omitempty"`
}
