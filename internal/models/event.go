package models

import (
	"time"

	"github.com/uptrace/bun"
)

type EventStatus string

const (
	EventUpcoming  EventStatus = "Upcoming"
	EventOngoing   EventStatus = "Ongoing"
	EventCompleted EventStatus = "Completed"
	EventCancelled EventStatus = "Cancelled"
)

type Event struct {
	bun.BaseModel `bun:"table:events,alias:event"`

	EventID        int64       `bun:"event_id,pk,autoincrement" json:"event_id"`
	EventName      string      `bun:"event_name,notnull" json:"event_name"`
	EventDate      time.Time   `bun:"event_date,notnull" json:"event_date"`
	Description    string      `bun:"description" json:"description"`
	OrganizerName  string      `bun:"organizer_name,notnull" json:"organizer_name"`
	OrganizerEmail string      `bun:"organizer_email" json:"organizer_email,omitempty"`
	CategoryID     int64       `bun:"category_id,notnull" json:"category_id"`
	VenueID        int64       `bun:"venue_id,notnull" json:"venue_id"`
	TotalTickets   int         `bun:"total_tickets,notnull" json:"total_tickets"`
	TicketsSold    int         `bun:"tickets_sold,notnull,default:0" json:"tickets_sold"`
	Status         EventStatus `bun:"status,notnull,default:'Upcoming'" json:"status"`

	Category *Category `bun:"rel:belongs-to,join:category_id=category_id" json:"category,omitempty"`
	Venue    *Venue    `bun:"rel:belongs-to,join:venue_id=venue_id" json:"venue,omitempty"`
}
