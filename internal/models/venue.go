package models

import "github.com/uptrace/bun"

type Venue struct {
	bun.BaseModel `bun:"table:venues,alias:venue"`

	VenueID   int64  `bun:"venue_id,pk,autoincrement" json:"venue_id"`
	VenueName string `bun:"venue_name,notnull" json:"venue_name"`
	Address   string `bun:"address,notnull" json:"address"`
	City      string `bun:"city,notnull" json:"city"`
	Capacity  int    `bun:"capacity,notnull" json:"capacity"`
	Phone     string `bun:"phone,nullzero" json:"phone,omitempty"`
}
