package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Customer struct {
	bun.BaseModel `bun:"table:customers,alias:customer"`

	CustomerID       int64     `bun:"customer_id,pk,autoincrement" json:"customer_id"`
	FirstName        string    `bun:"first_name,notnull" json:"first_name"`
	LastName         string    `bun:"last_name,notnull" json:"last_name"`
	Email            string    `bun:"email,unique,notnull" json:"email"`
	PasswordHash     string    `bun:"password_hash,notnull" json:"-"`
	Role             Role      `bun:"role,notnull,default:'user'" json:"role"`
	Phone            string    `bun:"phone,nullzero" json:"phone,omitempty"`
	RegistrationDate time.Time `bun:"registration_date,notnull" json:"registration_date"`
}

// FullName is used as the default organizer name for events an admin creates.
func (c *Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
