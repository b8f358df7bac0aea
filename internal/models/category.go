package models

import "github.com/uptrace/bun"

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:category"`

	CategoryID   int64  `bun:"category_id,pk,autoincrement" json:"category_id"`
	CategoryName string `bun:"category_name,unique,notnull" json:"category_name"`
	Description  string `bun:"description" json:"description"`
}
