package models

import (
	"time"
)

// Product is an inventory row served by the backend API and cached in Redis
type Product struct {
	ID          string    `json:"id"` // UUID as string
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Image       *string   `json:"image"` // Pointer for nullable field
	Price       float64   `json:"price"`
	Qty         int       `json:"qty"`
	OutOfStock  bool      `json:"out_of_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductCSV represents a product as read from an import file
type ProductCSV struct {
	ID    string  `csv:"id"` // Optional: generated when empty
	Name  string  `csv:"name"`
	Image string  `csv:"image"`
	Price float64 `csv:"price"`
	Qty   int     `csv:"qty"`
}
