package models

// Record is a locally owned catalog item. Field names match the persisted JSON layout.
type Record struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Tag         string  `json:"tag"`
	Image       string  `json:"image"`
	CreatedAt   int64   `json:"createdAt"` // unix millis
}
