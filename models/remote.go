package models

// RemoteProduct is a catalog entry as returned by GET /Products.
// The backend has used both id/product_id and name/title over time.
type RemoteProduct struct {
	ID          string  `json:"product_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity"`
	Image       string  `json:"image,omitempty"`
}

// Order is a placed order, shared by the backend API and the remote client
type Order struct {
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Status    string `json:"status"`
	UserID    string `json:"user_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// OrderRequest is the body of POST /order
type OrderRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UserID    string `json:"user_id,omitempty"`
}

// OrderConfirmation is returned by POST /order on success
type OrderConfirmation struct {
	Message   string `json:"message"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
