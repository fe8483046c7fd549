package shopapi

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"gitlab.connectwisedev.com/serverless-shop/models"
)

// OrderStatusCreated is the status of a freshly placed order.
const OrderStatusCreated = "created"

var (
	errProductNotFound   = errors.New("product not found")
	errInsufficientStock = errors.New("insufficient stock")
)

const selectOrders = `SELECT order_id, product_id, quantity, status, user_id, created_at FROM orders ORDER BY created_at DESC`

func (h *Handler) listOrders(ctx context.Context) events.APIGatewayV2HTTPResponse {
	rows, err := h.db.QueryContext(ctx, selectOrders)
	if err != nil {
		zap.S().Errorf("Failed to query orders: %v", err)
		return errorResponse(http.StatusInternalServerError, "Failed to retrieve orders")
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		var createdAt time.Time
		if err := rows.Scan(&o.OrderID, &o.ProductID, &o.Quantity, &o.Status, &o.UserID, &createdAt); err != nil {
			zap.S().Errorf("Failed to scan order row: %v", err)
			return errorResponse(http.StatusInternalServerError, "Failed to retrieve orders")
		}
		o.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		zap.S().Errorf("Error iterating orders: %v", err)
		return errorResponse(http.StatusInternalServerError, "Failed to retrieve orders")
	}
	return jsonResponse(http.StatusOK, orders, nil)
}

// parseOrderRequest accepts quantity as a number or a numeric string.
func parseOrderRequest(req events.APIGatewayV2HTTPRequest) (models.OrderRequest, error) {
	body := req.Body
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return models.OrderRequest{}, fmt.Errorf("decode body: %w", err)
		}
		body = string(decoded)
	}
	if !gjson.Valid(body) || !gjson.Parse(body).IsObject() {
		return models.OrderRequest{}, errors.New("body is not a JSON object")
	}
	v := gjson.Parse(body)
	return models.OrderRequest{
		ProductID: strings.TrimSpace(v.Get("product_id").String()),
		Quantity:  int(v.Get("quantity").Int()),
		UserID:    v.Get("user_id").String(),
	}, nil
}

func (h *Handler) createOrder(ctx context.Context, req events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPResponse {
	in, err := parseOrderRequest(req)
	if err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid request body")
	}
	if in.ProductID == "" || in.Quantity <= 0 {
		return errorResponse(http.StatusBadRequest, "Invalid product_id or quantity")
	}

	order := models.Order{
		OrderID:   h.newID(),
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Status:    OrderStatusCreated,
		UserID:    in.UserID,
	}
	err = h.placeOrder(ctx, order, h.now().UTC())
	switch {
	case errors.Is(err, errProductNotFound):
		return errorResponse(http.StatusNotFound, "Product not found")
	case errors.Is(err, errInsufficientStock):
		return errorResponse(http.StatusConflict, "Insufficient stock")
	case err != nil:
		zap.S().Errorf("Failed to place order for %s: %v", in.ProductID, err)
		return errorResponse(http.StatusInternalServerError, "Failed to place order")
	}

	if h.cache != nil {
		if err := h.cache.InvalidateProduct(ctx, order.ProductID); err != nil {
			zap.S().Warnf("Failed to invalidate cached product %s: %v", order.ProductID, err)
		}
	}

	zap.S().Infof("Order %s created: %d x %s", order.OrderID, order.Quantity, order.ProductID)
	return jsonResponse(http.StatusCreated, models.OrderConfirmation{
		Message:   "Order created",
		OrderID:   order.OrderID,
		ProductID: order.ProductID,
		Quantity:  order.Quantity,
	}, nil)
}

// placeOrder decrements stock and records the order in one transaction.
func (h *Handler) placeOrder(ctx context.Context, o models.Order, at time.Time) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback on error by default

	var stock int
	err = tx.QueryRowContext(ctx, `SELECT qty FROM products WHERE id = $1 FOR UPDATE`, o.ProductID).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return errProductNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read stock: %w", err)
	}
	if stock < o.Quantity {
		return errInsufficientStock
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET qty = qty - $1, out_of_stock = (qty - $1 = 0), updated_at = $3
		WHERE id = $2 AND qty >= $1`, o.Quantity, o.ProductID, at)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errInsufficientStock
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (order_id, product_id, quantity, status, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`, o.OrderID, o.ProductID, o.Quantity, o.Status, o.UserID, at)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
