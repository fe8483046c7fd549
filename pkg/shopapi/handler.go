// Package shopapi is the backend behind the shop's HTTP API: product listing,
// order listing and order placement, served from one Lambda.
package shopapi

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.connectwisedev.com/serverless-shop/models"
)

// ProductCache is the Redis product cache. A nil cache disables caching.
type ProductCache interface {
	Products(ctx context.Context) ([]models.Product, error)
	ReplaceProducts(ctx context.Context, products []models.Product) error
	InvalidateProduct(ctx context.Context, id string) error
}

// Handler routes API Gateway HTTP API requests.
type Handler struct {
	db    *sql.DB
	cache ProductCache
	newID func() string
	now   func() time.Time
	// background runs work that must not delay the response
	background func(func())
}

type Option func(*Handler)

func WithClock(now func() time.Time) Option { return func(h *Handler) { h.now = now } }

func WithIDGenerator(gen func() string) Option { return func(h *Handler) { h.newID = gen } }

// WithBackground replaces the goroutine used for cache refills.
func WithBackground(run func(func())) Option { return func(h *Handler) { h.background = run } }

func NewHandler(db *sql.DB, cache ProductCache, opts ...Option) *Handler {
	h := &Handler{
		db:         db,
		cache:      cache,
		newID:      uuid.NewString,
		now:        time.Now,
		background: func(f func()) { go f() },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// routePath lower-cases the raw path, trims a trailing slash and strips the
// "/prod" stage prefix.
func routePath(raw string) string {
	path := strings.TrimRight(strings.ToLower(raw), "/")
	if path == "/prod" {
		return ""
	}
	if strings.HasPrefix(path, "/prod/") {
		path = path[len("/prod"):]
	}
	return path
}

// Handle is the Lambda entry point.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(req.RequestContext.HTTP.Method)
	path := routePath(req.RawPath)
	zap.S().Infof("Received request: %s %s", method, req.RawPath)

	switch {
	case method == http.MethodOptions:
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusNoContent, Headers: headers(nil)}, nil
	case method == http.MethodGet && path == "/products":
		return h.listProducts(ctx), nil
	case method == http.MethodGet && path == "/order":
		return h.listOrders(ctx), nil
	case method == http.MethodPost && path == "/order":
		return h.createOrder(ctx, req), nil
	case method == http.MethodGet && path == "/hello":
		return jsonResponse(http.StatusOK, map[string]string{"message": "Hello from Lambda!"}, nil), nil
	default:
		return errorResponse(http.StatusNotFound, "Route not found"), nil
	}
}
