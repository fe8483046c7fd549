// Package remotesync reads the product catalog and orders from the shop API
// and tracks the state of the latest fetch.
package remotesync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"gitlab.connectwisedev.com/serverless-shop/models"
)

// Default endpoint paths. The deployed API matches them case-sensitively.
const (
	ProductsPath = "/Products"
	OrdersPath   = "/Order"
	OrderPath    = "/order"
)

// Config configures a Client. Zero paths use the defaults above.
type Config struct {
	BaseURL      string
	ProductsPath string
	OrdersPath   string
	OrderPath    string
	// HTTPClient defaults to a client without a timeout; cancel the
	// context to abandon a request.
	HTTPClient *http.Client
}

// Client talks to the shop API. It never retries or caches.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	productsPath string
	ordersPath   string
	orderPath    string
}

func NewClient(cfg Config) *Client {
	c := &Client{
		httpClient:   cfg.HTTPClient,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		productsPath: cfg.ProductsPath,
		ordersPath:   cfg.OrdersPath,
		orderPath:    cfg.OrderPath,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.productsPath == "" {
		c.productsPath = ProductsPath
	}
	if c.ordersPath == "" {
		c.ordersPath = OrdersPath
	}
	if c.orderPath == "" {
		c.orderPath = OrderPath
	}
	return c
}

// Result is the outcome of one fetch leg.
type Result[T any] struct {
	Items []T
	Err   error
}

func (r Result[T]) OK() bool { return r.Err == nil }

// Outcome carries both legs of FetchCatalogAndOrders.
type Outcome struct {
	Catalog Result[models.RemoteProduct]
	Orders  Result[models.Order]
}

// Err is nil only when both legs succeeded.
func (o Outcome) Err() error {
	switch {
	case o.Catalog.Err != nil && o.Orders.Err != nil:
		return fmt.Errorf("fetch products: %w; fetch orders: %w", o.Catalog.Err, o.Orders.Err)
	case o.Catalog.Err != nil:
		return fmt.Errorf("fetch products: %w", o.Catalog.Err)
	case o.Orders.Err != nil:
		return fmt.Errorf("fetch orders: %w", o.Orders.Err)
	}
	return nil
}

// FetchCatalogAndOrders issues both GETs concurrently. A failing leg does not
// cancel or discard the other; each reports its own result.
func (c *Client) FetchCatalogAndOrders(ctx context.Context) Outcome {
	var out Outcome
	var g errgroup.Group
	g.Go(func() error {
		out.Catalog.Items, out.Catalog.Err = c.FetchProducts(ctx)
		return nil
	})
	g.Go(func() error {
		out.Orders.Items, out.Orders.Err = c.FetchOrders(ctx)
		return nil
	})
	_ = g.Wait()
	return out
}

// FetchProducts returns GET /Products.
func (c *Client) FetchProducts(ctx context.Context) ([]models.RemoteProduct, error) {
	body, err := c.get(ctx, c.productsPath)
	if err != nil {
		return nil, err
	}
	return decodeProducts(c.productsPath, body)
}

// FetchOrders returns GET /Order.
func (c *Client) FetchOrders(ctx context.Context) ([]models.Order, error) {
	body, err := c.get(ctx, c.ordersPath)
	if err != nil {
		return nil, err
	}
	return decodeOrders(c.ordersPath, body)
}

// PlaceOrder posts an order for quantity units of a product.
func (c *Client) PlaceOrder(ctx context.Context, req models.OrderRequest) (models.OrderConfirmation, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return models.OrderConfirmation{}, fmt.Errorf("encode order: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, c.orderPath, bytes.NewReader(payload))
	if err != nil {
		return models.OrderConfirmation{}, err
	}
	return decodeConfirmation(c.orderPath, body)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &NetworkError{Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Path: path, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{Path: path, StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	return data, nil
}
