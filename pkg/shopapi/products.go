package shopapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"gitlab.connectwisedev.com/serverless-shop/models"
	"gitlab.connectwisedev.com/serverless-shop/pkg/cache"
)

const selectProducts = `SELECT id, name, description, image, price, qty, out_of_stock, created_at, updated_at FROM products ORDER BY name ASC`

func (h *Handler) listProducts(ctx context.Context) events.APIGatewayV2HTTPResponse {
	products, err := h.productsFromCache(ctx)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			zap.S().Warnf("Error fetching from Redis (%v), falling back to DB.", err)
		}
		products, err = h.productsFromDB(ctx)
		if err != nil {
			zap.S().Errorf("Error fetching from DB: %v", err)
			return errorResponse(http.StatusInternalServerError, "Failed to retrieve products")
		}
		h.refillCache(products)
	}

	return jsonResponse(http.StatusOK, products, map[string]string{
		"Cache-Control": "public, max-age=300, must-revalidate",
	})
}

func (h *Handler) productsFromCache(ctx context.Context) ([]models.Product, error) {
	if h.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	products, err := h.cache.Products(ctx)
	if err != nil {
		return nil, err
	}
	zap.S().Infof("Retrieved %d products from Redis cache.", len(products))
	return products, nil
}

func (h *Handler) productsFromDB(ctx context.Context) ([]models.Product, error) {
	rows, err := h.db.QueryContext(ctx, selectProducts)
	if err != nil {
		return nil, fmt.Errorf("failed to query products from DB: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		var imageSQL sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &imageSQL, &p.Price, &p.Qty, &p.OutOfStock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		if imageSQL.Valid {
			p.Image = &imageSQL.String
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration from DB: %w", err)
	}

	zap.S().Infof("Retrieved %d products from PostgreSQL.", len(products))
	return products, nil
}

// refillCache repopulates the cache after a miss without blocking the response.
func (h *Handler) refillCache(products []models.Product) {
	if h.cache == nil {
		return
	}
	h.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.cache.ReplaceProducts(ctx, products); err != nil {
			zap.S().Warnf("Failed to populate cache after DB fetch: %v", err)
		}
	})
}
