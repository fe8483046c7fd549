package importer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.connectwisedev.com/serverless-shop/models"
)

// ProductCache receives every product the import stores.
type ProductCache interface {
	SetProduct(ctx context.Context, p models.Product) error
}

// Importer upserts parsed CSV rows.
type Importer struct {
	db    *sql.DB
	cache ProductCache
	newID func() string
}

func New(db *sql.DB, cache ProductCache) *Importer {
	return &Importer{db: db, cache: cache, newID: uuid.NewString}
}

const upsertProduct = `
	INSERT INTO products (id, name, image, price, qty, out_of_stock)
	VALUES ($1, $2, $3, $4, $5, $5 = 0)
	ON CONFLICT (name) DO UPDATE SET
		image = EXCLUDED.image,
		price = EXCLUDED.price,
		qty = EXCLUDED.qty,
		out_of_stock = EXCLUDED.out_of_stock,
		updated_at = NOW()
	RETURNING id, name, description, image, price, qty, out_of_stock, created_at, updated_at`

// Import writes rows in one transaction and returns the stored products.
// A row the database rejects is logged and skipped; the rest still commit.
func (im *Importer) Import(ctx context.Context, rows []models.ProductCSV) ([]models.Product, error) {
	tx, err := im.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback on error by default

	stored := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		id := row.ID
		if id == "" {
			id = im.newID()
		}

		// savepoint so a rejected row does not abort the transaction
		if _, err := tx.ExecContext(ctx, "SAVEPOINT product_row"); err != nil {
			return nil, fmt.Errorf("failed to create savepoint: %w", err)
		}

		var p models.Product
		var image sql.NullString
		err := tx.QueryRowContext(ctx, upsertProduct, id, row.Name, nullString(row.Image), row.Price, row.Qty).
			Scan(&p.ID, &p.Name, &p.Description, &image, &p.Price, &p.Qty, &p.OutOfStock, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			zap.S().Errorf("Error processing product %s for DB UPSERT: %v", row.Name, err)
			if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT product_row"); rbErr != nil {
				return nil, fmt.Errorf("failed to roll back row %s: %w", row.Name, rbErr)
			}
			continue
		}
		if image.Valid {
			p.Image = &image.String
		}
		stored = append(stored, p)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if im.cache != nil {
		for _, p := range stored {
			// soft failure, the API falls back to the database
			if err := im.cache.SetProduct(ctx, p); err != nil {
				zap.S().Warnf("Error caching product %s: %v", p.Name, err)
			}
		}
	}

	zap.S().Infof("Imported %d of %d products.", len(stored), len(rows))
	return stored, nil
}

// nullString converts a Go string to sql.NullString for nullable DB columns
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
