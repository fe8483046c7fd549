package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"

	"gitlab.connectwisedev.com/serverless-shop/pkg/config"
)

//go:embed schema.sql
var schema string

// DBClient holds the PostgreSQL database connection
type DBClient struct {
	db *sql.DB
}

// NewPostgresClient opens and pings the inventory database
func NewPostgresClient(cfg config.Database) (*DBClient, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Lambdas keep few concurrent requests per container
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	zap.S().Infof("Connected to PostgreSQL at %s:%s/%s", cfg.Host, cfg.Port, cfg.Name)
	return &DBClient{db: db}, nil
}

// NewDBClient wraps an already opened handle
func NewDBClient(db *sql.DB) *DBClient {
	return &DBClient{db: db}
}

// EnsureSchema creates the products and orders tables when missing
func (c *DBClient) EnsureSchema(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (c *DBClient) Close() {
	if c.db != nil {
		c.db.Close()
		zap.S().Info("PostgreSQL connection closed.")
	}
}

// GetDB returns the underlying *sql.DB instance
func (c *DBClient) GetDB() *sql.DB {
	return c.db
}
