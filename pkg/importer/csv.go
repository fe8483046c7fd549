// Package importer loads inventory from CSV into PostgreSQL and the product cache.
package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"gitlab.connectwisedev.com/serverless-shop/models"
)

// csvRow keeps every column as text so one bad cell skips its row instead
// of failing the whole file.
type csvRow struct {
	ID    string `csv:"id"`
	Name  string `csv:"name"`
	Image string `csv:"image"`
	Price string `csv:"price"`
	Qty   string `csv:"qty"`
}

// ParseProducts decodes a CSV with header id,name,image,price,qty.
// Rows with an empty name, a bad price or a bad quantity are skipped.
func ParseProducts(data []byte) ([]models.ProductCSV, error) {
	var rows []*csvRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("CSV is empty or has only headers")
	}

	products := make([]models.ProductCSV, 0, len(rows))
	for i, row := range rows {
		line := i + 2 // header is line 1
		p := models.ProductCSV{
			ID:    strings.TrimSpace(row.ID),
			Name:  strings.TrimSpace(row.Name),
			Image: strings.TrimSpace(row.Image),
		}
		if p.Name == "" {
			zap.S().Warnf("Skipping row %d: empty name", line)
			continue
		}

		var err error
		p.Price, err = strconv.ParseFloat(strings.TrimSpace(row.Price), 64)
		if err != nil || p.Price < 0 {
			zap.S().Warnf("Skipping row %d: invalid price %q", line, row.Price)
			continue
		}
		p.Qty, err = strconv.Atoi(strings.TrimSpace(row.Qty))
		if err != nil || p.Qty < 0 {
			zap.S().Warnf("Skipping row %d: invalid quantity %q", line, row.Qty)
			continue
		}
		products = append(products, p)
	}
	return products, nil
}
