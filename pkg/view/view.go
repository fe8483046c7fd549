// Package view turns records and remote collections into cards for display.
// It holds no state and does no I/O beyond writing a rendered grid.
package view

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"gitlab.connectwisedev.com/serverless-shop/models"
)

// Status lines shown next to the fetch action.
const (
	StatusFetching = "⏳ Fetching Products and Orders from AWS..."
	StatusFetched  = "✅ Fetched Products and Orders from AWS!"
	StatusFailed   = "❌ Error fetching from AWS."
	StatusReset    = "Local demo data reset."
)

// EmptyMessage is shown in place of an empty grid.
const EmptyMessage = "No items yet."

// Card is one presentational tile.
type Card struct {
	ID       string
	Heading  string
	Body     string
	Price    string
	Tag      string
	Image    string
	Footnote string
}

// Grid is an ordered set of cards; Empty drives the empty-state message.
type Grid struct {
	Cards []Card
	Empty bool
}

func Price(p float64) string {
	return fmt.Sprintf("$%.2f", p)
}

// Records renders local catalog records in the order given.
func Records(records []models.Record) Grid {
	g := Grid{Cards: make([]Card, 0, len(records)), Empty: len(records) == 0}
	for _, r := range records {
		g.Cards = append(g.Cards, Card{
			ID:      r.ID,
			Heading: r.Title,
			Body:    r.Description,
			Price:   Price(r.Price),
			Tag:     r.Tag,
			Image:   r.Image,
		})
	}
	return g
}

// Products renders the remote catalog.
func Products(products []models.RemoteProduct) Grid {
	g := Grid{Cards: make([]Card, 0, len(products)), Empty: len(products) == 0}
	for _, p := range products {
		g.Cards = append(g.Cards, Card{
			ID:       p.ID,
			Heading:  p.Name,
			Body:     p.Description,
			Price:    Price(p.Price),
			Image:    p.Image,
			Footnote: "In stock: " + strconv.Itoa(p.Quantity),
		})
	}
	return g
}

// Orders renders remote orders.
func Orders(orders []models.Order) Grid {
	g := Grid{Cards: make([]Card, 0, len(orders)), Empty: len(orders) == 0}
	for _, o := range orders {
		c := Card{
			ID:      o.OrderID,
			Heading: fmt.Sprintf("Order %s", o.OrderID),
			Body:    fmt.Sprintf("%d x %s", o.Quantity, o.ProductID),
			Tag:     o.Status,
		}
		if o.UserID != "" {
			c.Footnote = "User: " + o.UserID
		}
		g.Cards = append(g.Cards, c)
	}
	return g
}

// WriteTo writes the grid as an aligned text table.
func (g Grid) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if g.Empty {
		_, err := fmt.Fprintln(cw, EmptyMessage)
		return cw.n, err
	}
	tw := tabwriter.NewWriter(cw, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tTAG\tDETAILS")
	for _, c := range g.Cards {
		details := c.Body
		if c.Footnote != "" {
			if details != "" {
				details += " | "
			}
			details += c.Footnote
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Heading, c.Price, c.Tag, details)
	}
	err := tw.Flush()
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
