// Package shop holds the state of one interactive shop session: the local
// catalog, the current search and sort, the remote collections and a status line.
package shop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"gitlab.connectwisedev.com/serverless-shop/models"
	"gitlab.connectwisedev.com/serverless-shop/pkg/catalog"
	"gitlab.connectwisedev.com/serverless-shop/pkg/query"
	"gitlab.connectwisedev.com/serverless-shop/pkg/remotesync"
	"gitlab.connectwisedev.com/serverless-shop/pkg/view"
)

// OrderPlacer submits orders to the remote API.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req models.OrderRequest) (models.OrderConfirmation, error)
}

// Session owns the repository and remote state for one user.
type Session struct {
	repo   *catalog.Repository
	syncer *remotesync.Syncer
	orders OrderPlacer

	mu     sync.Mutex
	search string
	sort   query.SortKey
	status string
}

func NewSession(repo *catalog.Repository, syncer *remotesync.Syncer, orders OrderPlacer) *Session {
	return &Session{repo: repo, syncer: syncer, orders: orders, sort: query.SortNewest}
}

// Load reads the persisted catalog. Only store I/O failures are returned.
func (s *Session) Load(ctx context.Context) error {
	if err := s.repo.Load(ctx); err != nil {
		s.setStatus("Could not read saved items; showing defaults.")
		return err
	}
	return nil
}

func (s *Session) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = term
}

func (s *Session) SetSort(key query.SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = key
}

// Visible returns the catalog filtered by the search term and ordered by the sort key.
func (s *Session) Visible() []models.Record {
	s.mu.Lock()
	term, key := s.search, s.sort
	s.mu.Unlock()
	return query.Apply(s.repo.List(), term, key)
}

// Catalog renders Visible.
func (s *Session) Catalog() view.Grid {
	return view.Records(s.Visible())
}

func (s *Session) Add(ctx context.Context, in catalog.RecordInput) (models.Record, error) {
	rec, err := s.repo.Create(ctx, in)
	if err != nil {
		s.fail("add item", err)
		return models.Record{}, err
	}
	s.setStatus(fmt.Sprintf("Added %q.", rec.Title))
	return rec, nil
}

func (s *Session) Edit(ctx context.Context, id string, in catalog.RecordInput) (models.Record, error) {
	rec, err := s.repo.Update(ctx, id, in)
	if err != nil {
		s.fail("edit item", err)
		return models.Record{}, err
	}
	s.setStatus(fmt.Sprintf("Saved %q.", rec.Title))
	return rec, nil
}

func (s *Session) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.fail("delete item", err)
		return err
	}
	s.setStatus("Item deleted.")
	return nil
}

// Reset clears saved items and restores the defaults.
func (s *Session) Reset(ctx context.Context) error {
	if err := s.repo.Reset(ctx); err != nil {
		s.fail("reset", err)
		return err
	}
	s.setStatus(view.StatusReset)
	return nil
}

// Fetch syncs the remote products and orders. A failure keeps whatever was
// shown before and is reported in the status line and the returned error.
func (s *Session) Fetch(ctx context.Context) error {
	s.setStatus(view.StatusFetching)
	out := s.syncer.Sync(ctx)
	if err := out.Err(); err != nil {
		s.setStatus(view.StatusFailed)
		return err
	}
	s.setStatus(view.StatusFetched)
	return nil
}

// PlaceOrder submits an order; the caller refreshes with Fetch to see stock changes.
func (s *Session) PlaceOrder(ctx context.Context, productID string, quantity int) (models.OrderConfirmation, error) {
	if productID == "" || quantity <= 0 {
		err := &catalog.ValidationError{Field: "order", Reason: "needs a product and a positive quantity"}
		s.fail("place order", err)
		return models.OrderConfirmation{}, err
	}
	conf, err := s.orders.PlaceOrder(ctx, models.OrderRequest{ProductID: productID, Quantity: quantity})
	if err != nil {
		s.fail("place order", err)
		return models.OrderConfirmation{}, err
	}
	s.setStatus(fmt.Sprintf("Order %s placed.", conf.OrderID))
	return conf, nil
}

func (s *Session) Products() view.Grid { return view.Products(s.syncer.Products()) }

func (s *Session) Orders() view.Grid { return view.Orders(s.syncer.Orders()) }

// FetchState is the state of the latest remote sync.
func (s *Session) FetchState() remotesync.State { return s.syncer.State() }

func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) setStatus(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = msg
}

func (s *Session) fail(action string, err error) {
	switch {
	case errors.Is(err, catalog.ErrValidation), errors.Is(err, catalog.ErrNotFound):
		s.setStatus(err.Error())
	default:
		zap.S().Errorf("Failed to %s: %v", action, err)
		s.setStatus(fmt.Sprintf("Could not %s.", action))
	}
}
