package remotesync

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"gitlab.connectwisedev.com/serverless-shop/models"
)

// State is the lifecycle of the most recent Sync call.
type State int

const (
	Idle State = iota
	Pending
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Fetcher is the part of Client a Syncer needs.
type Fetcher interface {
	FetchCatalogAndOrders(ctx context.Context) Outcome
}

// Syncer holds the remote products and orders shown to the user. A
// successful sync replaces both lists; a failed one leaves them as they were.
// Syncs are not cancelled by newer ones, the last to finish wins.
type Syncer struct {
	fetcher Fetcher

	mu       sync.RWMutex
	state    State
	products []models.RemoteProduct
	orders   []models.Order
	lastErr  error
}

func NewSyncer(f Fetcher) *Syncer {
	return &Syncer{fetcher: f}
}

// Sync fetches both collections and applies the outcome.
func (s *Syncer) Sync(ctx context.Context) Outcome {
	s.mu.Lock()
	s.state = Pending
	s.mu.Unlock()

	out := s.fetcher.FetchCatalogAndOrders(ctx)
	err := out.Err()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	if err != nil {
		s.state = Failed
		zap.S().Warnf("Remote sync failed: %v", err)
		return out
	}
	s.state = Success
	s.products = out.Catalog.Items
	s.orders = out.Orders.Items
	zap.S().Infof("Fetched %d products and %d orders", len(s.products), len(s.orders))
	return out
}

func (s *Syncer) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err returns the failure of the last completed sync, if any.
func (s *Syncer) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Syncer) Products() []models.RemoteProduct {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.RemoteProduct, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Syncer) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}
