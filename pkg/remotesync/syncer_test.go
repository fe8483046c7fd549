package remotesync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.connectwisedev.com/serverless-shop/models"
)

type scriptedFetcher struct {
	outcomes []Outcome
	calls    int
	during   func()
}

func (f *scriptedFetcher) FetchCatalogAndOrders(context.Context) Outcome {
	if f.during != nil {
		f.during()
	}
	out := f.outcomes[f.calls]
	f.calls++
	return out
}

func ok(products []models.RemoteProduct, orders []models.Order) Outcome {
	return Outcome{
		Catalog: Result[models.RemoteProduct]{Items: products},
		Orders:  Result[models.Order]{Items: orders},
	}
}

func TestSyncer_StateMachine(t *testing.T) {
	first := []models.RemoteProduct{{ID: "p-1", Name: "One"}}
	second := []models.RemoteProduct{{ID: "p-2", Name: "Two"}}
	failed := Outcome{
		Catalog: Result[models.RemoteProduct]{Err: &NetworkError{Path: ProductsPath, StatusCode: 500}},
		Orders:  Result[models.Order]{Items: []models.Order{{OrderID: "ignored"}}},
	}
	f := &scriptedFetcher{outcomes: []Outcome{
		ok(first, []models.Order{{OrderID: "o-1"}}),
		failed,
		ok(second, nil),
	}}
	s := NewSyncer(f)
	assert.Equal(t, Idle, s.State())

	var seen State
	f.during = func() { seen = s.State() }

	s.Sync(context.Background())
	assert.Equal(t, Pending, seen)
	assert.Equal(t, Success, s.State())
	assert.Equal(t, first, s.Products())
	assert.Len(t, s.Orders(), 1)

	out := s.Sync(context.Background())
	require.Error(t, out.Err())
	assert.Equal(t, Pending, seen, "re-enters pending after success")
	assert.Equal(t, Failed, s.State())
	assert.ErrorIs(t, s.Err(), ErrNetwork)
	assert.Equal(t, first, s.Products(), "failed sync keeps previous products")
	assert.Equal(t, "o-1", s.Orders()[0].OrderID, "and previous orders")

	s.Sync(context.Background())
	assert.Equal(t, Pending, seen, "re-enters pending after failure")
	assert.Equal(t, Success, s.State())
	assert.NoError(t, s.Err())
	assert.Equal(t, second, s.Products(), "lists are replaced, not merged")
	assert.Empty(t, s.Orders())
}

func TestSyncer_ReturnsCopies(t *testing.T) {
	s := NewSyncer(&scriptedFetcher{outcomes: []Outcome{ok([]models.RemoteProduct{{ID: "p-1"}}, nil)}})
	s.Sync(context.Background())

	s.Products()[0].ID = "changed"
	assert.Equal(t, "p-1", s.Products()[0].ID)
}

func TestOutcomeErr(t *testing.T) {
	assert.NoError(t, Outcome{}.Err())

	boom := errors.New("boom")
	assert.ErrorIs(t, Outcome{Orders: Result[models.Order]{Err: boom}}.Err(), boom)
	assert.ErrorContains(t, Outcome{Catalog: Result[models.RemoteProduct]{Err: boom}}.Err(), "fetch products")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "unknown", State(9).String())
}
