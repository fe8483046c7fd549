package shop

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.connectwisedev.com/serverless-shop/models"
	"gitlab.connectwisedev.com/serverless-shop/pkg/catalog"
	"gitlab.connectwisedev.com/serverless-shop/pkg/query"
	"gitlab.connectwisedev.com/serverless-shop/pkg/remotesync"
	"gitlab.connectwisedev.com/serverless-shop/pkg/store"
	"gitlab.connectwisedev.com/serverless-shop/pkg/view"
)

type fakeAPI struct {
	productsStatus int
	products       string
	orders         string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/Products":
		w.WriteHeader(f.productsStatus)
		_, _ = w.Write([]byte(f.products))
	case "/Order":
		_, _ = w.Write([]byte(f.orders))
	case "/order":
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Order created","order_id":"o-1","product_id":"p-1","quantity":1}`))
	default:
		http.NotFound(w, r)
	}
}

func newSession(t *testing.T, api *fakeAPI) *Session {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client := remotesync.NewClient(remotesync.Config{BaseURL: srv.URL})
	s := NewSession(catalog.NewRepository(store.NewMemoryStore()), remotesync.NewSyncer(client), client)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestSession_SearchAndSort(t *testing.T) {
	s := newSession(t, &fakeAPI{productsStatus: 200, products: "[]", orders: "[]"})

	assert.Len(t, s.Visible(), 4)
	assert.Equal(t, "svc-s3", s.Visible()[0].ID, "newest first by default")

	s.SetSearch("DATA")
	got := s.Visible()
	require.Len(t, got, 1)
	assert.Equal(t, "svc-dynamodb", got[0].ID)

	s.SetSearch("")
	s.SetSort(query.SortTitleAsc)
	assert.Equal(t, "Amazon S3", s.Catalog().Cards[0].Heading)
}

func TestSession_AddEditDelete(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, &fakeAPI{productsStatus: 200, products: "[]", orders: "[]"})

	rec, err := s.Add(ctx, catalog.RecordInput{Title: catalog.Text("Widget"), Price: catalog.Text("bad")})
	require.NoError(t, err)
	assert.Zero(t, rec.Price)
	assert.Equal(t, `Added "Widget".`, s.Status())

	_, err = s.Add(ctx, catalog.RecordInput{Title: catalog.Text("")})
	assert.ErrorIs(t, err, catalog.ErrValidation)
	assert.Equal(t, "title is required", s.Status())
	assert.Len(t, s.Visible(), 5)

	_, err = s.Edit(ctx, "missing", catalog.RecordInput{Tag: catalog.Text("x")})
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	require.NoError(t, s.Delete(ctx, rec.ID))
	require.NoError(t, s.Delete(ctx, rec.ID))
	assert.Len(t, s.Visible(), 4)

	require.NoError(t, s.Reset(ctx))
	assert.Equal(t, view.StatusReset, s.Status())
}

func TestSession_FetchFailureKeepsProducts(t *testing.T) {
	api := &fakeAPI{productsStatus: 200, products: `[{"product_id":"p-1","name":"Credits","price":2}]`, orders: "[]"}
	s := newSession(t, api)

	require.NoError(t, s.Fetch(context.Background()))
	assert.Equal(t, view.StatusFetched, s.Status())
	require.Len(t, s.Products().Cards, 1)

	api.productsStatus = http.StatusInternalServerError
	api.products = `{"error":"down"}`

	err := s.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, view.StatusFailed, s.Status())
	assert.Equal(t, remotesync.Failed, s.FetchState())
	require.Len(t, s.Products().Cards, 1)
	assert.Equal(t, "Credits", s.Products().Cards[0].Heading)
}

func TestSession_FetchDoesNotTouchLocalRecords(t *testing.T) {
	s := newSession(t, &fakeAPI{productsStatus: 200, products: `[{"id":"svc-s3","name":"Remote S3"}]`, orders: "[]"})
	before := s.Visible()

	require.NoError(t, s.Fetch(context.Background()))
	assert.Equal(t, before, s.Visible())
}

func TestSession_PlaceOrder(t *testing.T) {
	s := newSession(t, &fakeAPI{productsStatus: 200, products: "[]", orders: "[]"})

	conf, err := s.PlaceOrder(context.Background(), "p-1", 1)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmation{Message: "Order created", OrderID: "o-1", ProductID: "p-1", Quantity: 1}, conf)

	_, err = s.PlaceOrder(context.Background(), "p-1", 0)
	assert.ErrorIs(t, err, catalog.ErrValidation)
}
