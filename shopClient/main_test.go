package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.connectwisedev.com/serverless-shop/pkg/catalog"
	"gitlab.connectwisedev.com/serverless-shop/pkg/config"
	"gitlab.connectwisedev.com/serverless-shop/pkg/store"
	"gitlab.connectwisedev.com/serverless-shop/pkg/view"
)

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	return &config.Config{
		StoreBackend: config.BackendFile,
		DataDir:      t.TempDir(),
		APIBaseURL:   apiURL,
	}
}

func runCLI(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), cfg, args, &out)
	return out.String(), err
}

func TestRun_ListSeeded(t *testing.T) {
	cfg := testConfig(t, "http://unused")

	out, err := runCLI(t, cfg, "list", "-sort", "title-asc")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[1], "svc-s3")
	assert.Contains(t, lines[3], "svc-lambda")
	assert.Contains(t, lines[4], "svc-dynamodb")
}

func TestRun_AddEditDeletePersist(t *testing.T) {
	cfg := testConfig(t, "http://unused")

	out, err := runCLI(t, cfg, "add", "-title", "Widget", "-price", "12.345", "-tag", "tools")
	require.NoError(t, err)
	id := strings.TrimSpace(strings.Split(strings.TrimSpace(out), "\n")[1])
	assert.True(t, strings.HasPrefix(id, "item-"))

	_, err = runCLI(t, cfg, "edit", "-id", id, "-description", "Shiny")
	require.NoError(t, err)

	out, err = runCLI(t, cfg, "list", "-search", "shiny")
	require.NoError(t, err)
	assert.Contains(t, out, "Widget")
	assert.Contains(t, out, "$12.35")
	assert.Contains(t, out, "tools", "edit kept the tag")

	_, err = runCLI(t, cfg, "delete", "-id", id)
	require.NoError(t, err)
	out, err = runCLI(t, cfg, "list", "-search", "widget")
	require.NoError(t, err)
	assert.Equal(t, view.EmptyMessage+"\n", out)
}

func TestRun_Errors(t *testing.T) {
	cfg := testConfig(t, "http://unused")

	_, err := runCLI(t, cfg, "add", "-title", "  ")
	assert.ErrorIs(t, err, catalog.ErrValidation)

	_, err = runCLI(t, cfg, "edit", "-id", "nope", "-title", "x")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = runCLI(t, cfg, "list", "-sort", "price")
	assert.Error(t, err)

	_, err = runCLI(t, cfg, "bogus")
	assert.Error(t, err)
}

func TestRun_FetchAndOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/prod/Products", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"product_id":"p-1","name":"Credits","price":2,"quantity":5}]`))
	})
	mux.HandleFunc("/prod/Order", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"order_id":"o-1","product_id":"p-1","quantity":1,"status":"created"}]`))
	})
	mux.HandleFunc("/prod/order", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Order created","order_id":"o-2","product_id":"p-1","quantity":2}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	cfg := testConfig(t, srv.URL+"/prod")

	out, err := runCLI(t, cfg, "fetch")
	require.NoError(t, err)
	assert.Contains(t, out, view.StatusFetched)
	assert.Contains(t, out, "Credits")
	assert.Contains(t, out, "o-1")

	out, err = runCLI(t, cfg, "order", "-product", "p-1", "-quantity", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "o-2")
}

func TestRun_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	out, err := runCLI(t, testConfig(t, srv.URL), "fetch")
	require.Error(t, err)
	assert.Contains(t, out, view.StatusFailed)
}

func TestRun_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, "http://unused")
	cfg.StoreBackend = config.BackendRedis
	cfg.Redis.Addr = mr.Addr()

	_, err := runCLI(t, cfg, "add", "-title", "Cached widget")
	require.NoError(t, err)
	assert.True(t, mr.Exists(store.RedisKeyPrefix+store.ItemsKey))

	out, err := runCLI(t, cfg, "list", "-search", "cached")
	require.NoError(t, err)
	assert.Contains(t, out, "Cached widget")

	mr.Close()
	_, err = runCLI(t, cfg, "list")
	assert.Error(t, err, "unreachable redis fails the command")
}
