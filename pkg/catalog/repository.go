// Package catalog owns the locally created catalog records and keeps them
// synchronized with a store.Store.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.connectwisedev.com/serverless-shop/models"
	"gitlab.connectwisedev.com/serverless-shop/pkg/store"
)

// Repository is the in-memory record list. Every mutation writes the full
// list back to the store before it becomes visible.
type Repository struct {
	mu       sync.Mutex
	items    []models.Record
	store    store.Store
	key      string
	now      func() time.Time
	newID    func() string
	fallback FallbackPolicy
}

// Option configures a Repository.
type Option func(*Repository)

func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(r *Repository) { r.newID = gen }
}

// WithKey overrides store.ItemsKey.
func WithKey(key string) Option {
	return func(r *Repository) { r.key = key }
}

func WithFallback(p FallbackPolicy) Option {
	return func(r *Repository) { r.fallback = p }
}

// NewRepository returns an empty repository; call Load to populate it.
func NewRepository(s store.Store, opts ...Option) *Repository {
	r := &Repository{
		store:    s,
		key:      store.ItemsKey,
		now:      time.Now,
		newID:    func() string { return "item-" + uuid.NewString() },
		fallback: SeedFallback,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns a copy of the current records, newest creations first.
func (r *Repository) List() []models.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneRecords(r.items)
}

// Get returns the record with id.
func (r *Repository) Get(id string) (models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(id); i >= 0 {
		return r.items[i], nil
	}
	return models.Record{}, &NotFoundError{ID: id}
}

// Create validates in, assigns an id and timestamp, prepends the record and persists.
func (r *Repository) Create(ctx context.Context, in RecordInput) (models.Record, error) {
	title := trimmed(in.Title)
	if title == "" {
		return models.Record{}, &ValidationError{Field: "title", Reason: "is required"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec := models.Record{
		ID:          r.uniqueID(),
		Title:       title,
		Description: trimmed(in.Description),
		Tag:         trimmed(in.Tag),
		Image:       trimmed(in.Image),
		CreatedAt:   r.now().UnixMilli(),
	}
	if in.Price != nil {
		rec.Price = ParsePrice(*in.Price)
	}

	next := make([]models.Record, 0, len(r.items)+1)
	next = append(next, rec)
	next = append(next, r.items...)
	if err := r.commit(ctx, next); err != nil {
		return models.Record{}, err
	}
	return rec, nil
}

// Update merges the provided fields of in over the record with id.
// ID and CreatedAt never change.
func (r *Repository) Update(ctx context.Context, id string, in RecordInput) (models.Record, error) {
	if in.Title != nil && trimmed(in.Title) == "" {
		return models.Record{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Record{}, &NotFoundError{ID: id}
	}

	rec := r.items[i]
	if in.Title != nil {
		rec.Title = trimmed(in.Title)
	}
	if in.Description != nil {
		rec.Description = trimmed(in.Description)
	}
	if in.Price != nil {
		rec.Price = ParsePrice(*in.Price)
	}
	if in.Tag != nil {
		rec.Tag = trimmed(in.Tag)
	}
	if in.Image != nil {
		rec.Image = trimmed(in.Image)
	}

	next := cloneRecords(r.items)
	next[i] = rec
	if err := r.commit(ctx, next); err != nil {
		return models.Record{}, err
	}
	return rec, nil
}

// Delete removes the record with id. An unknown id is a no-op; the list is
// persisted either way.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]models.Record, 0, len(r.items))
	for _, rec := range r.items {
		if rec.ID != id {
			next = append(next, rec)
		}
	}
	return r.commit(ctx, next)
}

// Load replaces the in-memory list with the persisted one. Missing state
// yields the seed list; corrupt state goes through the fallback policy and
// is only logged. A failing store also leaves the seed list in place, and
// that error is returned.
func (r *Repository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		r.items = SeedRecords(r.now())
		return fmt.Errorf("load catalog: %w", err)
	}
	if !ok {
		r.items = SeedRecords(r.now())
		return nil
	}

	items, err := decodeRecords(raw)
	if err != nil {
		var corrupt *StorageCorruptError
		if !errors.As(err, &corrupt) {
			corrupt = &StorageCorruptError{Key: r.key, Err: err}
		}
		corrupt.Key = r.key
		zap.S().Warnf("Discarding persisted catalog: %v", corrupt)
		r.items = r.fallback(corrupt, r.now())
		return nil
	}
	r.items = items
	return nil
}

// Reset drops the persisted list and restores the seed list in memory.
func (r *Repository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Remove(ctx, r.key); err != nil {
		return fmt.Errorf("reset catalog: %w", err)
	}
	r.items = SeedRecords(r.now())
	return nil
}

// commit persists next and only then makes it current. Callers hold r.mu.
func (r *Repository) commit(ctx context.Context, next []models.Record) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := r.store.Set(ctx, r.key, string(data)); err != nil {
		return fmt.Errorf("persist catalog: %w", err)
	}
	r.items = next
	return nil
}

func (r *Repository) indexOf(id string) int {
	for i, rec := range r.items {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

func (r *Repository) uniqueID() string {
	for {
		id := r.newID()
		if id != "" && r.indexOf(id) < 0 {
			return id
		}
	}
}

func decodeRecords(raw string) ([]models.Record, error) {
	var items []models.Record
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, &StorageCorruptError{Err: err}
	}
	if items == nil {
		return nil, &StorageCorruptError{Err: errors.New("not a record list")}
	}
	seen := make(map[string]struct{}, len(items))
	for i, rec := range items {
		if rec.ID == "" || rec.Title == "" {
			return nil, &StorageCorruptError{Err: fmt.Errorf("record %d is missing id or title", i)}
		}
		if rec.Price < 0 {
			return nil, &StorageCorruptError{Err: fmt.Errorf("record %q has a negative price", rec.ID)}
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, &StorageCorruptError{Err: fmt.Errorf("duplicate id %q", rec.ID)}
		}
		seen[rec.ID] = struct{}{}
	}
	return items, nil
}

func cloneRecords(in []models.Record) []models.Record {
	out := make([]models.Record, len(in))
	copy(out, in)
	return out
}
