// Package store is the key-value persistence behind the local catalog.
// Values are whole serialized documents; there are no partial writes.
package store

import (
	"context"
	"errors"
	"strings"
)

// ItemsKey namespaces the persisted record list.
const ItemsKey = "serverless-shop-items-final"

// ErrInvalidKey is returned for keys a backend cannot address safely.
var ErrInvalidKey = errors.New("invalid store key")

// Store gets, sets and removes serialized values by key.
type Store interface {
	// Get returns the value and true, or false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
