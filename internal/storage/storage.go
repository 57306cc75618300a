// Package storage provides the named key-value slots that stand in for browser
// local storage. Values are opaque byte blobs; callers own the encoding.
package storage

import (
	"context"
	"errors"
)

// Slot names used by the storefront.
const (
	KeyCart        = "cartItems"
	KeyCurrentUser = "currentUser"
	KeyHistory     = "purchaseHistory"
	KeyLastReceipt = "last_receipt"
)

// ErrNotFound is returned by Get when a slot is absent.
var ErrNotFound = errors.New("storage slot not found")

// Storage defines access to named slots.
type Storage interface {
	// Get returns the blob stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the blob stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes the slot. Removing an absent slot is not an error.
	Remove(ctx context.Context, key string) error
}

// namespaced scopes every key of an underlying Storage under a prefix.
type namespaced struct {
	base   Storage
	prefix string
}

// Namespace returns a Storage whose slots live under "<ns>:" in base. Each shopper
// session gets its own namespace, the way each browser has its own local storage.
func Namespace(base Storage, ns string) Storage {
	return &namespaced{base: base, prefix: ns + ":"}
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.base.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.base.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Remove(ctx context.Context, key string) error {
	return n.base.Remove(ctx, n.prefix+key)
}
