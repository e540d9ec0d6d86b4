// Package store keeps character, attribute and token records for the
// resolvers. The memory implementation lives here; sqlite has its own
// subpackage.
package store

import "context"

// Store is a keyed record store.
type Store[T any] interface {
	Get(ctx context.Context, id string) (T, bool, error)
	Put(ctx context.Context, id string, v T) error
	NewID() string
}
