package storage

import "errors"

var (
	ErrNotFound = errors.New("key not found")
)

// Store is a synchronous key/value adapter for user-scoped preferences.
// Implementations may fail with storage errors (quota, disabled backend);
// callers are expected to absorb them rather than surface them.
type Store interface {
	Get(key string) (string, error)
	Set(key string, value string) error
	Delete(key string) error
	Close() error
}
