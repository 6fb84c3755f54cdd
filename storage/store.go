package storage

import "context"

// Store is a durable string key-value store holding one client's session.
// Multi-key writes and removals must be applied atomically: readers observe
// either all of a change or none of it.
type Store interface {
	// Get returns the value stored under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes every entry in values and removes the keys in remove, as one change.
	Set(ctx context.Context, values map[string]string, remove ...string) error

	// Remove deletes the given keys as one change. Missing keys are not an error.
	Remove(ctx context.Context, keys ...string) error
}

// Toucher is implemented by stores that expire idle sessions. Touch records
// that the session was just used without changing any value.
type Toucher interface {
	Touch(ctx context.Context) error
}
