package credentials

// Store is key → string persistence for credential records. Two
// implementations exist: a durable file-backed store that mirrors every write
// into a cookie backend, and a cookie-only store for execution environments
// with no durable storage at all. The backend is selected once at construction
// and injected; callers never branch on environment.
type Store interface {
	// Set writes the value under the given key.
	Set(key, value string) error

	// Get retrieves the value for the given key. The boolean reports whether
	// the key was present; absence is not an error.
	Get(key string) (string, bool, error)

	// Remove clears every representation of the given key. Removing an absent
	// key is not an error.
	Remove(key string) error

	// Clear removes all keys held by the store.
	Clear() error
}
