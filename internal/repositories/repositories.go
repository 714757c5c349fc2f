// package repositories provides the persistence layer for anime notes.
//
// The note map is stored as a single JSON document under one storage key,
// read and replaced as a whole on every mutation. The
// KVStore interface keeps the repository decoupled from the backing store so
// the SQLite implementation can be swapped for an in-memory one in tests.
package repositories

// KVStore is an opaque key/value store with whole-value replace semantics.
//
// There is no partial-update primitive: concurrent writers race at whole-value
// granularity and the last write wins.
type KVStore interface {
	// Get returns the raw value for key and whether it was present.
	Get(key string) ([]byte, bool, error)

	// Set replaces the value for key.
	Set(key string, value []byte) error
}
