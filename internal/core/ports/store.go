package ports

// Storage keys used by the session layer. "token" is the key an older
// revision of the client wrote; it is only ever purged, never read.
const (
	StorageKeyCredential = "jwt_token"
	StorageKeyUser       = "user"
	StorageKeyLegacy     = "token"
)

// KeyValueStore is the durable, origin-scoped storage the session layer
// persists into. Operations are synchronous; there is no transactional
// guarantee across keys.
type KeyValueStore interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	Put(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
