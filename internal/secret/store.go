package secret

// SecretStore provides a pluggable interface for optional API
// credentials (e.g. a GitHub token for star lookups). Absence of a
// secret degrades the consuming widget, it never fails a render.
type SecretStore interface {
	// Set stores a secret value under the given key.
	Set(key string, value []byte) error

	// Get retrieves the secret value for the given key.
	// Returns nil and no error if the key does not exist.
	Get(key string) ([]byte, error)

	// Delete removes the secret for the given key.
	Delete(key string) error
}
