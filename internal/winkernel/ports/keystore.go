package ports

// KeyStore persists the machine-bound credential vault key material to
// durable storage, hardened so that only privileged accounts can read it.
type KeyStore interface {
	// Load reads the stored key material. An error wrapping fs.ErrNotExist
	// means no key has been stored yet, and the vault then generates and
	// persists a fresh key; any other error is a genuine read failure.
	Load() ([]byte, error)

	// Save writes key material, creating the backing file and hardening
	// its access control list if it does not already exist.
	Save(key []byte) error
}
