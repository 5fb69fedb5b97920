package vault

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"

	"github.com/aelassas/servy-sub001/internal/winkernel/ports"
)

// keySize is 32 bytes, selecting AES-256 for newly generated keys.
const keySize = 32

// LoadOrCreateKeys loads the machine-bound key from store, generating and
// persisting a fresh AES-256 key the first time the service runs on a
// machine. A missing key file is not an error; any other read failure is.
func LoadOrCreateKeys(store ports.KeyStore) (Keys, error) {
	data, err := store.Load()
	if err == nil {
		return Keys{EncryptionKey: data}, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return Keys{}, fmt.Errorf("vault: load key: %w", err)
	}

	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return Keys{}, fmt.Errorf("vault: generate key: %w", err)
	}
	if err := store.Save(key); err != nil {
		return Keys{}, fmt.Errorf("vault: persist key: %w", err)
	}
	return Keys{EncryptionKey: key}, nil
}
