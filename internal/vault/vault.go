// Package vault implements the Credential Vault (spec.md §4.2): decryption
// of per-service passwords protected with a machine-bound symmetric key,
// readable in both the legacy v1 format and the current authenticated v2
// format, and encryption of new credentials which always writes v2.
package vault

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"
)

// ErrCorruptedCredential is returned when a v2 payload fails HMAC
// verification, or when a payload is malformed beyond recovery.
var ErrCorruptedCredential = errors.New("vault: corrupted credential")

// ErrEmptyPlaintext is returned by Encrypt for empty input.
var ErrEmptyPlaintext = errors.New("vault: plaintext must not be empty")

const (
	markerPrefix = "SERVY_ENC:"
	v2Prefix     = "v2:"
	v1Prefix     = "v1:"
	ivSize       = aes.BlockSize
	hmacSize     = sha256.Size
)

// Keys holds the machine-bound key material backing the vault. EncryptionKey
// must be 16, 24, or 32 bytes (AES-128/192/256); the HMAC key used for v2
// authentication is always derived as SHA-256(EncryptionKey), never stored
// separately.
type Keys struct {
	EncryptionKey []byte
}

// Vault decrypts and encrypts service account credentials against a single
// machine-bound key pair.
type Vault struct {
	keys Keys
}

// New constructs a Vault bound to keys. It does not copy keys.EncryptionKey;
// callers must not mutate it after construction.
func New(keys Keys) *Vault {
	return &Vault{keys: keys}
}

// Decrypt dispatches on the payload's marker per spec.md §4.2: v2
// authenticated decryption, v1 legacy decryption, or verbatim passthrough
// for an already-plaintext legacy value. warning is non-nil exactly when
// the verbatim passthrough path was taken, so a caller can log it without
// the vault owning a logger; err is non-nil only on a genuine failure to
// decrypt.
func (v *Vault) Decrypt(payload string) (plaintext string, warning error, err error) {
	remainder := strings.TrimPrefix(payload, markerPrefix)

	switch {
	case strings.HasPrefix(remainder, v2Prefix):
		pt, derr := v.decryptV2(strings.TrimPrefix(remainder, v2Prefix))
		return pt, nil, derr
	case strings.HasPrefix(remainder, v1Prefix):
		pt, derr := v.decryptV1(strings.TrimPrefix(remainder, v1Prefix))
		return pt, nil, derr
	default:
		if isValidBase64(remainder) {
			pt, derr := v.decryptV1(remainder)
			return pt, nil, derr
		}
		return payload, errWarningPassthrough, nil
	}
}

// errWarningPassthrough is the sentinel warning value returned when Decrypt
// takes the verbatim-passthrough path.
var errWarningPassthrough = errors.New("vault: payload is not an encrypted credential, returned verbatim")

// Encrypt always produces a v2 payload. Input must not be empty. Every
// intermediate byte buffer, whether the call succeeds or fails, is zeroed
// before Encrypt returns.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPlaintext
	}

	block, err := aes.NewCipher(v.keys.EncryptionKey)
	if err != nil {
		return "", err
	}

	plainBytes := []byte(plaintext)
	defer zero(plainBytes)

	padded := pkcs7Pad(plainBytes, aes.BlockSize)
	defer zero(padded)

	iv := make([]byte, ivSize)
	defer zero(iv)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	ciphertext := make([]byte, len(padded))
	defer zero(ciphertext)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	mac := computeHMAC(v.keys.EncryptionKey, iv, ciphertext)
	defer zero(mac)

	buf := make([]byte, 0, len(iv)+len(ciphertext)+len(mac))
	buf = append(buf, iv...)
	buf = append(buf, ciphertext...)
	buf = append(buf, mac...)
	defer zero(buf)

	return markerPrefix + v2Prefix + base64.StdEncoding.EncodeToString(buf), nil
}

func (v *Vault) decryptV2(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrCorruptedCredential
	}
	defer zero(raw)

	if len(raw) < ivSize+hmacSize {
		return "", ErrCorruptedCredential
	}

	iv := raw[:ivSize]
	ciphertext := raw[ivSize : len(raw)-hmacSize]
	gotMAC := raw[len(raw)-hmacSize:]

	wantMAC := computeHMAC(v.keys.EncryptionKey, iv, ciphertext)
	defer zero(wantMAC)
	if !hmac.Equal(gotMAC, wantMAC) {
		return "", ErrCorruptedCredential
	}

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", ErrCorruptedCredential
	}

	block, err := aes.NewCipher(v.keys.EncryptionKey)
	if err != nil {
		return "", ErrCorruptedCredential
	}

	padded := make([]byte, len(ciphertext))
	defer zero(padded)
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	plain, err := pkcs7Unpad(padded)
	if err != nil {
		return "", ErrCorruptedCredential
	}
	return string(plain), nil
}

// decryptV1 implements the legacy, unauthenticated format: AES-CBC with a
// static, all-zero initialization vector, Base64-encoded.
func (v *Vault) decryptV1(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrCorruptedCredential
	}
	defer zero(raw)

	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", ErrCorruptedCredential
	}

	block, err := aes.NewCipher(v.keys.EncryptionKey)
	if err != nil {
		return "", ErrCorruptedCredential
	}

	iv := make([]byte, ivSize)
	defer zero(iv)

	padded := make([]byte, len(raw))
	defer zero(padded)
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, raw)

	plain, err := pkcs7Unpad(padded)
	if err != nil {
		return "", ErrCorruptedCredential
	}
	return string(plain), nil
}

func computeHMAC(encryptionKey, iv, ciphertext []byte) []byte {
	hmacKey := sha256.Sum256(encryptionKey)
	defer zero(hmacKey[:])
	mac := hmac.New(sha256.New, hmacKey[:])
	mac.Write(iv)
	mac.Write(ciphertext)
	return mac.Sum(nil)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("vault: empty padded buffer")
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > len(data) {
		return nil, errors.New("vault: invalid padding")
	}
	if !bytes.Equal(data[len(data)-padLen:], bytes.Repeat([]byte{byte(padLen)}, padLen)) {
		return nil, errors.New("vault: invalid padding")
	}
	return data[:len(data)-padLen], nil
}

func isValidBase64(s string) bool {
	if s == "" {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(s)
	return err == nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
