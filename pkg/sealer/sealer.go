package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// Development fallback; override with CHECKOUT_TOKEN_KEY in any real
	// deployment (base64-encoded 32-byte key).
	defaultKey = "x2nLfUqR8cOhBJYw4oTKeSVA7nIF9UpAL1iM6rQvZ0s="

	EnvTokenKey = "CHECKOUT_TOKEN_KEY"
)

func keyBytes() ([]byte, error) {
	encoded := os.Getenv(EnvTokenKey)
	if encoded == "" {
		encoded = defaultKey
	}
	return base64.StdEncoding.DecodeString(encoded)
}

// SealCheckoutToken binds a checkout session to its owner in an opaque token
// the client carries through the wizard. Parsing it back proves the token was
// minted by us for that (session, user) pair.
func SealCheckoutToken(sessionID, userID string) (string, error) {
	plaintext := []byte(sessionID + ":" + userID)

	key, err := keyBytes()
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ct := aesgcm.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

func ParseCheckoutToken(token string) (sessionID string, userID string, err error) {
	key, err := keyBytes()
	if err != nil {
		return "", "", err
	}

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", "", err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", "", err
	}

	nonceSize := aesgcm.NonceSize()
	if len(data) < nonceSize {
		return "", "", fmt.Errorf("token too short")
	}
	nonce := data[:nonceSize]
	ciphertext := data[nonceSize:]

	pt, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", "", err
	}

	parts := strings.SplitN(string(pt), ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid token format")
	}

	return parts[0], parts[1], nil
}
