// Package auth covers credentials: password hashing, token issuing and
// verification, and the server's symmetric key.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const authKeyFile = "auth.key"

// LoadOrGenerateKey returns the server's 32-byte PASETO key, reading it
// from <dataPath>/auth.key or minting and persisting one on first run.
// The file holds the key hex-encoded, mode 0600.
func LoadOrGenerateKey(dataPath string) ([]byte, error) {
	keyPath := filepath.Join(dataPath, authKeyFile)

	//#nosec G304 -- Auth key path is derived from validated data path
	if raw, err := os.ReadFile(keyPath); err == nil {
		keyHex := strings.TrimSpace(string(raw))
		if len(keyHex) != keyHexSize {
			return nil, fmt.Errorf("auth key in %s: want %d hex chars, got %d", keyPath, keyHexSize, len(keyHex))
		}
		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("auth key in %s is not valid hex: %w", keyPath, err)
		}
		return key, nil
	}

	key := make([]byte, keyBytesSize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate auth key: %w", err)
	}

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("persist auth key: %w", err)
	}
	return key, nil
}
