package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/yukikurage/promptvault-api/internal/constants"
)

// GeneratedAPIKey carries the one-time plaintext together with what gets persisted.
type GeneratedAPIKey struct {
	Plaintext string
	Prefix    string
	Hash      string
}

// GenerateAPIKey generates a random key in the format pk_<64 hex chars>
func GenerateAPIKey() (GeneratedAPIKey, error) {
	secret := make([]byte, constants.APIKeySecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return GeneratedAPIKey{}, fmt.Errorf("failed to generate random bytes: %w", err)
	}

	plaintext := constants.APIKeyPrefix + hex.EncodeToString(secret)

	return GeneratedAPIKey{
		Plaintext: plaintext,
		Prefix:    plaintext[:len(constants.APIKeyPrefix)+constants.APIKeyDisplayChars],
		Hash:      HashAPIKey(plaintext),
	}, nil
}

// HashAPIKey returns the hex encoded SHA-256 of a plaintext key
func HashAPIKey(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
