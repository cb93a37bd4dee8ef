package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateReference returns prefix followed by 14 random hex characters,
// e.g. "order_3f9a0c1d2e4b5a".
func GenerateReference(prefix string) (string, error) {
	bytes := make([]byte, 7)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return prefix + hex.EncodeToString(bytes), nil
}
