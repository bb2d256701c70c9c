package order

import (
	"crypto/rand"
	"fmt"
)

const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// ReferenceLength is the length of generated correlation references
const ReferenceLength = 16

// GenerateReference creates a random alphanumeric correlation reference.
// The reference is shared by the order, its transaction and the payment
// provider's record of the charge.
func GenerateReference() (string, error) {
	buf := make([]byte, ReferenceLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reference: %w", err)
	}
	for i, b := range buf {
		buf[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}
	return string(buf), nil
}
