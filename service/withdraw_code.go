package service

import (
	"crypto/rand"
	"fmt"
)

const (
	withdrawalCodeLength   = 20
	withdrawalCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// NewWithdrawalCode returns an opaque redemption code. Codes are drawn
// from crypto/rand so they are unpredictable; 36^20 possibilities make
// repeats negligible over the system's lifetime.
func NewWithdrawalCode() (string, error) {
	buf := make([]byte, withdrawalCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate withdrawal code: %w", err)
	}

	for i, b := range buf {
		buf[i] = withdrawalCodeAlphabet[int(b)%len(withdrawalCodeAlphabet)]
	}

	return string(buf), nil
}
