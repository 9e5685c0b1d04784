package util

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// SessionIDAlphabet leaves out the look-alike characters 0, O, I, l and 1.
const SessionIDAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

const (
	SessionIDLength      = 8
	SessionIDMaxAttempts = 5
)

func GenerateSessionID() (string, error) {
	max := big.NewInt(int64(len(SessionIDAlphabet)))
	buf := make([]byte, SessionIDLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = SessionIDAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// GenerateUniqueSessionID retries until exists reports a free id,
// giving up with ErrSessionIDExhausted after SessionIDMaxAttempts tries.
func GenerateUniqueSessionID(ctx context.Context, exists func(context.Context, string) (bool, error)) (string, error) {
	return generateUnique(ctx, GenerateSessionID, exists)
}

func generateUnique(ctx context.Context, gen func() (string, error), exists func(context.Context, string) (bool, error)) (string, error) {
	for attempt := 0; attempt < SessionIDMaxAttempts; attempt++ {
		id, err := gen()
		if err != nil {
			return "", fmt.Errorf("generate session id: %w", err)
		}
		taken, err := exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check session id: %w", err)
		}
		if !taken {
			return id, nil
		}
	}
	return "", ErrSessionIDExhausted
}

func IsValidSessionID(id string) bool {
	if len(id) != SessionIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(SessionIDAlphabet, id[i]) < 0 {
			return false
		}
	}
	return true
}
