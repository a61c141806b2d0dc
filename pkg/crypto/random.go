package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

// Bounds for RandomText, in bytes of entropy before base64 encoding.
const (
	DefaultRandomMin = 33
	DefaultRandomMax = 544
)

// RandomText returns the base64 encoding of between minLen and maxLen (inclusive)
// random bytes. It is meant for producing throwaway sign/verify inputs.
func RandomText(minLen, maxLen int) (string, error) {
	if minLen <= 0 || maxLen < minLen {
		return "", fmt.Errorf("invalid random length range [%d, %d]", minLen, maxLen)
	}
	n := minLen
	if maxLen > minLen {
		r, err := rand.Int(rand.Reader, big.NewInt(int64(maxLen-minLen+1)))
		if err != nil {
			return "", fmt.Errorf("failed to draw random length: %w", err)
		}
		n += int(r.Int64())
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
