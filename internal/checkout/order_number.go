package checkout

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	orderNumberPrefix     = "ORD"
	orderNumberSuffixLen  = 4
	orderNumberTimeLayout = "20060102150405"
)

// GenerateOrderNumber produces a human-readable order reference: the ORD
// prefix, a second-resolution timestamp, and four random digits. Numbers can
// collide within the same second; callers retry on the unique constraint.
func GenerateOrderNumber(now time.Time) (string, error) {
	suffix := make([]byte, orderNumberSuffixLen)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generating order number suffix: %w", err)
	}
	for i := range suffix {
		suffix[i] = '0' + suffix[i]%10
	}
	return orderNumberPrefix + now.Format(orderNumberTimeLayout) + string(suffix), nil
}
