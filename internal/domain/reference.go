package domain

import (
	"crypto/rand"
	"fmt"
	"io"
	"regexp"
	"time"
)

const (
	referencePrefix  = "TXN"
	referenceCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referenceSuffix  = 8
)

var referencePattern = regexp.MustCompile(`^TXN-\d{8}-[A-Z0-9]{8}$`)

// IsValidReference reports whether s has the TXN-YYYYMMDD-XXXXXXXX layout.
func IsValidReference(s string) bool {
	return referencePattern.MatchString(s)
}

// ReferenceGenerator produces transaction reference numbers. Uniqueness is
// enforced by the store, not by the generator.
type ReferenceGenerator interface {
	Generate() (string, error)
}

// RandomReferenceGenerator draws the suffix from a cryptographic source.
type RandomReferenceGenerator struct {
	rand  io.Reader
	clock func() time.Time
}

// NewReferenceGenerator returns a generator backed by crypto/rand and the UTC
// wall clock.
func NewReferenceGenerator() *RandomReferenceGenerator {
	return &RandomReferenceGenerator{rand: rand.Reader, clock: now}
}

// NewReferenceGeneratorWith is NewReferenceGenerator with an explicit source
// and clock.
func NewReferenceGeneratorWith(r io.Reader, clock func() time.Time) *RandomReferenceGenerator {
	return &RandomReferenceGenerator{rand: r, clock: clock}
}

// Generate returns TXN-<UTC date>-<8 chars of A-Z0-9>.
func (g *RandomReferenceGenerator) Generate() (string, error) {
	suffix := make([]byte, 0, referenceSuffix)
	buf := make([]byte, referenceSuffix*2)
	// 252 is the largest multiple of 36 below 256; higher bytes are rejected
	// so every character is equally likely.
	for len(suffix) < referenceSuffix {
		if _, err := io.ReadFull(g.rand, buf); err != nil {
			return "", fmt.Errorf("read random source: %w", err)
		}
		for _, b := range buf {
			if b >= 252 {
				continue
			}
			suffix = append(suffix, referenceCharset[int(b)%len(referenceCharset)])
			if len(suffix) == referenceSuffix {
				break
			}
		}
	}
	return fmt.Sprintf("%s-%s-%s", referencePrefix, g.clock().UTC().Format("20060102"), suffix), nil
}
