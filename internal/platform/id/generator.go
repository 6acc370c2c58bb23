package id

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return v.String(), nil
}

// SuffixGenerator produces the uniqueness tail appended to synthesized slugs.
type SuffixGenerator interface {
	NewSuffix() string
}

// TimeSuffix renders "<unix millis><3 random digits>". Two calls in the same millisecond
// still differ with high probability, but nothing guarantees it.
type TimeSuffix struct {
	Now func() time.Time
}

func NewTimeSuffix() *TimeSuffix {
	return &TimeSuffix{Now: time.Now}
}

func (g *TimeSuffix) NewSuffix() string {
	now := time.Now
	if g != nil && g.Now != nil {
		now = g.Now
	}

	var buf [2]byte
	jitter := uint16(0)
	if _, err := rand.Read(buf[:]); err == nil {
		jitter = binary.BigEndian.Uint16(buf[:]) % 1000
	}

	return strconv.FormatInt(now().UnixMilli(), 10) + fmt.Sprintf("%03d", jitter)
}
