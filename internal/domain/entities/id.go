package entities

import (
	"crypto/rand"
	"fmt"
	"time"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID produces a unique identifier scoped by entity kind ("tab", "sec",
// "task", "evt"): the kind prefix, a millisecond timestamp, and a random
// base36 suffix. Collisions are treated as negligible, not prevented.
func NewID(kind string) string {
	suffix := make([]byte, 7)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand failing is effectively fatal elsewhere; degrade to a
		// timestamp-only suffix rather than panicking here.
		return fmt.Sprintf("%s-%d-%07d", kind, time.Now().UnixMilli(), time.Now().Nanosecond()%1_000_000)
	}
	for i, b := range suffix {
		suffix[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return fmt.Sprintf("%s-%d-%s", kind, time.Now().UnixMilli(), suffix)
}
