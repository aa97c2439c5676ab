// internal/daily/daily.go
//
// Shared secret for the daily challenge.
// Responsibilities:
//   - DateKey: the UTC date string a daily result is filed under.
//   - Secret:  a deterministic value in [SecretMin, SecretMax] per date and salt,
//     so every player gets the same secret on a given UTC date.

// Package daily derives the shared secret for the daily challenge.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/willeagren/edurust/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Secret returns the deterministic secret for the date of t:
// SecretMin + HMAC-SHA256(salt, YYYY-MM-DD) mod range size.
func Secret(t time.Time, salt string) uint32 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(t)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for modulus distribution
	n := binary.BigEndian.Uint64(sum[:8])
	span := uint64(game.SecretMax - game.SecretMin + 1)
	return game.SecretMin + uint32(n%span)
}
