// internal/game/engine.go
//
// Core engine for a single guessing round.
// Responsibilities:
//   - Create new games with a secret drawn from [SecretMin, SecretMax].
//   - Parse raw input lines into guesses (trim, optional '+', base 10, 32 bit).
//   - Compare guesses with the secret and track playing → won.
//   - Publish a commitment to the secret so it can be verified once revealed.
//
// Notes:
//   - Malformed input is recoverable: it bumps Invalid and leaves everything else alone.
//   - randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// New constructs a new game instance.
// If secret is zero, a random secret is drawn from [SecretMin, SecretMax].
func New(secret uint32) *Game {
	if secret == 0 {
		secret = RandomSecret()
	}
	return &Game{
		ID:        randomID(),
		Secret:    secret,
		StartedAt: time.Now().UTC(),
	}
}

// RandomSecret returns a uniformly distributed value in [SecretMin, SecretMax]
// using crypto/rand.
func RandomSecret() uint32 {
	span := big.NewInt(int64(SecretMax - SecretMin + 1))
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(fmt.Sprintf("game: draw secret: %v", err))
	}
	return SecretMin + uint32(n.Int64())
}

// ParseGuess interprets one line of input as an unsigned integer.
// Surrounding whitespace and a single leading '+' are accepted.
func ParseGuess(line string) (uint32, error) {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, "+")
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, strings.TrimSpace(line))
	}
	return uint32(n), nil
}

// Compare orders guess against secret.
func Compare(guess, secret uint32) Outcome {
	switch {
	case guess < secret:
		return OutcomeLess
	case guess > secret:
		return OutcomeGreater
	default:
		return OutcomeEqual
	}
}

// Guess parses line and compares it with the secret, mutating the game state.
//
// State transitions:
//   - Parse failure → Invalid++, error wrapping ErrNotANumber, still playing.
//   - less/greater  → Attempts++, still playing.
//   - equal         → Attempts++, Finished = true, FinishedAt = now.
func (g *Game) Guess(line string) (Outcome, error) {
	if g.Finished {
		return "", ErrFinished
	}
	n, err := ParseGuess(line)
	if err != nil {
		g.Invalid++
		return "", err
	}
	g.Attempts++
	out := Compare(n, g.Secret)
	if out == OutcomeEqual {
		g.Finished = true
		g.FinishedAt = time.Now().UTC()
	}
	return out, nil
}

// State reports a coarse string representation of the current game state.
func (g *Game) State() string {
	if g.Finished {
		return StateWon
	}
	return StatePlaying
}

// Commitment returns the game's published digest of its secret.
func (g *Game) Commitment() string { return Commitment(g.ID, g.Secret) }

// Commitment hashes "id:secret" with BLAKE2b-256 and hex-encodes the sum.
// Handing it out at game start lets a player check the secret revealed on a win.
func Commitment(id string, secret uint32) string {
	sum := blake2b.Sum256([]byte(id + ":" + strconv.FormatUint(uint64(secret), 10)))
	return hex.EncodeToString(sum[:])
}

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
