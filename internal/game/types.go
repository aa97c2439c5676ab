// internal/game/types.go
//
// Core type definitions for the number guessing engine.
// Defines:
//   - Outcome: result of comparing one guess with the secret (less/greater/equal).
//   - Game: state for a single in-progress or finished round.

package game

import (
	"errors"
	"time"
)

// Outcome represents the three-way comparison of a guess against the secret.
//   - "less":    the guess is below the secret.
//   - "greater": the guess is above the secret.
//   - "equal":   the guess is the secret; the round is over.
type Outcome string

const (
	OutcomeLess    Outcome = "less"
	OutcomeGreater Outcome = "greater"
	OutcomeEqual   Outcome = "equal"
)

// Closed range the secret is drawn from.
const (
	SecretMin uint32 = 1
	SecretMax uint32 = 100
)

// States reported by Game.State.
const (
	StatePlaying = "playing"
	StateWon     = "won"
)

var (
	// ErrNotANumber is returned when a line of input is not an unsigned integer.
	ErrNotANumber = errors.New("not a number")

	// ErrFinished is returned when guessing on a game that was already won.
	ErrFinished = errors.New("game finished")
)

// Game holds the state of a single guessing round.
type Game struct {
	ID         string    // Unique game identifier (random hex string).
	Secret     uint32    // Value to guess; fixed once drawn.
	Attempts   int       // Numeric guesses made so far.
	Invalid    int       // Lines rejected by ParseGuess; never counted as attempts.
	Finished   bool      // True once the secret has been guessed.
	StartedAt  time.Time // When the game was created (UTC).
	FinishedAt time.Time // When the secret was guessed (UTC); zero while playing.
}
