// internal/console/console.go
//
// Interactive text front end for the guessing engine.
// Reads one line per turn from an io.Reader and writes status lines to an io.Writer.
//
// Notes:
//   - Non-numeric input is answered with a re-prompt and never costs an attempt.
//   - Running out of input is fatal: Play returns ErrInputClosed instead of spinning.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/willeagren/edurust/internal/game"
)

// Lines written by Play.
const (
	MsgBanner   = "Guessing the number!"
	MsgPrompt   = "Please input your guess:"
	MsgRetry    = "Please input number next time!"
	MsgTooSmall = "Too small guess!"
	MsgTooBig   = "Too big guess!"
	MsgWon      = "You won!"
)

// ErrInputClosed is returned when the input stream ends or fails before a win.
var ErrInputClosed = errors.New("failed to read user input")

// Play runs the guess loop for g until the secret is found.
// It returns nil on a win and an error wrapping ErrInputClosed if in runs dry.
func Play(in io.Reader, out io.Writer, g *game.Game) error {
	r := bufio.NewReader(in)
	if _, err := fmt.Fprintln(out, MsgBanner); err != nil {
		return err
	}
	for {
		if _, err := fmt.Fprintln(out, MsgPrompt); err != nil {
			return err
		}
		line, err := r.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return fmt.Errorf("%w: %v", ErrInputClosed, err)
		}

		outcome, gerr := g.Guess(line)
		log.Debug().
			Str("gameId", g.ID).
			Str("input", line).
			Str("outcome", string(outcome)).
			Int("attempts", g.Attempts).
			AnErr("err", gerr).
			Msg("guess")
		if gerr != nil {
			if !errors.Is(gerr, game.ErrNotANumber) {
				return gerr
			}
			if _, err := fmt.Fprintln(out, MsgRetry); err != nil {
				return err
			}
			continue
		}

		if _, err := fmt.Fprintln(out, Message(outcome)); err != nil {
			return err
		}
		if outcome == game.OutcomeEqual {
			return nil
		}
	}
}

// Message maps an outcome to the line shown to the player.
func Message(o game.Outcome) string {
	switch o {
	case game.OutcomeLess:
		return MsgTooSmall
	case game.OutcomeGreater:
		return MsgTooBig
	case game.OutcomeEqual:
		return MsgWon
	}
	return MsgRetry
}
