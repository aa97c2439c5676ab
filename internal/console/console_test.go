package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willeagren/edurust/internal/game"
)

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestPlayScenario(t *testing.T) {
	g := game.New(42)
	var out bytes.Buffer

	err := Play(strings.NewReader("10\nabc\n42\n"), &out, g)
	require.NoError(t, err)

	assert.Equal(t, []string{
		MsgBanner,
		MsgPrompt, MsgTooSmall,
		MsgPrompt, MsgRetry,
		MsgPrompt, MsgWon,
	}, lines(out.String()))
	assert.True(t, g.Finished)
	assert.Equal(t, 2, g.Attempts)
	assert.Equal(t, 1, g.Invalid)
}

func TestPlayTooBig(t *testing.T) {
	g := game.New(5)
	var out bytes.Buffer

	require.NoError(t, Play(strings.NewReader("90\n  5  \n"), &out, g))
	assert.Equal(t, []string{MsgBanner, MsgPrompt, MsgTooBig, MsgPrompt, MsgWon}, lines(out.String()))
}

func TestPlayStopsAfterWin(t *testing.T) {
	g := game.New(3)
	var out bytes.Buffer

	require.NoError(t, Play(strings.NewReader("3\n1\n2\n"), &out, g))
	assert.Equal(t, 1, g.Attempts)
	assert.Equal(t, []string{MsgBanner, MsgPrompt, MsgWon}, lines(out.String()))
}

func TestPlayLastLineWithoutNewline(t *testing.T) {
	g := game.New(8)
	var out bytes.Buffer

	require.NoError(t, Play(strings.NewReader("1\n8"), &out, g))
	assert.True(t, g.Finished)
}

func TestPlayInputExhausted(t *testing.T) {
	g := game.New(50)
	var out bytes.Buffer

	err := Play(strings.NewReader("10\nxyz\n"), &out, g)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputClosed)
	assert.False(t, g.Finished)
	assert.Equal(t, uint32(50), g.Secret)
	assert.Equal(t, []string{
		MsgBanner,
		MsgPrompt, MsgTooSmall,
		MsgPrompt, MsgRetry,
		MsgPrompt,
	}, lines(out.String()))
}

func TestPlayEmptyInput(t *testing.T) {
	err := Play(strings.NewReader(""), &bytes.Buffer{}, game.New(1))
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestPlayReadError(t *testing.T) {
	boom := errors.New("boom")
	err := Play(iotest.ErrReader(boom), &bytes.Buffer{}, game.New(1))
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestPlayRepeatedGarbageKeepsPrompting(t *testing.T) {
	g := game.New(20)
	var out bytes.Buffer

	require.NoError(t, Play(strings.NewReader("a\nb\n\n-3\n20\n"), &out, g))
	assert.Equal(t, 4, strings.Count(out.String(), MsgRetry))
	assert.Equal(t, 1, g.Attempts)
	assert.Equal(t, 4, g.Invalid)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, MsgTooSmall, Message(game.OutcomeLess))
	assert.Equal(t, MsgTooBig, Message(game.OutcomeGreater))
	assert.Equal(t, MsgWon, Message(game.OutcomeEqual))
}
