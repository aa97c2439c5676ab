package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "h.db")

	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	require.NoError(t, s.Record(ctx, Result{
		GameID: "g1", Player: "ada", Date: "2026-10-19", Secret: 42,
		Commitment: "c1", Attempts: 3, Invalid: 1, ElapsedMs: 1200,
	}))
	require.NoError(t, s.Record(ctx, Result{
		GameID: "g2", Player: "ada", Date: "2026-10-19", Secret: 7,
		Commitment: "c2", Attempts: 5, ElapsedMs: 900,
	}))
	require.NoError(t, s.Record(ctx, Result{GameID: "g3", Player: "bob", Date: "2026-10-19", Secret: 1, Commitment: "c3", Attempts: 1}))

	got, err := s.Recent(ctx, "ada", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "g2", got[0].GameID)
	assert.Equal(t, "g1", got[1].GameID)
	assert.Equal(t, ModeFree, got[1].Mode)
	assert.Equal(t, uint32(42), got[1].Secret)
	assert.Equal(t, 1, got[1].Invalid)
	assert.NotEmpty(t, got[1].CreatedAt)

	err = s.Record(ctx, Result{GameID: "g1", Player: "ada", Date: "2026-10-19", Commitment: "x"})
	assert.ErrorIs(t, err, ErrAlreadyPlayed)
}

func TestDailyOncePerDate(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	played, err := s.AlreadyPlayed(ctx, "ada", "2026-10-19")
	require.NoError(t, err)
	assert.False(t, played)

	daily := Result{GameID: "d1", Player: "ada", Mode: ModeDaily, Date: "2026-10-19", Secret: 12, Commitment: "c", Attempts: 4}
	require.NoError(t, s.Record(ctx, daily))

	played, err = s.AlreadyPlayed(ctx, "ada", "2026-10-19")
	require.NoError(t, err)
	assert.True(t, played)

	daily.GameID = "d2"
	assert.ErrorIs(t, s.Record(ctx, daily), ErrAlreadyPlayed)

	daily.Date = "2026-10-20"
	assert.NoError(t, s.Record(ctx, daily))

	// free games on the same date do not count as the daily
	require.NoError(t, s.Record(ctx, Result{GameID: "f1", Player: "bob", Date: "2026-10-19", Commitment: "c", Attempts: 2}))
	played, err = s.AlreadyPlayed(ctx, "bob", "2026-10-19")
	require.NoError(t, err)
	assert.False(t, played)
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	for _, r := range []Result{
		{GameID: "a", Player: "ada", Attempts: 5, ElapsedMs: 100},
		{GameID: "b", Player: "bob", Attempts: 3, ElapsedMs: 900},
		{GameID: "c", Player: "cy", Attempts: 3, ElapsedMs: 200},
		{GameID: "d", Player: "dee", Attempts: 1, ElapsedMs: 50, Mode: ModeFree},
	} {
		if r.Mode == "" {
			r.Mode = ModeDaily
		}
		r.Date = "2026-10-19"
		r.Commitment = "c"
		require.NoError(t, s.Record(ctx, r))
	}

	top, err := s.Leaderboard(ctx, "2026-10-19", 0)
	require.NoError(t, err)
	assert.Equal(t, []LBRow{
		{Player: "cy", Attempts: 3, ElapsedMs: 200},
		{Player: "bob", Attempts: 3, ElapsedMs: 900},
		{Player: "ada", Attempts: 5, ElapsedMs: 100},
	}, top)

	top, err = s.Leaderboard(ctx, "2026-10-19", 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)

	top, err = s.Leaderboard(ctx, "1999-01-01", 5)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestRecentClampsLimit(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	for i := 0; i < maxRecent+5; i++ {
		require.NoError(t, s.Record(ctx, Result{
			GameID: fmt.Sprintf("g%03d", i), Player: "ada", Date: "2026-10-19", Commitment: "c", Attempts: 1,
		}))
	}

	got, err := s.Recent(ctx, "ada", 100000000)
	require.NoError(t, err)
	assert.Len(t, got, maxRecent)

	got, err = s.Recent(ctx, "ada", 0)
	require.NoError(t, err)
	assert.Len(t, got, 50)
}
