// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start (or resume) today's game for a player
//   - POST /daily/guess       → submit a guess for today's game
//   - GET  /daily/leaderboard → top 20 results for today (or ?date=YYYY-MM-DD)
//
// Every player gets the same secret on a UTC date (daily.Secret).
// Each named player can finish the daily once; that is enforced by the history
// store, so without one the daily is playable but not ranked.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/willeagren/edurust/internal/daily"
	"github.com/willeagren/edurust/internal/game"
	"github.com/willeagren/edurust/internal/history"
)

// dailyServer tracks which live game belongs to which player for today.
type dailyServer struct {
	srv      *Server
	salt     string
	sessions map[string]dailySession // keyed by player|date
	mu       sync.Mutex               // guards sessions
}

// dailySession links a player's daily to its live game.
type dailySession struct {
	GameID string
	Date   string
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	s.daily = &dailyServer{
		srv:      s,
		salt:     s.cfg.DailySalt,
		sessions: make(map[string]dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.daily.handleNew)
		r.With(s.requireTicket()).Post("/guess", s.daily.handleGuess)
		r.Get("/leaderboard", s.daily.handleLeaderboard)
	})
}

// dailyNewReq is the request payload for /daily/new.
type dailyNewReq struct {
	Player string `json:"player"`
}

// dailyPlayedRes is returned by /daily/new when today's result already exists.
type dailyPlayedRes struct {
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

// handleNew creates or resumes today's game for a named player.
//   - If history already holds today's result → {played: true}.
//   - If a live, unfinished game exists for player|date → hand out a fresh ticket
//     for it without saving it again.
//   - Otherwise start a new game seeded with today's secret.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	var req dailyNewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	if err := validatePlayer(req.Player); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	now := d.srv.now()
	date := daily.DateKey(now)

	if d.srv.history != nil {
		played, err := d.srv.history.AlreadyPlayed(r.Context(), req.Player, date)
		if err != nil {
			log.Warn().Err(err).Str("player", req.Player).Msg("daily already played")
		}
		if played {
			writeJSON(w, http.StatusOK, dailyPlayedRes{Date: date, Played: true})
			return
		}
	}

	key := req.Player + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pruneLocked(r.Context(), date)
	if sess, ok := d.sessions[key]; ok {
		if g, err := d.srv.store.Get(r.Context(), sess.GameID); err == nil && !g.Finished {
			d.srv.issue(w, &g, req.Player, history.ModeDaily, date)
			return
		}
	}
	g := game.New(daily.Secret(now, d.salt))
	g.StartedAt = now.UTC()
	d.sessions[key] = dailySession{GameID: g.ID, Date: date}
	d.srv.start(w, r, g, req.Player, history.ModeDaily, date)
}

// prune drops sessions (and their live games) from dates other than today.
func (d *dailyServer) prune(ctx context.Context, today string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pruneLocked(ctx, today)
}

func (d *dailyServer) pruneLocked(ctx context.Context, today string) {
	for key, sess := range d.sessions {
		if sess.Date == today {
			continue
		}
		if err := d.srv.store.Delete(ctx, sess.GameID); err != nil {
			log.Warn().Err(err).Str("gameId", sess.GameID).Msg("drop stale daily game")
		}
		delete(d.sessions, key)
	}
}

// handleGuess validates and applies a guess to today's game.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	d.srv.guess(w, r, history.ModeDaily)
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string          `json:"date"`
	Top  []history.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if d.srv.history == nil {
		writeErr(w, http.StatusServiceUnavailable, "history_disabled")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	}
	rows, err := d.srv.history.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
