// internal/httpserver/server.go
//
// HTTP server wiring for the guessing game and swap demo.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", GET /game/{id}, POST /swap.
//   - Game endpoints: POST /game/new issues a ticket, POST /game/guess requires it.
//   - Daily Challenge endpoints: mounted under /daily.
//   - History endpoint: GET /history/recent (needs a history store).
//
// Notes:
//   - Live games sit in the in-memory store; finished games are recorded to
//     history best effort (failures are logged, the response still succeeds).
//   - Every new game publishes a commitment to its secret; the secret itself is
//     only revealed once the game is won.

package httpserver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/willeagren/edurust/internal/config"
	"github.com/willeagren/edurust/internal/console"
	"github.com/willeagren/edurust/internal/daily"
	"github.com/willeagren/edurust/internal/game"
	"github.com/willeagren/edurust/internal/history"
	"github.com/willeagren/edurust/internal/store"
	"github.com/willeagren/edurust/internal/swap"
)

// Server bundles router, live game store, and optional history.
type Server struct {
	r       *chi.Mux
	store   store.Store
	history *history.Store // nil disables recording and history routes
	cfg     config.Config
	now     func() time.Time
	daily   *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, hist *history.Store, cfg config.Config) *Server {
	s := &Server{r: chi.NewRouter(), store: st, history: hist, cfg: cfg, now: time.Now}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // zerolog access log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFor(cfg.ClientOrigin))       // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"edurust","endpoints":["/health","POST /game/new","POST /game/guess","GET /game/{id}","POST /swap","/daily/*","/history/recent"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Game endpoints
	s.r.Post("/game/new", s.handleNewGame)
	s.r.With(s.requireTicket()).Post("/game/guess", s.handleGuess)
	s.r.Get("/game/{id}", s.handleGetGame)

	// Swap demo
	s.r.Post("/swap", s.handleSwap)

	// Daily Challenge
	s.mountDaily(s.r)

	// History
	s.r.Get("/history/recent", s.handleRecent)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	go s.janitor(ctx, sweepEvery)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Live games are evicted by sweep: won games after finishedGrace (so GET
// /game/{id} can still reveal the secret), unfinished ones once a ticket
// issued at start would have expired.
const (
	sweepEvery    = time.Minute
	finishedGrace = 10 * time.Minute
)

// janitor runs sweep every interval until ctx is done.
func (s *Server) janitor(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep(ctx)
		}
	}
}

// sweep evicts expired live games and daily sessions from earlier dates.
func (s *Server) sweep(ctx context.Context) int {
	now := s.now()
	n, err := s.store.Prune(ctx, func(g game.Game) bool {
		if g.Finished {
			return now.Sub(g.FinishedAt) > finishedGrace
		}
		return now.Sub(g.StartedAt) > s.cfg.TicketTTL
	})
	if err != nil {
		log.Warn().Err(err).Msg("prune games")
	}
	s.daily.prune(ctx, daily.DateKey(now))
	if n > 0 {
		log.Debug().Int("evicted", n).Msg("sweep")
	}
	return n
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables credentialed CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one debug line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Secret uint32 `json:"secret"` // optional fixed secret (testing)
	Player string `json:"player"` // optional; guests get a generated name
}
type newGameRes struct {
	GameID     string    `json:"gameId"`
	Ticket     string    `json:"ticket"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Player     string    `json:"player"`
	Commitment string    `json:"commitment"`
	Min        uint32    `json:"min"`
	Max        uint32    `json:"max"`
}

// handleNewGame creates a new in-memory game and hands out its ticket.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	if req.Secret != 0 && (req.Secret < game.SecretMin || req.Secret > game.SecretMax) {
		writeErr(w, http.StatusBadRequest, "secret_out_of_range")
		return
	}
	player, err := resolvePlayer(req.Player)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	g := game.New(req.Secret)
	s.start(w, r, g, player, history.ModeFree, "")
}

// start saves a freshly created g, then issues its ticket.
func (s *Server) start(w http.ResponseWriter, r *http.Request, g *game.Game, player, mode, date string) {
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Info().Str("gameId", g.ID).Str("player", player).Str("mode", mode).Msg("game started")
	s.issue(w, g, player, mode, date)
}

// issue signs a ticket for g and writes the newGameRes. It never writes to the store.
func (s *Server) issue(w http.ResponseWriter, g *game.Game, player, mode, date string) {
	tok, exp, err := s.signTicket(g.ID, player, mode, date)
	if err != nil {
		log.Error().Err(err).Msg("sign ticket")
		writeErr(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	writeJSON(w, http.StatusOK, newGameRes{
		GameID:     g.ID,
		Ticket:     tok,
		ExpiresAt:  exp,
		Player:     player,
		Commitment: g.Commitment(),
		Min:        game.SecretMin,
		Max:        game.SecretMax,
	})
}

// guessReq/Res payloads for POST /game/guess and /daily/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Outcome  string `json:"outcome"` // "less" | "greater" | "equal" | "invalid"
	State    string `json:"state"`   // "playing" | "won"
	Message  string `json:"message"`
	Attempts int    `json:"attempts"`
	Secret   uint32 `json:"secret,omitempty"` // revealed on win
}

// handleGuess applies a guess to the ticket's game.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	s.guess(w, r, history.ModeFree)
}

// guess is shared by /game/guess and /daily/guess; mode must match the ticket.
func (s *Server) guess(w http.ResponseWriter, r *http.Request, mode string) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	tk := ticketFrom(r)
	if tk == nil || tk.GameID != req.GameID || tk.Mode != mode {
		writeErr(w, http.StatusForbidden, "ticket_mismatch")
		return
	}

	var (
		out  game.Outcome
		snap game.Game
	)
	err := s.store.Update(r.Context(), req.GameID, func(g *game.Game) error {
		var err error
		out, err = g.Guess(req.Guess)
		snap = *g
		return err
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeErr(w, http.StatusNotFound, "not_found")
		return
	case errors.Is(err, game.ErrFinished):
		writeErr(w, http.StatusConflict, "finished")
		return
	case errors.Is(err, game.ErrNotANumber):
		writeJSON(w, http.StatusOK, guessRes{
			Outcome:  "invalid",
			State:    snap.State(),
			Message:  console.MsgRetry,
			Attempts: snap.Attempts,
		})
		return
	case err != nil:
		log.Error().Err(err).Str("gameId", req.GameID).Msg("guess")
		writeErr(w, http.StatusInternalServerError, "guess_failed")
		return
	}

	res := guessRes{
		Outcome:  string(out),
		State:    snap.State(),
		Message:  console.Message(out),
		Attempts: snap.Attempts,
	}
	if snap.Finished {
		res.Secret = snap.Secret
		s.record(r.Context(), &snap, tk)
	}
	writeJSON(w, http.StatusOK, res)
}

// record stores a won game in history (best effort, non-fatal if it fails).
func (s *Server) record(ctx context.Context, g *game.Game, tk *ticketClaims) {
	log.Info().Str("gameId", g.ID).Str("player", tk.Player).Int("attempts", g.Attempts).Msg("game won")
	if s.history == nil {
		return
	}
	date := tk.Date
	if date == "" {
		date = daily.DateKey(g.StartedAt)
	}
	err := s.history.Record(ctx, history.Result{
		GameID:     g.ID,
		Player:     tk.Player,
		Mode:       tk.Mode,
		Date:       date,
		Secret:     g.Secret,
		Commitment: g.Commitment(),
		Attempts:   g.Attempts,
		Invalid:    g.Invalid,
		ElapsedMs:  s.now().Sub(g.StartedAt).Milliseconds(),
	})
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("record result")
	}
}

// gameView is the public shape of a game; the secret is hidden until won.
type gameView struct {
	GameID     string    `json:"gameId"`
	State      string    `json:"state"`
	Attempts   int       `json:"attempts"`
	Invalid    int       `json:"invalid"`
	Commitment string    `json:"commitment"`
	StartedAt  time.Time `json:"startedAt"`
	Secret     uint32    `json:"secret,omitempty"`
}

// handleGetGame returns the public view of a live game.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusNotFound, "not_found")
		return
	}
	v := gameView{
		GameID:     g.ID,
		State:      g.State(),
		Attempts:   g.Attempts,
		Invalid:    g.Invalid,
		Commitment: g.Commitment(),
		StartedAt:  g.StartedAt,
	}
	if g.Finished {
		v.Secret = g.Secret
	}
	writeJSON(w, http.StatusOK, v)
}

// ------------------------------ SWAP ---------------------------------------

type swapReq struct {
	A    int    `json:"a"`
	B    int    `json:"b"`
	Mode string `json:"mode"` // "ref" | "val" (default)
}
type swapRes struct {
	A int `json:"a"`
	B int `json:"b"`
}

// handleSwap swaps the posted pair with swap.ByRef or swap.ByVal.
func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	var req swapReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	a, b := req.A, req.B
	switch req.Mode {
	case "ref":
		swap.ByRef(&a, &b)
	case "val", "":
		a, b = swap.ByVal(a, b)
	default:
		writeErr(w, http.StatusBadRequest, "unknown_mode")
		return
	}
	writeJSON(w, http.StatusOK, swapRes{A: a, B: b})
}

// ----------------------------- HISTORY -------------------------------------

// handleRecent lists recent finished games for ?player=.
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeErr(w, http.StatusServiceUnavailable, "history_disabled")
		return
	}
	player := strings.TrimSpace(r.URL.Query().Get("player"))
	if player == "" {
		writeErr(w, http.StatusBadRequest, "player_required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := s.history.Recent(r.Context(), player, limit)
	if err != nil {
		log.Error().Err(err).Msg("recent history")
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// ------------------------------- small util --------------------------------

// resolvePlayer validates a player name, generating a guest name when empty.
func resolvePlayer(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "guest_" + genID()[:8], nil
	}
	if err := validatePlayer(p); err != nil {
		return "", err
	}
	return p, nil
}

// validatePlayer enforces basic player name rules.
func validatePlayer(p string) error {
	if len(p) < 3 || len(p) > 24 {
		return errors.New("player must be 3-24 chars")
	}
	for _, r := range p {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("player: letters, numbers, underscore only")
		}
	}
	return nil
}

// genID creates a 22‑char URL‑safe, crypto‑random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
