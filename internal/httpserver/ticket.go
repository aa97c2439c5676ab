// internal/httpserver/ticket.go
//
// Game tickets: short-lived HS256 JWTs binding a player to one game.
// A ticket is issued by /game/new and /daily/new and must accompany every guess
// as "Authorization: Bearer <ticket>".

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ticketClaims are the custom claims carried by a ticket.
type ticketClaims struct {
	GameID string `json:"gid"`
	Player string `json:"player"`
	Mode   string `json:"mode"`
	Date   string `json:"date,omitempty"`
	jwt.RegisteredClaims
}

// ctxTicketKey is the context key type for storing *ticketClaims.
type ctxTicketKey struct{}

// signTicket creates an HS256 ticket with the configured expiry (TICKET_TTL_HOURS).
func (s *Server) signTicket(gameID, player, mode, date string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.TicketTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, ticketClaims{
		GameID: gameID,
		Player: player,
		Mode:   mode,
		Date:   date,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   player,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := t.SignedString([]byte(s.cfg.TicketSecret))
	return ss, exp, err
}

// parseTicket verifies signature, algorithm and expiry of a ticket.
func (s *Server) parseTicket(tok string) (*ticketClaims, error) {
	claims := &ticketClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.TicketSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !t.Valid || claims.GameID == "" || claims.Player == "" {
		return nil, errors.New("invalid ticket")
	}
	return claims, nil
}

// requireTicket enforces a valid ticket and injects its claims into the request context.
func (s *Server) requireTicket() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearer(r)
			if tok == "" {
				writeErr(w, http.StatusUnauthorized, "missing_ticket")
				return
			}
			claims, err := s.parseTicket(tok)
			if err != nil {
				writeErr(w, http.StatusUnauthorized, "invalid_ticket")
				return
			}
			ctx := context.WithValue(r.Context(), ctxTicketKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ticketFrom returns the claims stored by requireTicket, or nil.
func ticketFrom(r *http.Request) *ticketClaims {
	c, _ := r.Context().Value(ctxTicketKey{}).(*ticketClaims)
	return c
}

// bearer extracts a token from "Authorization: Bearer <token>".
func bearer(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}
