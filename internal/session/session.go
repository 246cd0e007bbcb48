// Package session keeps the per-user dashboard state: the last screening
// table, the last portfolio and the last chart series.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
)

// CookieName is the cookie carrying the session id
const CookieName = "session_id"

// ErrNotFound is returned by Store.Get for unknown or expired ids
var ErrNotFound = errors.New("session not found")

// Session is one user's state. Every action overwrites its slot wholesale.
type Session struct {
	ID        string                    `json:"id"`
	Screening *contracts.ScreeningTable `json:"planilhao,omitempty"`
	Portfolio *contracts.Portfolio      `json:"carteira,omitempty"`
	Chart     *contracts.ReturnSeries   `json:"grafico,omitempty"`
	UpdatedAt time.Time                 `json:"atualizado_em"`
}

// New creates an empty session with a fresh id
func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		UpdatedAt: time.Now(),
	}
}

// Store persists sessions
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
}

// ValidID reports whether id looks like a session id we issued
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Load returns the stored session for id or a new one when id is empty,
// malformed, unknown or expired
func Load(ctx context.Context, store Store, id string) (*Session, error) {
	if !ValidID(id) {
		return New(), nil
	}

	s, err := store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return &Session{ID: id, UpdatedAt: time.Now()}, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by NewContext, if any
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
