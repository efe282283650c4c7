package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mywallet/internal/log"
	"mywallet/internal/models"
	"mywallet/internal/storage"
	"mywallet/internal/validate"
)

// ErrUnauthenticated is returned when a well-formed token matches no live session.
var ErrUnauthenticated = errors.New("unauthenticated")

// SessionStore persists sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, s *models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sessions issues, resolves and revokes bearer sessions. A zero TTL means
// sessions stay valid until revoked.
type Sessions struct {
	store  SessionStore
	ttl    time.Duration
	now    func() time.Time
	logger *log.Logger
}

// NewSessions creates a Sessions backed by store.
func NewSessions(store SessionStore, ttl time.Duration, logger *log.Logger) *Sessions {
	return &Sessions{
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		logger: logger.WithComponent(log.ComponentSession),
	}
}

// Create issues a new session for user. Earlier sessions stay valid.
func (s *Sessions) Create(ctx context.Context, user *models.User) (*models.Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	session := &models.Session{
		Token:     token,
		UserID:    user.ID,
		Name:      user.DisplayName(),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.InfoContext(ctx, "Session created", log.FieldUserID, user.ID, log.FieldOperation, log.OpCreate)
	return session, nil
}

// Resolve returns the session for an Authorization header value. Shape
// errors from validate.BearerToken are returned unchanged; a token with no
// live session yields ErrUnauthenticated.
func (s *Sessions) Resolve(ctx context.Context, header string) (*models.Session, error) {
	token, err := validate.BearerToken(header)
	if err != nil {
		return nil, err
	}

	session, err := s.store.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	if s.expired(session) {
		return nil, ErrUnauthenticated
	}
	return session, nil
}

// Revoke deletes the session for an Authorization header value. It returns
// storage.ErrNotFound when no session matches.
func (s *Sessions) Revoke(ctx context.Context, header string) error {
	token, err := validate.BearerToken(header)
	if err != nil {
		return err
	}

	if err := s.store.DeleteSession(ctx, token); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete session: %w", err)
	}

	s.logger.InfoContext(ctx, "Session revoked", log.FieldOperation, log.OpRevoke)
	return nil
}

// Purge removes sessions older than the TTL. It is a no-op without a TTL.
func (s *Sessions) Purge(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	n, err := s.store.DeleteSessionsBefore(ctx, s.now().Add(-s.ttl))
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "Expired sessions purged", "count", n, log.FieldOperation, log.OpPurge)
	}
	return n, nil
}

func (s *Sessions) expired(session *models.Session) bool {
	return s.ttl > 0 && s.now().Sub(session.CreatedAt) > s.ttl
}
