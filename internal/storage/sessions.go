package storage

import (
	"context"
	"time"

	"mywallet/internal/models"
)

// CreateSession persists a session. CreatedAt defaults to now.
func (db *DB) CreateSession(ctx context.Context, s *models.Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := db.conn.ExecContext(ctx,
		"INSERT INTO sessions (token, user_id, name, created_at) VALUES (?, ?, ?, ?)",
		s.Token, s.UserID, s.Name, s.CreatedAt.UTC(),
	)
	return err
}

// GetSession looks a session up by its exact token.
func (db *DB) GetSession(ctx context.Context, token string) (*models.Session, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT token, user_id, name, created_at FROM sessions WHERE token = ?",
		token,
	)

	var s models.Session
	if err := row.Scan(&s.Token, &s.UserID, &s.Name, &s.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// DeleteSession removes a session by token. It returns ErrNotFound when no
// session matched.
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	result, err := db.conn.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeleteSessionsBefore removes sessions created before cutoff and reports how
// many were removed.
func (db *DB) DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := db.conn.ExecContext(ctx, "DELETE FROM sessions WHERE created_at < ?", cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
