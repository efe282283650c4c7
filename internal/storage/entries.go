package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"mywallet/internal/models"
)

// CreateEntry inserts a ledger entry and fills in its ID.
func (db *DB) CreateEntry(ctx context.Context, e *models.Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.CreatedOn == "" {
		e.CreatedOn = e.CreatedAt.Format(models.CreatedOnLayout)
	}

	result, err := db.conn.ExecContext(ctx,
		"INSERT INTO entries (user_id, kind, amount, description, created_on, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		e.UserID, string(e.Kind), e.Amount, e.Description, e.CreatedOn, e.CreatedAt.UTC(),
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// GetEntry retrieves one entry owned by userID.
func (db *DB) GetEntry(ctx context.Context, userID, id int64) (*models.Entry, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, user_id, kind, amount, description, created_on, created_at FROM entries WHERE id = ? AND user_id = ?",
		id, userID,
	)
	e, err := scanEntry(row)
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

// ListEntries retrieves every entry owned by userID in insertion order.
func (db *DB) ListEntries(ctx context.Context, userID int64) ([]models.Entry, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT id, user_id, kind, amount, description, created_on, created_at FROM entries WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}

	return entries, rows.Err()
}

// UpdateEntry overwrites amount and description of an entry owned by userID.
// It returns ErrNotFound when no such entry exists.
func (db *DB) UpdateEntry(ctx context.Context, userID, id int64, amount decimal.Decimal, description string) error {
	result, err := db.conn.ExecContext(ctx,
		"UPDATE entries SET amount = ?, description = ? WHERE id = ? AND user_id = ?",
		amount, description, id, userID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeleteEntry removes an entry owned by userID. Deleting a missing entry is
// not an error.
func (db *DB) DeleteEntry(ctx context.Context, userID, id int64) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM entries WHERE id = ? AND user_id = ?", id, userID)
	return err
}

func scanEntry(row scanner) (*models.Entry, error) {
	var (
		e    models.Entry
		kind string
	)
	if err := row.Scan(&e.ID, &e.UserID, &kind, &e.Amount, &e.Description, &e.CreatedOn, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Kind = models.Kind(kind)
	return &e, nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
