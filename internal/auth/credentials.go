package auth

import (
	"context"
	"errors"
	"fmt"

	"mywallet/internal/log"
	"mywallet/internal/models"
	"mywallet/internal/storage"
)

var (
	// ErrConflict is returned when registering an email that is already taken.
	ErrConflict = errors.New("user already exists")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid password")
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Credentials registers and authenticates users.
type Credentials struct {
	store  UserStore
	logger *log.Logger
}

// NewCredentials creates a Credentials backed by store.
func NewCredentials(store UserStore, logger *log.Logger) *Credentials {
	return &Credentials{store: store, logger: logger.WithComponent(log.ComponentAuth)}
}

// Register creates an account and returns it as stored. The existence check
// and the insert are separate statements; a concurrent duplicate that slips
// between them is still rejected by the unique index and reported as
// ErrConflict.
func (c *Credentials) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	_, err := c.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrConflict
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := c.store.CreateUser(ctx, name, email, hash)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	c.logger.InfoContext(ctx, "User registered", log.FieldUserID, user.ID, log.FieldOperation, log.OpRegister)
	return user, nil
}

// Authenticate returns the user owning email when password matches. It
// returns storage.ErrNotFound for an unknown email and ErrInvalidCredentials
// for a wrong password.
func (c *Credentials) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := c.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !CheckPassword(password, user.PasswordHash) {
		c.logger.WarnContext(ctx, "Password mismatch", log.FieldUserID, user.ID, log.FieldOperation, log.OpAuthenticate)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
