// Package ledger owns the income and expense entries of each user.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"mywallet/internal/events"
	"mywallet/internal/log"
	"mywallet/internal/models"
)

// Store persists entries. Every by-id operation is scoped to the owner.
type Store interface {
	CreateEntry(ctx context.Context, e *models.Entry) error
	GetEntry(ctx context.Context, userID, id int64) (*models.Entry, error)
	ListEntries(ctx context.Context, userID int64) ([]models.Entry, error)
	UpdateEntry(ctx context.Context, userID, id int64, amount decimal.Decimal, description string) error
	DeleteEntry(ctx context.Context, userID, id int64) error
}

// Service implements the ledger operations. Callers authenticate the user
// before calling in; userID always comes from the resolved session.
type Service struct {
	store     Store
	publisher events.Publisher
	now       func() time.Time
	logger    *log.Logger
}

// NewService creates a ledger Service. A nil publisher disables events.
func NewService(store Store, publisher events.Publisher, logger *log.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		store:     store,
		publisher: publisher,
		now:       time.Now,
		logger:    logger.WithComponent(log.ComponentLedger),
	}
}

// List returns the user's entries in insertion order.
func (s *Service) List(ctx context.Context, userID int64) ([]models.Entry, error) {
	entries, err := s.store.ListEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// Get returns one entry of the user, or storage.ErrNotFound.
func (s *Service) Get(ctx context.Context, userID, id int64) (*models.Entry, error) {
	return s.store.GetEntry(ctx, userID, id)
}

// Create records a new entry for the user, stamped with today's day/month label.
func (s *Service) Create(ctx context.Context, userID int64, kind models.Kind, amount decimal.Decimal, description string) (*models.Entry, error) {
	now := s.now()
	e := &models.Entry{
		UserID:      userID,
		Kind:        kind,
		Amount:      amount,
		Description: description,
		CreatedOn:   now.Format(models.CreatedOnLayout),
		CreatedAt:   now.UTC(),
	}
	if err := s.store.CreateEntry(ctx, e); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	s.logger.InfoContext(ctx, "Entry created", log.NewFields().WithUser(userID).WithEntry(e.ID, string(kind)).ToSlice()...)
	s.publish(ctx, events.New(events.EntryCreated, userID, e.ID))
	return e, nil
}

// Update overwrites amount and description. Kind, owner and creation label
// never change. It returns storage.ErrNotFound when the entry is missing.
func (s *Service) Update(ctx context.Context, userID, id int64, amount decimal.Decimal, description string) error {
	if err := s.store.UpdateEntry(ctx, userID, id, amount, description); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Entry updated", log.NewFields().WithUser(userID).WithEntry(id, "").ToSlice()...)
	s.publish(ctx, events.New(events.EntryUpdated, userID, id))
	return nil
}

// Delete removes the entry if it exists. A missing entry is not an error.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteEntry(ctx, userID, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	s.logger.InfoContext(ctx, "Entry deleted", log.NewFields().WithUser(userID).WithEntry(id, "").ToSlice()...)
	s.publish(ctx, events.New(events.EntryDeleted, userID, id))
	return nil
}

// publish delivers e once. Failures are logged and otherwise ignored.
func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.LogError(ctx, "Publish ledger event failed", err, log.OpPublish,
			log.NewFields().WithUser(e.UserID).WithEntry(e.EntryID, ""))
	}
}
