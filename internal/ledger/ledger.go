// Package ledger implements the collection ledger: admin-verified bottle
// deposits appended to a participant's record history. Records are immutable
// and their BWP value is captured at logging time, so a later rate change
// never rewrites history.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/greenpula/greenpula/internal/notification"
	"github.com/greenpula/greenpula/internal/registry"
	"github.com/greenpula/greenpula/internal/settings"
)

var (
	// ErrInvalidAmount occurs when a collection amount is not a positive integer.
	ErrInvalidAmount = errors.New("amount must be a positive integer")

	// ErrNotApproved occurs when logging against a user whose registration is
	// not APPROVED.
	ErrNotApproved = errors.New("user registration not approved")
)

// Service coordinates collection logging across the registry and settings.
type Service struct {
	repo     registry.Repository
	settings *settings.Service
	notifier notification.Notifier
}

// NewService constructs a collection ledger service.
func NewService(repo registry.Repository, settings *settings.Service, notifier notification.Notifier) *Service {
	return &Service{repo: repo, settings: settings, notifier: notifier}
}

// LogInput captures one verified deposit.
type LogInput struct {
	UserID     string
	Amount     int
	VerifiedBy string
}

// Log records a verified collection: the record is prepended to the user's
// history and TotalBottles/BottlesThisMonth grow by the amount, atomically.
// TotalCashBWP and TotalXRP are settled separately and are not touched here.
func (s *Service) Log(ctx context.Context, input LogInput) (registry.CollectionRecord, error) {
	if input.Amount <= 0 {
		return registry.CollectionRecord{}, ErrInvalidAmount
	}
	if input.VerifiedBy == "" {
		return registry.CollectionRecord{}, fmt.Errorf("%w: verifier is required", registry.ErrInvalidInput)
	}

	user, err := s.repo.FindByID(ctx, input.UserID)
	if err != nil {
		return registry.CollectionRecord{}, err
	}
	if user.RegistrationStatus != registry.StatusApproved {
		return registry.CollectionRecord{}, ErrNotApproved
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return registry.CollectionRecord{}, err
	}

	// Rate snapshot: the value is fixed here and never recomputed.
	rec := registry.CollectionRecord{
		ID:         uuid.New().String(),
		Date:       time.Now().UTC().Truncate(24 * time.Hour),
		Amount:     input.Amount,
		ValueBWP:   float64(input.Amount) * cfg.DefaultBottleValueBWP,
		VerifiedBy: input.VerifiedBy,
	}

	updated, err := s.repo.ApplyCollection(ctx, input.UserID, rec)
	if err != nil {
		return registry.CollectionRecord{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindCollectionLogged,
			Destination: updated.ID,
			Body:        fmt.Sprintf("%d bottles verified by %s (BWP %.2f). Total: %d.", rec.Amount, rec.VerifiedBy, rec.ValueBWP, updated.TotalBottles),
		})
	}

	return rec, nil
}

// Records returns a user's collection history, newest first.
func (s *Service) Records(ctx context.Context, userID string) ([]registry.CollectionRecord, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Records, nil
}
