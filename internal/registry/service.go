package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/greenpula/greenpula/internal/notification"
)

const minPasswordLength = 6

// Service manages the participant registry and its lifecycle transitions.
type Service struct {
	repo     Repository
	notifier notification.Notifier
}

// NewService creates a registry service.
func NewService(repo Repository, notifier notification.Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// RegisterInput captures the data collected on the registration form.
type RegisterInput struct {
	Name          string
	Email         string
	Phone         string
	Password      string
	PaymentMethod PaymentMethod
}

// Register creates a PENDING participant with zeroed stats. The email and
// primary phone must not collide with any PENDING or APPROVED user; rejected
// registrations do not reserve their identifiers.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	if input.Name == "" || input.Email == "" || input.Phone == "" {
		return User{}, fmt.Errorf("%w: name, email and phone are required", ErrInvalidInput)
	}
	if input.PaymentMethod != PayCash && input.PaymentMethod != PayBottles {
		return User{}, fmt.Errorf("%w: payment method must be CASH or BOTTLES", ErrInvalidInput)
	}
	if len(input.Password) < minPasswordLength {
		return User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	if existing, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		if existing.RegistrationStatus != StatusRejected {
			return User{}, fmt.Errorf("%w: email in use", ErrDuplicateIdentifier)
		}
	}
	if existing, err := s.repo.FindByPhone(ctx, input.Phone); err == nil {
		if existing.RegistrationStatus != StatusRejected {
			return User{}, fmt.Errorf("%w: phone in use", ErrDuplicateIdentifier)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	user := User{
		ID:                 uuid.New().String(),
		Role:               RoleParticipant,
		Name:               input.Name,
		Email:              NormalizeEmail(input.Email),
		PhonePrimary:       NormalizePhone(input.Phone),
		RegistrationStatus: StatusPending,
		PaymentMethod:      input.PaymentMethod,
		JoinDate:           now.Truncate(24 * time.Hour),
		PasswordHash:       hash,
		CreatedAt:          now,
	}
	user.Avatar = fmt.Sprintf("https://picsum.photos/seed/%s/200/200", user.ID)

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// FindByIdentifier resolves a login identifier against email
// (case-insensitive) or primary phone (whitespace-stripped).
func (s *Service) FindByIdentifier(ctx context.Context, identifier string) (User, error) {
	if identifier == "" {
		return User{}, fmt.Errorf("%w: identifier is required", ErrInvalidInput)
	}
	if user, err := s.repo.FindByEmail(ctx, identifier); err == nil {
		return user, nil
	}
	return s.repo.FindByPhone(ctx, identifier)
}

// Get fetches a user by id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns all users in insertion order.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Approve transitions a PENDING registration to APPROVED. Approving an
// already-approved user is a no-op; approving a rejected user is an error
// since rejection is terminal.
func (s *Service) Approve(ctx context.Context, userID string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	switch user.RegistrationStatus {
	case StatusApproved:
		return nil
	case StatusRejected:
		return fmt.Errorf("%w: registration already rejected", ErrInvalidTransition)
	}

	if user.PaymentMethod == "" {
		return fmt.Errorf("%w: payment method required for approval", ErrInvalidInput)
	}

	if err := s.repo.UpdateStatus(ctx, userID, StatusApproved); err != nil {
		return err
	}

	s.notify(ctx, notification.KindRegistrationApproved, user,
		fmt.Sprintf("Welcome aboard, %s. Your registration has been approved.", user.Name))
	return nil
}

// Reject transitions a PENDING registration to REJECTED, a terminal state.
// Rejecting again is a no-op; rejecting an approved user is an error.
func (s *Service) Reject(ctx context.Context, userID string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	switch user.RegistrationStatus {
	case StatusRejected:
		return nil
	case StatusApproved:
		return fmt.Errorf("%w: registration already approved", ErrInvalidTransition)
	}

	if err := s.repo.UpdateStatus(ctx, userID, StatusRejected); err != nil {
		return err
	}

	s.notify(ctx, notification.KindRegistrationRejected, user,
		"Your registration was not approved. Contact the program team for details.")
	return nil
}

// UpdateStats overwrites the cumulative counters directly, bypassing the
// ledger. Administrative correction path; TotalCashBWP is left alone since
// cash settlement is tracked independently.
func (s *Service) UpdateStats(ctx context.Context, userID string, totalBottles int, totalXRP float64) error {
	if totalBottles < 0 || totalXRP < 0 {
		return fmt.Errorf("%w: stats cannot be negative", ErrInvalidInput)
	}
	return s.repo.UpdateStats(ctx, userID, totalBottles, totalXRP)
}

// ResetMonth zeroes every participant's monthly counter. Invoked by an admin
// at cycle-month rollover.
func (s *Service) ResetMonth(ctx context.Context) (int, error) {
	return s.repo.ResetMonth(ctx)
}

func (s *Service) notify(ctx context.Context, kind string, user User, body string) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Send(ctx, notification.Message{Kind: kind, Destination: user.ID, Body: body})
}
