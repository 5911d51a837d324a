package settings

import "context"

// Service exposes the configuration surface: read-mostly, replaced wholesale
// by an admin save.
type Service struct {
	repo Repository
}

// NewService builds a settings service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the current settings.
func (s *Service) Get(ctx context.Context) (SystemSettings, error) {
	return s.repo.Get(ctx)
}

// Replace swaps the settings document atomically after validation.
func (s *Service) Replace(ctx context.Context, next SystemSettings) error {
	if err := next.Validate(); err != nil {
		return err
	}
	return s.repo.Replace(ctx, next)
}
