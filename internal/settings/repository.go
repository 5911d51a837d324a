package settings

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists the single settings document.
type Repository interface {
	Get(ctx context.Context) (SystemSettings, error)
	Replace(ctx context.Context, s SystemSettings) error
}

type memoryRepository struct {
	mu      sync.RWMutex
	current SystemSettings
}

// NewMemoryRepository builds an in-memory settings store seeded with defaults.
func NewMemoryRepository() Repository {
	return &memoryRepository{current: Defaults()}
}

func (r *memoryRepository) Get(_ context.Context) (SystemSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current, nil
}

func (r *memoryRepository) Replace(_ context.Context, s SystemSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = s
	return nil
}

// PostgresRepository stores settings in a single-row table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed settings repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const settingsColumns = `site_title, hero_tagline, youtube_video_id, default_bottle_value_bwp,
	leaderboard_size, xrp_display_currency, registration_fee_bwp, payment_phone_number,
	cycle_month, total_cycle_months, min_monthly_target`

// Get loads the settings row, falling back to defaults when none exists yet.
func (r *PostgresRepository) Get(ctx context.Context) (SystemSettings, error) {
	row := r.db.QueryRow(ctx, `SELECT `+settingsColumns+` FROM system_settings WHERE id = 1`)
	var s SystemSettings
	if err := row.Scan(&s.SiteTitle, &s.HeroTagline, &s.YoutubeVideoID, &s.DefaultBottleValueBWP,
		&s.LeaderboardSize, &s.XRPDisplayCurrency, &s.RegistrationFeeBWP, &s.PaymentPhoneNumber,
		&s.CycleMonth, &s.TotalCycleMonths, &s.MinMonthlyTarget); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Defaults(), nil
		}
		return SystemSettings{}, err
	}
	return s, nil
}

// Replace upserts the settings row wholesale.
func (r *PostgresRepository) Replace(ctx context.Context, s SystemSettings) error {
	_, err := r.db.Exec(ctx, `INSERT INTO system_settings (id, `+settingsColumns+`)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			site_title = EXCLUDED.site_title,
			hero_tagline = EXCLUDED.hero_tagline,
			youtube_video_id = EXCLUDED.youtube_video_id,
			default_bottle_value_bwp = EXCLUDED.default_bottle_value_bwp,
			leaderboard_size = EXCLUDED.leaderboard_size,
			xrp_display_currency = EXCLUDED.xrp_display_currency,
			registration_fee_bwp = EXCLUDED.registration_fee_bwp,
			payment_phone_number = EXCLUDED.payment_phone_number,
			cycle_month = EXCLUDED.cycle_month,
			total_cycle_months = EXCLUDED.total_cycle_months,
			min_monthly_target = EXCLUDED.min_monthly_target`,
		s.SiteTitle, s.HeroTagline, s.YoutubeVideoID, s.DefaultBottleValueBWP,
		s.LeaderboardSize, s.XRPDisplayCurrency, s.RegistrationFeeBWP, s.PaymentPhoneNumber,
		s.CycleMonth, s.TotalCycleMonths, s.MinMonthlyTarget)
	return err
}
