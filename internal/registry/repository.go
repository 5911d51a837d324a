package registry

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists users. List preserves insertion order, which is what
// breaks leaderboard ties.
type Repository interface {
	Create(ctx context.Context, user User) error
	FindByID(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByPhone(ctx context.Context, phone string) (User, error)
	List(ctx context.Context) ([]User, error)
	UpdateStatus(ctx context.Context, id string, status RegistrationStatus) error
	UpdateStats(ctx context.Context, id string, totalBottles int, totalXRP float64) error
	// ApplyCollection atomically prepends the record and bumps TotalBottles
	// and BottlesThisMonth. Returns the updated user.
	ApplyCollection(ctx context.Context, id string, rec CollectionRecord) (User, error)
	UpdateTokenVersion(ctx context.Context, id string, version int) error
	// ResetMonth zeroes BottlesThisMonth for every participant and returns
	// how many rows changed. Cycle-rollover trigger, not called by the core.
	ResetMonth(ctx context.Context) (int, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, role, name, email, phone_primary, phone_secondary, phone_tertiary,
	avatar, registration_status, payment_method, join_date,
	total_bottles, bottles_this_month, total_cash_bwp, total_xrp,
	password_hash, token_version, created_at`

// Create inserts a new user row.
func (r *PostgresRepository) Create(ctx context.Context, user User) error {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		userID, user.Role, user.Name, NormalizeEmail(user.Email),
		NormalizePhone(user.PhonePrimary), user.PhoneSecondary, user.PhoneTertiary,
		user.Avatar, user.RegistrationStatus, user.PaymentMethod, user.JoinDate.UTC(),
		user.TotalBottles, user.BottlesThisMonth, user.TotalCashBWP, user.TotalXRP,
		user.PasswordHash, user.TokenVersion, user.CreatedAt.UTC())
	return err
}

// FindByID fetches a user and their collection records, newest first.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrNotFound
	}
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
}

// FindByEmail fetches a user by canonical email, preferring a live
// registration over a rejected one sharing the identifier.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1
		ORDER BY (registration_status = 'REJECTED'), created_at LIMIT 1`, NormalizeEmail(email))
}

// FindByPhone fetches a user by canonical primary phone.
func (r *PostgresRepository) FindByPhone(ctx context.Context, phone string) (User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE phone_primary = $1
		ORDER BY (registration_status = 'REJECTED'), created_at LIMIT 1`, NormalizePhone(phone))
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (User, error) {
	row := r.db.QueryRow(ctx, query, arg)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	records, err := r.recordsFor(ctx, user.ID)
	if err != nil {
		return User{}, err
	}
	user.Records = records
	return user, nil
}

// List returns all users in insertion order, without per-user records.
func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateStatus transitions a user's registration status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status RegistrationStatus) error {
	return r.exec(ctx, `UPDATE users SET registration_status = $1 WHERE id = $2`, status, id)
}

// UpdateStats overwrites the cumulative counters. Administrative correction
// path, bypasses the ledger.
func (r *PostgresRepository) UpdateStats(ctx context.Context, id string, totalBottles int, totalXRP float64) error {
	return r.exec(ctx, `UPDATE users SET total_bottles = $1, total_xrp = $2 WHERE id = $3`, totalBottles, totalXRP, id)
}

// ApplyCollection inserts the record and bumps the counters in one
// transaction so the ledger and the totals cannot diverge.
func (r *PostgresRepository) ApplyCollection(ctx context.Context, id string, rec CollectionRecord) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrNotFound
	}
	recID, err := uuid.Parse(rec.ID)
	if err != nil {
		return User{}, err
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return User{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if _, err := tx.Exec(ctx, `INSERT INTO collection_records (id, user_id, date, amount, value_bwp, verified_by)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		recID, userID, rec.Date.UTC(), rec.Amount, rec.ValueBWP, rec.VerifiedBy); err != nil {
		return User{}, err
	}

	cmd, err := tx.Exec(ctx, `UPDATE users
		SET total_bottles = total_bottles + $1, bottles_this_month = bottles_this_month + $1
		WHERE id = $2`, rec.Amount, userID)
	if err != nil {
		return User{}, err
	}
	if cmd.RowsAffected() == 0 {
		return User{}, ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, err
	}

	return r.FindByID(ctx, id)
}

// UpdateTokenVersion stores the user's current token version.
func (r *PostgresRepository) UpdateTokenVersion(ctx context.Context, id string, version int) error {
	return r.exec(ctx, `UPDATE users SET token_version = $1 WHERE id = $2`, version, id)
}

// ResetMonth zeroes the monthly counter for all participants.
func (r *PostgresRepository) ResetMonth(ctx context.Context) (int, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET bottles_this_month = 0 WHERE role = $1`, RoleParticipant)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	last := args[len(args)-1].(string)
	userID, err := uuid.Parse(last)
	if err != nil {
		return ErrNotFound
	}
	args[len(args)-1] = userID
	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) recordsFor(ctx context.Context, id string) ([]CollectionRecord, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, err := r.db.Query(ctx, `SELECT id, date, amount, value_bwp, verified_by
		FROM collection_records WHERE user_id = $1 ORDER BY date DESC, created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []CollectionRecord
	for rows.Next() {
		var (
			recID uuid.UUID
			rec   CollectionRecord
			date  time.Time
		)
		if err := rows.Scan(&recID, &date, &rec.Amount, &rec.ValueBWP, &rec.VerifiedBy); err != nil {
			return nil, err
		}
		rec.ID = recID.String()
		rec.Date = date.UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanUser(row pgx.Row) (User, error) {
	var (
		id        uuid.UUID
		user      User
		joinDate  time.Time
		createdAt time.Time
	)
	if err := row.Scan(&id, &user.Role, &user.Name, &user.Email,
		&user.PhonePrimary, &user.PhoneSecondary, &user.PhoneTertiary,
		&user.Avatar, &user.RegistrationStatus, &user.PaymentMethod, &joinDate,
		&user.TotalBottles, &user.BottlesThisMonth, &user.TotalCashBWP, &user.TotalXRP,
		&user.PasswordHash, &user.TokenVersion, &createdAt); err != nil {
		return User{}, err
	}
	user.ID = id.String()
	user.JoinDate = joinDate.UTC()
	user.CreatedAt = createdAt.UTC()
	return user, nil
}
