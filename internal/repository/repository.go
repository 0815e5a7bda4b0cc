package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/taxflow/internal/models"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no profile is stored for a PAN.
var ErrNotFound = errors.New("profile not found")

// Repository provides database operations
type Repository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewRepository initializes a new repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Close closes the underlying database.
func (r *Repository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("closing repository: %w", err)
	}
	return nil
}

// SaveProfile creates or replaces the profile for p.PAN and stamps UpdatedAt.
func (r *Repository) SaveProfile(ctx context.Context, p *models.Profile) error {
	p.UpdatedAt = r.now().UTC().Truncate(time.Second)
	query := r.db.Rebind(`
		INSERT INTO pan_profiles (pan, income, deductions, emi, age, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (pan) DO UPDATE SET
			income = excluded.income,
			deductions = excluded.deductions,
			emi = excluded.emi,
			age = excluded.age,
			updated_at = excluded.updated_at`)
	_, err := r.db.ExecContext(ctx, query, p.PAN, p.Income, p.Deductions, p.EMI, p.Age, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save profile %s: %w", p.PAN, err)
	}
	return nil
}

// FindProfile retrieves the profile stored for pan
func (r *Repository) FindProfile(ctx context.Context, pan string) (*models.Profile, error) {
	p := &models.Profile{}
	query := r.db.Rebind(`
		SELECT pan, income, deductions, emi, age, updated_at
		FROM pan_profiles
		WHERE pan = ?`)
	err := r.db.GetContext(ctx, p, query, pan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, pan)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile %s: %w", pan, err)
	}
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

// DeleteProfile removes the profile stored for pan
func (r *Repository) DeleteProfile(ctx context.Context, pan string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM pan_profiles WHERE pan = ?`), pan)
	if err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", pan, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", pan, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, pan)
	}
	return nil
}

// DeleteProfilesBefore removes profiles last updated before cutoff and
// returns how many were removed.
func (r *Repository) DeleteProfilesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := r.db.Rebind(`DELETE FROM pan_profiles WHERE updated_at < ?`)
	res, err := r.db.ExecContext(ctx, query, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge profiles: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to purge profiles: %w", err)
	}
	return n, nil
}
