package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dan9191/taxflow/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()

	db, err := Open("sqlite", filepath.Join(t.TempDir(), "profiles.db"))
	require.NoError(t, err, "Open()")

	repo := NewRepository(db)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testProfile(pan string) *models.Profile {
	return &models.Profile{
		PAN:        pan,
		Income:     decimal.RequireFromString("750500.75"),
		Deductions: decimal.RequireFromString("50000"),
		EMI:        decimal.RequireFromString("12000"),
		Age:        42,
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "whatever")
	assert.Error(t, err)
}

func TestRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t)
	now := time.Date(2026, 10, 1, 12, 30, 0, 0, time.UTC)
	repo.now = fixedClock(now)

	want := testProfile("ABCPD1234F")
	require.NoError(t, repo.SaveProfile(ctx, want))
	assert.Equal(t, now, want.UpdatedAt)

	got, err := repo.FindProfile(ctx, "ABCPD1234F")
	require.NoError(t, err)

	assert.Equal(t, want.PAN, got.PAN)
	assert.True(t, want.Income.Equal(got.Income), "income %s", got.Income)
	assert.True(t, want.Deductions.Equal(got.Deductions), "deductions %s", got.Deductions)
	assert.True(t, want.EMI.Equal(got.EMI), "emi %s", got.EMI)
	assert.Equal(t, 42, got.Age)
	assert.True(t, now.Equal(got.UpdatedAt), "updated_at %s", got.UpdatedAt)
}

func TestRepository_SaveUpserts(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t)

	p := testProfile("ABCCD1234F")
	require.NoError(t, repo.SaveProfile(ctx, p))

	p.Income = decimal.NewFromInt(9_000_000)
	p.Age = 0
	require.NoError(t, repo.SaveProfile(ctx, p))

	got, err := repo.FindProfile(ctx, "ABCCD1234F")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(9_000_000).Equal(got.Income))
	assert.Equal(t, 0, got.Age)

	var count int
	require.NoError(t, repo.db.Get(&count, "SELECT COUNT(*) FROM pan_profiles"))
	assert.Equal(t, 1, count)
}

func TestRepository_FindMissing(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.FindProfile(context.Background(), "ZZZPZ9999Z")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t)

	require.NoError(t, repo.SaveProfile(ctx, testProfile("ABCPD1234F")))
	require.NoError(t, repo.DeleteProfile(ctx, "ABCPD1234F"))

	_, err := repo.FindProfile(ctx, "ABCPD1234F")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.DeleteProfile(ctx, "ABCPD1234F"), ErrNotFound)
}

func TestRepository_DeleteProfilesBefore(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t)
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	repo.now = fixedClock(now.Add(-72 * time.Hour))
	require.NoError(t, repo.SaveProfile(ctx, testProfile("OLDPA1111A")))
	require.NoError(t, repo.SaveProfile(ctx, testProfile("OLDPB2222B")))

	repo.now = fixedClock(now)
	require.NoError(t, repo.SaveProfile(ctx, testProfile("NEWPC3333C")))

	n, err := repo.DeleteProfilesBefore(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.FindProfile(ctx, "OLDPA1111A")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindProfile(ctx, "NEWPC3333C")
	assert.NoError(t, err)
}
