package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Dan9191/taxflow/internal/models"
	"github.com/Dan9191/taxflow/internal/pan"
	"github.com/Dan9191/taxflow/internal/repository"
	"github.com/Dan9191/taxflow/internal/tax"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
	saveErr  error
	cutoff   time.Time
}

func newMemStore() *memStore {
	return &memStore{profiles: map[string]models.Profile{}}
}

func (m *memStore) SaveProfile(_ context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.profiles[p.PAN] = *p
	return nil
}

func (m *memStore) FindProfile(_ context.Context, code string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrNotFound, code)
	}
	return &p, nil
}

func (m *memStore) DeleteProfile(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[code]; !ok {
		return fmt.Errorf("%w: %s", repository.ErrNotFound, code)
	}
	delete(m.profiles, code)
	return nil
}

func (m *memStore) DeleteProfilesBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cutoff = cutoff
	var n int64
	for k, p := range m.profiles {
		if p.UpdatedAt.Before(cutoff) {
			delete(m.profiles, k)
			n++
		}
	}
	return n, nil
}

type recordingMailer struct {
	to    []string
	calcs []*models.Calculation
	err   error
}

func (r *recordingMailer) SendTaxReport(to string, calc *models.Calculation) error {
	if r.err != nil {
		return r.err
	}
	r.to = append(r.to, to)
	r.calcs = append(r.calcs, calc)
	return nil
}

func newTestService(t *testing.T, store ProfileStore, mailer ReportMailer) (*Service, *logtest.Hook) {
	t.Helper()
	regime, err := tax.LookupRegime(tax.RegimeNew2023)
	require.NoError(t, err)
	calc, err := tax.NewCalculator(regime)
	require.NoError(t, err)

	logger, hook := logtest.NewNullLogger()
	svc := NewService(store, calc, mailer, logger)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	return svc, hook
}

func intPtr(v int) *int { return &v }

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestService_CalculateIndividual(t *testing.T) {
	store := newMemStore()
	svc, hook := newTestService(t, store, nil)

	calc, err := svc.Calculate(context.Background(), CalculateRequest{
		PAN:        " abcpd1234f",
		Income:     money("1000000"),
		Deductions: money("100000"),
		EMI:        money("20000"),
		Age:        intPtr(30),
		Save:       true,
	})
	require.NoError(t, err)

	assert.Equal(t, "ABCPD1234F", calc.PAN)
	assert.Equal(t, pan.Individual, calc.Entity)
	require.NotNil(t, calc.Age)
	assert.Equal(t, 30, *calc.Age)
	assert.True(t, money("10400").Equal(calc.Result.Total))
	// 1000000 - 100000 - 10400 - 20000
	assert.True(t, money("869600").Equal(calc.TakeHome), "take home %s", calc.TakeHome)
	assert.NotEmpty(t, calc.ID.String())
	assert.Equal(t, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), calc.CalculatedAt)

	stored, ok := store.profiles["ABCPD1234F"]
	require.True(t, ok, "profile saved under the normalized PAN")
	assert.True(t, money("20000").Equal(stored.EMI))
	assert.Equal(t, 30, stored.Age)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "Individual", entry.Data["entity"])
}

func TestService_CalculateCorporate(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(t, store, nil)

	calc, err := svc.Calculate(context.Background(), CalculateRequest{
		PAN:    "ABCCD1234F",
		Income: money("500000"),
	})
	require.NoError(t, err)

	assert.Equal(t, pan.Company, calc.Entity)
	assert.Nil(t, calc.Age, "age is not reported for companies")
	assert.True(t, money("114400").Equal(calc.Result.Total))
	assert.Empty(t, store.profiles, "nothing saved without Save")

	other, err := svc.Calculate(context.Background(), CalculateRequest{PAN: "ABCXD1234F", Income: money("500000")})
	require.NoError(t, err)
	assert.True(t, money("156000").Equal(other.Result.Total))
}

func TestService_CalculateErrors(t *testing.T) {
	svc, _ := newTestService(t, newMemStore(), nil)
	ctx := context.Background()

	_, err := svc.Calculate(ctx, CalculateRequest{PAN: "BAD", Income: money("1")})
	assert.ErrorIs(t, err, pan.ErrInvalidFormat)

	_, err = svc.Calculate(ctx, CalculateRequest{PAN: "ABCPD1234F", Income: money("1")})
	assert.ErrorIs(t, err, tax.ErrInvalidInput, "individuals need an age")

	_, err = svc.Calculate(ctx, CalculateRequest{PAN: "ABCPD1234F", Income: money("1"), Age: intPtr(-3)})
	assert.ErrorIs(t, err, tax.ErrInvalidInput)

	store := newMemStore()
	store.saveErr = errors.New("disk full")
	svc, _ = newTestService(t, store, nil)
	_, err = svc.Calculate(ctx, CalculateRequest{PAN: "ABCCD1234F", Income: money("1"), Save: true})
	assert.EqualError(t, err, "disk full")
}

func TestService_Profiles(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(t, store, nil)
	ctx := context.Background()

	_, err := svc.Profile(ctx, "ABCPD1234F")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	p := &models.Profile{PAN: "abcpd1234f", Income: money("800000"), Age: 61}
	require.NoError(t, svc.SaveProfile(ctx, p))
	assert.Equal(t, "ABCPD1234F", p.PAN)

	got, err := svc.Profile(ctx, "abcpd1234f")
	require.NoError(t, err)
	assert.Equal(t, 61, got.Age)

	assert.ErrorIs(t, svc.SaveProfile(ctx, &models.Profile{PAN: "ABCPD1234F", Age: -1}), tax.ErrInvalidInput)
	assert.ErrorIs(t, svc.SaveProfile(ctx, &models.Profile{PAN: "nope"}), pan.ErrInvalidFormat)

	require.NoError(t, svc.DeleteProfile(ctx, "ABCPD1234F"))
	assert.ErrorIs(t, svc.DeleteProfile(ctx, "ABCPD1234F"), repository.ErrNotFound)
	_, err = svc.Profile(ctx, "1234")
	assert.ErrorIs(t, err, pan.ErrInvalidFormat)
}

func TestService_PurgeStaleProfiles(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(t, store, nil)
	ctx := context.Background()
	now := svc.now()

	store.profiles["OLDPA1111A"] = models.Profile{PAN: "OLDPA1111A", UpdatedAt: now.Add(-48 * time.Hour)}
	store.profiles["NEWPA1111A"] = models.Profile{PAN: "NEWPA1111A", UpdatedAt: now.Add(-time.Hour)}

	n, err := svc.PurgeStaleProfiles(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, n, "zero retention keeps everything")

	n, err = svc.PurgeStaleProfiles(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, now.Add(-24*time.Hour), store.cutoff)
	assert.Contains(t, store.profiles, "NEWPA1111A")
}

func TestService_EmailReport(t *testing.T) {
	ctx := context.Background()
	req := CalculateRequest{PAN: "ABCCD1234F", Income: money("500000")}

	t.Run("disabled without a mailer", func(t *testing.T) {
		svc, _ := newTestService(t, newMemStore(), nil)
		_, err := svc.EmailReport(ctx, req, "a@example.com")
		assert.ErrorIs(t, err, ErrMailDisabled)
	})

	t.Run("sends the calculation", func(t *testing.T) {
		mailer := &recordingMailer{}
		svc, _ := newTestService(t, newMemStore(), mailer)

		calc, err := svc.EmailReport(ctx, req, "Finance <finance@example.com>")
		require.NoError(t, err)
		assert.Equal(t, []string{"finance@example.com"}, mailer.to)
		assert.Same(t, calc, mailer.calcs[0])
	})

	t.Run("bad recipient", func(t *testing.T) {
		svc, _ := newTestService(t, newMemStore(), &recordingMailer{})
		_, err := svc.EmailReport(ctx, req, "not an address")
		assert.ErrorIs(t, err, tax.ErrInvalidInput)
	})

	t.Run("mail failure", func(t *testing.T) {
		svc, _ := newTestService(t, newMemStore(), &recordingMailer{err: errors.New("smtp down")})
		_, err := svc.EmailReport(ctx, req, "a@example.com")
		assert.ErrorContains(t, err, "smtp down")
	})
}
