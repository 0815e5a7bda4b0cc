package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/Dan9191/taxflow/internal/models"
	"github.com/Dan9191/taxflow/internal/pan"
	"github.com/Dan9191/taxflow/internal/tax"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ProfileStore persists the last inputs used per PAN
type ProfileStore interface {
	SaveProfile(ctx context.Context, p *models.Profile) error
	FindProfile(ctx context.Context, pan string) (*models.Profile, error)
	DeleteProfile(ctx context.Context, pan string) error
	DeleteProfilesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ReportMailer delivers a rendered calculation to an address
type ReportMailer interface {
	SendTaxReport(to string, calc *models.Calculation) error
}

// ErrMailDisabled is returned by EmailReport when no mailer is configured.
var ErrMailDisabled = errors.New("report mail is not configured")

// Service handles business logic
type Service struct {
	store  ProfileStore
	calc   *tax.Calculator
	mailer ReportMailer
	log    *logrus.Logger
	now    func() time.Time
}

// NewService initializes a new service. mailer may be nil.
func NewService(store ProfileStore, calc *tax.Calculator, mailer ReportMailer, log *logrus.Logger) *Service {
	return &Service{store: store, calc: calc, mailer: mailer, log: log, now: time.Now}
}

// CalculateRequest carries caller input that has already been coerced to numbers.
// Age is required for individuals and ignored otherwise.
type CalculateRequest struct {
	PAN        string
	Income     decimal.Decimal
	Deductions decimal.Decimal
	EMI        decimal.Decimal
	Age        *int
	Save       bool
}

// RegimeName reports the regime the service computes under.
func (s *Service) RegimeName() string {
	return s.calc.RegimeName()
}

// Calculate classifies the PAN, computes the tax and, when asked, stores the
// inputs as the PAN's profile.
func (s *Service) Calculate(ctx context.Context, req CalculateRequest) (*models.Calculation, error) {
	id, err := pan.Parse(req.PAN)
	if err != nil {
		return nil, err
	}

	profile := tax.Profile{
		Gross:      req.Income,
		Deductions: req.Deductions,
		Entity:     id.Entity,
	}
	if id.Entity == pan.Individual {
		if req.Age == nil {
			return nil, fmt.Errorf("%w: age is required for individuals", tax.ErrInvalidInput)
		}
		profile.Age = *req.Age
	}

	result, err := s.calc.Compute(profile)
	if err != nil {
		return nil, err
	}

	calc := &models.Calculation{
		ID:           uuid.New(),
		PAN:          id.Code,
		Entity:       id.Entity,
		EMI:          req.EMI,
		TakeHome:     req.Income.Sub(req.Deductions).Sub(result.Total).Sub(req.EMI),
		Result:       result,
		CalculatedAt: s.now().UTC(),
	}
	if id.Entity == pan.Individual {
		age := profile.Age
		calc.Age = &age
	}

	if req.Save {
		stored := &models.Profile{
			PAN:        id.Code,
			Income:     req.Income,
			Deductions: req.Deductions,
			EMI:        req.EMI,
			Age:        profile.Age,
		}
		if err := s.store.SaveProfile(ctx, stored); err != nil {
			return nil, err
		}
	}

	s.log.WithFields(logrus.Fields{
		"calculation_id": calc.ID.String(),
		"entity":         id.Entity.String(),
		"regime":         result.Trace.Regime,
	}).Infof("Tax calculated for %s: %s", id.Code, result.Total.StringFixed(2))
	return calc, nil
}

// Profile returns the stored profile for code, used to autofill inputs.
func (s *Service) Profile(ctx context.Context, code string) (*models.Profile, error) {
	id, err := pan.Parse(code)
	if err != nil {
		return nil, err
	}
	return s.store.FindProfile(ctx, id.Code)
}

// SaveProfile validates p and stores it under its normalized PAN.
func (s *Service) SaveProfile(ctx context.Context, p *models.Profile) error {
	id, err := pan.Parse(p.PAN)
	if err != nil {
		return err
	}
	if p.Age < 0 {
		return fmt.Errorf("%w: age %d is negative", tax.ErrInvalidInput, p.Age)
	}
	p.PAN = id.Code
	if err := s.store.SaveProfile(ctx, p); err != nil {
		return err
	}
	s.log.Infof("Profile saved for %s", p.PAN)
	return nil
}

// DeleteProfile removes the stored profile for code.
func (s *Service) DeleteProfile(ctx context.Context, code string) error {
	id, err := pan.Parse(code)
	if err != nil {
		return err
	}
	if err := s.store.DeleteProfile(ctx, id.Code); err != nil {
		return err
	}
	s.log.Infof("Profile deleted for %s", id.Code)
	return nil
}

// PurgeStaleProfiles deletes profiles not updated within retention.
// A non-positive retention keeps everything.
func (s *Service) PurgeStaleProfiles(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-retention)
	n, err := s.store.DeleteProfilesBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.log.Infof("Purged %d profiles not updated since %s", n, cutoff.UTC().Format(time.RFC3339))
	return n, nil
}

// EmailReport calculates req and mails the report to the given address.
func (s *Service) EmailReport(ctx context.Context, req CalculateRequest, to string) (*models.Calculation, error) {
	if s.mailer == nil {
		return nil, ErrMailDisabled
	}
	addr, err := mail.ParseAddress(to)
	if err != nil {
		return nil, fmt.Errorf("%w: recipient %q: %v", tax.ErrInvalidInput, to, err)
	}

	calc, err := s.Calculate(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.mailer.SendTaxReport(addr.Address, calc); err != nil {
		return nil, fmt.Errorf("failed to mail report: %w", err)
	}
	return calc, nil
}
