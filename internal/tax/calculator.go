package tax

import (
	"fmt"

	"github.com/Dan9191/taxflow/internal/pan"
	"github.com/shopspring/decimal"
)

// RoundingMode selects how reported amounts are rounded to two places.
type RoundingMode int

const (
	// HalfEven rounds exact halves to the even neighbour.
	HalfEven RoundingMode = iota
	// HalfUp rounds exact halves away from zero.
	HalfUp
)

// ParseRoundingMode accepts "half-even" and "half-up".
func ParseRoundingMode(s string) (RoundingMode, error) {
	switch s {
	case "half-even", "":
		return HalfEven, nil
	case "half-up":
		return HalfUp, nil
	}
	return HalfEven, fmt.Errorf("unknown rounding mode %q", s)
}

func (m RoundingMode) String() string {
	if m == HalfUp {
		return "half-up"
	}
	return "half-even"
}

const moneyPlaces = 2

// Calculator computes tax under one regime.
type Calculator struct {
	regime   Regime
	rounding RoundingMode
}

type Option func(*Calculator)

// WithRounding sets the rounding mode for reported amounts. The default is HalfEven.
func WithRounding(m RoundingMode) Option {
	return func(c *Calculator) {
		c.rounding = m
	}
}

// NewCalculator validates regime and returns a calculator for it.
func NewCalculator(regime Regime, opts ...Option) (*Calculator, error) {
	if err := regime.Validate(); err != nil {
		return nil, err
	}
	c := &Calculator{regime: regime}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// RegimeName returns the name of the regime the calculator applies.
func (c *Calculator) RegimeName() string {
	return c.regime.Name
}

// Compute routes p to the individual or the corporate calculator.
// Company and Other both take the corporate path.
func (c *Calculator) Compute(p Profile) (Result, error) {
	if p.Entity == pan.Individual {
		if p.Age < 0 {
			return Result{}, fmt.Errorf("%w: age %d is negative", ErrInvalidInput, p.Age)
		}
		return c.Individual(p.Gross, p.Deductions, p.Age), nil
	}
	return c.Corporate(p.Gross, p.Deductions, p.Entity), nil
}

// Individual taxes an individual's income with the regime's slab table for age.
func (c *Calculator) Individual(gross, deductions decimal.Decimal, age int) Result {
	taxable := taxableIncome(gross, deductions)
	table := c.regime.TableFor(age)
	slabs, before := table.walk(taxable, c.round)

	rebate := decimal.Zero
	if taxable.LessThanOrEqual(c.regime.RebateThreshold) {
		rebate = decimal.Min(before, c.regime.RebateCap)
	}
	after := before.Sub(rebate)
	cess := after.Mul(c.regime.CessRate)
	total := c.round(after.Add(cess))

	return Result{
		Total:     total,
		Breakdown: slabs,
		Trace: Trace{
			Regime:          c.regime.Name,
			Entity:          pan.Individual,
			Table:           table.Name,
			Gross:           gross,
			Deductions:      deductions,
			Taxable:         taxable,
			Slabs:           slabs,
			TaxBeforeRebate: c.round(before),
			Rebate:          c.round(rebate),
			TaxAfterRebate:  c.round(after),
			CessRate:        c.regime.CessRate,
			Cess:            c.round(cess),
			Total:           total,
		},
	}
}

// Corporate taxes a non-individual at a flat rate. The concessional company
// rate is chosen on gross income, not on taxable income.
func (c *Calculator) Corporate(gross, deductions decimal.Decimal, entity pan.EntityType) Result {
	taxable := taxableIncome(gross, deductions)
	rates := c.regime.Corporate
	rate := rates.DefaultRate
	if entity == pan.Company && gross.LessThanOrEqual(rates.ConcessionalLimit) {
		rate = rates.ConcessionalRate
	}

	before := taxable.Mul(rate)
	cess := before.Mul(c.regime.CessRate)
	total := c.round(before.Add(cess))

	slabs := []SlabAmount{{
		Label:  fmt.Sprintf("%d%% Flat", rate.Shift(2).IntPart()),
		Rate:   rate,
		Income: taxable,
		Tax:    c.round(before),
	}}

	return Result{
		Total:     total,
		Breakdown: slabs,
		Trace: Trace{
			Regime:          c.regime.Name,
			Entity:          entity,
			FlatRate:        &rate,
			Gross:           gross,
			Deductions:      deductions,
			Taxable:         taxable,
			Slabs:           slabs,
			TaxBeforeRebate: c.round(before),
			Rebate:          decimal.Zero,
			TaxAfterRebate:  c.round(before),
			CessRate:        c.regime.CessRate,
			Cess:            c.round(cess),
			Total:           total,
		},
	}
}

func (c *Calculator) round(d decimal.Decimal) decimal.Decimal {
	if c.rounding == HalfUp {
		return d.Round(moneyPlaces)
	}
	return d.RoundBank(moneyPlaces)
}

func taxableIncome(gross, deductions decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, gross.Sub(deductions))
}
