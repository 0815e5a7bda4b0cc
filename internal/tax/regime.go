package tax

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

const (
	// RegimeNew2023 is the unified seven-slab new regime with the 5L rebate limit.
	RegimeNew2023 = "new-2023"
	// RegimeNew2023Rebate7L is RegimeNew2023 with the rebate limit raised to 7L.
	RegimeNew2023Rebate7L = "new-2023-7l"
	// RegimeAgeBanded is the older regime with separate tables for senior and super senior citizens.
	RegimeAgeBanded = "age-banded"
	// DefaultRegime is used when no regime is configured.
	DefaultRegime = RegimeNew2023
)

// AgeBand applies Table to taxpayers aged MinAge or more, up to the next band.
type AgeBand struct {
	MinAge int
	Table  SlabTable
}

// CorporateRates holds the flat rates for non-individual entities.
// Companies whose gross income is at most ConcessionalLimit pay
// ConcessionalRate; everyone else pays DefaultRate.
type CorporateRates struct {
	ConcessionalRate  decimal.Decimal
	ConcessionalLimit decimal.Decimal
	DefaultRate       decimal.Decimal
}

// Regime is a complete set of rules for one assessment variant.
type Regime struct {
	Name            string
	Bands           []AgeBand
	RebateThreshold decimal.Decimal
	RebateCap       decimal.Decimal
	CessRate        decimal.Decimal
	Corporate       CorporateRates
}

// TableFor returns the slab table for a taxpayer of the given age.
func (r Regime) TableFor(age int) SlabTable {
	table := r.Bands[0].Table
	for _, band := range r.Bands[1:] {
		if age < band.MinAge {
			break
		}
		table = band.Table
	}
	return table
}

// Validate checks every table and the band ordering.
func (r Regime) Validate() error {
	if len(r.Bands) == 0 {
		return fmt.Errorf("regime %q: no slab tables", r.Name)
	}
	if r.Bands[0].MinAge != 0 {
		return fmt.Errorf("regime %q: first age band starts at %d, want 0", r.Name, r.Bands[0].MinAge)
	}
	for i, band := range r.Bands {
		if i > 0 && band.MinAge <= r.Bands[i-1].MinAge {
			return fmt.Errorf("regime %q: age bands out of order at %d", r.Name, band.MinAge)
		}
		if err := band.Table.Validate(); err != nil {
			return fmt.Errorf("regime %q: %w", r.Name, err)
		}
	}
	if r.RebateCap.IsNegative() || r.RebateThreshold.IsNegative() {
		return fmt.Errorf("regime %q: negative rebate parameters", r.Name)
	}
	if r.CessRate.IsNegative() {
		return fmt.Errorf("regime %q: negative cess rate", r.Name)
	}
	return nil
}

var regimeBuilders = map[string]func() Regime{
	RegimeNew2023:         new2023,
	RegimeNew2023Rebate7L: new2023Rebate7L,
	RegimeAgeBanded:       ageBanded,
}

// Regimes lists the names accepted by LookupRegime.
func Regimes() []string {
	names := make([]string, 0, len(regimeBuilders))
	for name := range regimeBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupRegime builds a fresh copy of the named regime.
func LookupRegime(name string) (Regime, error) {
	build, ok := regimeBuilders[name]
	if !ok {
		return Regime{}, fmt.Errorf("%w: %q", ErrUnknownRegime, name)
	}
	return build(), nil
}

func unifiedTable() SlabTable {
	return SlabTable{
		Name: "unified",
		Brackets: []Bracket{
			bounded("0–7L", 700_000, 0),
			bounded("7L–11L", 400_000, 5),
			bounded("11L–15L", 400_000, 10),
			bounded("15L–19L", 400_000, 15),
			bounded("19L–23L", 400_000, 20),
			bounded("23L–27L", 400_000, 25),
			unbounded("Above 27L", 30),
		},
	}
}

func defaultCorporate() CorporateRates {
	return CorporateRates{
		ConcessionalRate:  percent(22),
		ConcessionalLimit: decimal.NewFromInt(5_000_000),
		DefaultRate:       percent(30),
	}
}

func new2023() Regime {
	return Regime{
		Name:            RegimeNew2023,
		Bands:           []AgeBand{{MinAge: 0, Table: unifiedTable()}},
		RebateThreshold: decimal.NewFromInt(500_000),
		RebateCap:       decimal.NewFromInt(12_500),
		CessRate:        percent(4),
		Corporate:       defaultCorporate(),
	}
}

func new2023Rebate7L() Regime {
	r := new2023()
	r.Name = RegimeNew2023Rebate7L
	r.RebateThreshold = decimal.NewFromInt(700_000)
	return r
}

func ageBanded() Regime {
	return Regime{
		Name: RegimeAgeBanded,
		Bands: []AgeBand{
			{MinAge: 0, Table: SlabTable{
				Name: "below 60",
				Brackets: []Bracket{
					bounded("0–2.5L", 250_000, 0),
					bounded("2.5L–5L", 250_000, 5),
					bounded("5L–10L", 500_000, 20),
					unbounded("Above 10L", 30),
				},
			}},
			{MinAge: 60, Table: SlabTable{
				Name: "senior",
				Brackets: []Bracket{
					bounded("0–3L", 300_000, 0),
					bounded("3L–5L", 200_000, 5),
					bounded("5L–10L", 500_000, 20),
					unbounded("Above 10L", 30),
				},
			}},
			{MinAge: 80, Table: SlabTable{
				Name: "super senior",
				Brackets: []Bracket{
					bounded("0–5L", 500_000, 0),
					bounded("5L–10L", 500_000, 20),
					unbounded("Above 10L", 30),
				},
			}},
		},
		RebateThreshold: decimal.NewFromInt(500_000),
		RebateCap:       decimal.NewFromInt(12_500),
		CessRate:        percent(4),
		Corporate:       defaultCorporate(),
	}
}
