package tax

import (
	"github.com/Dan9191/taxflow/internal/pan"
	"github.com/shopspring/decimal"
)

// SlabAmount is the share of taxable income that fell into one bracket and the tax on it.
type SlabAmount struct {
	Label  string          `json:"label"`
	Rate   decimal.Decimal `json:"rate"`
	Income decimal.Decimal `json:"income"`
	Tax    decimal.Decimal `json:"tax"`
}

// Trace records every quantity of a computation. Money fields other than
// Gross, Deductions and Taxable are rounded to two places.
type Trace struct {
	Regime          string           `json:"regime"`
	Entity          pan.EntityType   `json:"entity"`
	Table           string           `json:"table,omitempty"`
	FlatRate        *decimal.Decimal `json:"flat_rate,omitempty"`
	Gross           decimal.Decimal  `json:"gross"`
	Deductions      decimal.Decimal  `json:"deductions"`
	Taxable         decimal.Decimal  `json:"taxable"`
	Slabs           []SlabAmount     `json:"slabs"`
	TaxBeforeRebate decimal.Decimal  `json:"tax_before_rebate"`
	Rebate          decimal.Decimal  `json:"rebate"`
	TaxAfterRebate  decimal.Decimal  `json:"tax_after_rebate"`
	CessRate        decimal.Decimal  `json:"cess_rate"`
	Cess            decimal.Decimal  `json:"cess"`
	Total           decimal.Decimal  `json:"total"`
}

// Result is the output of a calculator: the payable total, the per-slab
// breakdown in bracket order and the full trace.
type Result struct {
	Total     decimal.Decimal `json:"total"`
	Breakdown []SlabAmount    `json:"breakdown"`
	Trace     Trace           `json:"trace"`
}

// Profile is the input to Compute.
type Profile struct {
	Gross      decimal.Decimal
	Deductions decimal.Decimal
	Age        int
	Entity     pan.EntityType
}
