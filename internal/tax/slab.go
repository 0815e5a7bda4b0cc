package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bracket is one slab: Width of income taxed at Rate.
// The last bracket of a table is Unbounded and its Width is ignored.
type Bracket struct {
	Label     string
	Width     decimal.Decimal
	Rate      decimal.Decimal
	Unbounded bool
}

// SlabTable is an ordered list of brackets partitioning taxable income from zero upwards.
type SlabTable struct {
	Name     string
	Brackets []Bracket
}

// Validate checks that rates never decrease, bounded widths are positive
// and exactly the final bracket is unbounded.
func (t SlabTable) Validate() error {
	if len(t.Brackets) == 0 {
		return fmt.Errorf("%w %q: no brackets", ErrInvalidTable, t.Name)
	}
	last := len(t.Brackets) - 1
	prev := decimal.Zero
	for i, b := range t.Brackets {
		if b.Rate.IsNegative() {
			return fmt.Errorf("%w %q: bracket %q has negative rate %s", ErrInvalidTable, t.Name, b.Label, b.Rate)
		}
		if b.Rate.LessThan(prev) {
			return fmt.Errorf("%w %q: rate of bracket %q decreases to %s", ErrInvalidTable, t.Name, b.Label, b.Rate)
		}
		prev = b.Rate
		if b.Unbounded != (i == last) {
			return fmt.Errorf("%w %q: only the last bracket may be unbounded", ErrInvalidTable, t.Name)
		}
		if !b.Unbounded && !b.Width.IsPositive() {
			return fmt.Errorf("%w %q: bracket %q has non-positive width %s", ErrInvalidTable, t.Name, b.Label, b.Width)
		}
	}
	return nil
}

// walk allocates taxable income to brackets left to right. It returns the
// brackets that received income and the exact tax over all of them.
func (t SlabTable) walk(taxable decimal.Decimal, round func(decimal.Decimal) decimal.Decimal) ([]SlabAmount, decimal.Decimal) {
	var slabs []SlabAmount
	total := decimal.Zero
	remaining := taxable
	for _, b := range t.Brackets {
		if !remaining.IsPositive() {
			break
		}
		part := remaining
		if !b.Unbounded {
			part = decimal.Min(remaining, b.Width)
		}
		tax := part.Mul(b.Rate)
		slabs = append(slabs, SlabAmount{
			Label:  b.Label,
			Rate:   b.Rate,
			Income: part,
			Tax:    round(tax),
		})
		total = total.Add(tax)
		remaining = remaining.Sub(part)
	}
	return slabs, total
}

func bounded(label string, width int64, ratePct int64) Bracket {
	return Bracket{Label: label, Width: decimal.NewFromInt(width), Rate: percent(ratePct)}
}

func unbounded(label string, ratePct int64) Bracket {
	return Bracket{Label: label, Rate: percent(ratePct), Unbounded: true}
}

func percent(p int64) decimal.Decimal {
	return decimal.New(p, -2)
}
