// Package report renders calculations as a plain-text summary or an XML document.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/taxflow/internal/models"
	"github.com/Dan9191/taxflow/internal/pan"
	"github.com/beevik/etree"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const currency = "₹"

// Money formats d with two decimals and thousands separators, e.g. 1,234,567.80.
func Money(d decimal.Decimal) string {
	r := d.RoundBank(2)
	whole := r.Truncate(0)
	frac := r.Sub(whole).Abs().StringFixed(2)[1:]
	sign := ""
	if r.IsNegative() && whole.IsZero() {
		sign = "-"
	}
	return sign + humanize.BigComma(whole.BigInt()) + frac
}

// Percent formats a fractional rate such as 0.04 as "4%".
func Percent(rate decimal.Decimal) string {
	return rate.Shift(2).String() + "%"
}

// Text returns the step-by-step summary of calc, one line per entry.
func Text(calc *models.Calculation) string {
	tr := calc.Result.Trace
	lines := []string{
		"PAN: " + calc.PAN,
		"Entity Type: " + calc.Entity.String(),
		"Regime: " + tr.Regime,
		"Gross / Turnover: " + currency + Money(tr.Gross),
		"Deductions: " + currency + Money(tr.Deductions),
		"Taxable Income: " + currency + Money(tr.Taxable),
	}
	if calc.Entity == pan.Individual {
		if calc.Age != nil {
			lines = append(lines, fmt.Sprintf("Age: %d years", *calc.Age))
		}
		if strings.Contains(tr.Table, "senior") {
			lines = append(lines, "Senior citizen benefits applied.")
		}
		lines = append(lines, "Slab Table: "+tr.Table)
	} else if tr.FlatRate != nil {
		lines = append(lines, "Flat Rate: "+Percent(*tr.FlatRate))
	}

	lines = append(lines, "", "Tax Breakdown by Slab:")
	for _, s := range calc.Result.Breakdown {
		lines = append(lines, fmt.Sprintf("  %s: %s%s", s.Label, currency, Money(s.Tax)))
	}
	lines = append(lines,
		"Tax Before Rebate: "+currency+Money(tr.TaxBeforeRebate),
		"Rebate: "+currency+Money(tr.Rebate),
		"Tax After Rebate: "+currency+Money(tr.TaxAfterRebate),
		fmt.Sprintf("Cess (%s): %s%s", Percent(tr.CessRate), currency, Money(tr.Cess)),
		"Total Tax: "+currency+Money(calc.Result.Total),
		"Monthly EMI: "+currency+Money(calc.EMI),
		"Net / Take-Home: "+currency+Money(calc.TakeHome),
	)
	return strings.Join(lines, "\n") + "\n"
}

// XML returns calc as an indented <taxReport> document.
func XML(calc *models.Calculation) ([]byte, error) {
	tr := calc.Result.Trace

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("taxReport")
	root.CreateAttr("id", calc.ID.String())
	root.CreateAttr("calculatedAt", calc.CalculatedAt.UTC().Format(time.RFC3339))

	taxpayer := root.CreateElement("taxpayer")
	taxpayer.CreateAttr("pan", calc.PAN)
	taxpayer.CreateAttr("entity", calc.Entity.String())
	if calc.Age != nil {
		taxpayer.CreateAttr("age", fmt.Sprint(*calc.Age))
	}

	regime := root.CreateElement("regime")
	regime.CreateAttr("name", tr.Regime)
	if tr.Table != "" {
		regime.CreateAttr("table", tr.Table)
	}
	if tr.FlatRate != nil {
		regime.CreateAttr("flatRate", tr.FlatRate.String())
	}
	regime.CreateAttr("cessRate", tr.CessRate.String())

	income := root.CreateElement("income")
	addAmount(income, "gross", tr.Gross)
	addAmount(income, "deductions", tr.Deductions)
	addAmount(income, "taxable", tr.Taxable)

	slabs := root.CreateElement("slabs")
	for _, s := range calc.Result.Breakdown {
		slab := slabs.CreateElement("slab")
		slab.CreateAttr("label", s.Label)
		slab.CreateAttr("rate", s.Rate.String())
		slab.CreateAttr("income", s.Income.StringFixed(2))
		slab.SetText(s.Tax.StringFixed(2))
	}

	tax := root.CreateElement("tax")
	addAmount(tax, "beforeRebate", tr.TaxBeforeRebate)
	addAmount(tax, "rebate", tr.Rebate)
	addAmount(tax, "afterRebate", tr.TaxAfterRebate)
	addAmount(tax, "cess", tr.Cess)
	addAmount(tax, "total", calc.Result.Total)

	addAmount(root, "emi", calc.EMI)
	addAmount(root, "takeHome", calc.TakeHome)

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render XML report: %w", err)
	}
	return out, nil
}

func addAmount(parent *etree.Element, name string, d decimal.Decimal) {
	parent.CreateElement(name).SetText(d.StringFixed(2))
}
