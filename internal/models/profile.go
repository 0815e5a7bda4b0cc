package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Profile holds the last inputs used for a PAN, for autofill
type Profile struct {
	PAN        string          `json:"pan" db:"pan"`
	Income     decimal.Decimal `json:"income" db:"income"`
	Deductions decimal.Decimal `json:"deductions" db:"deductions"`
	EMI        decimal.Decimal `json:"emi" db:"emi"`
	Age        int             `json:"age" db:"age"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}
