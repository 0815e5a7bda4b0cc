package models

import (
	"time"

	"github.com/Dan9191/taxflow/internal/pan"
	"github.com/Dan9191/taxflow/internal/tax"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Calculation is one tax computation for a PAN
type Calculation struct {
	ID           uuid.UUID       `json:"id"`
	PAN          string          `json:"pan"`
	Entity       pan.EntityType  `json:"entity"`
	Age          *int            `json:"age,omitempty"`
	EMI          decimal.Decimal `json:"emi"`
	TakeHome     decimal.Decimal `json:"take_home"` // gross - deductions - total tax - EMI
	Result       tax.Result      `json:"result"`
	CalculatedAt time.Time       `json:"calculated_at"`
}
