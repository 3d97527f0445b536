package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateResponse cotización aplicable a una fecha. EffectiveDate puede ser
// anterior a la pedida cuando el banco central no publicó ese día.
type RateResponse struct {
	Pair          string          `json:"pair"`
	Rate          decimal.Decimal `json:"rate"`
	RequestedDate time.Time       `json:"requested_date"`
	EffectiveDate time.Time       `json:"effective_date"`
}
