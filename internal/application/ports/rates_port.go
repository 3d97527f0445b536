package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Pares de cotización soportados.
const (
	PairUSDTRY = "USD/TRY" // TCMB, venta de divisa
	PairUSDRUB = "USD/RUB" // CBR
)

// RateProvider puerto hacia un feed de tipo de cambio para una fecha puntual.
// Devuelve domain.ErrRateNotFound cuando el feed no publica cotización para
// esa fecha (fin de semana, feriado).
type RateProvider interface {
	GetRate(ctx context.Context, date time.Time, pair string) (decimal.Decimal, error)
}

// RateLookup servicio de consulta con fallback: si la fecha pedida no tiene
// cotización, retrocede día a día (acotado) hasta encontrar una.
type RateLookup interface {
	// RateFor devuelve la cotización aplicable y la fecha efectiva usada.
	RateFor(ctx context.Context, date time.Time, pair string) (decimal.Decimal, time.Time, error)
}
