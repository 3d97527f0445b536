package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfitSnapshot resultado de kar cacheado por pedido. Se sobrescribe en cada
// recálculo del período (idempotente, nunca acumula dos veces).
type ProfitSnapshot struct {
	PostingNumber string
	NetProfitUSD  decimal.Decimal // moneda de liquidación
	NetProfitTRY  decimal.Decimal // moneda local
	PaymentUSD    decimal.Decimal
	ExchangeRate  decimal.Decimal // USD/TRY usado en el cálculo
	RateDate      time.Time       // fecha efectiva de la cotización
	IsLoss        bool            // cancelado/devuelto: pérdida pura, sin ingreso
	CalculatedAt  time.Time
}

// MonthlyProfitResult agregado persistido de una corrida de lote para un
// período (year, month, user). Upsert: la corrida siguiente lo reemplaza.
type MonthlyProfitResult struct {
	ID                string
	Year              int
	Month             int
	UserID            string
	Processed         int
	SkippedNoPurchase int
	SkippedReturn     int
	Cancelled         int
	TotalProfitTRY    decimal.Decimal
	TotalProfitUSD    decimal.Decimal
	CancelledLossTRY  decimal.Decimal
	CancelledLossUSD  decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
