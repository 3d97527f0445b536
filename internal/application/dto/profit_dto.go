package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfitBatchRequest corrida de cálculo de kar para un período.
type ProfitBatchRequest struct {
	PostingNumbers []string `json:"posting_numbers"`
	Year           int      `json:"year"`
	Month          int      `json:"month"`
}

// ProfitDetail resultado por pedido.
type ProfitDetail struct {
	PostingNumber string          `json:"posting_number"`
	ProductName   string          `json:"product_name,omitempty"`
	PaymentUSD    decimal.Decimal `json:"payment_usd"`
	PurchaseTRY   decimal.Decimal `json:"purchase_try"`
	NetProfitUSD  decimal.Decimal `json:"net_profit_usd"`
	NetProfitTRY  decimal.Decimal `json:"net_profit_try"`
	ExchangeRate  decimal.Decimal `json:"exchange_rate"`
	RateDate      *time.Time      `json:"rate_date,omitempty"`
	OrderDate     *time.Time      `json:"order_date,omitempty"`
	IsCancelled   bool            `json:"is_cancelled"`
	IsReturned    bool            `json:"is_returned"`
	Error         string          `json:"error,omitempty"`
}

// MonthlyProfitResponse agregado mensual persistido.
type MonthlyProfitResponse struct {
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	Processed         int             `json:"processed"`
	SkippedNoPurchase int             `json:"skipped_no_purchase"`
	SkippedReturn     int             `json:"skipped_return"`
	Cancelled         int             `json:"cancelled"`
	TotalProfitTRY    decimal.Decimal `json:"total_profit_try"`
	TotalProfitUSD    decimal.Decimal `json:"total_profit_usd"`
	CancelledLossTRY  decimal.Decimal `json:"cancelled_loss_try"`
	CancelledLossUSD  decimal.Decimal `json:"cancelled_loss_usd"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProfitBatchResult resumen de la corrida; los saltados se reportan aparte
// del total, no como beneficio cero.
type ProfitBatchResult struct {
	Processed         int             `json:"processed"`
	SkippedNoPurchase int             `json:"skipped_no_purchase"`
	SkippedReturn     int             `json:"skipped_return"`
	Cancelled         int             `json:"cancelled"`
	TotalProfitTRY    decimal.Decimal `json:"total_profit_try"`
	TotalProfitUSD    decimal.Decimal `json:"total_profit_usd"`
	CancelledLossTRY  decimal.Decimal `json:"cancelled_loss_try"`
	CancelledLossUSD  decimal.Decimal `json:"cancelled_loss_usd"`
	Details           []ProfitDetail  `json:"details"`
	Errors            []ProfitDetail  `json:"errors,omitempty"`
}
