// Package profit implementa el cálculo de kar (beneficio neto) por pedido.
// Servicio de dominio puro: las cotizaciones y la persistencia las aporta el
// caso de uso de lote.
package profit

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ozonpanel/backend/internal/domain"
)

// Config parámetros fijos del cálculo.
type Config struct {
	CommissionRate decimal.Decimal // fracción sobre el pago neto (ej. 0.05)
	ShippingCost   decimal.Decimal // costo de envío en moneda de liquidación
}

// CalcInput entrada para un pedido.
type CalcInput struct {
	SettlementAmount decimal.Decimal  // pago neto del marketplace, moneda de liquidación (USD)
	PurchasePriceTRY *decimal.Decimal // precio de compra en moneda local; nil = no registrado
	ExchangeRate     decimal.Decimal  // USD/TRY aplicable a la fecha de liquidación
	RateDate         time.Time
	IsCancelled      bool
	IsReturned       bool
}

// Result beneficio neto en ambas monedas.
type Result struct {
	NetProfitUSD decimal.Decimal
	NetProfitTRY decimal.Decimal
	ExchangeRate decimal.Decimal
	RateDate     time.Time
	IsLoss       bool // cancelado/devuelto: pérdida pura sin ingreso
}

// Calculate calcula el beneficio de un pedido.
//
// Pedido normal:
//
//	compraUSD  = precioCompraTRY / tipoCambio
//	comisión   = pagoNeto * CommissionRate
//	karUSD     = pagoNeto - compraUSD - comisión - ShippingCost
//	karTRY     = karUSD * tipoCambio
//
// Cancelado o devuelto: pérdida pura de -precioCompraTRY (sin crédito de
// liquidación), convertida a USD con el mismo tipo de cambio.
//
// Sin precio de compra: ErrNoPurchasePrice — el pedido se excluye del
// agregado, no aporta beneficio cero.
func Calculate(cfg Config, in CalcInput) (Result, error) {
	if in.PurchasePriceTRY == nil || in.PurchasePriceTRY.LessThanOrEqual(decimal.Zero) {
		return Result{}, domain.ErrNoPurchasePrice
	}
	if in.ExchangeRate.LessThanOrEqual(decimal.Zero) {
		return Result{}, domain.ErrRateNotFound
	}

	purchaseTRY := *in.PurchasePriceTRY

	if in.IsCancelled || in.IsReturned {
		lossTRY := purchaseTRY.Neg()
		return Result{
			NetProfitTRY: lossTRY.Round(2),
			NetProfitUSD: lossTRY.Div(in.ExchangeRate).Round(2),
			ExchangeRate: in.ExchangeRate,
			RateDate:     in.RateDate,
			IsLoss:       true,
		}, nil
	}

	purchaseUSD := purchaseTRY.Div(in.ExchangeRate)
	commission := in.SettlementAmount.Mul(cfg.CommissionRate)
	netUSD := in.SettlementAmount.Sub(purchaseUSD).Sub(commission).Sub(cfg.ShippingCost)

	return Result{
		NetProfitUSD: netUSD.Round(2),
		NetProfitTRY: netUSD.Mul(in.ExchangeRate).Round(2),
		ExchangeRate: in.ExchangeRate,
		RateDate:     in.RateDate,
	}, nil
}
