// Package profit (aplicación) corre el lote de cálculo de kar: resuelve
// cotizaciones, invoca el servicio de dominio pedido a pedido y persiste
// snapshots y agregado mensual de forma idempotente.
package profit

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ozonpanel/backend/internal/application/dto"
	"github.com/ozonpanel/backend/internal/application/ports"
	"github.com/ozonpanel/backend/internal/domain"
	"github.com/ozonpanel/backend/internal/domain/entity"
	domainprofit "github.com/ozonpanel/backend/internal/domain/profit"
	"github.com/ozonpanel/backend/internal/domain/repository"
	"github.com/ozonpanel/backend/pkg/logger"
)

// UseCase lote de cálculo de kar sobre un período.
type UseCase struct {
	orderRepo  repository.OrderRepository
	profitRepo repository.ProfitRepository
	rates      ports.RateLookup
	calcCfg    domainprofit.Config
	log        *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	orderRepo repository.OrderRepository,
	profitRepo repository.ProfitRepository,
	rates ports.RateLookup,
	calcCfg domainprofit.Config,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		orderRepo:  orderRepo,
		profitRepo: profitRepo,
		rates:      rates,
		calcCfg:    calcCfg,
		log:        log.Named("profit-batch"),
	}
}

// RunBatch calcula el kar del período para el usuario dado. Si la petición
// trae números de envío se limita a esos pedidos; si no, toma todo el mes.
// La corrida es idempotente: snapshots y agregado mensual se sobrescriben,
// correr dos veces da exactamente los mismos totales.
func (uc *UseCase) RunBatch(ctx context.Context, userID string, req dto.ProfitBatchRequest) (*dto.ProfitBatchResult, error) {
	period := repository.Period{Year: req.Year, Month: req.Month}
	if req.Month < 1 || req.Month > 12 || req.Year < 2000 {
		return nil, domain.ErrInvalidInput
	}

	var orders []*entity.Order
	var err error
	if len(req.PostingNumbers) > 0 {
		orders, err = uc.orderRepo.ListByPostingNumbers(ctx, req.PostingNumbers)
	} else {
		orders, err = uc.orderRepo.ListByPeriod(ctx, period)
	}
	if err != nil {
		return nil, fmt.Errorf("listar pedidos: %w", err)
	}

	res := &dto.ProfitBatchResult{
		TotalProfitTRY:   decimal.Zero,
		TotalProfitUSD:   decimal.Zero,
		CancelledLossTRY: decimal.Zero,
		CancelledLossUSD: decimal.Zero,
	}

	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		uc.processOrder(ctx, order, res)
	}

	// Detalle ordenado por fecha de pedido ascendente, como el listado mensual.
	sort.SliceStable(res.Details, func(i, j int) bool {
		di, dj := res.Details[i].OrderDate, res.Details[j].OrderDate
		if di == nil || dj == nil {
			return dj == nil && di != nil
		}
		return di.Before(*dj)
	})

	if err := uc.saveMonthly(ctx, period, userID, res); err != nil {
		return nil, err
	}

	uc.log.Info().
		Int("year", req.Year).Int("month", req.Month).
		Int("processed", res.Processed).
		Int("skipped_no_purchase", res.SkippedNoPurchase).
		Int("cancelled", res.Cancelled).
		Str("total_try", res.TotalProfitTRY.String()).
		Msg("corrida de kar finalizada")
	return res, nil
}

func (uc *UseCase) processOrder(ctx context.Context, order *entity.Order, res *dto.ProfitBatchResult) {
	detail := dto.ProfitDetail{
		PostingNumber: order.PostingNumber,
		ProductName:   order.ProductName(),
		PaymentUSD:    order.SettlementAmount,
		OrderDate:     &order.OrderDate,
		IsCancelled:   order.IsCancelled,
		IsReturned:    order.IsReturned,
	}

	// Sin precio de compra no hay cálculo posible: se excluye, nunca cero.
	if !order.HasPurchasePrice() {
		if order.IsCancelled || order.IsReturned {
			res.SkippedReturn++
		} else {
			res.SkippedNoPurchase++
		}
		detail.Error = domain.ErrNoPurchasePrice.Error()
		res.Errors = append(res.Errors, detail)
		return
	}
	detail.PurchaseTRY = *order.PurchasePrice

	rate, rateDate, err := uc.rates.RateFor(ctx, uc.settlementDate(order), ports.PairUSDTRY)
	if err != nil {
		detail.Error = err.Error()
		res.Errors = append(res.Errors, detail)
		uc.log.Warn().Err(err).Str("posting", order.PostingNumber).Msg("sin cotización aplicable")
		return
	}

	calc, err := domainprofit.Calculate(uc.calcCfg, domainprofit.CalcInput{
		SettlementAmount: order.SettlementAmount,
		PurchasePriceTRY: order.PurchasePrice,
		ExchangeRate:     rate,
		RateDate:         rateDate,
		IsCancelled:      order.IsCancelled,
		IsReturned:       order.IsReturned,
	})
	if err != nil {
		detail.Error = err.Error()
		res.Errors = append(res.Errors, detail)
		return
	}

	detail.NetProfitUSD = calc.NetProfitUSD
	detail.NetProfitTRY = calc.NetProfitTRY
	detail.ExchangeRate = calc.ExchangeRate
	detail.RateDate = &calc.RateDate
	res.Details = append(res.Details, detail)

	if calc.IsLoss {
		res.Cancelled++
		res.CancelledLossTRY = res.CancelledLossTRY.Add(calc.NetProfitTRY)
		res.CancelledLossUSD = res.CancelledLossUSD.Add(calc.NetProfitUSD)
	} else {
		res.Processed++
		res.TotalProfitTRY = res.TotalProfitTRY.Add(calc.NetProfitTRY)
		res.TotalProfitUSD = res.TotalProfitUSD.Add(calc.NetProfitUSD)
	}

	snap := &entity.ProfitSnapshot{
		PostingNumber: order.PostingNumber,
		NetProfitUSD:  calc.NetProfitUSD,
		NetProfitTRY:  calc.NetProfitTRY,
		PaymentUSD:    order.SettlementAmount,
		ExchangeRate:  calc.ExchangeRate,
		RateDate:      calc.RateDate,
		IsLoss:        calc.IsLoss,
		CalculatedAt:  time.Now(),
	}
	if err := uc.profitRepo.UpsertSnapshot(ctx, snap); err != nil {
		uc.log.Error().Err(err).Str("posting", order.PostingNumber).Msg("no se pudo guardar el snapshot")
	}
}

// settlementDate fecha a la que se busca cotización: entrega si existe, si no
// la fecha del pedido. El lookup retrocede solo si esa fecha no cotiza.
func (uc *UseCase) settlementDate(order *entity.Order) time.Time {
	if order.DeliveryDate != nil {
		return *order.DeliveryDate
	}
	return order.OrderDate
}

func (uc *UseCase) saveMonthly(ctx context.Context, period repository.Period, userID string, res *dto.ProfitBatchResult) error {
	now := time.Now()
	monthly, err := uc.profitRepo.GetMonthlyResult(ctx, period, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("leer agregado mensual: %w", err)
	}
	if monthly == nil {
		monthly = &entity.MonthlyProfitResult{
			ID:        uuid.NewString(),
			Year:      period.Year,
			Month:     period.Month,
			UserID:    userID,
			CreatedAt: now,
		}
	}

	monthly.Processed = res.Processed
	monthly.SkippedNoPurchase = res.SkippedNoPurchase
	monthly.SkippedReturn = res.SkippedReturn
	monthly.Cancelled = res.Cancelled
	monthly.TotalProfitTRY = res.TotalProfitTRY
	monthly.TotalProfitUSD = res.TotalProfitUSD
	monthly.CancelledLossTRY = res.CancelledLossTRY
	monthly.CancelledLossUSD = res.CancelledLossUSD
	monthly.UpdatedAt = now

	if err := uc.profitRepo.UpsertMonthlyResult(ctx, monthly); err != nil {
		return fmt.Errorf("guardar agregado mensual: %w", err)
	}
	return nil
}

// Monthly devuelve el agregado persistido del período.
func (uc *UseCase) Monthly(ctx context.Context, userID string, year, month int) (*entity.MonthlyProfitResult, error) {
	if month < 1 || month > 12 {
		return nil, domain.ErrInvalidInput
	}
	monthly, err := uc.profitRepo.GetMonthlyResult(ctx, repository.Period{Year: year, Month: month}, userID)
	if err != nil {
		return nil, err
	}
	if monthly == nil {
		return nil, domain.ErrNotFound
	}
	return monthly, nil
}
