// Package orders sincroniza los pedidos desde el Seller API del marketplace y
// los sirve con un caché TTL por período. Los pedidos cancelados detectados en
// el sync entran automáticamente al seguimiento de cancelaciones.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ozonpanel/backend/internal/application/cancellation"
	"github.com/ozonpanel/backend/internal/application/dto"
	"github.com/ozonpanel/backend/internal/application/ports"
	"github.com/ozonpanel/backend/internal/domain"
	"github.com/ozonpanel/backend/internal/domain/entity"
	"github.com/ozonpanel/backend/internal/domain/repository"
	"github.com/ozonpanel/backend/pkg/cache"
	"github.com/ozonpanel/backend/pkg/logger"
)

// UseCase sincronización y consulta de pedidos.
type UseCase struct {
	orderRepo     repository.OrderRepository
	client        ports.MarketplaceClient
	cancellations *cancellation.UseCase
	cache         *cache.Cache[repository.Period, []*entity.Order]
	log           *logger.Logger
}

// NewUseCase construye el caso de uso. cacheTTL acota cuánto se sirve un
// período sin volver a consultar el marketplace.
func NewUseCase(
	orderRepo repository.OrderRepository,
	client ports.MarketplaceClient,
	cancellations *cancellation.UseCase,
	cacheTTL time.Duration,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		orderRepo:     orderRepo,
		client:        client,
		cancellations: cancellations,
		cache:         cache.New[repository.Period, []*entity.Order](cacheTTL),
		log:           log.Named("ozon-sync"),
	}
}

// SyncPeriod devuelve los pedidos del período. Dentro del TTL sirve el caché;
// con force vuelve al marketplace sí o sí y persiste los cambios.
func (uc *UseCase) SyncPeriod(ctx context.Context, sellerID string, req dto.PeriodRequest, force bool) ([]*entity.Order, error) {
	if !req.Valid() {
		return nil, domain.ErrInvalidInput
	}
	period := repository.Period{Year: req.Year, Month: req.Month}

	if force {
		uc.cache.Invalidate(period)
	} else if cached, ok := uc.cache.Get(period); ok {
		return cached, nil
	}

	fetched, err := uc.client.ListPostings(ctx, period.Start(), period.End())
	if err != nil {
		// Marketplace caído: servir lo persistido antes que fallar el listado.
		uc.log.Warn().Err(err).Int("year", period.Year).Int("month", period.Month).Msg("sync falló, usando lo persistido")
		stored, repoErr := uc.orderRepo.ListByPeriod(ctx, period)
		if repoErr != nil {
			return nil, fmt.Errorf("sync de pedidos: %w", err)
		}
		return stored, nil
	}

	for _, order := range fetched {
		// El precio de compra es dato local: el sync no debe pisarlo.
		if existing, err := uc.orderRepo.GetByPostingNumber(ctx, order.PostingNumber); err == nil && existing != nil {
			order.PurchasePrice = existing.PurchasePrice
			order.CreatedAt = existing.CreatedAt
		}
		order.UpdatedAt = time.Now()
		if err := uc.orderRepo.Upsert(ctx, order); err != nil {
			return nil, fmt.Errorf("guardar pedido %s: %w", order.PostingNumber, err)
		}
	}

	uc.trackCancellations(ctx, sellerID, period)

	// El caché guarda lo persistido, con los precios de compra locales ya aplicados.
	orders, err := uc.orderRepo.ListByPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("listar pedidos: %w", err)
	}
	uc.cache.Set(period, orders)

	uc.log.Info().Int("year", period.Year).Int("month", period.Month).Int("orders", len(orders)).Msg("período sincronizado")
	return orders, nil
}

// trackCancellations alta en el seguimiento de las cancelaciones nuevas del
// período. Errores individuales se registran y no cortan el sync.
func (uc *UseCase) trackCancellations(ctx context.Context, sellerID string, period repository.Period) {
	cancelled, err := uc.client.ListCancellations(ctx, period.Start(), period.End())
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudieron listar cancelaciones")
		return
	}
	for _, c := range cancelled {
		req := dto.NotifyCarrierRequest{
			PostingNumber: c.PostingNumber,
			ProductName:   c.ProductName,
			SKU:           c.SKU,
			Quantity:      c.Quantity,
			CancelReason:  c.CancelReason,
		}
		if c.CancelDate != nil {
			req.CancelDate = c.CancelDate.Format("2006-01-02")
		}
		if _, err := uc.cancellations.Track(ctx, sellerID, req); err != nil {
			uc.log.Warn().Err(err).Str("posting", c.PostingNumber).Msg("no se pudo registrar la cancelación")
		}
	}
}

// SetPurchasePrice registra el precio de compra local de un pedido e invalida
// el caché: el listado siguiente debe reflejarlo.
func (uc *UseCase) SetPurchasePrice(ctx context.Context, postingNumber string, price decimal.Decimal) error {
	postingNumber = strings.TrimSpace(postingNumber)
	if postingNumber == "" || price.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByPostingNumber(ctx, postingNumber)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	if err := uc.orderRepo.SetPurchasePrice(ctx, postingNumber, price); err != nil {
		return fmt.Errorf("guardar precio de compra: %w", err)
	}
	uc.cache.Clear()
	return nil
}

// Get devuelve un pedido por número de envío.
func (uc *UseCase) Get(ctx context.Context, postingNumber string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByPostingNumber(ctx, postingNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}
