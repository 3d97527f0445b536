// Package cancellation (aplicación) orquesta el seguimiento de cancelaciones:
// crea registros a partir de los pedidos cancelados y aplica las acciones del
// workflow de dominio persistiendo marcas de tiempo de cada paso.
package cancellation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ozonpanel/backend/internal/application/dto"
	"github.com/ozonpanel/backend/internal/domain"
	domaincancel "github.com/ozonpanel/backend/internal/domain/cancellation"
	"github.com/ozonpanel/backend/internal/domain/entity"
	"github.com/ozonpanel/backend/internal/domain/repository"
	"github.com/ozonpanel/backend/pkg/logger"
)

// UseCase operaciones sobre registros de cancelación.
type UseCase struct {
	repo repository.CancellationRepository
	log  *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.CancellationRepository, log *logger.Logger) *UseCase {
	return &UseCase{repo: repo, log: log.Named("cancellation")}
}

// Track registra un pedido cancelado para el seguimiento. Si ya existe
// registro para el pedido lo devuelve tal cual: el sync puede reportar la
// misma cancelación varias veces.
func (uc *UseCase) Track(ctx context.Context, sellerID string, req dto.NotifyCarrierRequest) (*entity.CancellationRecord, error) {
	posting := strings.TrimSpace(req.PostingNumber)
	if posting == "" {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.repo.GetByPostingNumber(ctx, posting)
	if err != nil {
		return nil, fmt.Errorf("buscar seguimiento: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now()
	rec := &entity.CancellationRecord{
		ID:            uuid.NewString(),
		PostingNumber: posting,
		SellerID:      sellerID,
		ProductName:   req.ProductName,
		SKU:           req.SKU,
		Quantity:      req.Quantity,
		CancelReason:  req.CancelReason,
		Status:        entity.CancellationPendingNotification,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if d := strings.TrimSpace(req.CancelDate); d != "" {
		if t, err := time.Parse("2006-01-02", d); err == nil {
			rec.CancelDate = &t
		}
	}

	if err := uc.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("crear seguimiento: %w", err)
	}
	uc.log.Info().Str("posting", posting).Msg("cancelación en seguimiento")
	return rec, nil
}

// ApplyAction aplica una acción del workflow sobre el registro. Una acción
// rechazada por el workflow no toca el registro. Las reversas limpian la marca
// de tiempo del paso que deshacen.
func (uc *UseCase) ApplyAction(ctx context.Context, postingNumber, action string) (*entity.CancellationRecord, error) {
	rec, err := uc.repo.GetByPostingNumber(ctx, strings.TrimSpace(postingNumber))
	if err != nil {
		return nil, fmt.Errorf("buscar seguimiento: %w", err)
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}

	next, err := domaincancel.Apply(rec.Status, action)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rec.Status = next
	switch action {
	case domaincancel.ActionNotifyCarrier:
		rec.NotifiedAt = &now
	case domaincancel.ActionConfirmWarehouse:
		rec.ConfirmedAt = &now
	case domaincancel.ActionRevertNotification:
		rec.NotifiedAt = nil
	case domaincancel.ActionRevertConfirmation:
		rec.ConfirmedAt = nil
	}
	rec.UpdatedAt = now

	if err := uc.repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("guardar seguimiento: %w", err)
	}
	uc.log.Info().Str("posting", rec.PostingNumber).Str("action", action).Str("status", rec.Status).Msg("acción de cancelación aplicada")
	return rec, nil
}

// Get devuelve el seguimiento de un pedido.
func (uc *UseCase) Get(ctx context.Context, postingNumber string) (*entity.CancellationRecord, error) {
	rec, err := uc.repo.GetByPostingNumber(ctx, postingNumber)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// ListByStatus lista los seguimientos en un estado dado ("" = todos los
// estados pendientes de depósito).
func (uc *UseCase) ListByStatus(ctx context.Context, status string) ([]*entity.CancellationRecord, error) {
	switch status {
	case "", entity.CancellationPendingNotification, entity.CancellationPendingWarehouse, entity.CancellationInWarehouse:
	default:
		return nil, domain.ErrInvalidInput
	}
	return uc.repo.ListByStatus(ctx, status)
}

// ToResponse mapea el registro al DTO de salida.
func ToResponse(rec *entity.CancellationRecord) dto.CancellationResponse {
	return dto.CancellationResponse{
		PostingNumber: rec.PostingNumber,
		Status:        rec.Status,
		ProductName:   rec.ProductName,
		Quantity:      rec.Quantity,
		CancelReason:  rec.CancelReason,
		NotifiedAt:    rec.NotifiedAt,
		ConfirmedAt:   rec.ConfirmedAt,
	}
}
