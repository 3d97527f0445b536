// Package handover implementa el backend de la app de entrega de mensajeros
// (kurye teslim): escaneo de código de barras, confirmación de recepción en
// depósito y listado de pendientes.
package handover

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ozonpanel/backend/internal/application/dto"
	"github.com/ozonpanel/backend/internal/domain"
	"github.com/ozonpanel/backend/internal/domain/entity"
	"github.com/ozonpanel/backend/internal/domain/repository"
	"github.com/ozonpanel/backend/pkg/logger"
)

// UseCase operaciones de entrega de mensajero.
type UseCase struct {
	handoverRepo repository.HandoverRepository
	orderRepo    repository.OrderRepository
	log          *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(handoverRepo repository.HandoverRepository, orderRepo repository.OrderRepository, log *logger.Logger) *UseCase {
	return &UseCase{handoverRepo: handoverRepo, orderRepo: orderRepo, log: log.Named("handover")}
}

// Scan registra el escaneo de un código de barras. El código debe corresponder
// a un pedido conocido; un re-escaneo del mismo envío devuelve el registro
// existente sin duplicar.
func (uc *UseCase) Scan(ctx context.Context, courierID string, req dto.HandoverScanRequest) (*entity.CourierHandover, error) {
	posting := strings.TrimSpace(req.PostingNumber)
	if posting == "" {
		return nil, domain.ErrInvalidInput
	}

	order, err := uc.orderRepo.GetByPostingNumber(ctx, posting)
	if err != nil {
		return nil, fmt.Errorf("código %s: %w", posting, err)
	}
	if order == nil {
		return nil, fmt.Errorf("código %s: %w", posting, domain.ErrNotFound)
	}

	existing, err := uc.handoverRepo.GetByPostingNumber(ctx, posting)
	if err != nil {
		return nil, fmt.Errorf("buscar entrega: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now()
	h := &entity.CourierHandover{
		ID:            uuid.NewString(),
		PostingNumber: posting,
		CourierID:     courierID,
		Status:        entity.HandoverScanned,
		ScannedAt:     now,
		CreatedAt:     now,
	}
	if err := uc.handoverRepo.Create(ctx, h); err != nil {
		return nil, fmt.Errorf("registrar escaneo: %w", err)
	}
	uc.log.Info().Str("posting", posting).Str("courier", courierID).Msg("paquete escaneado")
	return h, nil
}

// Confirm marca la recepción del paquete en el depósito. Solo un registro en
// SCANNED puede confirmarse.
func (uc *UseCase) Confirm(ctx context.Context, postingNumber string) (*entity.CourierHandover, error) {
	h, err := uc.handoverRepo.GetByPostingNumber(ctx, strings.TrimSpace(postingNumber))
	if err != nil {
		return nil, fmt.Errorf("buscar entrega: %w", err)
	}
	if h == nil {
		return nil, domain.ErrNotFound
	}
	if h.Status != entity.HandoverScanned {
		return nil, domain.ErrInvalidTransition
	}

	now := time.Now()
	h.Status = entity.HandoverConfirmed
	h.ConfirmedAt = &now
	if err := uc.handoverRepo.Update(ctx, h); err != nil {
		return nil, fmt.Errorf("confirmar entrega: %w", err)
	}
	uc.log.Info().Str("posting", h.PostingNumber).Msg("recepción confirmada")
	return h, nil
}

// Remove elimina un escaneo erróneo. Las entregas ya confirmadas no se borran.
func (uc *UseCase) Remove(ctx context.Context, postingNumber string) error {
	h, err := uc.handoverRepo.GetByPostingNumber(ctx, strings.TrimSpace(postingNumber))
	if err != nil {
		return fmt.Errorf("buscar entrega: %w", err)
	}
	if h == nil {
		return domain.ErrNotFound
	}
	if h.Status == entity.HandoverConfirmed {
		return domain.ErrInvalidTransition
	}
	return uc.handoverRepo.Delete(ctx, h.ID)
}

// PendingRecords devuelve los registros completos escaneados sin confirmar,
// para el manifiesto en PDF.
func (uc *UseCase) PendingRecords(ctx context.Context) ([]*entity.CourierHandover, error) {
	list, err := uc.handoverRepo.ListByStatus(ctx, entity.HandoverScanned)
	if err != nil {
		return nil, fmt.Errorf("listar pendientes: %w", err)
	}
	return list, nil
}

// Pending devuelve los envíos escaneados aún sin confirmar, para la vista de
// recepción del depósito.
func (uc *UseCase) Pending(ctx context.Context) (*dto.PendingPostingsResponse, error) {
	list, err := uc.handoverRepo.ListByStatus(ctx, entity.HandoverScanned)
	if err != nil {
		return nil, fmt.Errorf("listar pendientes: %w", err)
	}
	out := &dto.PendingPostingsResponse{PostingNumbers: make([]string, 0, len(list))}
	for _, h := range list {
		out.PostingNumbers = append(out.PostingNumbers, h.PostingNumber)
	}
	return out, nil
}

// Get devuelve la entrega de un envío.
func (uc *UseCase) Get(ctx context.Context, postingNumber string) (*entity.CourierHandover, error) {
	h, err := uc.handoverRepo.GetByPostingNumber(ctx, postingNumber)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, domain.ErrNotFound
	}
	return h, nil
}

// ToResponse mapea la entrega al DTO de salida.
func ToResponse(h *entity.CourierHandover) dto.HandoverResponse {
	return dto.HandoverResponse{
		ID:            h.ID,
		PostingNumber: h.PostingNumber,
		Status:        h.Status,
		ScannedAt:     h.ScannedAt,
		ConfirmedAt:   h.ConfirmedAt,
	}
}
