package cancellation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozonpanel/backend/internal/application/dto"
	"github.com/ozonpanel/backend/internal/domain"
	domaincancel "github.com/ozonpanel/backend/internal/domain/cancellation"
	"github.com/ozonpanel/backend/internal/domain/entity"
	"github.com/ozonpanel/backend/internal/domain/repository"
	"github.com/ozonpanel/backend/pkg/logger"
)

type fakeCancelRepo struct {
	recs map[string]*entity.CancellationRecord
}

func newFakeCancelRepo() *fakeCancelRepo {
	return &fakeCancelRepo{recs: map[string]*entity.CancellationRecord{}}
}

func (r *fakeCancelRepo) Create(_ context.Context, rec *entity.CancellationRecord) error {
	r.recs[rec.PostingNumber] = rec
	return nil
}
func (r *fakeCancelRepo) GetByPostingNumber(_ context.Context, p string) (*entity.CancellationRecord, error) {
	return r.recs[p], nil
}
func (r *fakeCancelRepo) Update(_ context.Context, rec *entity.CancellationRecord) error {
	r.recs[rec.PostingNumber] = rec
	return nil
}
func (r *fakeCancelRepo) ListByStatus(_ context.Context, status string) ([]*entity.CancellationRecord, error) {
	var out []*entity.CancellationRecord
	for _, rec := range r.recs {
		if status == "" || rec.Status == status {
			out = append(out, rec)
		}
	}
	return out, nil
}

var _ repository.CancellationRepository = (*fakeCancelRepo)(nil)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func TestTrack_CreaEnPendingNotification(t *testing.T) {
	repo := newFakeCancelRepo()
	uc := NewUseCase(repo, testLogger())

	rec, err := uc.Track(context.Background(), "seller-1", dto.NotifyCarrierRequest{
		PostingNumber: "P-1",
		ProductName:   "Deri cüzdan",
		Quantity:      1,
		CancelDate:    "2025-05-10",
		CancelReason:  "cliente se arrepintió",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.CancellationPendingNotification, rec.Status)
	assert.NotEmpty(t, rec.ID)
	require.NotNil(t, rec.CancelDate)
	assert.Equal(t, "2025-05-10", rec.CancelDate.Format("2006-01-02"))
	assert.Nil(t, rec.NotifiedAt)
}

func TestTrack_IdempotentePorPedido(t *testing.T) {
	repo := newFakeCancelRepo()
	uc := NewUseCase(repo, testLogger())

	first, err := uc.Track(context.Background(), "seller-1", dto.NotifyCarrierRequest{PostingNumber: "P-1"})
	require.NoError(t, err)
	second, err := uc.Track(context.Background(), "seller-1", dto.NotifyCarrierRequest{PostingNumber: "P-1"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "el sync repetido no debe duplicar registros")
	assert.Len(t, repo.recs, 1)
}

func TestApplyAction_FlujoCompletoConMarcasDeTiempo(t *testing.T) {
	repo := newFakeCancelRepo()
	uc := NewUseCase(repo, testLogger())
	_, err := uc.Track(context.Background(), "seller-1", dto.NotifyCarrierRequest{PostingNumber: "P-1"})
	require.NoError(t, err)

	rec, err := uc.ApplyAction(context.Background(), "P-1", domaincancel.ActionNotifyCarrier)
	require.NoError(t, err)
	assert.Equal(t, entity.CancellationPendingWarehouse, rec.Status)
	assert.NotNil(t, rec.NotifiedAt)

	rec, err = uc.ApplyAction(context.Background(), "P-1", domaincancel.ActionConfirmWarehouse)
	require.NoError(t, err)
	assert.Equal(t, entity.CancellationInWarehouse, rec.Status)
	assert.NotNil(t, rec.ConfirmedAt)
}

func TestApplyAction_ReversasLimpianLaMarca(t *testing.T) {
	repo := newFakeCancelRepo()
	uc := NewUseCase(repo, testLogger())
	_, err := uc.Track(context.Background(), "seller-1", dto.NotifyCarrierRequest{PostingNumber: "P-1"})
	require.NoError(t, err)

	_, err = uc.ApplyAction(context.Background(), "P-1", domaincancel.ActionNotifyCarrier)
	require.NoError(t, err)
	_, err = uc.ApplyAction(context.Background(), "P-1", domaincancel.ActionConfirmWarehouse)
	require.NoError(t, err)

	rec, err := uc.ApplyAction(context.Background(), "P-1", domaincancel.ActionRevertConfirmation)
	require.NoError(t, err)
	assert.Equal(t, entity.CancellationPendingWarehouse, rec.Status)
	assert.Nil(t, rec.ConfirmedAt, "deshacer la confirmación borra su marca")
	assert.NotNil(t, rec.NotifiedAt, "la marca del paso anterior se conserva")

	rec, err = uc.ApplyAction(context.Background(), "P-1", domaincancel.ActionRevertNotification)
	require.NoError(t, err)
	assert.Equal(t, entity.CancellationPendingNotification, rec.Status)
	assert.Nil(t, rec.NotifiedAt)
}

func TestApplyAction_TransicionInvalidaNoMuta(t *testing.T) {
	repo := newFakeCancelRepo()
	uc := NewUseCase(repo, testLogger())
	_, err := uc.Track(context.Background(), "seller-1", dto.NotifyCarrierRequest{PostingNumber: "P-1"})
	require.NoError(t, err)

	// confirmar sin haber avisado al carrier
	_, err = uc.ApplyAction(context.Background(), "P-1", domaincancel.ActionConfirmWarehouse)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	rec := repo.recs["P-1"]
	assert.Equal(t, entity.CancellationPendingNotification, rec.Status, "el rechazo no debe tocar el registro")
	assert.Nil(t, rec.ConfirmedAt)
}

func TestApplyAction_RegistroInexistente(t *testing.T) {
	uc := NewUseCase(newFakeCancelRepo(), testLogger())
	_, err := uc.ApplyAction(context.Background(), "P-404", domaincancel.ActionNotifyCarrier)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
