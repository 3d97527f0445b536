package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozonpanel/backend/internal/application/cancellation"
	"github.com/ozonpanel/backend/internal/application/dto"
	"github.com/ozonpanel/backend/internal/application/ports"
	"github.com/ozonpanel/backend/internal/domain/entity"
	"github.com/ozonpanel/backend/internal/domain/repository"
	"github.com/ozonpanel/backend/pkg/logger"
)

type memOrderRepo struct {
	orders map[string]*entity.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: map[string]*entity.Order{}}
}

func (r *memOrderRepo) Upsert(_ context.Context, o *entity.Order) error {
	cp := *o
	r.orders[o.PostingNumber] = &cp
	return nil
}
func (r *memOrderRepo) GetByPostingNumber(_ context.Context, p string) (*entity.Order, error) {
	return r.orders[p], nil
}
func (r *memOrderRepo) ListByPeriod(context.Context, repository.Period) ([]*entity.Order, error) {
	out := make([]*entity.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}
func (r *memOrderRepo) ListByPostingNumbers(context.Context, []string) ([]*entity.Order, error) {
	return nil, nil
}
func (r *memOrderRepo) SetPurchasePrice(_ context.Context, p string, price decimal.Decimal) error {
	if o := r.orders[p]; o != nil {
		o.PurchasePrice = &price
	}
	return nil
}

var _ repository.OrderRepository = (*memOrderRepo)(nil)

type memCancelRepo struct {
	recs map[string]*entity.CancellationRecord
}

func (r *memCancelRepo) Create(_ context.Context, rec *entity.CancellationRecord) error {
	r.recs[rec.PostingNumber] = rec
	return nil
}
func (r *memCancelRepo) GetByPostingNumber(_ context.Context, p string) (*entity.CancellationRecord, error) {
	return r.recs[p], nil
}
func (r *memCancelRepo) Update(_ context.Context, rec *entity.CancellationRecord) error {
	r.recs[rec.PostingNumber] = rec
	return nil
}
func (r *memCancelRepo) ListByStatus(context.Context, string) ([]*entity.CancellationRecord, error) {
	return nil, nil
}

var _ repository.CancellationRepository = (*memCancelRepo)(nil)

type fakeMarketplace struct {
	postings      []*entity.Order
	cancellations []ports.CancelledPosting
	listCalls     int
	err           error
}

func (f *fakeMarketplace) ListPostings(context.Context, time.Time, time.Time) ([]*entity.Order, error) {
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*entity.Order, 0, len(f.postings))
	for _, o := range f.postings {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}
func (f *fakeMarketplace) ListCancellations(context.Context, time.Time, time.Time) ([]ports.CancelledPosting, error) {
	return f.cancellations, nil
}

var _ ports.MarketplaceClient = (*fakeMarketplace)(nil)

func testSetup(mkt *fakeMarketplace) (*UseCase, *memOrderRepo, *memCancelRepo) {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	orderRepo := newMemOrderRepo()
	cancelRepo := &memCancelRepo{recs: map[string]*entity.CancellationRecord{}}
	cancelUC := cancellation.NewUseCase(cancelRepo, log)
	return NewUseCase(orderRepo, mkt, cancelUC, time.Hour, log), orderRepo, cancelRepo
}

func sampleOrder(posting string) *entity.Order {
	return &entity.Order{
		PostingNumber:    posting,
		Status:           entity.OrderStatusDelivered,
		OrderDate:        time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		SettlementAmount: decimal.NewFromInt(100),
	}
}

func TestSyncPeriod_CacheaDentroDelTTL(t *testing.T) {
	mkt := &fakeMarketplace{postings: []*entity.Order{sampleOrder("P-1")}}
	uc, _, _ := testSetup(mkt)
	req := dto.PeriodRequest{Year: 2025, Month: 5}

	first, err := uc.SyncPeriod(context.Background(), "seller-1", req, false)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, mkt.listCalls)

	// segunda lectura dentro del TTL: sin ir al marketplace
	_, err = uc.SyncPeriod(context.Background(), "seller-1", req, false)
	require.NoError(t, err)
	assert.Equal(t, 1, mkt.listCalls, "dentro del TTL se sirve el caché")

	// refresh forzado invalida
	_, err = uc.SyncPeriod(context.Background(), "seller-1", req, true)
	require.NoError(t, err)
	assert.Equal(t, 2, mkt.listCalls)
}

func TestSyncPeriod_NoPisaElPrecioDeCompraLocal(t *testing.T) {
	mkt := &fakeMarketplace{postings: []*entity.Order{sampleOrder("P-1")}}
	uc, orderRepo, _ := testSetup(mkt)
	req := dto.PeriodRequest{Year: 2025, Month: 5}

	_, err := uc.SyncPeriod(context.Background(), "seller-1", req, false)
	require.NoError(t, err)
	require.NoError(t, uc.SetPurchasePrice(context.Background(), "P-1", decimal.NewFromInt(750)))

	_, err = uc.SyncPeriod(context.Background(), "seller-1", req, true)
	require.NoError(t, err)

	saved := orderRepo.orders["P-1"]
	require.NotNil(t, saved.PurchasePrice)
	assert.Equal(t, "750", saved.PurchasePrice.String(), "el sync no debe borrar el dato local")
}

func TestSyncPeriod_CancelacionesEntranAlSeguimiento(t *testing.T) {
	cd := time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)
	mkt := &fakeMarketplace{
		postings: []*entity.Order{sampleOrder("P-1")},
		cancellations: []ports.CancelledPosting{
			{PostingNumber: "P-9", ProductName: "Deri cüzdan", Quantity: 1, CancelDate: &cd, CancelReason: "arrepentimiento"},
		},
	}
	uc, _, cancelRepo := testSetup(mkt)

	_, err := uc.SyncPeriod(context.Background(), "seller-1", dto.PeriodRequest{Year: 2025, Month: 5}, false)
	require.NoError(t, err)

	rec := cancelRepo.recs["P-9"]
	require.NotNil(t, rec, "la cancelación del sync debe quedar en seguimiento")
	assert.Equal(t, entity.CancellationPendingNotification, rec.Status)

	// segundo sync no duplica
	_, err = uc.SyncPeriod(context.Background(), "seller-1", dto.PeriodRequest{Year: 2025, Month: 5}, true)
	require.NoError(t, err)
	assert.Len(t, cancelRepo.recs, 1)
}

func TestSyncPeriod_MarketplaceCaidoSirveLoPersistido(t *testing.T) {
	mkt := &fakeMarketplace{postings: []*entity.Order{sampleOrder("P-1")}}
	uc, _, _ := testSetup(mkt)
	req := dto.PeriodRequest{Year: 2025, Month: 5}

	_, err := uc.SyncPeriod(context.Background(), "seller-1", req, false)
	require.NoError(t, err)

	mkt.err = errors.New("ozon 503")
	orders, err := uc.SyncPeriod(context.Background(), "seller-1", req, true)
	require.NoError(t, err, "con datos persistidos el listado no debe fallar")
	assert.Len(t, orders, 1)
}
