package profit

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozonpanel/backend/internal/application/dto"
	"github.com/ozonpanel/backend/internal/domain"
	"github.com/ozonpanel/backend/internal/domain/entity"
	domainprofit "github.com/ozonpanel/backend/internal/domain/profit"
	"github.com/ozonpanel/backend/internal/domain/repository"
	"github.com/ozonpanel/backend/pkg/logger"
)

type fakeOrderRepo struct {
	orders []*entity.Order
}

func (r *fakeOrderRepo) Upsert(context.Context, *entity.Order) error { return nil }
func (r *fakeOrderRepo) GetByPostingNumber(_ context.Context, p string) (*entity.Order, error) {
	for _, o := range r.orders {
		if o.PostingNumber == p {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}
func (r *fakeOrderRepo) ListByPeriod(context.Context, repository.Period) ([]*entity.Order, error) {
	return r.orders, nil
}
func (r *fakeOrderRepo) ListByPostingNumbers(_ context.Context, ps []string) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, p := range ps {
		for _, o := range r.orders {
			if o.PostingNumber == p {
				out = append(out, o)
			}
		}
	}
	return out, nil
}
func (r *fakeOrderRepo) SetPurchasePrice(context.Context, string, decimal.Decimal) error {
	return nil
}

var _ repository.OrderRepository = (*fakeOrderRepo)(nil)

type fakeProfitRepo struct {
	snapshots map[string]*entity.ProfitSnapshot
	monthly   map[string]*entity.MonthlyProfitResult
}

func newFakeProfitRepo() *fakeProfitRepo {
	return &fakeProfitRepo{
		snapshots: map[string]*entity.ProfitSnapshot{},
		monthly:   map[string]*entity.MonthlyProfitResult{},
	}
}

func monthlyKey(p repository.Period, userID string) string {
	return userID + "|" + p.Start().Format("2006-01")
}

func (r *fakeProfitRepo) UpsertSnapshot(_ context.Context, s *entity.ProfitSnapshot) error {
	r.snapshots[s.PostingNumber] = s
	return nil
}
func (r *fakeProfitRepo) GetSnapshot(_ context.Context, p string) (*entity.ProfitSnapshot, error) {
	return r.snapshots[p], nil
}
func (r *fakeProfitRepo) UpsertMonthlyResult(_ context.Context, m *entity.MonthlyProfitResult) error {
	r.monthly[monthlyKey(repository.Period{Year: m.Year, Month: m.Month}, m.UserID)] = m
	return nil
}
func (r *fakeProfitRepo) GetMonthlyResult(_ context.Context, p repository.Period, userID string) (*entity.MonthlyProfitResult, error) {
	return r.monthly[monthlyKey(p, userID)], nil
}

var _ repository.ProfitRepository = (*fakeProfitRepo)(nil)

// fakeRateLookup cotización fija, con fechas sin cotización configurables.
type fakeRateLookup struct {
	rate    decimal.Decimal
	missing map[string]bool // YYYY-MM-DD sin cotización
}

func (f *fakeRateLookup) RateFor(_ context.Context, date time.Time, _ string) (decimal.Decimal, time.Time, error) {
	d := date
	for i := 0; i <= 7; i++ {
		if !f.missing[d.Format("2006-01-02")] {
			return f.rate, d, nil
		}
		d = d.AddDate(0, 0, -1)
	}
	return decimal.Decimal{}, time.Time{}, domain.ErrRateNotFound
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func testUseCase(orders []*entity.Order, rates *fakeRateLookup) (*UseCase, *fakeProfitRepo) {
	repo := newFakeProfitRepo()
	uc := NewUseCase(
		&fakeOrderRepo{orders: orders},
		repo,
		rates,
		domainprofit.Config{CommissionRate: dec("0.05"), ShippingCost: dec("5")},
		logger.New(logger.Config{Env: "production", Level: "error"}),
	)
	return uc, repo
}

func orderAt(posting string, day int, settlement string, purchase *decimal.Decimal) *entity.Order {
	return &entity.Order{
		PostingNumber:    posting,
		Status:           entity.OrderStatusDelivered,
		OrderDate:        time.Date(2025, 5, day, 12, 0, 0, 0, time.UTC),
		SettlementAmount: dec(settlement),
		PurchasePrice:    purchase,
	}
}

func TestRunBatch_TotalesYSaltados(t *testing.T) {
	cancelled := orderAt("P-3", 3, "80", decPtr("500"))
	cancelled.IsCancelled = true
	cancelled.Status = entity.OrderStatusCancelled

	orders := []*entity.Order{
		orderAt("P-1", 1, "100", decPtr("1000")), // kar normal
		orderAt("P-2", 2, "90", nil),             // sin precio de compra
		cancelled,                                // pérdida pura
	}
	uc, repo := testUseCase(orders, &fakeRateLookup{rate: dec("30")})

	res, err := uc.RunBatch(context.Background(), "user-1", dto.ProfitBatchRequest{Year: 2025, Month: 5})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 1, res.SkippedNoPurchase)
	assert.Equal(t, 1, res.Cancelled)

	// 100 - 1000/30 - 5 - 5 = 56.67 USD
	assert.Equal(t, "56.67", res.TotalProfitUSD.String())
	assert.Equal(t, "-500", res.CancelledLossTRY.String())
	assert.Equal(t, "-16.67", res.CancelledLossUSD.String())

	// el saltado no entra al total ni como cero
	require.Len(t, res.Details, 2)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "P-2", res.Errors[0].PostingNumber)

	// snapshots solo para los calculados
	assert.Len(t, repo.snapshots, 2)
	assert.Nil(t, repo.snapshots["P-2"])
	assert.True(t, repo.snapshots["P-3"].IsLoss)

	// agregado mensual persistido
	monthly, err := uc.Monthly(context.Background(), "user-1", 2025, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, monthly.Processed)
	assert.Equal(t, "56.67", monthly.TotalProfitUSD.String())
}

func TestRunBatch_IdempotenteSobreRecalculo(t *testing.T) {
	orders := []*entity.Order{
		orderAt("P-1", 1, "100", decPtr("1000")),
		orderAt("P-2", 2, "200", decPtr("1500")),
	}
	uc, repo := testUseCase(orders, &fakeRateLookup{rate: dec("30")})

	first, err := uc.RunBatch(context.Background(), "user-1", dto.ProfitBatchRequest{Year: 2025, Month: 5})
	require.NoError(t, err)
	second, err := uc.RunBatch(context.Background(), "user-1", dto.ProfitBatchRequest{Year: 2025, Month: 5})
	require.NoError(t, err)

	assert.True(t, first.TotalProfitTRY.Equal(second.TotalProfitTRY), "recalcular no debe acumular")
	assert.True(t, first.TotalProfitUSD.Equal(second.TotalProfitUSD))
	assert.Equal(t, first.Processed, second.Processed)
	assert.Len(t, repo.monthly, 1, "un solo agregado por (período, usuario)")
}

func TestRunBatch_RetrocesoDeCotizacion(t *testing.T) {
	orders := []*entity.Order{orderAt("P-1", 18, "100", decPtr("1000"))}
	// 18 y 17 de mayo sin cotización (fin de semana): cae al viernes 16
	rates := &fakeRateLookup{rate: dec("30"), missing: map[string]bool{
		"2025-05-18": true,
		"2025-05-17": true,
	}}
	uc, _ := testUseCase(orders, rates)

	res, err := uc.RunBatch(context.Background(), "user-1", dto.ProfitBatchRequest{Year: 2025, Month: 5})
	require.NoError(t, err)

	require.Len(t, res.Details, 1)
	require.NotNil(t, res.Details[0].RateDate)
	assert.Equal(t, "2025-05-16", res.Details[0].RateDate.Format("2006-01-02"))
}

func TestRunBatch_DetallesOrdenadosPorFecha(t *testing.T) {
	orders := []*entity.Order{
		orderAt("P-B", 20, "100", decPtr("1000")),
		orderAt("P-A", 5, "100", decPtr("1000")),
	}
	uc, _ := testUseCase(orders, &fakeRateLookup{rate: dec("30")})

	res, err := uc.RunBatch(context.Background(), "user-1", dto.ProfitBatchRequest{Year: 2025, Month: 5})
	require.NoError(t, err)

	require.Len(t, res.Details, 2)
	assert.Equal(t, "P-A", res.Details[0].PostingNumber)
	assert.Equal(t, "P-B", res.Details[1].PostingNumber)
}

func TestRunBatch_DevueltoSinPrecioSeReportaAparte(t *testing.T) {
	returned := orderAt("P-1", 1, "100", nil)
	returned.IsReturned = true
	returned.Status = entity.OrderStatusReturned

	uc, _ := testUseCase([]*entity.Order{returned}, &fakeRateLookup{rate: dec("30")})
	res, err := uc.RunBatch(context.Background(), "user-1", dto.ProfitBatchRequest{Year: 2025, Month: 5})
	require.NoError(t, err)

	assert.Equal(t, 1, res.SkippedReturn)
	assert.Equal(t, 0, res.SkippedNoPurchase)
}

func TestRunBatch_PeriodoInvalido(t *testing.T) {
	uc, _ := testUseCase(nil, &fakeRateLookup{rate: dec("30")})
	_, err := uc.RunBatch(context.Background(), "user-1", dto.ProfitBatchRequest{Year: 2025, Month: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
