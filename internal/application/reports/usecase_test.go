package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozonpanel/backend/internal/application/dto"
	"github.com/ozonpanel/backend/internal/domain"
	"github.com/ozonpanel/backend/internal/domain/entity"
	"github.com/ozonpanel/backend/internal/domain/reconcile"
	"github.com/ozonpanel/backend/internal/domain/repository"
)

const testCompanyVKN = "3007370046"

type fakeDocRepo struct {
	byPeriod []*entity.OrderDocuments
}

func (r *fakeDocRepo) GetByPostingNumber(context.Context, string) (*entity.OrderDocuments, error) {
	return nil, nil
}
func (r *fakeDocRepo) Upsert(context.Context, *entity.OrderDocuments) error { return nil }
func (r *fakeDocRepo) ListByPeriod(context.Context, repository.Period) ([]*entity.OrderDocuments, error) {
	return r.byPeriod, nil
}
func (r *fakeDocRepo) Search(context.Context, string, int) ([]*entity.OrderDocuments, error) {
	return nil, nil
}
func (r *fakeDocRepo) SetNote(context.Context, string, string) error        { return nil }
func (r *fakeDocRepo) DeleteDocument(context.Context, string, string) error { return nil }
func (r *fakeDocRepo) ResetOCRFields(context.Context, string, string) error { return nil }
func (r *fakeDocRepo) ListSaleInvoiceRefs(context.Context) ([]reconcile.InvoiceRef, error) {
	return nil, nil
}

var _ repository.DocumentRepository = (*fakeDocRepo)(nil)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func purchaseDoc(posting, invoiceNo string, qty int, invDate *time.Time) *entity.OrderDocuments {
	return &entity.OrderDocuments{
		PostingNumber: posting,
		Purchase: entity.PurchaseInvoice{
			InvoiceNumber:   invoiceNo,
			InvoiceDate:     invDate,
			ProductQuantity: qty,
		},
	}
}

func TestInvoiceUsage_AgrupaYTotaliza(t *testing.T) {
	repo := &fakeDocRepo{byPeriod: []*entity.OrderDocuments{
		purchaseDoc("P-1", "ALS-1", 2, date(2025, 5, 10)),
		purchaseDoc("P-2", "ALS-1", 2, date(2025, 5, 10)),
		purchaseDoc("P-3", "ALS-2", 3, date(2025, 5, 12)),
		purchaseDoc("P-4", "", 0, nil), // pedido sin factura de compra
	}}
	uc := NewUseCase(repo, testCompanyVKN)

	rep, err := uc.InvoiceUsage(context.Background(), dto.PeriodRequest{Year: 2025, Month: 5})
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Stats.TotalInvoices)
	assert.Equal(t, 1, rep.Stats.FullyUsed)
	assert.Equal(t, 1, rep.Stats.Usable)
	assert.Equal(t, 0, rep.Stats.Overused)
	assert.Equal(t, 1, rep.Stats.MissingInvoice, "el faltante se cuenta aparte, no inventado en el índice")

	// más reciente primero
	require.Len(t, rep.Invoices, 2)
	assert.Equal(t, "ALS-2", rep.Invoices[0].InvoiceNumber)
	assert.Equal(t, 2, rep.Invoices[0].Remaining)
	assert.Equal(t, "ALS-1", rep.Invoices[1].InvoiceNumber)
	assert.Equal(t, reconcile.UsageFull, rep.Invoices[1].State)
}

func TestDateConflicts_SoloCompraPosteriorAVenta(t *testing.T) {
	repo := &fakeDocRepo{byPeriod: []*entity.OrderDocuments{
		{
			PostingNumber: "P-1",
			Purchase:      entity.PurchaseInvoice{InvoiceNumber: "ALS-1", InvoiceDate: date(2025, 5, 20)},
			Sale:          entity.SaleInvoice{InvoiceNumber: "FTR-1", InvoiceDate: date(2025, 5, 15)},
		},
		{
			PostingNumber: "P-2",
			Purchase:      entity.PurchaseInvoice{InvoiceNumber: "ALS-2", InvoiceDate: date(2025, 5, 10)},
			Sale:          entity.SaleInvoice{InvoiceNumber: "FTR-2", InvoiceDate: date(2025, 5, 15)},
		},
	}}
	uc := NewUseCase(repo, testCompanyVKN)

	rep, err := uc.DateConflicts(context.Background(), dto.PeriodRequest{Year: 2025, Month: 5})
	require.NoError(t, err)

	require.Len(t, rep.Conflicts, 1)
	assert.Equal(t, "P-1", rep.Conflicts[0].PostingNumber)
	assert.Equal(t, 5, rep.Conflicts[0].GapDays)
}

func vknDoc(posting, invoiceNo, buyerVKN string, invDate *time.Time) *entity.OrderDocuments {
	return &entity.OrderDocuments{
		PostingNumber: posting,
		Purchase: entity.PurchaseInvoice{
			InvoiceNumber: invoiceNo,
			InvoiceDate:   invDate,
			BuyerTaxID:    buyerVKN,
		},
	}
}

func TestVKNConflicts_DetectaVKNAjeno(t *testing.T) {
	// P-1 y P-2 coinciden con el VKN de la empresa (P-2 tras normalizar
	// espacios y guiones), P-3 y P-4 comparten un VKN ajeno, P-5 no trae VKN.
	repo := &fakeDocRepo{byPeriod: []*entity.OrderDocuments{
		vknDoc("P-1", "ALS-1", testCompanyVKN, date(2025, 5, 10)),
		vknDoc("P-2", "ALS-2", "300 73700-46", date(2025, 5, 12)),
		vknDoc("P-3", "ALS-3", "9999999999", date(2025, 5, 8)),
		vknDoc("P-4", "ALS-4", "9999999999", date(2025, 5, 20)),
		vknDoc("P-5", "ALS-5", "", date(2025, 5, 15)),
	}}
	uc := NewUseCase(repo, testCompanyVKN)

	rep, err := uc.VKNConflicts(context.Background(), dto.PeriodRequest{Year: 2025, Month: 5})
	require.NoError(t, err)

	assert.Equal(t, testCompanyVKN, rep.ExpectedVKN)
	assert.Equal(t, 4, rep.Stats.TotalWithVKN, "el registro sin VKN no cuenta")
	assert.Equal(t, 2, rep.Stats.Conflicting)
	assert.Equal(t, 2, rep.Stats.Matching)
	assert.Equal(t, 1, rep.Stats.DistinctVKNs)
	assert.Equal(t, 2, rep.Stats.VKNDistribution["9999999999"])

	// fecha de factura descendente
	require.Len(t, rep.Conflicts, 2)
	assert.Equal(t, "P-4", rep.Conflicts[0].PostingNumber)
	assert.Equal(t, "P-3", rep.Conflicts[1].PostingNumber)
}

func TestReportes_PeriodoInvalido(t *testing.T) {
	uc := NewUseCase(&fakeDocRepo{}, testCompanyVKN)

	_, err := uc.InvoiceUsage(context.Background(), dto.PeriodRequest{Year: 2025, Month: 13})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.DateConflicts(context.Background(), dto.PeriodRequest{Year: 0, Month: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
