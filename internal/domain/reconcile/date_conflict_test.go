package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozonpanel/backend/internal/domain/reconcile"
)

func dates(posting string, purchase, sale *time.Time) reconcile.OrderDates {
	return reconcile.OrderDates{
		PostingNumber:     posting,
		PurchaseInvoiceNo: "ALIS-" + posting,
		PurchaseDate:      purchase,
		SaleInvoiceNo:     "SATIS-" + posting,
		SaleDate:          sale,
	}
}

func TestDetectDateConflicts_CompraDespuesDeVenta(t *testing.T) {
	conflicts := reconcile.DetectDateConflicts([]reconcile.OrderDates{
		dates("0001-1", datePtr(2025, 8, 10), datePtr(2025, 8, 7)),
	})

	require.Len(t, conflicts, 1)
	c := conflicts[0]
	assert.Equal(t, "0001-1", c.PostingNumber)
	assert.Equal(t, "ALIS-0001-1", c.PurchaseInvoiceNo)
	assert.Equal(t, "SATIS-0001-1", c.SaleInvoiceNo)
	assert.Equal(t, 3, c.GapDays, "diferencia exacta en días calendario")
}

func TestDetectDateConflicts_MismoDiaNoEsConflicto(t *testing.T) {
	// Misma fecha calendario con horas distintas: la hora se ignora.
	purchase := time.Date(2025, 8, 10, 23, 59, 0, 0, time.UTC)
	sale := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)

	conflicts := reconcile.DetectDateConflicts([]reconcile.OrderDates{
		dates("0001-1", &purchase, &sale),
	})

	assert.Empty(t, conflicts, "compra y venta el mismo día no genera conflicto")
}

func TestDetectDateConflicts_CompraAntesDeVentaOK(t *testing.T) {
	conflicts := reconcile.DetectDateConflicts([]reconcile.OrderDates{
		dates("0001-1", datePtr(2025, 8, 1), datePtr(2025, 8, 5)),
	})

	assert.Empty(t, conflicts)
}

func TestDetectDateConflicts_FechaFaltanteSeExcluye(t *testing.T) {
	conflicts := reconcile.DetectDateConflicts([]reconcile.OrderDates{
		dates("sin-compra", nil, datePtr(2025, 8, 5)),
		dates("sin-venta", datePtr(2025, 8, 10), nil),
		dates("sin-nada", nil, nil),
	})

	assert.Empty(t, conflicts, "pedidos con fecha faltante se excluyen, no se marcan")
}

func TestDetectDateConflicts_GapSiemprePositivo(t *testing.T) {
	conflicts := reconcile.DetectDateConflicts([]reconcile.OrderDates{
		dates("a", datePtr(2025, 8, 11), datePtr(2025, 8, 10)),
		dates("b", datePtr(2025, 9, 30), datePtr(2025, 8, 1)),
	})

	require.Len(t, conflicts, 2)
	assert.Equal(t, 1, conflicts[0].GapDays)
	assert.Equal(t, 60, conflicts[1].GapDays)
	for _, c := range conflicts {
		assert.Positive(t, c.GapDays)
	}
}
