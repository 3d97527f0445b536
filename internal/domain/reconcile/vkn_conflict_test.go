package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozonpanel/backend/internal/domain/reconcile"
)

func vknRef(posting, buyerVKN string, invDate *time.Time) reconcile.PurchaseVKNRef {
	return reconcile.PurchaseVKNRef{
		PostingNumber: posting,
		InvoiceNumber: "ALIS-" + posting,
		InvoiceDate:   invDate,
		BuyerTaxID:    buyerVKN,
	}
}

func TestDetectVKNConflicts_VKNAjenoSeMarca(t *testing.T) {
	conflicts := reconcile.DetectVKNConflicts([]reconcile.PurchaseVKNRef{
		vknRef("0001-1", "9999999999", datePtr(2025, 8, 10)),
	}, "3007370046")

	require.Len(t, conflicts, 1)
	c := conflicts[0]
	assert.Equal(t, "0001-1", c.PostingNumber)
	assert.Equal(t, "ALIS-0001-1", c.InvoiceNumber)
	assert.Equal(t, "9999999999", c.BuyerTaxID)
	assert.Equal(t, "3007370046", c.ExpectedVKN)
}

func TestDetectVKNConflicts_NormalizaEspaciosYGuiones(t *testing.T) {
	// El VKN viene del OCR y puede traer espacios o guiones intercalados.
	conflicts := reconcile.DetectVKNConflicts([]reconcile.PurchaseVKNRef{
		vknRef("a", "300 73700 46", datePtr(2025, 8, 1)),
		vknRef("b", "3007-3700-46", datePtr(2025, 8, 2)),
	}, "30 07370046")

	assert.Empty(t, conflicts, "tras normalizar, ambos coinciden con el esperado")
}

func TestDetectVKNConflicts_SinVKNSeExcluye(t *testing.T) {
	conflicts := reconcile.DetectVKNConflicts([]reconcile.PurchaseVKNRef{
		vknRef("sin-vkn", "", datePtr(2025, 8, 5)),
		vknRef("solo-espacios", "  ", datePtr(2025, 8, 6)),
	}, "3007370046")

	assert.Empty(t, conflicts, "registros sin VKN de comprador se excluyen, no se marcan")
}

func TestDetectVKNConflicts_OrdenFechaDescendente(t *testing.T) {
	conflicts := reconcile.DetectVKNConflicts([]reconcile.PurchaseVKNRef{
		vknRef("vieja", "1111111111", datePtr(2025, 7, 1)),
		vknRef("sin-fecha", "1111111111", nil),
		vknRef("reciente", "2222222222", datePtr(2025, 8, 20)),
	}, "3007370046")

	require.Len(t, conflicts, 3)
	assert.Equal(t, "reciente", conflicts[0].PostingNumber)
	assert.Equal(t, "vieja", conflicts[1].PostingNumber)
	assert.Equal(t, "sin-fecha", conflicts[2].PostingNumber, "las facturas sin fecha van al final")
}
