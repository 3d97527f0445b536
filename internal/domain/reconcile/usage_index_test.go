package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozonpanel/backend/internal/domain/reconcile"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func ref(posting, invoice string, qty int) reconcile.OrderInvoiceRef {
	return reconcile.OrderInvoiceRef{
		PostingNumber:   posting,
		InvoiceNumber:   invoice,
		ProductQuantity: qty,
	}
}

func TestBuildUsageIndex_ClasificacionExacta(t *testing.T) {
	idx := reconcile.BuildUsageIndex([]reconcile.OrderInvoiceRef{
		// DM2025A: capacidad 2, usada en 2 pedidos -> FULLY_USED
		ref("0001-1", "DM2025A", 2),
		ref("0001-2", "DM2025A", 2),
		// DM2025B: capacidad 3, usada en 1 pedido -> USABLE con 2 restantes
		ref("0002-1", "DM2025B", 3),
		// DM2025C: capacidad 1, usada en 3 pedidos -> OVER_USED por 2
		ref("0003-1", "DM2025C", 1),
		ref("0003-2", "DM2025C", 1),
		ref("0003-3", "DM2025C", 1),
	})

	require.Len(t, idx.Invoices, 3)

	byNumber := map[string]reconcile.InvoiceUsageReport{}
	for _, inv := range idx.Invoices {
		byNumber[inv.InvoiceNumber] = inv
	}

	a := byNumber["DM2025A"]
	assert.Equal(t, reconcile.UsageFull, a.State, "usos == capacidad debe ser FULLY_USED")
	assert.Equal(t, 2, a.UsageCount)
	assert.Zero(t, a.Remaining)
	assert.Zero(t, a.Excess)

	b := byNumber["DM2025B"]
	assert.Equal(t, reconcile.UsageUsable, b.State)
	assert.Equal(t, 2, b.Remaining, "capacidad 3 - 1 uso = 2 restantes")

	c := byNumber["DM2025C"]
	assert.Equal(t, reconcile.UsageOverused, c.State)
	assert.Equal(t, 2, c.Excess, "3 usos - capacidad 1 = exceso 2")
	assert.ElementsMatch(t, []string{"0003-1", "0003-2", "0003-3"}, c.PostingNumbers,
		"el reporte debe listar los pedidos que referencian la factura")
}

func TestBuildUsageIndex_SinDobleConteoNiOmision(t *testing.T) {
	// El mismo pedido repetido en la entrada no suma dos veces.
	idx := reconcile.BuildUsageIndex([]reconcile.OrderInvoiceRef{
		ref("0001-1", "X1", 2),
		ref("0001-1", "X1", 2),
		ref("0001-2", "X1", 2),
	})

	require.Len(t, idx.Invoices, 1)
	assert.Equal(t, 2, idx.Invoices[0].UsageCount,
		"usageCount debe ser exactamente la cantidad de pedidos distintos")
	assert.Equal(t, reconcile.UsageFull, idx.Invoices[0].State)
}

func TestBuildUsageIndex_CapacidadCeroSiempreSobreusada(t *testing.T) {
	idx := reconcile.BuildUsageIndex([]reconcile.OrderInvoiceRef{
		ref("0001-1", "Z1", 0),
	})

	require.Len(t, idx.Invoices, 1)
	assert.Equal(t, reconcile.UsageOverused, idx.Invoices[0].State,
		"capacidad 0 o faltante con al menos un uso siempre es OVER_USED")
	assert.Equal(t, 1, idx.Invoices[0].Excess)
}

func TestBuildUsageIndex_PedidosSinFacturaExcluidosPeroContados(t *testing.T) {
	idx := reconcile.BuildUsageIndex([]reconcile.OrderInvoiceRef{
		ref("0001-1", "A1", 1),
		ref("0002-1", "", 0),
		ref("0003-1", "  ", 0), // solo espacios cuenta como vacío
	})

	require.Len(t, idx.Invoices, 1, "los pedidos sin factura no entran al índice")
	assert.Equal(t, 2, idx.MissingInvoice)
}

func TestBuildUsageIndex_RecorteDeEspaciosEnNumero(t *testing.T) {
	idx := reconcile.BuildUsageIndex([]reconcile.OrderInvoiceRef{
		ref("0001-1", " A1 ", 2),
		ref("0001-2", "A1", 2),
	})

	require.Len(t, idx.Invoices, 1, "\" A1 \" y \"A1\" son la misma factura")
	assert.Equal(t, 2, idx.Invoices[0].UsageCount)
}

func TestBuildUsageIndex_OrdenPorFechaDescendente(t *testing.T) {
	r1 := ref("0001-1", "VIEJA", 1)
	r1.InvoiceDate = datePtr(2025, 8, 1)
	r2 := ref("0002-1", "NUEVA", 1)
	r2.InvoiceDate = datePtr(2025, 8, 20)
	r3 := ref("0003-1", "SINFECHA", 1)

	idx := reconcile.BuildUsageIndex([]reconcile.OrderInvoiceRef{r1, r2, r3})

	require.Len(t, idx.Invoices, 3)
	assert.Equal(t, "NUEVA", idx.Invoices[0].InvoiceNumber)
	assert.Equal(t, "VIEJA", idx.Invoices[1].InvoiceNumber)
	assert.Equal(t, "SINFECHA", idx.Invoices[2].InvoiceNumber, "sin fecha va al final")
}
