package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildSheet arma una planilla en memoria con el encabezado y las filas dadas.
func buildSheet(t *testing.T, header []string, rows [][]string) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	anyRow := func(vals []string) []any {
		out := make([]any, len(vals))
		for i, v := range vals {
			out[i] = v
		}
		return out
	}

	require.NoError(t, f.SetSheetRow(sheet, "A1", ptr(anyRow(header))))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, ptr(anyRow(row))))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func ptr(v []any) *[]any { return &v }

func TestParseImportFile_EncabezadoTurco(t *testing.T) {
	r := buildSheet(t,
		[]string{"Sipariş No", "Alış Fatura No", "Alış Tarihi", "Ürün Adedi", "KDV Hariç Tutar"},
		[][]string{
			{"P-1", "ALS-1", "2025-05-10", "3", "1.250,50"},
			{"P-2", "ALS-2", "10.05.2025", "1", "300.25"},
		},
	)

	rows, err := ParseImportFile(r)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line, "la primera fila de datos es la 2 de la planilla")
	assert.Equal(t, "P-1", rows[0].PostingNumber)
	assert.Equal(t, "ALS-1", rows[0].PurchaseInvoiceNo)
	assert.Equal(t, 3, rows[0].ProductQuantity)
	assert.Equal(t, "1250.5", rows[0].NetAmount.String(), "coma decimal turca")
	assert.Equal(t, "300.25", rows[1].NetAmount.String(), "punto decimal también acepta")
}

func TestParseImportFile_EncabezadoIngles(t *testing.T) {
	r := buildSheet(t,
		[]string{"Order Number", "Purchase Invoice No", "Sale Invoice No", "ETGB Number"},
		[][]string{{"P-1", "ALS-1", "FTR-1", "24TR-001"}},
	)

	rows, err := ParseImportFile(r)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "FTR-1", rows[0].SaleInvoiceNo)
	assert.Equal(t, "24TR-001", rows[0].ETGBNumber)
}

// Planilla solo con las columnas de URL (el formato mínimo del import: número
// de envío + los tres PDFs). Las URLs deben caer en los campos de PDF y nunca
// en los números de factura.
func TestParseImportFile_ColumnasURL(t *testing.T) {
	r := buildSheet(t,
		[]string{"Sipariş No", "Alış Fatura URL", "Satış Fatura URL", "ETGB URL"},
		[][]string{{"P-1", "https://blob/alis.pdf", "https://blob/satis.pdf", "https://blob/etgb.pdf"}},
	)

	rows, err := ParseImportFile(r)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "P-1", rows[0].PostingNumber)
	assert.Equal(t, "https://blob/alis.pdf", rows[0].PurchasePDFURL)
	assert.Equal(t, "https://blob/satis.pdf", rows[0].SalePDFURL)
	assert.Equal(t, "https://blob/etgb.pdf", rows[0].ETGBPDFURL)
	assert.Empty(t, rows[0].PurchaseInvoiceNo, "una URL no es un número de factura")
	assert.Empty(t, rows[0].SaleInvoiceNo)
	assert.Empty(t, rows[0].ETGBNumber)
}

// Números de factura y URLs conviven en la misma planilla sin pisarse.
func TestParseImportFile_NumeroYURLJuntos(t *testing.T) {
	r := buildSheet(t,
		[]string{"Sipariş No", "Alış Fatura No", "Alış Fatura URL", "Satış Fatura No", "Satış Fatura URL"},
		[][]string{{"P-1", "ALS-1", "https://blob/alis.pdf", "FTR-1", "https://blob/satis.pdf"}},
	)

	rows, err := ParseImportFile(r)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "ALS-1", rows[0].PurchaseInvoiceNo)
	assert.Equal(t, "https://blob/alis.pdf", rows[0].PurchasePDFURL)
	assert.Equal(t, "FTR-1", rows[0].SaleInvoiceNo)
	assert.Equal(t, "https://blob/satis.pdf", rows[0].SalePDFURL)
}

func TestParseImportFile_EncabezadoInglesConURL(t *testing.T) {
	r := buildSheet(t,
		[]string{"Order Number", "Purchase PDF", "Sale URL", "Customs URL"},
		[][]string{{"P-9", "https://blob/a.pdf", "https://blob/s.pdf", "https://blob/e.pdf"}},
	)

	rows, err := ParseImportFile(r)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "https://blob/a.pdf", rows[0].PurchasePDFURL)
	assert.Equal(t, "https://blob/s.pdf", rows[0].SalePDFURL)
	assert.Equal(t, "https://blob/e.pdf", rows[0].ETGBPDFURL)
}

func TestParseImportFile_FilasVaciasSeSaltan(t *testing.T) {
	r := buildSheet(t,
		[]string{"Sipariş No", "Alış Fatura No"},
		[][]string{
			{"P-1", "ALS-1"},
			{"", ""},
			{"P-3", "ALS-3"},
		},
	)

	rows, err := ParseImportFile(r)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 4, rows[1].Line, "el número de fila original se conserva tras saltar vacías")
}

func TestParseImportFile_SinColumnaDeEnvio(t *testing.T) {
	r := buildSheet(t,
		[]string{"Factura", "Monto"},
		[][]string{{"X", "1"}},
	)
	_, err := ParseImportFile(r)
	assert.Error(t, err)
}
