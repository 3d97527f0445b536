package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ozonpanel/backend/internal/application/dto"
)

// WriteUsageReport exporta el reporte de uso de facturas a xlsx. Una fila por
// factura; los montos no aparecen acá, solo capacidad/uso.
func WriteUsageReport(rep *dto.InvoiceUsageReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{
		"Fatura No", "Fatura Tarihi", "Satıcı Ünvanı", "Satıcı VKN", "Ürün Bilgisi",
		"Kapasite", "Kullanım", "Kalan", "Fazla", "Durum", "Gönderiler",
	}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return nil, err
	}

	for i, inv := range rep.Invoices {
		date := ""
		if inv.InvoiceDate != nil {
			date = inv.InvoiceDate.Format("02.01.2006")
		}
		row := []any{
			inv.InvoiceNumber, date, inv.SellerName, inv.SellerTaxID, inv.ProductInfo,
			inv.Capacity, inv.UsageCount, inv.Remaining, inv.Excess, inv.State,
			joinPostings(inv.PostingNumbers),
		}
		if err := writeRowAny(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}
	return toBytes(f)
}

// WriteConflictReport exporta los conflictos de fecha a xlsx.
func WriteConflictReport(rep *dto.DateConflictReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{
		"Gönderi No", "Alış Fatura No", "Alış Tarihi", "Satış Fatura No", "Satış Tarihi", "Gün Farkı",
	}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return nil, err
	}

	for i, c := range rep.Conflicts {
		row := []any{
			c.PostingNumber, c.PurchaseInvoiceNo, c.PurchaseDate.Format("02.01.2006"),
			c.SaleInvoiceNo, c.SaleDate.Format("02.01.2006"), c.GapDays,
		}
		if err := writeRowAny(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}
	return toBytes(f)
}

// WriteProfitReport exporta el detalle de kar a xlsx. Monedas en columnas
// separadas y explícitas, nunca un monto sin su moneda.
func WriteProfitReport(res *dto.ProfitBatchResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{
		"Gönderi No", "Ürün", "Sipariş Tarihi", "Ödeme (USD)", "Alış (TRY)",
		"Kur (USD/TRY)", "Kur Tarihi", "Kar (USD)", "Kar (TRY)", "Durum",
	}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return nil, err
	}

	for i, d := range res.Details {
		status := "normal"
		if d.IsCancelled {
			status = "iptal"
		} else if d.IsReturned {
			status = "iade"
		}
		orderDate, rateDate := "", ""
		if d.OrderDate != nil {
			orderDate = d.OrderDate.Format("02.01.2006")
		}
		if d.RateDate != nil {
			rateDate = d.RateDate.Format("02.01.2006")
		}
		row := []any{
			d.PostingNumber, d.ProductName, orderDate,
			d.PaymentUSD.StringFixed(2), d.PurchaseTRY.StringFixed(2),
			d.ExchangeRate.String(), rateDate,
			d.NetProfitUSD.StringFixed(2), d.NetProfitTRY.StringFixed(2), status,
		}
		if err := writeRowAny(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	// fila de totales al final, separada por una fila en blanco
	totalRow := len(res.Details) + 3
	totals := []any{
		"TOPLAM", "", "", "", "", "", "",
		res.TotalProfitUSD.StringFixed(2), res.TotalProfitTRY.StringFixed(2), "",
	}
	if err := writeRowAny(f, sheet, totalRow, totals); err != nil {
		return nil, err
	}
	return toBytes(f)
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	anyVals := make([]any, len(values))
	for i, v := range values {
		anyVals[i] = v
	}
	return writeRowAny(f, sheet, rowNum, anyVals)
}

func writeRowAny(f *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("excel: celda inválida: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("excel: escribir fila %d: %w", rowNum, err)
	}
	return nil
}

func joinPostings(postings []string) string {
	out := ""
	for i, p := range postings {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

func toBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel: serializar planilla: %w", err)
	}
	return buf.Bytes(), nil
}
