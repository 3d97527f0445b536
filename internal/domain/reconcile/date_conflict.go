package reconcile

import "time"

// OrderDates fechas de factura de un pedido para el detector de conflictos.
type OrderDates struct {
	PostingNumber     string
	PurchaseInvoiceNo string
	PurchaseDate      *time.Time
	SaleInvoiceNo     string
	SaleDate          *time.Time
}

// DateConflict factura de compra fechada después de la factura de venta del
// mismo pedido. GapDays siempre es un entero positivo.
type DateConflict struct {
	PostingNumber     string
	PurchaseInvoiceNo string
	PurchaseDate      time.Time
	SaleInvoiceNo     string
	SaleDate          time.Time
	GapDays           int
}

// DetectDateConflicts recorre los pedidos con ambas fechas presentes y emite
// un conflicto cuando la fecha de compra es estrictamente posterior a la de
// venta. La comparación es por fecha calendario (la hora se ignora); los
// pedidos a los que les falta alguna fecha se excluyen, no se marcan.
func DetectDateConflicts(docs []OrderDates) []DateConflict {
	var conflicts []DateConflict
	for _, d := range docs {
		if d.PurchaseDate == nil || d.SaleDate == nil {
			continue
		}
		purchase := toDateOnly(*d.PurchaseDate)
		sale := toDateOnly(*d.SaleDate)
		if !purchase.After(sale) {
			continue
		}
		gap := int(purchase.Sub(sale).Hours() / 24)
		conflicts = append(conflicts, DateConflict{
			PostingNumber:     d.PostingNumber,
			PurchaseInvoiceNo: d.PurchaseInvoiceNo,
			PurchaseDate:      purchase,
			SaleInvoiceNo:     d.SaleInvoiceNo,
			SaleDate:          sale,
			GapDays:           gap,
		})
	}
	return conflicts
}

// toDateOnly normaliza a medianoche UTC para comparar solo fecha calendario.
func toDateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
