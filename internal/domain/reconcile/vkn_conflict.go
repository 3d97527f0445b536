package reconcile

import (
	"sort"
	"strings"
	"time"
)

// PurchaseVKNRef datos de la factura de compra de un pedido para el detector
// de VKN del comprador.
type PurchaseVKNRef struct {
	PostingNumber string
	InvoiceNumber string
	InvoiceDate   *time.Time
	SellerName    string
	SellerTaxID   string
	BuyerTaxID    string
	ProductInfo   string
	PDFURL        string
}

// VKNConflict factura de compra emitida a un VKN de comprador distinto al de
// la empresa: indicio de que la factura pertenece a otro contribuyente.
type VKNConflict struct {
	PostingNumber string
	InvoiceNumber string
	InvoiceDate   *time.Time
	SellerName    string
	SellerTaxID   string
	BuyerTaxID    string
	ExpectedVKN   string
	ProductInfo   string
	PDFURL        string
}

// DetectVKNConflicts recorre las facturas de compra con VKN de comprador
// presente y emite un conflicto cuando ese VKN no coincide con el esperado.
// La comparación normaliza espacios y guiones; los registros sin VKN se
// excluyen, no se marcan. El resultado queda ordenado por fecha de factura
// descendente (las sin fecha al final).
func DetectVKNConflicts(refs []PurchaseVKNRef, expectedVKN string) []VKNConflict {
	expected := normalizeVKN(expectedVKN)
	var conflicts []VKNConflict
	for _, r := range refs {
		buyer := normalizeVKN(r.BuyerTaxID)
		if buyer == "" || buyer == expected {
			continue
		}
		conflicts = append(conflicts, VKNConflict{
			PostingNumber: r.PostingNumber,
			InvoiceNumber: r.InvoiceNumber,
			InvoiceDate:   r.InvoiceDate,
			SellerName:    r.SellerName,
			SellerTaxID:   r.SellerTaxID,
			BuyerTaxID:    r.BuyerTaxID,
			ExpectedVKN:   expectedVKN,
			ProductInfo:   r.ProductInfo,
			PDFURL:        r.PDFURL,
		})
	}
	sort.SliceStable(conflicts, func(i, j int) bool {
		a, b := conflicts[i].InvoiceDate, conflicts[j].InvoiceDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return conflicts
}

// normalizeVKN quita espacios y guiones antes de comparar.
func normalizeVKN(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.TrimSpace(s)
}
