// Package reconcile contiene los servicios puros de conciliación documental:
// índice de uso de facturas de compra, detección de conflictos de fecha y
// guarda contra números de factura duplicados. Todo es función pura sobre
// registros planos; el I/O vive en los casos de uso que los invocan.
package reconcile

import (
	"sort"
	"strings"
	"time"
)

// Estados de utilización de una factura de compra.
const (
	UsageFull     = "FULLY_USED" // usos == capacidad
	UsageUsable   = "USABLE"     // usos < capacidad, queda margen
	UsageOverused = "OVER_USED"  // usos > capacidad: error a destacar, nunca silencioso
)

// OrderInvoiceRef referencia mínima pedido -> factura de compra.
type OrderInvoiceRef struct {
	PostingNumber   string
	InvoiceNumber   string // vacío = sin factura de compra (excluido del índice)
	InvoiceDate     *time.Time
	SellerName      string
	SellerTaxID     string
	ProductInfo     string
	ProductQuantity int // capacidad declarada; <= 0 se trata como capacidad agotada
	PDFURL          string
}

// InvoiceUsageReport reporte por número de factura.
type InvoiceUsageReport struct {
	InvoiceNumber   string
	InvoiceDate     *time.Time
	SellerName      string
	SellerTaxID     string
	ProductInfo     string
	Capacity        int
	UsageCount      int
	Remaining       int // > 0 solo en USABLE
	Excess          int // > 0 solo en OVER_USED
	State           string
	PostingNumbers  []string // pedidos que referencian la factura, para drill-down
	PDFURL          string
}

// UsageIndex resultado completo de la indexación.
type UsageIndex struct {
	Invoices       []InvoiceUsageReport
	MissingInvoice int // pedidos sin factura de compra (excluidos, pero visibles)
}

// BuildUsageIndex agrupa los pedidos por número de factura de compra (recortado
// de espacios, sensible a mayúsculas) y clasifica cada factura según el uso
// frente a la capacidad declarada. Clasificación pura de (capacidad, usos):
// igualdad exacta = FULLY_USED, jamás por aproximación.
func BuildUsageIndex(refs []OrderInvoiceRef) UsageIndex {
	type groupData struct {
		first    OrderInvoiceRef
		postings []string
	}

	groups := make(map[string]*groupData)
	order := make([]string, 0)
	missing := 0

	for _, ref := range refs {
		num := strings.TrimSpace(ref.InvoiceNumber)
		if num == "" {
			missing++
			continue
		}
		g, ok := groups[num]
		if !ok {
			g = &groupData{first: ref}
			groups[num] = g
			order = append(order, num)
		}
		// El mismo pedido no cuenta dos veces aunque venga repetido en la entrada.
		if !contains(g.postings, ref.PostingNumber) {
			g.postings = append(g.postings, ref.PostingNumber)
		}
		// Completar el PDF si un registro posterior lo trae y el primero no.
		if g.first.PDFURL == "" && ref.PDFURL != "" {
			g.first.PDFURL = ref.PDFURL
		}
	}

	reports := make([]InvoiceUsageReport, 0, len(order))
	for _, num := range order {
		g := groups[num]
		capacity := g.first.ProductQuantity
		usage := len(g.postings)

		r := InvoiceUsageReport{
			InvoiceNumber:  num,
			InvoiceDate:    g.first.InvoiceDate,
			SellerName:     g.first.SellerName,
			SellerTaxID:    g.first.SellerTaxID,
			ProductInfo:    g.first.ProductInfo,
			Capacity:       capacity,
			UsageCount:     usage,
			State:          classify(capacity, usage),
			PostingNumbers: g.postings,
			PDFURL:         g.first.PDFURL,
		}
		switch r.State {
		case UsageUsable:
			r.Remaining = capacity - usage
		case UsageOverused:
			r.Excess = usage - max(capacity, 0)
		}
		reports = append(reports, r)
	}

	// Orden estable por fecha de factura descendente y número como desempate,
	// igual que el listado original.
	sort.SliceStable(reports, func(i, j int) bool {
		di, dj := reports[i].InvoiceDate, reports[j].InvoiceDate
		switch {
		case di == nil && dj == nil:
			return reports[i].InvoiceNumber < reports[j].InvoiceNumber
		case di == nil:
			return false
		case dj == nil:
			return true
		case di.Equal(*dj):
			return reports[i].InvoiceNumber < reports[j].InvoiceNumber
		default:
			return di.After(*dj)
		}
	})

	return UsageIndex{Invoices: reports, MissingInvoice: missing}
}

// classify clasificación pura de (capacidad, usos). Capacidad <= 0 con al
// menos un uso siempre es OVER_USED.
func classify(capacity, usage int) string {
	if capacity <= 0 {
		if usage >= 1 {
			return UsageOverused
		}
		return UsageFull
	}
	switch {
	case usage == capacity:
		return UsageFull
	case usage < capacity:
		return UsageUsable
	default:
		return UsageOverused
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
