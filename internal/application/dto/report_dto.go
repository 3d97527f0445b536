package dto

import "time"

// InvoiceUsageItem fila del reporte de uso de facturas de compra.
type InvoiceUsageItem struct {
	InvoiceNumber  string     `json:"invoice_number"`
	InvoiceDate    *time.Time `json:"invoice_date,omitempty"`
	SellerName     string     `json:"seller_name,omitempty"`
	SellerTaxID    string     `json:"seller_tax_id,omitempty"`
	ProductInfo    string     `json:"product_info,omitempty"`
	Capacity       int        `json:"capacity"`
	UsageCount     int        `json:"usage_count"`
	Remaining      int        `json:"remaining,omitempty"`
	Excess         int        `json:"excess,omitempty"`
	State          string     `json:"state"`
	PostingNumbers []string   `json:"posting_numbers"`
	PDFURL         string     `json:"pdf_url,omitempty"`
}

// InvoiceUsageStats totales del reporte de uso.
type InvoiceUsageStats struct {
	TotalInvoices  int `json:"total_invoices"`
	FullyUsed      int `json:"fully_used"`
	Usable         int `json:"usable"`
	Overused       int `json:"overused"`
	MissingInvoice int `json:"missing_invoice"` // pedidos sin factura de compra en el período
}

// InvoiceUsageReport respuesta completa del reporte.
type InvoiceUsageReport struct {
	Invoices []InvoiceUsageItem `json:"invoices"`
	Stats    InvoiceUsageStats  `json:"stats"`
	Period   PeriodRequest      `json:"period"`
}

// DateConflictItem fila del reporte de conflictos de fecha.
type DateConflictItem struct {
	PostingNumber     string    `json:"posting_number"`
	PurchaseInvoiceNo string    `json:"purchase_invoice_no"`
	PurchaseDate      time.Time `json:"purchase_date"`
	SaleInvoiceNo     string    `json:"sale_invoice_no"`
	SaleDate          time.Time `json:"sale_date"`
	GapDays           int       `json:"gap_days"`
}

// DateConflictReport respuesta del detector de conflictos.
type DateConflictReport struct {
	Conflicts []DateConflictItem `json:"conflicts"`
	Period    PeriodRequest      `json:"period"`
}

// VKNConflictItem factura de compra cuyo VKN de comprador no es el de la
// empresa.
type VKNConflictItem struct {
	PostingNumber string     `json:"posting_number"`
	InvoiceNumber string     `json:"invoice_number"`
	InvoiceDate   *time.Time `json:"invoice_date,omitempty"`
	SellerName    string     `json:"seller_name,omitempty"`
	SellerTaxID   string     `json:"seller_tax_id,omitempty"`
	BuyerTaxID    string     `json:"buyer_tax_id"`
	ExpectedVKN   string     `json:"expected_vkn"`
	ProductInfo   string     `json:"product_info,omitempty"`
	PDFURL        string     `json:"pdf_url,omitempty"`
}

// VKNConflictStats totales del reporte de VKN.
type VKNConflictStats struct {
	TotalWithVKN    int            `json:"total_with_vkn"`
	Conflicting     int            `json:"conflicting"`
	Matching        int            `json:"matching"`
	DistinctVKNs    int            `json:"distinct_vkns"`
	VKNDistribution map[string]int `json:"vkn_distribution,omitempty"`
}

// VKNConflictReport respuesta del detector de VKN del comprador.
type VKNConflictReport struct {
	Conflicts   []VKNConflictItem `json:"conflicts"`
	Stats       VKNConflictStats  `json:"stats"`
	ExpectedVKN string            `json:"expected_vkn"`
	Period      PeriodRequest     `json:"period"`
}
