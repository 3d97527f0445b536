package dto

import "github.com/shopspring/decimal"

// UpsertDocumentRequest alta/edición de los documentos de un pedido. Los
// campos vacíos no pisan valores existentes. ForceDuplicate es el override
// explícito de la guarda de facturas duplicadas.
type UpsertDocumentRequest struct {
	PostingNumber  string `json:"posting_number"`
	ForceDuplicate bool   `json:"force_duplicate"`

	// Factura de compra (alış)
	PurchaseInvoiceNo string          `json:"purchase_invoice_no"`
	PurchaseDate      string          `json:"purchase_date"` // YYYY-MM-DD
	SellerName        string          `json:"seller_name"`
	SellerTaxID       string          `json:"seller_tax_id"`
	BuyerTaxID        string          `json:"buyer_tax_id"`
	ProductInfo       string          `json:"product_info"`
	ProductQuantity   int             `json:"product_quantity"`
	NetAmount         decimal.Decimal `json:"net_amount"`
	VATAmount         decimal.Decimal `json:"vat_amount"`
	PurchasePDFURL    string          `json:"purchase_pdf_url"`

	// Factura de venta (satış)
	SaleInvoiceNo string `json:"sale_invoice_no"`
	SaleDate      string `json:"sale_date"`
	BuyerFullName string `json:"buyer_full_name"`
	SalePDFURL    string `json:"sale_pdf_url"`

	// ETGB
	ETGBNumber   string          `json:"etgb_number"`
	ETGBAmount   decimal.Decimal `json:"etgb_amount"`
	ETGBCurrency string          `json:"etgb_currency"` // USD | EUR
	ETGBDate     string          `json:"etgb_date"`
	ETGBPDFURL   string          `json:"etgb_pdf_url"`
}

// DuplicateCheckResponse resultado de la consulta de duplicados.
type DuplicateCheckResponse struct {
	IsDuplicate           bool   `json:"is_duplicate"`
	ExistingPostingNumber string `json:"existing_posting_number,omitempty"`
	Message               string `json:"message,omitempty"`
}

// BulkImportResult resumen del import masivo desde planilla.
type BulkImportResult struct {
	Imported int                `json:"imported"`
	Skipped  int                `json:"skipped"`
	Errors   []BulkImportError  `json:"errors,omitempty"`
}

// BulkImportError error a nivel de fila del import.
type BulkImportError struct {
	Row     int    `json:"row"`
	Posting string `json:"posting_number,omitempty"`
	Reason  string `json:"reason"`
}

// BatchOCRRequest lote OCR: pedidos en orden y qué tipos procesar.
type BatchOCRRequest struct {
	PostingNumbers  []string `json:"posting_numbers"`
	ProcessPurchase bool     `json:"process_purchase"`
	ProcessETGB     bool     `json:"process_etgb"`
}

// BatchOCRItem resultado por pedido/documento del lote.
type BatchOCRItem struct {
	PostingNumber string `json:"posting_number"`
	DocType       string `json:"doc_type"`
	Status        string `json:"status"` // success | skipped | error
	Reason        string `json:"reason,omitempty"`
}

// BatchOCRResult resumen del lote: siempre una entrada por pedido procesado.
type BatchOCRResult struct {
	Success int            `json:"success"`
	Skipped int            `json:"skipped"`
	Errors  int            `json:"errors"`
	Details []BatchOCRItem `json:"details"`
}
