package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseInvoice factura de compra (alış faturası). El enlace con los pedidos
// es por igualdad de string del número de factura, no por clave foránea: una
// misma factura puede respaldar varios pedidos hasta agotar ProductQuantity.
type PurchaseInvoice struct {
	InvoiceNumber   string
	InvoiceDate     *time.Time
	SellerName      string
	SellerTaxID     string // VKN del vendedor
	BuyerTaxID      string
	ProductInfo     string
	ProductQuantity int // capacidad declarada de la factura
	NetAmount       decimal.Decimal
	VATAmount       decimal.Decimal
	PDFURL          string
}

// SaleInvoice factura de venta (satış faturası), una por pedido.
type SaleInvoice struct {
	InvoiceNumber string
	InvoiceDate   *time.Time
	BuyerFullName string
	PDFURL        string
}

// CustomsDeclaration declaración de exportación ETGB, cero-o-una por pedido.
type CustomsDeclaration struct {
	DeclarationNumber string
	Amount            decimal.Decimal
	Currency          string // "USD" | "EUR"
	DeclarationDate   *time.Time
	InvoiceDate       *time.Time
	PDFURL            string
}

// OrderDocuments conjunto documental de un pedido: factura de compra, factura
// de venta y ETGB, con los campos extraídos (manual, import masivo u OCR).
type OrderDocuments struct {
	PostingNumber string
	Purchase      PurchaseInvoice
	Sale          SaleInvoice
	Customs       CustomsDeclaration
	Note          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasPurchaseInvoice indica si hay número de factura de compra registrado.
func (d *OrderDocuments) HasPurchaseInvoice() bool {
	return d.Purchase.InvoiceNumber != ""
}
