package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ozonpanel/backend/internal/domain/entity"
)

// PurchaseInvoiceResponse factura de compra serializada.
type PurchaseInvoiceResponse struct {
	InvoiceNumber   string          `json:"invoice_number,omitempty"`
	InvoiceDate     *time.Time      `json:"invoice_date,omitempty"`
	SellerName      string          `json:"seller_name,omitempty"`
	SellerTaxID     string          `json:"seller_tax_id,omitempty"`
	BuyerTaxID      string          `json:"buyer_tax_id,omitempty"`
	ProductInfo     string          `json:"product_info,omitempty"`
	ProductQuantity int             `json:"product_quantity,omitempty"`
	NetAmount       decimal.Decimal `json:"net_amount"`
	VATAmount       decimal.Decimal `json:"vat_amount"`
	PDFURL          string          `json:"pdf_url,omitempty"`
}

// SaleInvoiceResponse factura de venta serializada.
type SaleInvoiceResponse struct {
	InvoiceNumber string     `json:"invoice_number,omitempty"`
	InvoiceDate   *time.Time `json:"invoice_date,omitempty"`
	BuyerFullName string     `json:"buyer_full_name,omitempty"`
	PDFURL        string     `json:"pdf_url,omitempty"`
}

// CustomsResponse declaración ETGB serializada.
type CustomsResponse struct {
	DeclarationNumber string          `json:"declaration_number,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency,omitempty"`
	DeclarationDate   *time.Time      `json:"declaration_date,omitempty"`
	InvoiceDate       *time.Time      `json:"invoice_date,omitempty"`
	PDFURL            string          `json:"pdf_url,omitempty"`
}

// DocumentResponse conjunto documental de un pedido.
type DocumentResponse struct {
	PostingNumber string                  `json:"posting_number"`
	Purchase      PurchaseInvoiceResponse `json:"purchase"`
	Sale          SaleInvoiceResponse     `json:"sale"`
	Customs       CustomsResponse         `json:"customs"`
	Note          string                  `json:"note,omitempty"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// ToDocumentResponse mapea el conjunto documental al DTO de salida.
func ToDocumentResponse(d *entity.OrderDocuments) DocumentResponse {
	return DocumentResponse{
		PostingNumber: d.PostingNumber,
		Purchase: PurchaseInvoiceResponse{
			InvoiceNumber:   d.Purchase.InvoiceNumber,
			InvoiceDate:     d.Purchase.InvoiceDate,
			SellerName:      d.Purchase.SellerName,
			SellerTaxID:     d.Purchase.SellerTaxID,
			BuyerTaxID:      d.Purchase.BuyerTaxID,
			ProductInfo:     d.Purchase.ProductInfo,
			ProductQuantity: d.Purchase.ProductQuantity,
			NetAmount:       d.Purchase.NetAmount,
			VATAmount:       d.Purchase.VATAmount,
			PDFURL:          d.Purchase.PDFURL,
		},
		Sale: SaleInvoiceResponse{
			InvoiceNumber: d.Sale.InvoiceNumber,
			InvoiceDate:   d.Sale.InvoiceDate,
			BuyerFullName: d.Sale.BuyerFullName,
			PDFURL:        d.Sale.PDFURL,
		},
		Customs: CustomsResponse{
			DeclarationNumber: d.Customs.DeclarationNumber,
			Amount:            d.Customs.Amount,
			Currency:          d.Customs.Currency,
			DeclarationDate:   d.Customs.DeclarationDate,
			InvoiceDate:       d.Customs.InvoiceDate,
			PDFURL:            d.Customs.PDFURL,
		},
		Note:      d.Note,
		UpdatedAt: d.UpdatedAt,
	}
}
