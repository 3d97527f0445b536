package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ozonpanel/backend/internal/domain"
	"github.com/ozonpanel/backend/internal/domain/entity"
	"github.com/ozonpanel/backend/internal/domain/reconcile"
	"github.com/ozonpanel/backend/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación del puerto DocumentRepository sobre PostgreSQL.
// Una fila por pedido con los tres grupos de campos aplanados (compra, venta,
// ETGB), igual que la planilla de origen.
type DocumentRepo struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository construye el adaptador de persistencia documental.
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool}
}

const docColumns = `
	posting_number,
	purchase_invoice_no, purchase_date, seller_name, seller_tax_id, buyer_tax_id,
	product_info, product_quantity, net_amount, vat_amount, purchase_pdf_url,
	sale_invoice_no, sale_date, buyer_full_name, sale_pdf_url,
	etgb_number, etgb_amount, etgb_currency, etgb_date, etgb_invoice_date, etgb_pdf_url,
	note, created_at, updated_at`

// GetByPostingNumber obtiene los documentos del pedido. (nil, nil) si no hay fila.
func (r *DocumentRepo) GetByPostingNumber(ctx context.Context, postingNumber string) (*entity.OrderDocuments, error) {
	q := `SELECT` + docColumns + ` FROM order_documents WHERE posting_number = $1`
	d, err := scanDocuments(r.pool.QueryRow(ctx, q, postingNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get documents: %w", err)
	}
	return d, nil
}

// Upsert inserta o reemplaza la fila documental completa del pedido.
func (r *DocumentRepo) Upsert(ctx context.Context, d *entity.OrderDocuments) error {
	const q = `
		INSERT INTO order_documents (
			posting_number,
			purchase_invoice_no, purchase_date, seller_name, seller_tax_id, buyer_tax_id,
			product_info, product_quantity, net_amount, vat_amount, purchase_pdf_url,
			sale_invoice_no, sale_date, buyer_full_name, sale_pdf_url,
			etgb_number, etgb_amount, etgb_currency, etgb_date, etgb_invoice_date, etgb_pdf_url,
			note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24)
		ON CONFLICT (posting_number) DO UPDATE SET
			purchase_invoice_no = EXCLUDED.purchase_invoice_no,
			purchase_date       = EXCLUDED.purchase_date,
			seller_name         = EXCLUDED.seller_name,
			seller_tax_id       = EXCLUDED.seller_tax_id,
			buyer_tax_id        = EXCLUDED.buyer_tax_id,
			product_info        = EXCLUDED.product_info,
			product_quantity    = EXCLUDED.product_quantity,
			net_amount          = EXCLUDED.net_amount,
			vat_amount          = EXCLUDED.vat_amount,
			purchase_pdf_url    = EXCLUDED.purchase_pdf_url,
			sale_invoice_no     = EXCLUDED.sale_invoice_no,
			sale_date           = EXCLUDED.sale_date,
			buyer_full_name     = EXCLUDED.buyer_full_name,
			sale_pdf_url        = EXCLUDED.sale_pdf_url,
			etgb_number         = EXCLUDED.etgb_number,
			etgb_amount         = EXCLUDED.etgb_amount,
			etgb_currency       = EXCLUDED.etgb_currency,
			etgb_date           = EXCLUDED.etgb_date,
			etgb_invoice_date   = EXCLUDED.etgb_invoice_date,
			etgb_pdf_url        = EXCLUDED.etgb_pdf_url,
			note                = EXCLUDED.note,
			updated_at          = EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, q,
		d.PostingNumber,
		d.Purchase.InvoiceNumber, d.Purchase.InvoiceDate, d.Purchase.SellerName,
		d.Purchase.SellerTaxID, d.Purchase.BuyerTaxID,
		d.Purchase.ProductInfo, d.Purchase.ProductQuantity, d.Purchase.NetAmount,
		d.Purchase.VATAmount, d.Purchase.PDFURL,
		d.Sale.InvoiceNumber, d.Sale.InvoiceDate, d.Sale.BuyerFullName, d.Sale.PDFURL,
		d.Customs.DeclarationNumber, d.Customs.Amount, d.Customs.Currency,
		d.Customs.DeclarationDate, d.Customs.InvoiceDate, d.Customs.PDFURL,
		d.Note, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert documents: %w", err)
	}
	return nil
}

// ListByPeriod documentos de pedidos cuya fecha de pedido cae en el mes. El
// join con orders acota el reporte de conciliación al período pedido.
func (r *DocumentRepo) ListByPeriod(ctx context.Context, period repository.Period) ([]*entity.OrderDocuments, error) {
	q := `SELECT` + qualify(docColumns) + `
		FROM order_documents d
		JOIN orders o ON o.posting_number = d.posting_number
		WHERE o.order_date >= $1 AND o.order_date <= $2
		ORDER BY o.order_date ASC, d.posting_number ASC`
	rows, err := r.pool.Query(ctx, q, period.Start(), period.End())
	if err != nil {
		return nil, fmt.Errorf("list documents by period: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// Search busca por prefijo de número de envío.
func (r *DocumentRepo) Search(ctx context.Context, prefix string, limit int) ([]*entity.OrderDocuments, error) {
	q := `SELECT` + docColumns + `
		FROM order_documents
		WHERE posting_number LIKE $1 || '%'
		ORDER BY posting_number ASC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, q, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// SetNote guarda la nota del pedido, creando la fila si hace falta.
func (r *DocumentRepo) SetNote(ctx context.Context, postingNumber, note string) error {
	const q = `
		INSERT INTO order_documents (posting_number, note, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (posting_number) DO UPDATE SET note = EXCLUDED.note, updated_at = now()`
	if _, err := r.pool.Exec(ctx, q, postingNumber, note); err != nil {
		return fmt.Errorf("set note: %w", err)
	}
	return nil
}

// DeleteDocument limpia el grupo de columnas del tipo de documento.
func (r *DocumentRepo) DeleteDocument(ctx context.Context, postingNumber, docType string) error {
	q, ok := deleteQueries[docType]
	if !ok {
		return domain.ErrInvalidInput
	}
	tag, err := r.pool.Exec(ctx, q, postingNumber)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", docType, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ResetOCRFields limpia los campos extraídos conservando el PDF.
func (r *DocumentRepo) ResetOCRFields(ctx context.Context, postingNumber, docType string) error {
	q, ok := resetQueries[docType]
	if !ok {
		return domain.ErrInvalidInput
	}
	tag, err := r.pool.Exec(ctx, q, postingNumber)
	if err != nil {
		return fmt.Errorf("reset ocr fields %s: %w", docType, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListSaleInvoiceRefs asignaciones factura de venta -> pedido para la guarda
// de duplicados.
func (r *DocumentRepo) ListSaleInvoiceRefs(ctx context.Context) ([]reconcile.InvoiceRef, error) {
	const q = `
		SELECT sale_invoice_no, posting_number
		FROM order_documents
		WHERE sale_invoice_no IS NOT NULL AND sale_invoice_no <> ''`
	return r.listRefs(ctx, q)
}

func (r *DocumentRepo) listRefs(ctx context.Context, q string) ([]reconcile.InvoiceRef, error) {
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list invoice refs: %w", err)
	}
	defer rows.Close()

	var refs []reconcile.InvoiceRef
	for rows.Next() {
		var ref reconcile.InvoiceRef
		if err := rows.Scan(&ref.InvoiceNumber, &ref.PostingNumber); err != nil {
			return nil, fmt.Errorf("scan invoice ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

var deleteQueries = map[string]string{
	"alis": `UPDATE order_documents SET
			purchase_invoice_no = '', purchase_date = NULL, seller_name = '',
			seller_tax_id = '', buyer_tax_id = '', product_info = '',
			product_quantity = 0, net_amount = 0, vat_amount = 0,
			purchase_pdf_url = '', updated_at = now()
		WHERE posting_number = $1`,
	"satis": `UPDATE order_documents SET
			sale_invoice_no = '', sale_date = NULL, buyer_full_name = '',
			sale_pdf_url = '', updated_at = now()
		WHERE posting_number = $1`,
	"etgb": `UPDATE order_documents SET
			etgb_number = '', etgb_amount = 0, etgb_currency = '',
			etgb_date = NULL, etgb_invoice_date = NULL, etgb_pdf_url = '',
			updated_at = now()
		WHERE posting_number = $1`,
}

var resetQueries = map[string]string{
	"alis": `UPDATE order_documents SET
			purchase_invoice_no = '', purchase_date = NULL, seller_name = '',
			seller_tax_id = '', buyer_tax_id = '', product_info = '',
			product_quantity = 0, net_amount = 0, vat_amount = 0,
			updated_at = now()
		WHERE posting_number = $1`,
	"satis": `UPDATE order_documents SET
			sale_invoice_no = '', sale_date = NULL, buyer_full_name = '',
			updated_at = now()
		WHERE posting_number = $1`,
	"etgb": `UPDATE order_documents SET
			etgb_number = '', etgb_amount = 0, etgb_currency = '',
			etgb_date = NULL, etgb_invoice_date = NULL, updated_at = now()
		WHERE posting_number = $1`,
}

func scanDocuments(row pgx.Row) (*entity.OrderDocuments, error) {
	var d entity.OrderDocuments
	err := row.Scan(
		&d.PostingNumber,
		&d.Purchase.InvoiceNumber, &d.Purchase.InvoiceDate, &d.Purchase.SellerName,
		&d.Purchase.SellerTaxID, &d.Purchase.BuyerTaxID,
		&d.Purchase.ProductInfo, &d.Purchase.ProductQuantity, &d.Purchase.NetAmount,
		&d.Purchase.VATAmount, &d.Purchase.PDFURL,
		&d.Sale.InvoiceNumber, &d.Sale.InvoiceDate, &d.Sale.BuyerFullName, &d.Sale.PDFURL,
		&d.Customs.DeclarationNumber, &d.Customs.Amount, &d.Customs.Currency,
		&d.Customs.DeclarationDate, &d.Customs.InvoiceDate, &d.Customs.PDFURL,
		&d.Note, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDocuments(rows pgx.Rows) ([]*entity.OrderDocuments, error) {
	var docs []*entity.OrderDocuments
	for rows.Next() {
		d, err := scanDocuments(rows)
		if err != nil {
			return nil, fmt.Errorf("scan documents: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// qualify prefija cada columna con el alias "d." para las consultas con join.
func qualify(columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = "d." + strings.TrimSpace(p)
	}
	return " " + strings.Join(parts, ", ")
}
