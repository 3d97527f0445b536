// Package excel lee y escribe planillas xlsx: import masivo de documentos y
// export de los reportes de conciliación y kar.
package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ozonpanel/backend/internal/application/documents"
	"github.com/ozonpanel/backend/internal/application/dto"
)

// headerAlias una columna reconocida del import masivo y los encabezados que
// la identifican.
type headerAlias struct {
	key     string
	aliases []string
}

// Columnas reconocidas del import masivo. Los encabezados llegan en turco o en
// inglés según quién exportó la planilla; el matching es por substring sobre
// el encabezado normalizado y cada celda del encabezado se asigna a una sola
// columna. El orden importa: las columnas de URL van antes que las de número
// de factura para que "Alış Fatura URL" no se lea como el número.
var headerAliases = []headerAlias{
	{"purchase_pdf", []string{"alış fatura url", "alis fatura url", "alış url", "alis url", "alış pdf", "alis pdf", "purchase url", "purchase pdf"}},
	{"sale_pdf", []string{"satış fatura url", "satis fatura url", "satış url", "satis url", "satış pdf", "satis pdf", "sale url", "sale pdf"}},
	{"etgb_pdf", []string{"etgb url", "etgb pdf", "beyanname url", "customs url"}},
	{"posting", []string{"sipariş no", "siparis no", "gönderi", "gonderi", "posting", "order"}},
	{"purchase_no", []string{"alış fatura", "alis fatura", "purchase invoice"}},
	{"purchase_date", []string{"alış tarih", "alis tarih", "purchase date"}},
	{"seller_name", []string{"satıcı ünvan", "satici unvan", "seller name"}},
	{"seller_tax_id", []string{"satıcı vkn", "satici vkn", "seller tax"}},
	{"product_info", []string{"ürün bilgi", "urun bilgi", "product info"}},
	{"product_quantity", []string{"ürün aded", "urun aded", "adet", "quantity"}},
	{"net_amount", []string{"kdv hariç", "kdv haric", "net amount"}},
	{"vat_amount", []string{"kdv tutar", "vat"}},
	{"sale_no", []string{"satış fatura", "satis fatura", "sale invoice"}},
	{"sale_date", []string{"satış tarih", "satis tarih", "sale date"}},
	{"buyer_full_name", []string{"alıcı ad", "alici ad", "buyer name"}},
	{"etgb_no", []string{"etgb no", "beyanname no", "etgb number"}},
	{"etgb_date", []string{"etgb tarih", "beyanname tarih", "etgb date"}},
	{"etgb_amount", []string{"etgb tutar", "etgb amount"}},
	{"etgb_currency", []string{"döviz", "doviz", "currency"}},
	{"note", []string{"not", "note"}},
}

// ParseImportFile parsea la planilla de import masivo. Primera fila =
// encabezado; las filas sin número de envío igual se devuelven para que el
// caso de uso las reporte por número de fila.
func ParseImportFile(r io.Reader) ([]documents.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("excel: abrir planilla: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel: planilla sin hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("excel: leer hoja %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("excel: planilla sin filas de datos")
	}

	cols := mapHeader(rows[0])
	if _, ok := cols["posting"]; !ok {
		return nil, fmt.Errorf("excel: no se encontró la columna de número de envío")
	}

	out := make([]documents.ImportRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		get := func(key string) string {
			idx, ok := cols[key]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		req := dto.UpsertDocumentRequest{
			PostingNumber:     get("posting"),
			PurchaseInvoiceNo: get("purchase_no"),
			PurchaseDate:      get("purchase_date"),
			SellerName:        get("seller_name"),
			SellerTaxID:       get("seller_tax_id"),
			ProductInfo:       get("product_info"),
			PurchasePDFURL:    get("purchase_pdf"),
			SaleInvoiceNo:     get("sale_no"),
			SaleDate:          get("sale_date"),
			BuyerFullName:     get("buyer_full_name"),
			SalePDFURL:        get("sale_pdf"),
			ETGBNumber:        get("etgb_no"),
			ETGBDate:          get("etgb_date"),
			ETGBCurrency:      strings.ToUpper(get("etgb_currency")),
			ETGBPDFURL:        get("etgb_pdf"),
		}
		if n, err := strconv.Atoi(get("product_quantity")); err == nil {
			req.ProductQuantity = n
		}
		req.NetAmount = parseCellAmount(get("net_amount"))
		req.VATAmount = parseCellAmount(get("vat_amount"))
		req.ETGBAmount = parseCellAmount(get("etgb_amount"))

		out = append(out, documents.ImportRow{
			Line:                  i + 2, // 1-based, contando el encabezado
			UpsertDocumentRequest: req,
		})
	}
	return out, nil
}

// mapHeader resuelve cada columna reconocida a su índice en la planilla.
// Cada celda del encabezado se asigna a lo sumo a una columna (la primera que
// matchee en el orden de headerAliases) y cada columna a un solo índice.
func mapHeader(header []string) map[string]int {
	cols := map[string]int{}
	for idx, cell := range header {
		norm := normalizeHeader(cell)
		if norm == "" {
			continue
		}
		isURL := strings.Contains(norm, "url") || strings.Contains(norm, "pdf")
		for _, ha := range headerAliases {
			if _, taken := cols[ha.key]; taken {
				continue
			}
			// Un encabezado de URL nunca puede caer en una columna de datos.
			if isURL && !strings.HasSuffix(ha.key, "_pdf") {
				continue
			}
			if matchesAlias(norm, ha.aliases) {
				cols[ha.key] = idx
				break
			}
		}
	}
	return cols
}

func matchesAlias(norm string, aliases []string) bool {
	for _, alias := range aliases {
		if strings.Contains(norm, alias) {
			return true
		}
	}
	return false
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// parseCellAmount acepta punto o coma decimal; una celda ilegible vale cero.
func parseCellAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
