package rates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/ozonpanel/backend/internal/application/ports"
	"github.com/ozonpanel/backend/internal/domain"
)

var _ ports.RateProvider = (*CBRProvider)(nil)

const cbrDailyURL = "https://www.cbr.ru/scripts/XML_daily.asp"

// CBRProvider lee el XML diario del Banco Central de Rusia para USD/RUB.
// El feed viene en windows-1251 y usa coma decimal; para fechas sin publicación
// el CBR devuelve el último día hábil, así que la fecha del documento se
// valida contra la pedida.
type CBRProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewCBRProvider construye el adaptador.
func NewCBRProvider() *CBRProvider {
	return &CBRProvider{
		baseURL:    cbrDailyURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// GetRate devuelve Value/Nominal de USD para la fecha exacta.
func (p *CBRProvider) GetRate(ctx context.Context, date time.Time, pair string) (decimal.Decimal, error) {
	if pair != ports.PairUSDRUB {
		return decimal.Decimal{}, fmt.Errorf("cbr: par no soportado: %s", pair)
	}

	url := fmt.Sprintf("%s?date_req=%s", p.baseURL, date.Format("02/01/2006"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cbr: crear request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cbr: llamada HTTP: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("cbr: HTTP %d", resp.StatusCode)
	}

	// windows-1251 -> UTF-8 antes de parsear
	data, err := io.ReadAll(transform.NewReader(io.LimitReader(resp.Body, 1<<20), charmap.Windows1251.NewDecoder()))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cbr: decodificar respuesta: %w", err)
	}
	return parseCBR(data, date)
}

// parseCBR extrae Value/Nominal de USD, validando que el feed corresponda a la
// fecha pedida (si no, el CBR devolvió el último día hábil: ErrRateNotFound y
// que el lookup retroceda explícitamente).
func parseCBR(data []byte, requested time.Time) (decimal.Decimal, error) {
	doc := etree.NewDocument()
	// el feed ya declara encoding="windows-1251" pero el contenido viene re-codificado
	doc.ReadSettings.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	if err := doc.ReadFromBytes(data); err != nil {
		return decimal.Decimal{}, fmt.Errorf("cbr: parsear XML: %w", err)
	}

	root := doc.SelectElement("ValCurs")
	if root == nil {
		return decimal.Decimal{}, fmt.Errorf("cbr: XML sin ValCurs")
	}
	if feedDate := root.SelectAttrValue("Date", ""); feedDate != "" && feedDate != requested.Format("02.01.2006") {
		return decimal.Decimal{}, domain.ErrRateNotFound
	}

	for _, val := range root.SelectElements("Valute") {
		code := val.SelectElement("CharCode")
		if code == nil || strings.TrimSpace(code.Text()) != "USD" {
			continue
		}
		rate, err := parseRUNumber(val.SelectElement("Value"))
		if err != nil {
			return decimal.Decimal{}, err
		}
		nominal, err := parseRUNumber(val.SelectElement("Nominal"))
		if err != nil || nominal.IsZero() {
			return decimal.Decimal{}, fmt.Errorf("cbr: Nominal inválido")
		}
		return rate.Div(nominal), nil
	}
	return decimal.Decimal{}, domain.ErrRateNotFound
}

func parseRUNumber(el *etree.Element) (decimal.Decimal, error) {
	if el == nil {
		return decimal.Decimal{}, fmt.Errorf("cbr: elemento numérico ausente")
	}
	raw := strings.ReplaceAll(strings.TrimSpace(el.Text()), ",", ".")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cbr: número inválido %q: %w", raw, err)
	}
	return d, nil
}
