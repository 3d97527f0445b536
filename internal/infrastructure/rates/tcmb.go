// Package rates adaptadores de cotización: TCMB (banco central turco) para
// USD/TRY y CBR (banco central ruso) para USD/RUB, más el servicio de consulta
// con retroceso por días sin publicación.
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

	"github.com/ozonpanel/backend/internal/application/ports"
	"github.com/ozonpanel/backend/internal/domain"
)

var _ ports.RateProvider = (*TCMBProvider)(nil)

const tcmbBaseURL = "https://www.tcmb.gov.tr/kurlar"

// TCMBProvider lee el XML diario de kurlar del TCMB. Se usa ForexSelling
// (venta de divisa), que es la tarifa aplicada en las liquidaciones.
// Los fines de semana y feriados el TCMB no publica: HTTP 404 -> ErrRateNotFound.
type TCMBProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewTCMBProvider construye el adaptador.
func NewTCMBProvider() *TCMBProvider {
	return &TCMBProvider{
		baseURL:    tcmbBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// GetRate devuelve el ForexSelling del par para la fecha exacta.
func (p *TCMBProvider) GetRate(ctx context.Context, date time.Time, pair string) (decimal.Decimal, error) {
	if pair != ports.PairUSDTRY {
		return decimal.Decimal{}, fmt.Errorf("tcmb: par no soportado: %s", pair)
	}

	// /kurlar/YYYYMM/DDMMYYYY.xml; el día corriente se publica en today.xml
	var url string
	if sameDay(date, time.Now()) {
		url = p.baseURL + "/today.xml"
	} else {
		url = fmt.Sprintf("%s/%s/%s.xml", p.baseURL, date.Format("200601"), date.Format("02012006"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("tcmb: crear request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("tcmb: llamada HTTP: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return decimal.Decimal{}, domain.ErrRateNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("tcmb: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("tcmb: leer respuesta: %w", err)
	}
	return parseTCMB(data)
}

// parseTCMB extrae el ForexSelling de USD del XML de kurlar.
func parseTCMB(data []byte) (decimal.Decimal, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return decimal.Decimal{}, fmt.Errorf("tcmb: parsear XML: %w", err)
	}

	for _, cur := range doc.FindElements("//Currency") {
		if cur.SelectAttrValue("CurrencyCode", "") != "USD" {
			continue
		}
		sell := cur.SelectElement("ForexSelling")
		if sell == nil {
			break
		}
		raw := strings.TrimSpace(sell.Text())
		if raw == "" {
			break
		}
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("tcmb: ForexSelling inválido %q: %w", raw, err)
		}
		return rate, nil
	}
	return decimal.Decimal{}, domain.ErrRateNotFound
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
