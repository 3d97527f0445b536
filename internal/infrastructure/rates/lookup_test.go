package rates

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozonpanel/backend/internal/application/ports"
	"github.com/ozonpanel/backend/internal/domain"
	"github.com/ozonpanel/backend/pkg/logger"
)

// scriptedProvider cotizaciones fijas por día; los demás días no publican.
type scriptedProvider struct {
	rates map[string]string // YYYY-MM-DD -> rate
	calls int
}

func (p *scriptedProvider) GetRate(_ context.Context, date time.Time, _ string) (decimal.Decimal, error) {
	p.calls++
	if s, ok := p.rates[date.Format("2006-01-02")]; ok {
		d, _ := decimal.NewFromString(s)
		return d, nil
	}
	return decimal.Decimal{}, domain.ErrRateNotFound
}

func newLookup(p ports.RateProvider, walkback int) *Lookup {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return NewLookup(map[string]ports.RateProvider{ports.PairUSDTRY: p}, walkback, time.Hour, log)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
}

func TestRateFor_FechaExacta(t *testing.T) {
	p := &scriptedProvider{rates: map[string]string{"2025-05-16": "30.05"}}
	l := newLookup(p, 7)

	rate, effective, err := l.RateFor(context.Background(), day(2025, 5, 16), ports.PairUSDTRY)
	require.NoError(t, err)
	assert.Equal(t, "30.05", rate.String())
	assert.Equal(t, "2025-05-16", effective.Format("2006-01-02"))
}

func TestRateFor_RetrocedePorFinDeSemana(t *testing.T) {
	// domingo 18: sin publicación sábado ni domingo, cae al viernes 16
	p := &scriptedProvider{rates: map[string]string{"2025-05-16": "30.05"}}
	l := newLookup(p, 7)

	rate, effective, err := l.RateFor(context.Background(), day(2025, 5, 18), ports.PairUSDTRY)
	require.NoError(t, err)
	assert.Equal(t, "30.05", rate.String())
	assert.Equal(t, "2025-05-16", effective.Format("2006-01-02"), "la fecha efectiva es la del día publicado")
}

func TestRateFor_RetrocesoAcotado(t *testing.T) {
	p := &scriptedProvider{rates: map[string]string{}} // nunca publica
	l := newLookup(p, 3)

	_, _, err := l.RateFor(context.Background(), day(2025, 5, 18), ports.PairUSDTRY)
	assert.ErrorIs(t, err, domain.ErrRateNotFound)
	assert.Equal(t, 4, p.calls, "fecha pedida + 3 retrocesos, nunca infinito")
}

func TestRateFor_CacheaPorDia(t *testing.T) {
	p := &scriptedProvider{rates: map[string]string{"2025-05-16": "30.05"}}
	l := newLookup(p, 7)

	_, _, err := l.RateFor(context.Background(), day(2025, 5, 16), ports.PairUSDTRY)
	require.NoError(t, err)
	_, _, err = l.RateFor(context.Background(), day(2025, 5, 16), ports.PairUSDTRY)
	require.NoError(t, err)

	assert.Equal(t, 1, p.calls, "la segunda consulta sale del caché")
}

func TestRateFor_ParDesconocido(t *testing.T) {
	l := newLookup(&scriptedProvider{}, 7)
	_, _, err := l.RateFor(context.Background(), day(2025, 5, 16), "USD/XYZ")
	assert.Error(t, err)
}

func TestParseTCMB_ForexSelling(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<Tarih_Date Tarih="16.05.2025" Date="05/16/2025">
  <Currency CrossOrder="0" Kod="USD" CurrencyCode="USD">
    <Unit>1</Unit>
    <Isim>ABD DOLARI</Isim>
    <ForexBuying>29.9950</ForexBuying>
    <ForexSelling>30.0490</ForexSelling>
  </Currency>
  <Currency CrossOrder="9" Kod="EUR" CurrencyCode="EUR">
    <Unit>1</Unit>
    <ForexSelling>32.7000</ForexSelling>
  </Currency>
</Tarih_Date>`

	rate, err := parseTCMB([]byte(xml))
	require.NoError(t, err)
	assert.Equal(t, "30.049", rate.String())
}

func TestParseTCMB_SinUSD(t *testing.T) {
	xml := `<Tarih_Date><Currency CurrencyCode="EUR"><ForexSelling>32.7</ForexSelling></Currency></Tarih_Date>`
	_, err := parseTCMB([]byte(xml))
	assert.ErrorIs(t, err, domain.ErrRateNotFound)
}

func TestParseCBR_ComaDecimalYNominal(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<ValCurs Date="16.05.2025" name="Foreign Currency Market">
  <Valute ID="R01235">
    <NumCode>840</NumCode>
    <CharCode>USD</CharCode>
    <Nominal>1</Nominal>
    <Name>Доллар США</Name>
    <Value>90,8423</Value>
  </Valute>
</ValCurs>`

	rate, err := parseCBR([]byte(xml), time.Date(2025, 5, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "90.8423", rate.String())
}

func TestParseCBR_FechaDistintaEsNoPublicada(t *testing.T) {
	// el CBR responde el último día hábil para fechas sin publicación
	xml := `<ValCurs Date="16.05.2025"><Valute><CharCode>USD</CharCode><Nominal>1</Nominal><Value>90,84</Value></Valute></ValCurs>`
	_, err := parseCBR([]byte(xml), time.Date(2025, 5, 18, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, domain.ErrRateNotFound)
}
