package rates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ozonpanel/backend/internal/application/ports"
	"github.com/ozonpanel/backend/internal/domain"
	"github.com/ozonpanel/backend/pkg/cache"
	"github.com/ozonpanel/backend/pkg/logger"
)

var _ ports.RateLookup = (*Lookup)(nil)

// rateKey clave de caché: (día, par).
type rateKey struct {
	day  string // YYYY-MM-DD
	pair string
}

type rateValue struct {
	rate decimal.Decimal
	date time.Time
}

// Lookup servicio de consulta con retroceso: si la fecha pedida no cotiza
// (fin de semana, feriado) prueba día a día hacia atrás hasta walkbackDays.
// Las cotizaciones son inmutables una vez publicadas, así que se cachean.
type Lookup struct {
	providers    map[string]ports.RateProvider // par -> proveedor
	walkbackDays int
	cache        *cache.Cache[rateKey, rateValue]
	log          *logger.Logger
}

// NewLookup construye el servicio. ttl acota el caché (las fechas históricas
// no cambian, pero el día corriente puede publicarse tarde).
func NewLookup(providers map[string]ports.RateProvider, walkbackDays int, ttl time.Duration, log *logger.Logger) *Lookup {
	if walkbackDays <= 0 {
		walkbackDays = 7
	}
	return &Lookup{
		providers:    providers,
		walkbackDays: walkbackDays,
		cache:        cache.New[rateKey, rateValue](ttl),
		log:          log.Named("rates"),
	}
}

// RateFor devuelve la cotización aplicable y la fecha efectiva usada. Si tras
// walkbackDays intentos no hay publicación devuelve ErrRateNotFound.
func (l *Lookup) RateFor(ctx context.Context, date time.Time, pair string) (decimal.Decimal, time.Time, error) {
	provider, ok := l.providers[pair]
	if !ok {
		return decimal.Decimal{}, time.Time{}, fmt.Errorf("rates: par no soportado: %s", pair)
	}

	day := dateOnly(date)
	for i := 0; i <= l.walkbackDays; i++ {
		if err := ctx.Err(); err != nil {
			return decimal.Decimal{}, time.Time{}, err
		}
		key := rateKey{day: day.Format("2006-01-02"), pair: pair}
		if v, ok := l.cache.Get(key); ok {
			return v.rate, v.date, nil
		}

		rate, err := provider.GetRate(ctx, day, pair)
		switch {
		case err == nil:
			l.cache.Set(key, rateValue{rate: rate, date: day})
			if i > 0 {
				l.log.Debug().Str("pair", pair).
					Str("requested", date.Format("2006-01-02")).
					Str("effective", day.Format("2006-01-02")).
					Msg("cotización tomada de un día anterior")
			}
			return rate, day, nil
		case errors.Is(err, domain.ErrRateNotFound):
			day = day.AddDate(0, 0, -1)
		default:
			return decimal.Decimal{}, time.Time{}, err
		}
	}
	return decimal.Decimal{}, time.Time{}, fmt.Errorf("%w: %s sin publicación en %d días", domain.ErrRateNotFound, pair, l.walkbackDays)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
