// Package ozon implementa el cliente del Seller API de Ozon para el listado
// de envíos FBS y cancelaciones. Paginación interna con límite fijo; las
// credenciales viajan en headers Client-Id / Api-Key.
package ozon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ozonpanel/backend/internal/application/ports"
	"github.com/ozonpanel/backend/internal/domain/entity"
	"github.com/ozonpanel/backend/pkg/config"
	"github.com/ozonpanel/backend/pkg/logger"
)

var _ ports.MarketplaceClient = (*Client)(nil)

const (
	pageLimit = 1000
	// maxPages corta la paginación ante un API que nunca devuelve has_next=false.
	maxPages = 20
)

// Client cliente HTTP del Seller API.
type Client struct {
	baseURL    string
	clientID   string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el cliente con las credenciales configuradas.
func NewClient(cfg config.OzonConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		clientID:   cfg.ClientID,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.Named("ozon-client"),
	}
}

// ── Estructuras del protocolo /v3/posting/fbs/list ────────────────────────────

type listRequest struct {
	Dir    string     `json:"dir"`
	Filter listFilter `json:"filter"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
	With   listWith   `json:"with"`
}

type listFilter struct {
	Since  string `json:"since"`
	To     string `json:"to"`
	Status string `json:"status,omitempty"`
}

type listWith struct {
	FinancialData bool `json:"financial_data"`
}

type listResponse struct {
	Result struct {
		Postings []posting `json:"postings"`
		HasNext  bool      `json:"has_next"`
	} `json:"result"`
}

type posting struct {
	PostingNumber string    `json:"posting_number"`
	Status        string    `json:"status"`
	InProcessAt   time.Time `json:"in_process_at"`
	DeliveringAt  *time.Time `json:"delivering_date"`
	Customer      struct {
		Name string `json:"name"`
	} `json:"customer"`
	Products []struct {
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
		Price    string `json:"price"`
		OfferID  string `json:"offer_id"`
	} `json:"products"`
	FinancialData struct {
		Products []struct {
			Payout float64 `json:"payout"`
		} `json:"products"`
	} `json:"financial_data"`
	Cancellation struct {
		CancelReason   string `json:"cancel_reason"`
		CancellationID int64  `json:"cancellation_id"`
	} `json:"cancellation"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// ListPostings envíos del rango, todas las páginas, mapeados a entidades.
func (c *Client) ListPostings(ctx context.Context, from, to time.Time) ([]*entity.Order, error) {
	postings, err := c.listAll(ctx, from, to, "")
	if err != nil {
		return nil, err
	}
	orders := make([]*entity.Order, 0, len(postings))
	for _, p := range postings {
		orders = append(orders, mapPosting(p))
	}
	return orders, nil
}

// ListCancellations cancelaciones del rango, con motivo.
func (c *Client) ListCancellations(ctx context.Context, from, to time.Time) ([]ports.CancelledPosting, error) {
	postings, err := c.listAll(ctx, from, to, "cancelled")
	if err != nil {
		return nil, err
	}
	out := make([]ports.CancelledPosting, 0, len(postings))
	for _, p := range postings {
		cp := ports.CancelledPosting{
			PostingNumber: p.PostingNumber,
			CancelReason:  p.Cancellation.CancelReason,
		}
		if len(p.Products) > 0 {
			cp.ProductName = p.Products[0].Name
			cp.SKU = p.Products[0].OfferID
			cp.Quantity = p.Products[0].Quantity
		}
		if !p.InProcessAt.IsZero() {
			d := p.InProcessAt
			cp.CancelDate = &d
		}
		out = append(out, cp)
	}
	return out, nil
}

func (c *Client) listAll(ctx context.Context, from, to time.Time, status string) ([]posting, error) {
	var all []posting
	offset := 0
	for page := 0; page < maxPages; page++ {
		reqBody := listRequest{
			Dir: "ASC",
			Filter: listFilter{
				Since:  from.UTC().Format(time.RFC3339),
				To:     to.UTC().Format(time.RFC3339),
				Status: status,
			},
			Limit:  pageLimit,
			Offset: offset,
			With:   listWith{FinancialData: true},
		}
		var resp listResponse
		if err := c.post(ctx, "/v3/posting/fbs/list", reqBody, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Result.Postings...)
		if !resp.Result.HasNext {
			return all, nil
		}
		offset += pageLimit
	}
	c.log.Warn().Int("pages", maxPages).Msg("paginación cortada por límite de páginas")
	return all, nil
}

func (c *Client) post(ctx context.Context, path string, reqBody, out any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("ozon: serializar request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ozon: crear request: %w", err)
	}
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ozon: llamada HTTP: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("ozon: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ozon: %s HTTP %d: %s", path, resp.StatusCode, string(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("ozon: deserializar %s: %w", path, err)
	}
	return nil
}

// mapPosting traduce un posting del API a la entidad interna. El pago neto se
// toma del payout financiero; si el API no lo trae, de la suma de precios.
func mapPosting(p posting) *entity.Order {
	status := entity.MapOzonStatus(p.Status)
	o := &entity.Order{
		PostingNumber: p.PostingNumber,
		Status:        status,
		OrderDate:     p.InProcessAt,
		DeliveryDate:  p.DeliveringAt,
		CustomerName:  p.Customer.Name,
		IsCancelled:   status == entity.OrderStatusCancelled,
		IsReturned:    status == entity.OrderStatusReturned,
	}

	settlement := decimal.Zero
	for _, fp := range p.FinancialData.Products {
		settlement = settlement.Add(decimal.NewFromFloat(fp.Payout))
	}

	gross := decimal.Zero
	for _, prod := range p.Products {
		price, err := decimal.NewFromString(prod.Price)
		if err != nil {
			price = decimal.Zero
		}
		o.Items = append(o.Items, entity.OrderItem{
			Name:      prod.Name,
			Quantity:  prod.Quantity,
			UnitPrice: price,
			SKU:       prod.OfferID,
		})
		gross = gross.Add(price.Mul(decimal.NewFromInt(int64(prod.Quantity))))
	}
	if settlement.IsZero() {
		settlement = gross
	}
	o.SettlementAmount = settlement
	return o
}
