package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ozonpanel/backend/internal/domain/entity"
)

// OrderItemResponse línea de producto de un envío.
type OrderItemResponse struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	SKU       string          `json:"sku,omitempty"`
}

// OrderResponse pedido para el panel web.
type OrderResponse struct {
	PostingNumber    string              `json:"posting_number"`
	Status           string              `json:"status"`
	OrderDate        time.Time           `json:"order_date"`
	DeliveryDate     *time.Time          `json:"delivery_date,omitempty"`
	CustomerName     string              `json:"customer_name,omitempty"`
	Items            []OrderItemResponse `json:"items"`
	SettlementAmount decimal.Decimal     `json:"settlement_amount"`
	PurchasePrice    *decimal.Decimal    `json:"purchase_price,omitempty"`
	IsCancelled      bool                `json:"is_cancelled"`
	IsReturned       bool                `json:"is_returned"`
}

// ToOrderResponse mapea el pedido al DTO de salida.
func ToOrderResponse(o *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			SKU:       it.SKU,
		})
	}
	return OrderResponse{
		PostingNumber:    o.PostingNumber,
		Status:           o.Status,
		OrderDate:        o.OrderDate,
		DeliveryDate:     o.DeliveryDate,
		CustomerName:     o.CustomerName,
		Items:            items,
		SettlementAmount: o.SettlementAmount,
		PurchasePrice:    o.PurchasePrice,
		IsCancelled:      o.IsCancelled,
		IsReturned:       o.IsReturned,
	}
}

// SetPurchasePriceRequest alta manual del precio de compra en moneda local.
type SetPurchasePriceRequest struct {
	Price decimal.Decimal `json:"price"`
}
