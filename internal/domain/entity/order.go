package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados internos de un pedido (mapeados desde los strings del marketplace).
const (
	OrderStatusPending   = "PENDING"
	OrderStatusPreparing = "PREPARING"
	OrderStatusShipping  = "SHIPPING"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
	OrderStatusReturned  = "RETURNED"
)

// ozonStatusMap estados del Seller API de Ozon -> estado interno.
var ozonStatusMap = map[string]string{
	"awaiting_registration":  OrderStatusPending,
	"acceptance_in_progress": OrderStatusPending,
	"awaiting_approve":       OrderStatusPending,
	"awaiting_packaging":     OrderStatusPreparing,
	"awaiting_deliver":       OrderStatusPreparing,
	"driver_pickup":          OrderStatusShipping,
	"delivering":             OrderStatusShipping,
	"delivered":              OrderStatusDelivered,
	"cancelled":              OrderStatusCancelled,
	"returned":               OrderStatusReturned,
	"client_arbitration":     OrderStatusReturned,
}

// MapOzonStatus traduce el estado del marketplace al conjunto fijo interno.
// Estados desconocidos caen en PENDING para que el sync nunca falle por un
// string nuevo del API.
func MapOzonStatus(ozonStatus string) string {
	if s, ok := ozonStatusMap[ozonStatus]; ok {
		return s
	}
	return OrderStatusPending
}

// OrderItem línea de producto dentro de un envío.
type OrderItem struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal // en moneda de liquidación
	SKU       string
}

// Order envío/pedido sincronizado desde el marketplace. Inmutable salvo el
// estado, que solo cambia por el sync. PostingNumber es la clave primaria.
type Order struct {
	PostingNumber    string
	Status           string
	OrderDate        time.Time
	DeliveryDate     *time.Time
	CustomerName     string
	Items            []OrderItem
	SettlementAmount decimal.Decimal // pago neto del marketplace en moneda de liquidación (USD)
	PurchasePrice    *decimal.Decimal // precio de compra en moneda local; nil = aún no registrado
	IsCancelled      bool
	IsReturned       bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasPurchasePrice indica si el precio de compra ya fue registrado y es positivo.
func (o *Order) HasPurchasePrice() bool {
	return o.PurchasePrice != nil && o.PurchasePrice.GreaterThan(decimal.Zero)
}

// ProductName nombre del primer ítem, para listados y reportes.
func (o *Order) ProductName() string {
	if len(o.Items) == 0 {
		return ""
	}
	return o.Items[0].Name
}
