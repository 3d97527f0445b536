package entity

import "time"

// Estados del workflow de cancelación (seguimiento hasta el depósito).
const (
	CancellationPendingNotification = "PENDING_NOTIFICATION" // cancelado en el marketplace, aún sin avisar al carrier
	CancellationPendingWarehouse    = "PENDING_WAREHOUSE"    // carrier avisado, paquete en camino al depósito
	CancellationInWarehouse         = "IN_WAREHOUSE"         // recepción confirmada por el depósito
)

// CancellationRecord seguimiento de un pedido cancelado reportado por el
// marketplace. Mutado por acciones del vendedor y del personal del depósito.
type CancellationRecord struct {
	ID            string
	PostingNumber string
	SellerID      string
	ProductName   string
	SKU           string
	Quantity      int
	CancelDate    *time.Time
	CancelReason  string
	Status        string
	NotifiedAt    *time.Time // cuándo se avisó al carrier
	ConfirmedAt   *time.Time // cuándo confirmó el depósito
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
