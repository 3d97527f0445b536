package entity

import "time"

// Estados de una entrega de mensajero (kurye teslim).
const (
	HandoverScanned   = "SCANNED"   // código escaneado por la app móvil
	HandoverConfirmed = "CONFIRMED" // recepción confirmada por el depósito
)

// CourierHandover registro de entrega de un paquete del mensajero al depósito.
// Se crea cuando la app móvil escanea el código de barras del envío.
type CourierHandover struct {
	ID            string
	PostingNumber string
	CourierID     string
	Status        string
	ScannedAt     time.Time
	ConfirmedAt   *time.Time
	CreatedAt     time.Time
}
