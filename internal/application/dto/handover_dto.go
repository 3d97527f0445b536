package dto

import "time"

// HandoverScanRequest escaneo de un código de barras desde la app móvil.
type HandoverScanRequest struct {
	PostingNumber string `json:"posting_number"`
}

// HandoverResponse estado de una entrega.
type HandoverResponse struct {
	ID            string     `json:"id"`
	PostingNumber string     `json:"posting_number"`
	Status        string     `json:"status"`
	ScannedAt     time.Time  `json:"scanned_at"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
}

// PendingPostingsResponse pedidos pendientes de entrega para la app móvil.
type PendingPostingsResponse struct {
	PostingNumbers []string `json:"posting_numbers"`
}
