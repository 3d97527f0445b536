package dto

import "time"

// NotifyCarrierRequest aviso de cancelación al carrier.
type NotifyCarrierRequest struct {
	PostingNumber string `json:"posting_number"`
	ProductName   string `json:"product_name"`
	SKU           string `json:"sku"`
	Quantity      int    `json:"quantity"`
	CancelDate    string `json:"cancel_date"` // YYYY-MM-DD, opcional
	CancelReason  string `json:"cancel_reason"`
}

// CancellationActionRequest acciones sobre un seguimiento existente
// (confirm-warehouse, revert-notification, revert-confirmation).
type CancellationActionRequest struct {
	PostingNumber string `json:"posting_number"`
	Action        string `json:"action"`
}

// CancellationResponse estado actual del seguimiento.
type CancellationResponse struct {
	PostingNumber string     `json:"posting_number"`
	Status        string     `json:"status"`
	ProductName   string     `json:"product_name,omitempty"`
	Quantity      int        `json:"quantity"`
	CancelReason  string     `json:"cancel_reason,omitempty"`
	NotifiedAt    *time.Time `json:"notified_at,omitempty"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
}
