package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// ErrDuplicateInvoice: el número de factura ya está asignado a otro pedido.
	// Bloquea la escritura hasta confirmación explícita (override).
	ErrDuplicateInvoice = errors.New("número de factura ya usado en otro pedido")

	// ErrNoPurchasePrice: el pedido no tiene precio de compra registrado;
	// se excluye del cálculo de beneficio, no es un error fatal.
	ErrNoPurchasePrice = errors.New("precio de compra no registrado")

	// ErrInvalidTransition: transición del workflow de cancelación desde un
	// estado distinto al origen declarado; el estado actual no cambia.
	ErrInvalidTransition = errors.New("transición de estado inválida")

	// ErrRateNotFound: el feed de tipo de cambio no tiene cotización para la
	// fecha pedida (fin de semana o feriado).
	ErrRateNotFound = errors.New("tipo de cambio no disponible para la fecha")
)
