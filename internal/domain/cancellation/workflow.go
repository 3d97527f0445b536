// Package cancellation modela el workflow de seguimiento de cancelaciones:
// PENDING_NOTIFICATION -> PENDING_WAREHOUSE -> IN_WAREHOUSE, con deshacer
// paso a paso. Ninguna transición salta estados.
package cancellation

import (
	"github.com/ozonpanel/backend/internal/domain"
	"github.com/ozonpanel/backend/internal/domain/entity"
)

// Acciones del workflow.
const (
	ActionNotifyCarrier      = "notify-carrier"
	ActionConfirmWarehouse   = "confirm-warehouse"
	ActionRevertNotification = "revert-notification"
	ActionRevertConfirmation = "revert-confirmation"
)

// transitions acción -> (estado origen requerido, estado destino).
var transitions = map[string]struct{ from, to string }{
	ActionNotifyCarrier:      {entity.CancellationPendingNotification, entity.CancellationPendingWarehouse},
	ActionConfirmWarehouse:   {entity.CancellationPendingWarehouse, entity.CancellationInWarehouse},
	ActionRevertNotification: {entity.CancellationPendingWarehouse, entity.CancellationPendingNotification},
	ActionRevertConfirmation: {entity.CancellationInWarehouse, entity.CancellationPendingWarehouse},
}

// Apply valida y aplica una acción sobre el estado actual. Si el registro no
// está en el estado origen declarado de la acción devuelve
// ErrInvalidTransition y el estado no cambia.
func Apply(current, action string) (string, error) {
	tr, ok := transitions[action]
	if !ok {
		return current, domain.ErrInvalidInput
	}
	if current != tr.from {
		return current, domain.ErrInvalidTransition
	}
	return tr.to, nil
}

// CanApply indica si la acción es válida desde el estado actual.
func CanApply(current, action string) bool {
	tr, ok := transitions[action]
	return ok && current == tr.from
}
