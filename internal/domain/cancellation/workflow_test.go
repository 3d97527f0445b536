package cancellation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozonpanel/backend/internal/domain"
	"github.com/ozonpanel/backend/internal/domain/cancellation"
	"github.com/ozonpanel/backend/internal/domain/entity"
)

func TestApply_FlujoCompletoIdaYVuelta(t *testing.T) {
	s, err := cancellation.Apply(entity.CancellationPendingNotification, cancellation.ActionNotifyCarrier)
	require.NoError(t, err)
	assert.Equal(t, entity.CancellationPendingWarehouse, s)

	s, err = cancellation.Apply(s, cancellation.ActionConfirmWarehouse)
	require.NoError(t, err)
	assert.Equal(t, entity.CancellationInWarehouse, s)

	s, err = cancellation.Apply(s, cancellation.ActionRevertConfirmation)
	require.NoError(t, err)
	assert.Equal(t, entity.CancellationPendingWarehouse, s)

	s, err = cancellation.Apply(s, cancellation.ActionRevertNotification)
	require.NoError(t, err)
	assert.Equal(t, entity.CancellationPendingNotification, s)
}

func TestApply_TransicionDesdeEstadoIncorrectoNoMuta(t *testing.T) {
	casos := []struct {
		current string
		action  string
	}{
		// revert-notification solo es válido desde PENDING_WAREHOUSE
		{entity.CancellationPendingNotification, cancellation.ActionRevertNotification},
		{entity.CancellationInWarehouse, cancellation.ActionRevertNotification},
		// no se puede confirmar sin haber avisado
		{entity.CancellationPendingNotification, cancellation.ActionConfirmWarehouse},
		// no se puede avisar dos veces
		{entity.CancellationPendingWarehouse, cancellation.ActionNotifyCarrier},
		{entity.CancellationInWarehouse, cancellation.ActionNotifyCarrier},
		// no hay nada que revertir antes de confirmar
		{entity.CancellationPendingWarehouse, cancellation.ActionRevertConfirmation},
	}

	for _, c := range casos {
		got, err := cancellation.Apply(c.current, c.action)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition,
			"%s desde %s debe rechazarse", c.action, c.current)
		assert.Equal(t, c.current, got, "el estado no debe mutar en rechazo")
	}
}

func TestApply_AccionDesconocida(t *testing.T) {
	got, err := cancellation.Apply(entity.CancellationPendingNotification, "teleport")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.CancellationPendingNotification, got)
}

func TestCanApply(t *testing.T) {
	assert.True(t, cancellation.CanApply(entity.CancellationPendingWarehouse, cancellation.ActionRevertNotification))
	assert.False(t, cancellation.CanApply(entity.CancellationInWarehouse, cancellation.ActionRevertNotification))
	assert.False(t, cancellation.CanApply(entity.CancellationInWarehouse, "otra"))
}
