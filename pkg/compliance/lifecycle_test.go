package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigat/asset-registry/pkg/models"
)

func TestStatusMachine_AllowedTransitions(t *testing.T) {
	m := NewStatusMachine()

	assert.NoError(t, m.ValidateTransition(models.WarningNew, models.WarningInReview))
	assert.NoError(t, m.ValidateTransition(models.WarningInReview, models.WarningResolved))
	assert.NoError(t, m.ValidateTransition(models.WarningInReview, models.WarningFalsePositive))
	assert.NoError(t, m.ValidateTransition(models.WarningNew, models.WarningResolved))

	// Manual reset from any state.
	assert.NoError(t, m.ValidateTransition(models.WarningResolved, models.WarningNew))
	assert.NoError(t, m.ValidateTransition(models.WarningFalsePositive, models.WarningNew))

	// Same state is a no-op.
	assert.NoError(t, m.ValidateTransition(models.WarningNew, models.WarningNew))
}

func TestStatusMachine_RejectsInvalid(t *testing.T) {
	m := NewStatusMachine()

	err := m.ValidateTransition(models.WarningResolved, models.WarningInReview)
	require.Error(t, err)
	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "WARNING_INVALID_TRANSITION", te.Code)
	assert.Equal(t, models.WarningResolved, te.From)

	assert.Error(t, m.ValidateTransition(models.WarningFalsePositive, models.WarningResolved))
}

func TestStatusMachine_AllowedTargets(t *testing.T) {
	m := NewStatusMachine()
	targets := m.AllowedTransitions(models.WarningNew)
	assert.Contains(t, targets, models.WarningInReview)
	assert.Contains(t, targets, models.WarningResolved)
	assert.Contains(t, targets, models.WarningFalsePositive)
}
