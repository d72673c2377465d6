package compliance

import (
	"fmt"

	"github.com/sigat/asset-registry/pkg/models"
)

// TransitionRule defines an allowed warning status transition.
type TransitionRule struct {
	From models.WarningStatus
	To   models.WarningStatus
}

// DefaultTransitions defines the allowed status transitions. Any state
// may be manually reset to NUEVA; open warnings may move to review or
// directly to a terminal state (the vulnerability reconciler closes
// NUEVA warnings without passing through review).
var DefaultTransitions = []TransitionRule{
	{From: models.WarningNew, To: models.WarningInReview},
	{From: models.WarningNew, To: models.WarningResolved},
	{From: models.WarningNew, To: models.WarningFalsePositive},
	{From: models.WarningInReview, To: models.WarningResolved},
	{From: models.WarningInReview, To: models.WarningFalsePositive},
	{From: models.WarningInReview, To: models.WarningNew},
	{From: models.WarningResolved, To: models.WarningNew},
	{From: models.WarningFalsePositive, To: models.WarningNew},
}

// StatusMachine validates warning status transitions.
type StatusMachine struct {
	transitions []TransitionRule
}

// NewStatusMachine creates a machine with the default rules.
func NewStatusMachine() *StatusMachine {
	return &StatusMachine{transitions: DefaultTransitions}
}

// ValidateTransition checks if a transition from->to is allowed.
// A same-state transition is a no-op and allowed.
func (m *StatusMachine) ValidateTransition(from, to models.WarningStatus) error {
	if from == to {
		return nil
	}
	for _, t := range m.transitions {
		if t.From == from && t.To == to {
			return nil
		}
	}
	return &TransitionError{
		Code:    "WARNING_INVALID_TRANSITION",
		From:    from,
		To:      to,
		Message: fmt.Sprintf("no transition defined from %s to %s", from, to),
	}
}

// AllowedTransitions returns all valid target states from the given state.
func (m *StatusMachine) AllowedTransitions(from models.WarningStatus) []models.WarningStatus {
	var allowed []models.WarningStatus
	for _, t := range m.transitions {
		if t.From == from {
			allowed = append(allowed, t.To)
		}
	}
	return allowed
}

// TransitionError is a structured error for invalid transitions.
type TransitionError struct {
	Code    string               `json:"code"`
	From    models.WarningStatus `json:"from"`
	To      models.WarningStatus `json:"to"`
	Message string               `json:"message"`
}

func (e *TransitionError) Error() string {
	return e.Message
}
