package statemachine

import (
	"strings"

	"food-ordering-api/apperr"
	"food-ordering-api/models"
)

// ActorOwner is the only actor allowed to move an order through the pipeline.
const ActorOwner = "owner"

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor string             `json:"actor"`
}

// validTransitions is the authoritative state machine definition.
// Every entry is a single forward step; nothing leaves a terminal state.
var validTransitions = []Transition{
	{From: models.StatusPending, To: models.StatusConfirmed, Actor: ActorOwner},
	{From: models.StatusConfirmed, To: models.StatusPreparing, Actor: ActorOwner},
	{From: models.StatusPreparing, To: models.StatusReady, Actor: ActorOwner},
	// Ready orders are either collected or cancelled
	{From: models.StatusReady, To: models.StatusCompleted, Actor: ActorOwner},
	{From: models.StatusReady, To: models.StatusCancelled, Actor: ActorOwner},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// TransitionError is returned when a requested status change is not part of
// the pipeline.
type TransitionError struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
	Valid []models.OrderStatus
}

func (e *TransitionError) Error() string {
	return "invalid transition: " + string(e.From) + " → " + string(e.To) +
		" is not allowed for actor '" + e.Actor + "'. " +
		"Valid transitions from " + string(e.From) + " are: " + describe(e.Valid)
}

func (e *TransitionError) Kind() apperr.Kind { return apperr.KindInvalidTransition }

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	nexts := []models.OrderStatus{}
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor string) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return &TransitionError{From: from, To: to, Actor: actor, Valid: ValidTransitionsFrom(from)}
}

// Next returns the forward successor of status on the main pipeline.
// Cancellation is never a "next" step; it has to be requested explicitly.
func Next(status models.OrderStatus) (models.OrderStatus, bool) {
	for _, t := range validTransitions {
		if t.From == status && t.To != models.StatusCancelled {
			return t.To, true
		}
	}
	return "", false
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(status models.OrderStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// IsKnown reports whether status is one of the pipeline states.
func IsKnown(status models.OrderStatus) bool {
	for _, s := range models.AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func describe(nexts []models.OrderStatus) string {
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(nexts))
	for i, s := range nexts {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	out := make([]Transition, len(validTransitions))
	copy(out, validTransitions)
	return out
}
