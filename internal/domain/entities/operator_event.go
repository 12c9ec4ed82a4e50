package entities

import (
	"time"

	"github.com/google/uuid"
)

// OperatorEventType represents the type of operator event
type OperatorEventType string

const (
	OperatorEventTypeCreated               OperatorEventType = "created"
	OperatorEventTypeUpdated               OperatorEventType = "updated"
	OperatorEventTypeDeleted               OperatorEventType = "deleted"
	OperatorEventTypeVerificationRequested OperatorEventType = "verification_requested"
	OperatorEventTypeVerificationDecided   OperatorEventType = "verification_decided"
	OperatorEventTypeOwnershipTransferred  OperatorEventType = "ownership_transferred"
)

// OperatorEvent is published on the event bus whenever an operator changes.
// Notification delivery subscribes to these; the directory only publishes.
type OperatorEvent struct {
	ID            string                 `json:"id"`
	OperatorID    string                 `json:"operator_id"`
	EventType     OperatorEventType      `json:"event_type"`
	Timestamp     time.Time              `json:"timestamp"`
	ChangedFields map[string]interface{} `json:"changed_fields,omitempty"`
}

// NewOperatorEvent creates a new operator event
func NewOperatorEvent(operatorID string, eventType OperatorEventType, changedFields map[string]interface{}) *OperatorEvent {
	return &OperatorEvent{
		ID:            uuid.NewString(),
		OperatorID:    operatorID,
		EventType:     eventType,
		Timestamp:     time.Now(),
		ChangedFields: changedFields,
	}
}
