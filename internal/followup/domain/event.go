package domain

import (
	"time"

	"execassist-backend/pkg/jsontype"
)

// EventType identifies one ledger transition
type EventType string

const (
	EventScheduled    EventType = "scheduled"
	EventSnoozed      EventType = "snoozed"
	EventDismissed    EventType = "dismissed"
	EventDraftCreated EventType = "draft_created"
	EventSent         EventType = "sent"
)

// FollowupEvent is one append-only log row per task mutation. Events
// are write-once; the log, not the task row, is the source of truth
// for what happened.
type FollowupEvent struct {
	ID        string        `json:"id" gorm:"primaryKey"`
	TaskID    string        `json:"task_id" gorm:"index;not null"`
	EventType EventType     `json:"event_type" gorm:"not null"`
	Payload   jsontype.JSON `json:"payload,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time     `json:"created_at"`
}
