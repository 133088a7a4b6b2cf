package domain

import (
	"time"

	"execassist-backend/pkg/jsontype"
)

// TaskStatus is the current state of a follow-up task
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusScheduled TaskStatus = "scheduled"
	StatusSnoozed   TaskStatus = "snoozed"
	StatusSent      TaskStatus = "sent"
	StatusDismissed TaskStatus = "dismissed"
)

// Terminal reports whether the status accepts no further transitions.
func (s TaskStatus) Terminal() bool {
	return s == StatusSent || s == StatusDismissed
}

// FollowupTask is a pending re-engagement reminder. The row is a
// materialized cache of the event log's current state; rows are never
// physically deleted, terminal statuses stand in for deletion.
// Ownership is per-user, visibility is per-team.
type FollowupTask struct {
	ID               string        `json:"id" gorm:"primaryKey"`
	TeamID           string        `json:"team_id" gorm:"index;not null"`
	OwnerUserID      string        `json:"owner_user_id" gorm:"index;not null"`
	ThreadRef        string        `json:"thread_ref,omitempty"`
	MessageRef       string        `json:"message_ref,omitempty"`
	CounterpartEmail string        `json:"counterpart_email"`
	CounterpartName  string        `json:"counterpart_name,omitempty"`
	Subject          string        `json:"subject"`
	Summary          string        `json:"summary,omitempty"`
	Status           TaskStatus    `json:"status" gorm:"index;default:pending"`
	Priority         int           `json:"priority" gorm:"default:0"`
	DueAt            *time.Time    `json:"due_at,omitempty"`
	SuggestedSendAt  *time.Time    `json:"suggested_send_at,omitempty"`
	DraftSubject     string        `json:"draft_subject,omitempty"`
	DraftBody        string        `json:"draft_body,omitempty"`
	ToneHint         string        `json:"tone_hint,omitempty"`
	Metadata         jsontype.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`
	SentAt           *time.Time    `json:"sent_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
