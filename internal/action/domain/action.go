package domain

import (
	"time"

	"execassist-backend/pkg/jsontype"
)

// ActionStatus is the lifecycle state of an assistant action
type ActionStatus string

const (
	StatusPending              ActionStatus = "pending"
	StatusCompleted            ActionStatus = "completed"
	StatusAwaitingConfirmation ActionStatus = "awaiting_confirmation"
	StatusFailed               ActionStatus = "failed"
	StatusUndone               ActionStatus = "undone"
)

// ActionType identifies what the assistant did
type ActionType string

const (
	ActionDraftReply      ActionType = "draft_reply"
	ActionScheduleMeeting ActionType = "schedule_meeting"
	ActionMarkHandled     ActionType = "mark_handled"
	ActionCreateTask      ActionType = "create_task"
	ActionAutoSort        ActionType = "auto_sort"
)

// Feedback ratings
const (
	RatingHelpful       = "helpful"
	RatingNotHelpful    = "not_helpful"
	RatingNeedsFollowUp = "needs_follow_up"
)

// ValidRating reports whether the rating is one of the accepted values.
func ValidRating(r string) bool {
	return r == RatingHelpful || r == RatingNotHelpful || r == RatingNeedsFollowUp
}

// AssistantAction is the audit record for one AI-initiated operation.
// Created with status pending before the remote operation executes,
// updated once with a terminal or semi-terminal status, optionally
// given feedback, optionally undone. Invariant: status is undone if and
// only if UndoneAt is set.
type AssistantAction struct {
	ID         string        `json:"id" gorm:"primaryKey"`
	UserID     string        `json:"user_id" gorm:"index;not null"`
	MessageRef string        `json:"message_ref,omitempty"`
	ThreadRef  string        `json:"thread_ref,omitempty"`
	ActionType ActionType    `json:"action_type" gorm:"index;not null"`
	Status     ActionStatus  `json:"status" gorm:"index;default:pending"`
	Payload    jsontype.JSON `json:"payload,omitempty" gorm:"type:jsonb"`
	Result     jsontype.JSON `json:"result,omitempty" gorm:"type:jsonb"`
	Feedback   jsontype.JSON `json:"feedback,omitempty" gorm:"type:jsonb"`
	UndoneAt   *time.Time    `json:"undone_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
