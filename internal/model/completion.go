package model

import (
	"time"

	"gorm.io/datatypes"
)

// Completion finished assignment — completions
// The existence of the row is what counts; CompletedAt is informational.
type Completion struct {
	ParticipantID uint      `gorm:"primaryKey;autoIncrement:false"        json:"participant_id"`
	FormID        uint      `gorm:"primaryKey;autoIncrement:false"        json:"form_id"`
	CompletedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"    json:"completed_at"`
}

// TableName table name
func (Completion) TableName() string { return "completions" }

// BAACompletion single submission milestone per BAA — baa_completions
type BAACompletion struct {
	BAAID       uint      `gorm:"column:baa_id;primaryKey;autoIncrement:false" json:"baa_id"`
	CompletedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"          json:"completed_at"`
}

// TableName table name
func (BAACompletion) TableName() string { return "baa_completions" }

// Completion trigger sources.
const (
	SourceAPI         = "api"
	SourceRedirect    = "redirect"
	SourceWebhook     = "webhook"
	SourceBAAAPI      = "baa_api"
	SourceBAARedirect = "baa_redirect"
)

// Completion event outcomes.
const (
	OutcomeRecorded = "recorded"
	OutcomeRejected = "rejected"
)

// CompletionEvent append-only audit record of a completion trigger — completion_events
type CompletionEvent struct {
	ID            uint           `gorm:"primaryKey;autoIncrement"             json:"id"`
	Source        string         `gorm:"type:varchar(20);not null;index"      json:"source"`
	ParticipantID *uint          `                                            json:"participant_id,omitempty"`
	FormID        *uint          `                                            json:"form_id,omitempty"`
	BAAID         *uint          `gorm:"column:baa_id"                        json:"baa_id,omitempty"`
	Outcome       string         `gorm:"type:varchar(20);not null"            json:"outcome"`
	Reason        string         `gorm:"type:text"                            json:"reason,omitempty"`
	Payload       datatypes.JSON `                                            json:"payload,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"   json:"created_at"`
}

// TableName table name
func (CompletionEvent) TableName() string { return "completion_events" }
