package dto

import "time"

// ── reporting ──

// SubmissionParticipant identity columns of a reported participant.
type SubmissionParticipant struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	LoginID string `json:"login_id"`
}

// CompletedForm one completion of a participant.
type CompletedForm struct {
	FormID      uint       `json:"form_id"`
	Name        string     `json:"name"`
	CompletedAt *time.Time `json:"completed_at"`
}

// ParticipantSubmission a participant with the forms it completed.
type ParticipantSubmission struct {
	Participant SubmissionParticipant `json:"participant"`
	Assigned    int                   `json:"assigned"`
	Completed   []CompletedForm       `json:"completed"`
}

// BAASubmission a BAA with its completion time, null when not submitted.
type BAASubmission struct {
	ID          uint       `json:"id"`
	Name        *string    `json:"name"`
	Email       *string    `json:"email"`
	LoginID     string     `json:"login_id"`
	CompletedAt *time.Time `json:"completed_at"`
}

// SubmissionsResponse GET /api/admin/submissions.
type SubmissionsResponse struct {
	Participants []ParticipantSubmission `json:"participants"`
	BAAs         []BAASubmission         `json:"baas"`
}
