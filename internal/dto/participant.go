package dto

import "ccrt-portal/backend/internal/model"

// CreateParticipantRequest admin creates a participant, optionally with its
// assignment set.
type CreateParticipantRequest struct {
	Name          string    `json:"name"`
	LoginID       string    `json:"login_id"`
	LoginIDAlt    string    `json:"loginId"`
	AssignedForms *[]FlexID `json:"assignedForms"`
}

// LoginIDValue returns the login id that was sent.
func (r *CreateParticipantRequest) LoginIDValue() string {
	if r.LoginID != "" {
		return r.LoginID
	}
	return r.LoginIDAlt
}

// UpdateParticipantRequest partial update; nil fields are kept. A non-nil
// AssignedForms replaces the assignment set.
type UpdateParticipantRequest struct {
	Name          *string   `json:"name"`
	LoginID       *string   `json:"login_id"`
	LoginIDAlt    *string   `json:"loginId"`
	AssignedForms *[]FlexID `json:"assignedForms"`
}

// LoginIDValue returns the login id that was sent, if any.
func (r *UpdateParticipantRequest) LoginIDValue() *string {
	if r.LoginID != nil {
		return r.LoginID
	}
	return r.LoginIDAlt
}

// ParticipantDetailResponse participant with assigned form ids.
type ParticipantDetailResponse struct {
	Participant model.Participant `json:"participant"`
	FormIDs     []uint            `json:"formIds"`
}
