package dto

// AssignRequest POST /api/assign. Replace switches from additive to
// replace-all semantics.
type AssignRequest struct {
	ParticipantID FlexID    `json:"participant_id"`
	FormIDs       *[]FlexID `json:"form_ids"`
	Replace       bool      `json:"replace"`
}

// ReplaceAssignmentsRequest PUT /api/participants/:id/assignments.
type ReplaceAssignmentsRequest struct {
	FormIDs *[]FlexID `json:"form_ids"`
}

// CompleteFormRequest participant self-reported completion.
type CompleteFormRequest struct {
	FormID FlexID `json:"form_id"`
}
