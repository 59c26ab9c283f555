package service

import (
	pkgerrors "ccrt-portal/backend/pkg/errors"
)

// ── business errors ──

var (
	ErrInvalidInput        = pkgerrors.New(pkgerrors.KindInvalidInput, "Invalid input")
	ErrInvalidCredentials  = pkgerrors.New(pkgerrors.KindInvalidCredentials, "Invalid credentials")
	ErrUnauthenticated     = pkgerrors.New(pkgerrors.KindUnauthenticated, "Login required")
	ErrInvalidOldPassword  = pkgerrors.NewCode(pkgerrors.KindForbidden, "InvalidOldPassword", "Old password is incorrect")
	ErrWeakPassword        = pkgerrors.NewCode(pkgerrors.KindInvalidInput, "WeakPassword", "New password must be at least 8 characters")
	ErrMissingIdentifiers  = pkgerrors.NewCode(pkgerrors.KindInvalidInput, "MissingIdentifiers", "Missing participant or form identifier")
	ErrAssignmentNotFound  = pkgerrors.NewCode(pkgerrors.KindInvalidInput, "AssignmentNotFound", "Form is not assigned to this participant")
	ErrUnknownForms        = pkgerrors.NewCode(pkgerrors.KindInvalidInput, "UnknownForms", "Unknown form ids")
	ErrLoginIDTaken        = pkgerrors.New(pkgerrors.KindConflict, "Login ID already in use")
	ErrParticipantNotFound = pkgerrors.New(pkgerrors.KindNotFound, "Participant not found")
	ErrFormNotFound        = pkgerrors.New(pkgerrors.KindNotFound, "Form not found")
	ErrBAANotFound         = pkgerrors.New(pkgerrors.KindNotFound, "BAA not found")
	ErrExportFailed        = pkgerrors.New(pkgerrors.KindInternal, "Failed to generate workbook")
)
