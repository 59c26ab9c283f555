package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "ccrt-portal/backend/pkg/errors"
)

func TestAssignForms_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.participant(t, "Jane", "JANE1")
	f := env.form(t, "NDA")

	err := env.svc.Assignment.AssignForms(ctx, 0, []uint{f.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = env.svc.Assignment.AssignForms(ctx, 999, []uint{f.ID})
	assert.ErrorIs(t, err, ErrParticipantNotFound)

	err = env.svc.Assignment.AssignForms(ctx, p.ID, []uint{f.ID, 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = env.svc.Assignment.AssignForms(ctx, p.ID, []uint{f.ID, 77, 78})
	require.ErrorIs(t, err, ErrUnknownForms)
	assert.Contains(t, err.Error(), "77, 78")
	assert.Equal(t, pkgerrors.KindInvalidInput, pkgerrors.KindOf(err))

	assert.Equal(t, int64(0), env.count(t, "assignments"))
}

func TestAssignAndReplace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.participant(t, "Jane", "JANE1")
	f1 := env.form(t, "NDA")
	f2 := env.form(t, "Intake")

	require.NoError(t, env.svc.Assignment.AssignForms(ctx, p.ID, []uint{f1.ID}))
	require.NoError(t, env.svc.Assignment.AssignForms(ctx, p.ID, []uint{f1.ID, f2.ID}))
	ids, err := env.svc.Assignment.ListAssignments(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{f1.ID, f2.ID}, ids)

	require.NoError(t, env.svc.Assignment.ReplaceAssignments(ctx, p.ID, []uint{}))
	ids, err = env.svc.Assignment.ListAssignments(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = env.svc.Assignment.ListAssignments(ctx, 999)
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}
