package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccrt-portal/backend/pkg/session"
)

func TestEnsureDefaultAdmin_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.Auth.EnsureDefaultAdmin(ctx))
	require.NoError(t, env.svc.Auth.EnsureDefaultAdmin(ctx))
	assert.Equal(t, int64(1), env.count(t, "admins"))
}

func TestLogin_Admin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.svc.Auth.EnsureDefaultAdmin(ctx))

	res, err := env.svc.Auth.Login(ctx, session.RoleAdmin, Credentials{Username: "admin", Password: "ChangeMe123!"})
	require.NoError(t, err)
	assert.Equal(t, session.RoleAdmin, res.Session.Role)
	assert.NotEmpty(t, res.Token)

	sess, err := env.svc.Auth.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Session.ID, sess.ID)
	assert.Equal(t, "admin", sess.Username)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.svc.Auth.EnsureDefaultAdmin(ctx))
	env.participant(t, "Jane", "JANE1")

	tests := []struct {
		name string
		role session.Role
		cred Credentials
	}{
		{"wrong password", session.RoleAdmin, Credentials{Username: "admin", Password: "nope"}},
		{"unknown admin", session.RoleAdmin, Credentials{Username: "root", Password: "ChangeMe123!"}},
		{"empty admin", session.RoleAdmin, Credentials{}},
		{"unknown participant", session.RoleParticipant, Credentials{LoginID: "NOBODY"}},
		{"empty participant", session.RoleParticipant, Credentials{LoginID: "  "}},
		{"unknown baa", session.RoleBAA, Credentials{LoginID: "JANE1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Auth.Login(ctx, tt.role, tt.cred)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestLogin_ParticipantAndBAA(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.participant(t, "Jane", "JANE1")
	b := env.baa(t, "BAA-7")

	res, err := env.svc.Auth.Login(ctx, session.RoleParticipant, Credentials{LoginID: "JANE1"})
	require.NoError(t, err)
	assert.Equal(t, p.ID, res.Session.SubjectID)

	res, err = env.svc.Auth.Login(ctx, session.RoleBAA, Credentials{LoginID: " BAA-7 "})
	require.NoError(t, err)
	assert.Equal(t, b.ID, res.Session.SubjectID)
	assert.Equal(t, session.RoleBAA, res.Session.Role)
}

func TestLogout_RevokesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.participant(t, "Jane", "JANE1")

	res, err := env.svc.Auth.Login(ctx, session.RoleParticipant, Credentials{LoginID: "JANE1"})
	require.NoError(t, err)

	require.NoError(t, env.svc.Auth.Logout(ctx, res.Token))

	_, err = env.svc.Auth.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// logging out twice or without a cookie is harmless
	assert.NoError(t, env.svc.Auth.Logout(ctx, res.Token))
	assert.NoError(t, env.svc.Auth.Logout(ctx, ""))
	assert.NoError(t, env.svc.Auth.Logout(ctx, "garbage"))
}

func TestAuthenticate_RejectsForgedCookie(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Auth.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = env.svc.Auth.Authenticate(ctx, "not.a.jwt")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.svc.Auth.EnsureDefaultAdmin(ctx))

	t.Run("wrong old password keeps the hash", func(t *testing.T) {
		err := env.svc.Auth.ChangePassword(ctx, "admin", "wrong", "BrandNew123!")
		assert.ErrorIs(t, err, ErrInvalidOldPassword)

		_, err = env.svc.Auth.Login(ctx, session.RoleAdmin, Credentials{Username: "admin", Password: "ChangeMe123!"})
		assert.NoError(t, err)
	})

	t.Run("short new password", func(t *testing.T) {
		err := env.svc.Auth.ChangePassword(ctx, "admin", "ChangeMe123!", "short")
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, env.svc.Auth.ChangePassword(ctx, "admin", "ChangeMe123!", "BrandNew123!"))

		_, err := env.svc.Auth.Login(ctx, session.RoleAdmin, Credentials{Username: "admin", Password: "ChangeMe123!"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = env.svc.Auth.Login(ctx, session.RoleAdmin, Credentials{Username: "admin", Password: "BrandNew123!"})
		assert.NoError(t, err)
	})
}
