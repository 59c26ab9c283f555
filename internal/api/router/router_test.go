package router_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccrt-portal/backend/config"
	"ccrt-portal/backend/internal/bootstrap"
	"ccrt-portal/backend/internal/dto"
)

const defaultPassword = "ChangeMe123!"

type createdBody struct {
	ID uint `json:"id"`
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type portalForm struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	ButtonImage string `json:"button_image"`
	Completed   int    `json:"completed"`
}

type formsBody struct {
	Forms []portalForm `json:"forms"`
}

func newTestServer(t *testing.T, opts ...func(*config.Config)) *httptest.Server {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:            4000,
			MaxBodyBytes:    1 << 20,
			MaxWebhookBytes: 4 << 20,
			CORS:            config.CORSConfig{AllowOrigins: []string{"http://localhost:4000"}},
		},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(dir, "portal.db")},
		Session: config.SessionConfig{
			StorePath:     filepath.Join(dir, "sessions.db"),
			Secret:        "router-test-session-secret",
			TTL:           8 * time.Hour,
			CookieName:    "portal_session",
			SameSite:      "Lax",
			SweepSchedule: "@every 30m",
		},
		Admin:     config.AdminConfig{DefaultUsername: "admin", DefaultPassword: defaultPassword},
		RateLimit: config.RateLimitConfig{AuthLimit: 100, AuthWindow: time.Minute},
		Log:       config.LogConfig{Level: "error", Format: "json"},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	inj := bootstrap.BuildContainer(cfg)
	engine, err := do.Invoke[*gin.Engine](inj)
	require.NoError(t, err)

	srv := httptest.NewServer(engine)
	t.Cleanup(func() {
		srv.Close()
		bootstrap.Close(inj)
	})
	return srv
}

func newClient(srv *httptest.Server) *resty.Client {
	return resty.New().SetBaseURL(srv.URL)
}

func adminClient(t *testing.T, srv *httptest.Server) *resty.Client {
	t.Helper()
	c := newClient(srv)
	resp, err := c.R().
		SetBody(map[string]string{"username": "admin", "password": defaultPassword}).
		Post("/api/admin/login")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())
	return c
}

func create(t *testing.T, c *resty.Client, path string, body interface{}) uint {
	t.Helper()
	var out createdBody
	resp, err := c.R().SetBody(body).SetResult(&out).Post(path)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())
	require.NotZero(t, out.ID)
	return out.ID
}

func participantForms(t *testing.T, c *resty.Client) []portalForm {
	t.Helper()
	var out formsBody
	resp, err := c.R().SetResult(&out).Get("/api/participant/forms")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())
	return out.Forms
}

func TestPortalFlow(t *testing.T) {
	srv := newTestServer(t)
	admin := adminClient(t, srv)

	formID := create(t, admin, "/api/forms", map[string]string{
		"name":          "NDA",
		"jotform_embed": `<script src="https://form.jotform.com/jsform/123"></script>`,
		"button_image":  "btn.jpg",
	})
	pid := create(t, admin, "/api/participants", map[string]string{"name": "Jane", "login_id": "JANE1"})

	resp, err := admin.R().
		SetBody(map[string]interface{}{"participant_id": pid, "form_ids": []uint{formID}}).
		Post("/api/assign")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())

	participant := newClient(srv)
	resp, err = participant.R().SetBody(map[string]string{"login_id": "JANE1"}).Post("/api/participant/login")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	forms := participantForms(t, participant)
	require.Len(t, forms, 1)
	assert.Equal(t, formID, forms[0].ID)
	assert.Equal(t, "NDA", forms[0].Name)
	assert.Equal(t, "btn.jpg", forms[0].ButtonImage)
	assert.Equal(t, 0, forms[0].Completed)

	for i := 0; i < 2; i++ {
		resp, err = participant.R().SetBody(map[string]interface{}{"form_id": formID}).Post("/api/participant/complete")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode(), "attempt %d: %s", i, resp.String())
	}

	forms = participantForms(t, participant)
	require.Len(t, forms, 1)
	assert.Equal(t, 1, forms[0].Completed)

	var me dto.ParticipantDetailResponse
	resp, err = participant.R().SetResult(&me).Get("/api/participant/me")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "JANE1", me.Participant.LoginID)
	assert.Equal(t, []uint{formID}, me.FormIDs)

	var report dto.SubmissionsResponse
	resp, err = admin.R().SetResult(&report).Get("/api/admin/submissions")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Len(t, report.Participants, 1)
	require.Len(t, report.Participants[0].Completed, 1, "repeat completion is recorded once")
	assert.Equal(t, formID, report.Participants[0].Completed[0].FormID)

	resp, err = admin.R().Get("/api/admin/submissions/export")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "submissions_")

	var ledger struct {
		Events []struct {
			Source  string `json:"source"`
			Outcome string `json:"outcome"`
		} `json:"events"`
	}
	resp, err = admin.R().SetResult(&ledger).Get("/api/admin/completion-events")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())
	require.Len(t, ledger.Events, 2)
	for _, ev := range ledger.Events {
		assert.Equal(t, "api", ev.Source)
		assert.Equal(t, "recorded", ev.Outcome)
	}

	resp, err = participant.R().Get("/api/admin/completion-events")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode())
}

func TestWebhook_UnassignedFormIsRejected(t *testing.T) {
	srv := newTestServer(t)
	admin := adminClient(t, srv)
	pid := create(t, admin, "/api/participants", map[string]string{"name": "Jane", "login_id": "JANE1"})

	var apiErr errorBody
	resp, err := newClient(srv).R().
		SetFormData(map[string]string{
			"participant_id": strconv.FormatUint(uint64(pid), 10),
			"form_id":        "999",
		}).
		SetError(&apiErr).
		Post("/api/jotform/webhook")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Equal(t, "AssignmentNotFound", apiErr.Code)

	var report dto.SubmissionsResponse
	_, err = admin.R().SetResult(&report).Get("/api/admin/submissions")
	require.NoError(t, err)
	require.Len(t, report.Participants, 1)
	assert.Empty(t, report.Participants[0].Completed)
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	srv := newTestServer(t)
	admin := adminClient(t, srv)

	var apiErr errorBody
	resp, err := admin.R().
		SetBody(map[string]string{"oldPassword": "not-the-password", "newPassword": "AnotherPass1!"}).
		SetError(&apiErr).
		Post("/api/admin/change-password")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode())
	assert.Equal(t, "InvalidOldPassword", apiErr.Code)

	// old password still works
	adminClient(t, srv)
}

func TestChangePassword_Success(t *testing.T) {
	srv := newTestServer(t)
	admin := adminClient(t, srv)

	resp, err := admin.R().
		SetBody(map[string]string{"oldPassword": defaultPassword, "newPassword": "AnotherPass1!"}).
		Post("/api/admin/change-password")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())

	resp, err = newClient(srv).R().
		SetBody(map[string]string{"username": "admin", "password": defaultPassword}).
		Post("/api/admin/login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())

	resp, err = newClient(srv).R().
		SetBody(map[string]string{"username": "admin", "password": "AnotherPass1!"}).
		Post("/api/admin/login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestLogout_ReplayIsRejected(t *testing.T) {
	srv := newTestServer(t)
	admin := adminClient(t, srv)
	create(t, admin, "/api/participants", map[string]string{"name": "Jane", "login_id": "JANE1"})

	participant := newClient(srv)
	resp, err := participant.R().SetBody(map[string]string{"loginId": "JANE1"}).Post("/api/participant/login")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	captured := participant.GetClient().Jar.Cookies(u)
	require.NotEmpty(t, captured)

	resp, err = participant.R().Post("/api/participant/logout")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	replay := newClient(srv).SetCookies(captured)
	resp, err = replay.R().Get("/api/participant/forms")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
}

func TestAccessControl(t *testing.T) {
	srv := newTestServer(t)
	admin := adminClient(t, srv)
	create(t, admin, "/api/participants", map[string]string{"name": "Jane", "login_id": "JANE1"})

	resp, err := newClient(srv).R().Get("/api/participants")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())

	participant := newClient(srv)
	_, err = participant.R().SetBody(map[string]string{"login_id": "JANE1"}).Post("/api/participant/login")
	require.NoError(t, err)

	resp, err = participant.R().Get("/api/participants")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode())

	resp, err = newClient(srv).R().SetBody(map[string]string{"login_id": "NOPE"}).Post("/api/participant/login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
}

func TestBAAFlow(t *testing.T) {
	srv := newTestServer(t)
	admin := adminClient(t, srv)
	baaID := create(t, admin, "/api/baas", map[string]string{
		"name":          "Acme Billing",
		"login_id":      "ACME",
		"jotform_embed": "https://form.jotform.com/baa",
	})

	baa := newClient(srv)
	resp, err := baa.R().SetBody(map[string]string{"login_id": "ACME"}).Post("/api/baa/login")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	var form dto.BAAFormResponse
	resp, err = baa.R().SetResult(&form).Get("/api/baa/form")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "https://form.jotform.com/baa", form.EmbedCode)

	resp, err = baa.R().Get("/api/baa/thankyou")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/html")

	var report dto.SubmissionsResponse
	_, err = admin.R().SetResult(&report).Get("/api/admin/submissions")
	require.NoError(t, err)
	require.Len(t, report.BAAs, 1)
	assert.Equal(t, baaID, report.BAAs[0].ID)
	assert.NotNil(t, report.BAAs[0].CompletedAt)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := newClient(srv).R().Get("/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	resp, err = newClient(srv).R().Get("/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestHealth_ForceHTTPS(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) { cfg.Server.ForceHTTPS = true })
	plain := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}

	for _, path := range []string{"/health", "/healthz"} {
		resp, err := plain.Get(srv.URL + path)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	resp, err := plain.Get(srv.URL + "/api/admin/session")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "https://"))
}

func TestWebhook_AcceptsUploadAboveDefaultBodyLimit(t *testing.T) {
	srv := newTestServer(t)
	admin := adminClient(t, srv)

	formID := create(t, admin, "/api/forms", map[string]string{"name": "Intake", "jotform_embed": "<script></script>"})
	pid := create(t, admin, "/api/participants", map[string]interface{}{
		"name": "Jane", "login_id": "JANE1", "assignedForms": []uint{formID},
	})

	upload := bytes.Repeat([]byte("x"), 2<<20)
	resp, err := newClient(srv).R().
		SetMultipartFormData(map[string]string{
			"pid": strconv.Itoa(int(pid)),
			"fid": strconv.Itoa(int(formID)),
		}).
		SetFileReader("upload", "scan.pdf", bytes.NewReader(upload)).
		Post("/api/jotform/webhook")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())
}
