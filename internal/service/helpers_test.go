package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"ccrt-portal/backend/config"
	"ccrt-portal/backend/internal/model"
	"ccrt-portal/backend/internal/repository"
	"ccrt-portal/backend/pkg/database"
	"ccrt-portal/backend/pkg/jwt"
	"ccrt-portal/backend/pkg/session"
)

type testEnv struct {
	cfg      *config.Config
	db       *gorm.DB
	repo     *repository.Repository
	sessions *session.Store
	svc      *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		Session: config.SessionConfig{
			StorePath: filepath.Join(dir, "sessions.db"),
			Secret:    "test-secret-key-for-unit-testing",
			TTL:       8 * time.Hour,
		},
		Admin: config.AdminConfig{DefaultUsername: "admin", DefaultPassword: "ChangeMe123!"},
	}

	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(filepath.Join(dir, "portal.db"))), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.RunMigrations(context.Background(), db, zap.NewNop()))

	sessions, err := session.Open(&cfg.Session, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sessions.Close() })

	repo := repository.NewRepository(db)
	return &testEnv{
		cfg:      cfg,
		db:       db,
		repo:     repo,
		sessions: sessions,
		svc:      NewService(cfg, repo, sessions, jwt.NewManager(cfg.Session.Secret), zap.NewNop()),
	}
}

func (e *testEnv) participant(t *testing.T, name, loginID string) *model.Participant {
	t.Helper()
	p := &model.Participant{Name: name, LoginID: loginID}
	require.NoError(t, e.repo.Participant.Create(context.Background(), p))
	return p
}

func (e *testEnv) form(t *testing.T, name string) *model.Form {
	t.Helper()
	f := &model.Form{Name: name, JotformEmbed: "<script></script>", ButtonImage: "btn.jpg"}
	require.NoError(t, e.repo.Form.Create(context.Background(), f))
	return f
}

func (e *testEnv) baa(t *testing.T, loginID string) *model.BAA {
	t.Helper()
	b := &model.BAA{LoginID: loginID, JotformEmbed: "<iframe></iframe>"}
	require.NoError(t, e.repo.BAA.Create(context.Background(), b))
	return b
}

func (e *testEnv) count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Table(table).Count(&n).Error)
	return n
}
