//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ccrt-portal/backend/internal/model"
	"ccrt-portal/backend/internal/repository"
	"ccrt-portal/backend/pkg/database"
)

// Runs the repositories and the migration manager against PostgreSQL:
//
//	TEST_DATABASE_DSN=... go test -tags integration ./internal/repository/

var pgDB *gorm.DB

var portalTables = []string{
	"admins", "baas", "participants", "forms", "assignments",
	"completions", "baa_completions", "completion_events", "schema_migrations",
}

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=ccrt password=ccrt_password dbname=ccrt_portal_test sslmode=disable TimeZone=UTC"
	}

	var err error
	pgDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot connect to test database: %v\n", err)
		os.Exit(1)
	}

	for _, table := range portalTables {
		if err := pgDB.Exec("DROP TABLE IF EXISTS " + table + " CASCADE").Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to reset %s: %v\n", table, err)
			os.Exit(1)
		}
	}
	if err := database.RunMigrations(context.Background(), pgDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "migrations failed: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func pgRepo(t *testing.T) *repository.Repository {
	t.Helper()
	t.Cleanup(func() {
		for _, table := range []string{"completions", "assignments", "participants", "forms", "completion_events"} {
			pgDB.Exec("DELETE FROM " + table)
		}
	})
	return repository.NewRepository(pgDB)
}

func TestPostgres_MigrationsAreIdempotent(t *testing.T) {
	require.NoError(t, database.RunMigrations(context.Background(), pgDB, zap.NewNop()))
	assert.Equal(t, int64(len(database.Steps)), count(t, pgDB, "schema_migrations"))
}

func TestPostgres_LegacyBAAUpgrade(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, pgDB.Exec("DROP TABLE baas").Error)
	require.NoError(t, pgDB.Exec(`CREATE TABLE baas (id SERIAL PRIMARY KEY, jotform_embed TEXT, password_hash TEXT)`).Error)
	require.NoError(t, pgDB.Exec(`INSERT INTO baas (jotform_embed, password_hash) VALUES ('a', 'h1'), ('b', 'h2')`).Error)
	require.NoError(t, pgDB.Exec(`DELETE FROM schema_migrations WHERE name IN ('0002_baas_profile_columns', '0003_baas_drop_password_hash')`).Error)

	require.NoError(t, database.RunMigrations(ctx, pgDB, zap.NewNop()))

	cols, err := database.NewMigrator(pgDB, zap.NewNop()).Columns(ctx, "baas")
	require.NoError(t, err)
	assert.False(t, cols["password_hash"])
	assert.True(t, cols["login_id"])
	assert.Equal(t, int64(2), count(t, pgDB, "baas"))

	repo := repository.NewRepository(pgDB)
	b := &model.BAA{LoginID: fmt.Sprintf("B-%d", time.Now().UnixNano()), JotformEmbed: "c"}
	require.NoError(t, repo.BAA.Create(ctx, b))
	assert.Equal(t, uint(3), b.ID, "sequence continues after rebuild")
}

func TestPostgres_CompletionIsIdempotent(t *testing.T) {
	repo := pgRepo(t)
	ctx := context.Background()
	p := seedParticipant(t, repo, "Jane", "JANE1")
	f := seedForm(t, repo, "NDA")
	require.NoError(t, repo.Assignment.Assign(ctx, p.ID, []uint{f.ID, f.ID}))

	at := time.Now().UTC()
	inserted, err := repo.Completion.Record(ctx, p.ID, f.ID, at)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Completion.Record(ctx, p.ID, f.ID, at.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, int64(1), count(t, pgDB, "completions"))
}

func TestPostgres_DeleteFormCascades(t *testing.T) {
	repo := pgRepo(t)
	ctx := context.Background()
	p := seedParticipant(t, repo, "Jane", "JANE1")
	f := seedForm(t, repo, "NDA")
	require.NoError(t, repo.Assignment.Assign(ctx, p.ID, []uint{f.ID}))
	_, err := repo.Completion.Record(ctx, p.ID, f.ID, time.Now().UTC())
	require.NoError(t, err)

	require.NoError(t, repo.Form.Delete(ctx, f.ID))

	assert.Equal(t, int64(0), count(t, pgDB, "assignments"))
	assert.Equal(t, int64(0), count(t, pgDB, "completions"))

	rows, err := repo.Report.ParticipantSubmissions(ctx)
	require.NoError(t, err)
	for _, r := range rows {
		assert.Nil(t, r.FormID)
	}
}

func TestPostgres_TransactionRollsBack(t *testing.T) {
	repo := pgRepo(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Participant.Create(ctx, &model.Participant{Name: "Tmp", LoginID: "T"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(0), count(t, pgDB, "participants"))
}
