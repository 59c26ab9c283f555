package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrSchemaUnavailable is returned when the base tables could not be created.
// It is the only migration failure the server refuses to start with.
var ErrSchemaUnavailable = errors.New("database schema unavailable")

// tableDef describes one table of the current schema. Column types use the
// placeholders {{pk}}, {{ts}} and {{json}}, resolved per dialect.
type tableDef struct {
	name    string
	columns string
}

// tables is the current expected shape. No foreign keys are declared;
// referential integrity is kept by the application.
var tables = []tableDef{
	{"admins", `id {{pk}}, username TEXT UNIQUE, password_hash TEXT`},
	{"baas", `id {{pk}}, name TEXT, email TEXT, login_id TEXT, jotform_embed TEXT`},
	{"participants", `id {{pk}}, name TEXT, login_id TEXT`},
	{"forms", `id {{pk}}, name TEXT, jotform_embed TEXT, button_image TEXT`},
	{"assignments", `participant_id INTEGER NOT NULL, form_id INTEGER NOT NULL, PRIMARY KEY (participant_id, form_id)`},
	{"completions", `participant_id INTEGER NOT NULL, form_id INTEGER NOT NULL, completed_at {{ts}} DEFAULT CURRENT_TIMESTAMP, PRIMARY KEY (participant_id, form_id)`},
	{"baa_completions", `baa_id INTEGER PRIMARY KEY, completed_at {{ts}} DEFAULT CURRENT_TIMESTAMP`},
	{"completion_events", `id {{pk}}, source TEXT NOT NULL, participant_id INTEGER, form_id INTEGER, baa_id INTEGER, outcome TEXT NOT NULL, reason TEXT, payload {{json}}, created_at {{ts}} DEFAULT CURRENT_TIMESTAMP`},
	{migrationsTable, `name TEXT PRIMARY KEY, applied_at {{ts}} DEFAULT CURRENT_TIMESTAMP`},
}

const migrationsTable = "schema_migrations"

// Step is one named, idempotent schema change. Applied steps are recorded in
// schema_migrations and skipped on later boots; each step must also be safe
// against databases created before the ledger existed.
type Step struct {
	Name  string
	Apply func(ctx context.Context, m *Migrator) error
}

// Migrator brings the store to the expected shape.
type Migrator struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewMigrator creates a Migrator.
func NewMigrator(db *gorm.DB, logger *zap.Logger) *Migrator {
	return &Migrator{db: db, logger: logger}
}

// RunMigrations ensures the base schema and applies the pending steps.
// A failing step is logged and stops the sequence; the error is returned
// wrapped so the caller can keep serving on the previous schema. Only
// ErrSchemaUnavailable should abort startup.
func RunMigrations(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	return NewMigrator(db, logger).Run(ctx, Steps)
}

// Run applies steps in order.
func (m *Migrator) Run(ctx context.Context, steps []Step) error {
	if err := m.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaUnavailable, err)
	}

	applied, err := m.appliedSteps(ctx)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", migrationsTable, err)
	}

	count := 0
	for _, step := range steps {
		if applied[step.Name] {
			continue
		}
		if err := step.Apply(ctx, m); err != nil {
			m.logger.Error("migration step failed, keeping previous schema",
				zap.String("step", step.Name), zap.Error(err))
			return fmt.Errorf("migration %s: %w", step.Name, err)
		}
		if err := m.db.WithContext(ctx).Exec(
			"INSERT INTO "+migrationsTable+" (name, applied_at) VALUES (?, ?)", step.Name, time.Now().UTC(),
		).Error; err != nil {
			return fmt.Errorf("failed to record migration %s: %w", step.Name, err)
		}
		m.logger.Info("migration step applied", zap.String("step", step.Name))
		count++
	}

	m.logger.Info("database migrations complete", zap.Int("applied", count))
	return nil
}

// EnsureSchema creates every table that does not exist yet.
func (m *Migrator) EnsureSchema(ctx context.Context) error {
	for _, t := range tables {
		if err := m.db.WithContext(ctx).Exec(m.createSQL(t.name, t.columns)).Error; err != nil {
			return fmt.Errorf("failed to create table %s: %w", t.name, err)
		}
	}
	return nil
}

// EnsureColumn adds column to table when it is missing.
func (m *Migrator) EnsureColumn(ctx context.Context, table, column, columnType string) error {
	cols, err := m.Columns(ctx, table)
	if err != nil {
		return err
	}
	if cols[column] {
		return nil
	}
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, m.resolve(columnType))
	if err := m.db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return fmt.Errorf("failed to add %s.%s: %w", table, column, err)
	}
	m.logger.Info("column added", zap.String("table", table), zap.String("column", column))
	return nil
}

// DropColumn removes column from table by rebuilding the table with its
// current definition. Skips when the column is already gone.
func (m *Migrator) DropColumn(ctx context.Context, table, column string) error {
	def, ok := lookupTable(table)
	if !ok {
		return fmt.Errorf("unknown table %s", table)
	}
	return m.rebuildWithout(ctx, table, column, def.columns)
}

// rebuildWithout copies table into a fresh table created from columnsDDL,
// drops the original and renames the copy, all in one transaction.
func (m *Migrator) rebuildWithout(ctx context.Context, table, column, columnsDDL string) error {
	existing, err := m.Columns(ctx, table)
	if err != nil {
		return err
	}
	if !existing[column] {
		return nil
	}

	tmp := table + "__rebuild"
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DROP TABLE IF EXISTS " + tmp).Error; err != nil {
			return err
		}
		if err := tx.Exec(m.createSQL(tmp, columnsDDL)).Error; err != nil {
			return fmt.Errorf("create %s: %w", tmp, err)
		}

		target, err := columnsOf(tx, m.isPostgres(), tmp)
		if err != nil {
			return err
		}
		source, err := orderedColumns(tx, m.isPostgres(), table)
		if err != nil {
			return err
		}
		var keep []string
		for _, name := range source {
			if name != column && target[name] {
				keep = append(keep, name)
			}
		}
		cols := strings.Join(keep, ", ")
		if err := tx.Exec(fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s", tmp, cols, cols, table)).Error; err != nil {
			return fmt.Errorf("copy %s: %w", table, err)
		}
		if err := tx.Exec("DROP TABLE " + table).Error; err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
		if err := tx.Exec(fmt.Sprintf("ALTER TABLE %s RENAME TO %s", tmp, table)).Error; err != nil {
			return fmt.Errorf("rename %s: %w", tmp, err)
		}
		if m.isPostgres() && target["id"] {
			if err := tx.Exec(fmt.Sprintf(
				"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 1)) FROM %s", table, table,
			)).Error; err != nil {
				return fmt.Errorf("reset sequence %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to drop %s.%s: %w", table, column, err)
	}

	m.logger.Info("column dropped", zap.String("table", table), zap.String("column", column))
	return nil
}

// Columns returns the set of column names of table.
func (m *Migrator) Columns(ctx context.Context, table string) (map[string]bool, error) {
	return columnsOf(m.db.WithContext(ctx), m.isPostgres(), table)
}

// Exec runs a raw statement; used by steps that only create indexes.
func (m *Migrator) Exec(ctx context.Context, stmt string) error {
	return m.db.WithContext(ctx).Exec(stmt).Error
}

func columnsOf(db *gorm.DB, postgres bool, table string) (map[string]bool, error) {
	names, err := orderedColumns(db, postgres, table)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return set, nil
}

func orderedColumns(db *gorm.DB, postgres bool, table string) ([]string, error) {
	var names []string
	var err error
	if postgres {
		err = db.Raw(`SELECT column_name FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = ? ORDER BY ordinal_position`, table).Scan(&names).Error
	} else {
		err = db.Raw("SELECT name FROM pragma_table_info(?) ORDER BY cid", table).Scan(&names).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list columns of %s: %w", table, err)
	}
	return names, nil
}

func (m *Migrator) appliedSteps(ctx context.Context) (map[string]bool, error) {
	var names []string
	if err := m.db.WithContext(ctx).Raw("SELECT name FROM " + migrationsTable).Scan(&names).Error; err != nil {
		return nil, err
	}
	applied := make(map[string]bool, len(names))
	for _, n := range names {
		applied[n] = true
	}
	return applied, nil
}

func (m *Migrator) createSQL(name, columns string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", name, m.resolve(columns))
}

func (m *Migrator) resolve(ddl string) string {
	if m.isPostgres() {
		return strings.NewReplacer("{{pk}}", "SERIAL PRIMARY KEY", "{{ts}}", "TIMESTAMPTZ", "{{json}}", "JSONB").Replace(ddl)
	}
	return strings.NewReplacer("{{pk}}", "INTEGER PRIMARY KEY AUTOINCREMENT", "{{ts}}", "DATETIME", "{{json}}", "JSON").Replace(ddl)
}

func (m *Migrator) isPostgres() bool {
	return m.db.Dialector.Name() == "postgres"
}

func lookupTable(name string) (tableDef, bool) {
	for _, t := range tables {
		if t.name == name {
			return t, true
		}
	}
	return tableDef{}, false
}
