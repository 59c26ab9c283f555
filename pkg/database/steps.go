package database

import "context"

// Steps is the ordered migration history of the portal schema.
var Steps = []Step{
	{
		Name: "0001_forms_button_image",
		Apply: func(ctx context.Context, m *Migrator) error {
			return m.EnsureColumn(ctx, "forms", "button_image", "TEXT")
		},
	},
	{
		Name: "0002_baas_profile_columns",
		Apply: func(ctx context.Context, m *Migrator) error {
			for _, col := range []string{"name", "email", "login_id"} {
				if err := m.EnsureColumn(ctx, "baas", col, "TEXT"); err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		// BAAs used to sign in with a password; they now use login_id only.
		Name: "0003_baas_drop_password_hash",
		Apply: func(ctx context.Context, m *Migrator) error {
			return m.DropColumn(ctx, "baas", "password_hash")
		},
	},
	{
		Name: "0004_lookup_indexes",
		Apply: func(ctx context.Context, m *Migrator) error {
			for _, stmt := range []string{
				"CREATE INDEX IF NOT EXISTS idx_assignments_form_id ON assignments(form_id)",
				"CREATE INDEX IF NOT EXISTS idx_completions_form_id ON completions(form_id)",
				"CREATE INDEX IF NOT EXISTS idx_participants_login_id ON participants(login_id)",
				"CREATE INDEX IF NOT EXISTS idx_baas_login_id ON baas(login_id)",
				"CREATE INDEX IF NOT EXISTS idx_completion_events_source ON completion_events(source)",
			} {
				if err := m.Exec(ctx, stmt); err != nil {
					return err
				}
			}
			return nil
		},
	},
}
