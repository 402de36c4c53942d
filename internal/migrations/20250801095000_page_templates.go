package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250801095000",
		up:      mig_20250801095000_page_templates_up,
		down:    mig_20250801095000_page_templates_down,
	})
}

func mig_20250801095000_page_templates_up(tx *sqlx.Tx) error {
	// tenant_id is NULL for public catalog templates
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS page_templates (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            tenant_id UUID REFERENCES tenants(id) ON DELETE CASCADE,
            name VARCHAR(255) NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            category VARCHAR(64) NOT NULL DEFAULT '',
            thumbnail_url TEXT NOT NULL DEFAULT '',
            components JSONB DEFAULT '[]',
            styles JSONB DEFAULT '[]',
            is_public BOOLEAN NOT NULL DEFAULT false,
            created_by VARCHAR(255) REFERENCES users(id) ON DELETE SET NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_page_templates_tenant_id ON page_templates(tenant_id);
    `)
	if err != nil {
		return err
	}

	return nil
}

func mig_20250801095000_page_templates_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS page_templates;`)
	return err
}
