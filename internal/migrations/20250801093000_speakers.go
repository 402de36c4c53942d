package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250801093000",
		up:      mig_20250801093000_speakers_up,
		down:    mig_20250801093000_speakers_down,
	})
}

func mig_20250801093000_speakers_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS speakers (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            tenant_id UUID NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
            name VARCHAR(255) NOT NULL,
            title VARCHAR(255) NOT NULL DEFAULT '',
            company VARCHAR(255) NOT NULL DEFAULT '',
            bio TEXT NOT NULL DEFAULT '',
            photo_url TEXT NOT NULL DEFAULT '',
            email VARCHAR(255) NOT NULL DEFAULT '',
            social_links JSONB DEFAULT '{}',
            is_featured BOOLEAN NOT NULL DEFAULT false,
            display_order INTEGER NOT NULL DEFAULT 0,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_speakers_tenant_id ON speakers(tenant_id);
    `)
	if err != nil {
		return err
	}

	return nil
}

func mig_20250801093000_speakers_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS speakers;`)
	return err
}
