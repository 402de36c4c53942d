package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250801091000",
		up:      mig_20250801091000_users_up,
		down:    mig_20250801091000_users_down,
	})
}

func mig_20250801091000_users_up(tx *sqlx.Tx) error {
	// id is the auth provider's subject, not a generated uuid
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS users (
            id VARCHAR(255) PRIMARY KEY,
            email VARCHAR(255) NOT NULL,
            full_name VARCHAR(255) NOT NULL DEFAULT '',
            password_hash VARCHAR(255),
            role VARCHAR(32) NOT NULL DEFAULT 'viewer',
            tenant_id UUID REFERENCES tenants(id) ON DELETE SET NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            UNIQUE(email)
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_users_tenant_id ON users(tenant_id);
    `)
	if err != nil {
		return err
	}

	return nil
}

func mig_20250801091000_users_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS users;`)
	return err
}
