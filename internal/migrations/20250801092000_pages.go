package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250801092000",
		up:      mig_20250801092000_pages_up,
		down:    mig_20250801092000_pages_down,
	})
}

func mig_20250801092000_pages_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS pages (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            tenant_id UUID NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
            name VARCHAR(255) NOT NULL,
            slug VARCHAR(255) NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            html TEXT NOT NULL DEFAULT '',
            css TEXT NOT NULL DEFAULT '',
            components JSONB DEFAULT '[]',
            styles JSONB DEFAULT '[]',
            status VARCHAR(32) NOT NULL DEFAULT 'draft',
            is_homepage BOOLEAN NOT NULL DEFAULT false,
            meta_title VARCHAR(255) NOT NULL DEFAULT '',
            meta_description TEXT NOT NULL DEFAULT '',
            published_at TIMESTAMP WITH TIME ZONE,
            created_by VARCHAR(255) REFERENCES users(id) ON DELETE SET NULL,
            updated_by VARCHAR(255) REFERENCES users(id) ON DELETE SET NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            UNIQUE(tenant_id, slug)
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_pages_tenant_id ON pages(tenant_id);
    `)
	if err != nil {
		return err
	}

	// Notify the page cache on every row change
	_, err = tx.Exec(`
        CREATE OR REPLACE FUNCTION notify_page_change() RETURNS trigger AS $$
        DECLARE
            row RECORD;
        BEGIN
            IF TG_OP = 'DELETE' THEN
                row := OLD;
            ELSE
                row := NEW;
            END IF;
            PERFORM pg_notify('page_changes', row.tenant_id || ':' || row.slug || ':' || TG_OP);
            RETURN row;
        END;
        $$ LANGUAGE plpgsql;
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE TRIGGER pages_notify_change
        AFTER INSERT OR UPDATE OR DELETE ON pages
        FOR EACH ROW EXECUTE FUNCTION notify_page_change();
    `)
	if err != nil {
		return err
	}

	return nil
}

func mig_20250801092000_pages_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        DROP TRIGGER IF EXISTS pages_notify_change ON pages;
        DROP FUNCTION IF EXISTS notify_page_change();
        DROP TABLE IF EXISTS pages;
    `)
	return err
}
