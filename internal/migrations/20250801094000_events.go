package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250801094000",
		up:      mig_20250801094000_events_up,
		down:    mig_20250801094000_events_down,
	})
}

func mig_20250801094000_events_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS events (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            tenant_id UUID NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
            name VARCHAR(255) NOT NULL,
            slug VARCHAR(255) NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            short_description VARCHAR(500) NOT NULL DEFAULT '',
            cover_image TEXT NOT NULL DEFAULT '',
            start_date TIMESTAMP WITH TIME ZONE NOT NULL,
            end_date TIMESTAMP WITH TIME ZONE,
            timezone VARCHAR(64) NOT NULL DEFAULT 'UTC',
            location_type VARCHAR(16) NOT NULL DEFAULT 'in_person',
            venue_name VARCHAR(255) NOT NULL DEFAULT '',
            venue_address TEXT NOT NULL DEFAULT '',
            virtual_url TEXT NOT NULL DEFAULT '',
            status VARCHAR(32) NOT NULL DEFAULT 'draft',
            capacity INTEGER,
            registration_enabled BOOLEAN NOT NULL DEFAULT true,
            registration_deadline TIMESTAMP WITH TIME ZONE,
            ticket_price NUMERIC(10,2) NOT NULL DEFAULT 0,
            currency VARCHAR(8) NOT NULL DEFAULT 'USD',
            created_by VARCHAR(255) REFERENCES users(id) ON DELETE SET NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            UNIQUE(tenant_id, slug)
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_events_tenant_id ON events(tenant_id);
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE TABLE IF NOT EXISTS event_speakers (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
            speaker_id UUID NOT NULL REFERENCES speakers(id) ON DELETE CASCADE,
            role VARCHAR(64) NOT NULL DEFAULT 'speaker',
            session_title VARCHAR(255) NOT NULL DEFAULT '',
            display_order INTEGER NOT NULL DEFAULT 0,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            UNIQUE(event_id, speaker_id)
        );
    `)
	if err != nil {
		return err
	}

	// Duplicate registrations are rejected here, not in application code
	_, err = tx.Exec(`
        CREATE TABLE IF NOT EXISTS event_registrations (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
            user_id VARCHAR(255) REFERENCES users(id) ON DELETE SET NULL,
            email VARCHAR(255) NOT NULL,
            full_name VARCHAR(255) NOT NULL,
            company VARCHAR(255) NOT NULL DEFAULT '',
            phone VARCHAR(64) NOT NULL DEFAULT '',
            job_title VARCHAR(255) NOT NULL DEFAULT '',
            ticket_type VARCHAR(32) NOT NULL DEFAULT 'general',
            custom_fields JSONB DEFAULT '{}',
            status VARCHAR(32) NOT NULL DEFAULT 'pending',
            confirmed_at TIMESTAMP WITH TIME ZONE,
            checked_in_at TIMESTAMP WITH TIME ZONE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            UNIQUE(event_id, email)
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_event_registrations_event_id ON event_registrations(event_id);
    `)
	if err != nil {
		return err
	}

	return nil
}

func mig_20250801094000_events_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        DROP TABLE IF EXISTS event_registrations;
        DROP TABLE IF EXISTS event_speakers;
        DROP TABLE IF EXISTS events;
    `)
	return err
}
