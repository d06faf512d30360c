package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateMeetingsTable, downCreateMeetingsTable)
}

func upCreateMeetingsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE meetings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			host_id UUID NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			start_time TIMESTAMP WITH TIME ZONE NOT NULL,
			end_time TIMESTAMP WITH TIME ZONE NOT NULL,
			room TEXT UNIQUE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateMeetingsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS meetings;`
	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}
