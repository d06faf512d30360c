package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateMeetingParticipantsTable, downCreateMeetingParticipantsTable)
}

func upCreateMeetingParticipantsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE meeting_participants (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			meeting_id UUID NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id),
			joined_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
			UNIQUE(meeting_id, user_id)
		);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateMeetingParticipantsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS meeting_participants;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
