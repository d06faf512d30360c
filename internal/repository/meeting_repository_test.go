package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"meeting-service/internal/model"
	repo "meeting-service/internal/repository"
)

func TestPostgresMeetingRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresMeetingRepository(sqlxDB)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO meetings (host_id, title, description, start_time, end_time, room)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`)).WithArgs(sqlmock.AnyArg(), "Standup", "Daily sync", sqlmock.AnyArg(), sqlmock.AnyArg(), "abc123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id, now))

	meeting := &model.Meeting{
		HostID:      uuid.New(),
		Title:       "Standup",
		Description: "Daily sync",
		StartTime:   time.Now(),
		EndTime:     time.Now().Add(time.Hour),
		Room:        "abc123",
	}
	created, err := r.Create(context.Background(), meeting)
	require.NoError(t, err)
	require.Equal(t, id, created.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMeetingRepository_FindByID_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresMeetingRepository(sqlxDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, host_id, title, description, start_time, end_time, room, created_at FROM meetings WHERE id = $1`)).
		WithArgs(sqlmock.AnyArg()).WillReturnError(sql.ErrNoRows)

	m, err := r.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Nil(t, m)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMeetingRepository_AddAndRemoveParticipant(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresMeetingRepository(sqlxDB)

	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO meeting_participants (meeting_id, user_id)
		VALUES ($1, $2)
	`)).WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM meeting_participants WHERE meeting_id = $1 AND user_id = $2`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))

	err = r.AddParticipant(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)

	removed, err := r.RemoveParticipant(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	require.True(t, removed)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMeetingRepository_RemoveParticipant_NotMember(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresMeetingRepository(sqlxDB)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM meeting_participants WHERE meeting_id = $1 AND user_id = $2`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := r.RemoveParticipant(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	require.False(t, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMeetingRepository_Update_SingleField(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresMeetingRepository(sqlxDB)

	id := uuid.New()
	hostID := uuid.New()
	now := time.Now()
	title := "Renamed"

	rows := sqlmock.NewRows([]string{"id", "host_id", "title", "description", "start_time", "end_time", "room", "created_at"}).
		AddRow(id, hostID, title, "Daily sync", now, now.Add(time.Hour), "abc123", now)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE meetings SET title = $1 WHERE id = $2`)).
		WithArgs(title, id).WillReturnRows(rows)

	updated, err := r.Update(context.Background(), id, repo.MeetingPatch{Title: &title})
	require.NoError(t, err)
	require.Equal(t, title, updated.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}
