package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"meeting-service/internal/model"
)

// MeetingPatch carries the allow-listed fields of a partial update;
// nil fields are left untouched.
type MeetingPatch struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
}

type MeetingRepository interface {
	Create(ctx context.Context, meeting *model.Meeting) (*model.Meeting, error)
	FindByID(ctx context.Context, meetingID uuid.UUID) (*model.Meeting, error)
	FindDetailsByID(ctx context.Context, meetingID uuid.UUID) (*model.MeetingDetails, error)
	ListAll(ctx context.Context) ([]model.MeetingDetails, error)
	ListByHostID(ctx context.Context, hostID uuid.UUID) ([]model.Meeting, error)
	Update(ctx context.Context, meetingID uuid.UUID, patch MeetingPatch) (*model.Meeting, error)
	Delete(ctx context.Context, meetingID uuid.UUID) error
	AddParticipant(ctx context.Context, meetingID, userID uuid.UUID) error
	RemoveParticipant(ctx context.Context, meetingID, userID uuid.UUID) (bool, error)
	ListParticipantIDs(ctx context.Context, meetingID uuid.UUID) ([]uuid.UUID, error)
}

type postgresMeetingRepository struct {
	db *sqlx.DB
}

func NewPostgresMeetingRepository(db *sqlx.DB) MeetingRepository {
	return &postgresMeetingRepository{db: db}
}

func (r *postgresMeetingRepository) Create(ctx context.Context, meeting *model.Meeting) (*model.Meeting, error) {
	query := `
		INSERT INTO meetings (host_id, title, description, start_time, end_time, room)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	row := r.db.QueryRowxContext(ctx, query, meeting.HostID, meeting.Title, meeting.Description, meeting.StartTime, meeting.EndTime, meeting.Room)
	err := row.Scan(&meeting.ID, &meeting.CreatedAt)

	if err != nil {
		return nil, err
	}

	return meeting, nil
}

func (r *postgresMeetingRepository) FindByID(ctx context.Context, meetingID uuid.UUID) (*model.Meeting, error) {
	var meeting model.Meeting
	query := `SELECT id, host_id, title, description, start_time, end_time, room, created_at FROM meetings WHERE id = $1`
	err := r.db.GetContext(ctx, &meeting, query, meetingID)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &meeting, nil
}

func (r *postgresMeetingRepository) FindDetailsByID(ctx context.Context, meetingID uuid.UUID) (*model.MeetingDetails, error) {
	var details model.MeetingDetails
	query := `
		SELECT m.id, m.host_id, u.username AS host_username, m.title, m.description, m.start_time, m.end_time, m.room
		FROM meetings m
		JOIN users u ON m.host_id = u.id
		WHERE m.id = $1
	`
	err := r.db.GetContext(ctx, &details, query, meetingID)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	participants, err := r.ListParticipantIDs(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	details.Participants = participants

	return &details, nil
}

func (r *postgresMeetingRepository) ListAll(ctx context.Context) ([]model.MeetingDetails, error) {
	var meetings []model.MeetingDetails
	query := `
		SELECT m.id, m.host_id, u.username AS host_username, m.title, m.description, m.start_time, m.end_time, m.room
		FROM meetings m
		JOIN users u ON m.host_id = u.id
		ORDER BY m.start_time ASC
	`
	err := r.db.SelectContext(ctx, &meetings, query)

	if err != nil {
		return nil, err
	}

	if meetings == nil {
		meetings = []model.MeetingDetails{}
	}

	return meetings, nil
}

func (r *postgresMeetingRepository) ListByHostID(ctx context.Context, hostID uuid.UUID) ([]model.Meeting, error) {
	var meetings []model.Meeting
	query := `SELECT id, host_id, title, description, start_time, end_time, room, created_at FROM meetings WHERE host_id = $1 ORDER BY start_time ASC`
	err := r.db.SelectContext(ctx, &meetings, query, hostID)

	if err != nil {
		return nil, err
	}

	if meetings == nil {
		meetings = []model.Meeting{}
	}

	return meetings, nil
}

func (r *postgresMeetingRepository) Update(ctx context.Context, meetingID uuid.UUID, patch MeetingPatch) (*model.Meeting, error) {
	sets := []string{}
	args := []interface{}{}
	argID := 1

	if patch.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", argID))
		args = append(args, *patch.Title)
		argID++
	}
	if patch.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", argID))
		args = append(args, *patch.Description)
		argID++
	}
	if patch.StartTime != nil {
		sets = append(sets, fmt.Sprintf("start_time = $%d", argID))
		args = append(args, *patch.StartTime)
		argID++
	}
	if patch.EndTime != nil {
		sets = append(sets, fmt.Sprintf("end_time = $%d", argID))
		args = append(args, *patch.EndTime)
		argID++
	}

	if len(sets) == 0 {
		return r.FindByID(ctx, meetingID)
	}

	query := fmt.Sprintf(`
		UPDATE meetings SET %s WHERE id = $%d
		RETURNING id, host_id, title, description, start_time, end_time, room, created_at
	`, strings.Join(sets, ", "), argID)
	args = append(args, meetingID)

	var meeting model.Meeting
	err := r.db.GetContext(ctx, &meeting, query, args...)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &meeting, nil
}

func (r *postgresMeetingRepository) Delete(ctx context.Context, meetingID uuid.UUID) error {
	query := `DELETE FROM meetings WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, meetingID)
	return err
}

func (r *postgresMeetingRepository) AddParticipant(ctx context.Context, meetingID, userID uuid.UUID) error {
	query := `
		INSERT INTO meeting_participants (meeting_id, user_id)
		VALUES ($1, $2)
	`
	_, err := r.db.ExecContext(ctx, query, meetingID, userID)
	return err
}

func (r *postgresMeetingRepository) RemoveParticipant(ctx context.Context, meetingID, userID uuid.UUID) (bool, error) {
	query := `DELETE FROM meeting_participants WHERE meeting_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, meetingID, userID)

	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *postgresMeetingRepository) ListParticipantIDs(ctx context.Context, meetingID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `SELECT user_id FROM meeting_participants WHERE meeting_id = $1 ORDER BY joined_at ASC`
	err := r.db.SelectContext(ctx, &ids, query, meetingID)

	if err != nil {
		return nil, err
	}

	if ids == nil {
		ids = []uuid.UUID{}
	}

	return ids, nil
}
