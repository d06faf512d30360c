package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"

	"meeting-service/internal/events"
	"meeting-service/internal/model"
	"meeting-service/internal/repository"
)

var (
	ErrMeetingNotFound = errors.New("meeting not found")
	ErrNotMeetingOwner = errors.New("not authorized to modify this meeting")
	ErrAlreadyJoined   = errors.New("you have already joined this meeting")
	ErrNotParticipant  = errors.New("you are not a participant in this meeting")
	ErrInvalidUpdate   = errors.New("invalid updates")
	ErrRoomExhausted   = errors.New("could not allocate a unique room")
)

var allowedUpdateFields = map[string]bool{
	"title":       true,
	"description": true,
	"startTime":   true,
	"endTime":     true,
}

const roomCreateAttempts = 3

type CreateMeetingInput struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
}

type MeetingService interface {
	Create(ctx context.Context, hostID uuid.UUID, input CreateMeetingInput) (*model.Meeting, error)
	ListAll(ctx context.Context) ([]model.MeetingDetails, error)
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]model.Meeting, error)
	Get(ctx context.Context, meetingID uuid.UUID) (*model.MeetingDetails, error)
	Update(ctx context.Context, meetingID uuid.UUID, actor *model.User, fields []string, patch repository.MeetingPatch) (*model.Meeting, error)
	Delete(ctx context.Context, meetingID uuid.UUID, actor *model.User) error
	Join(ctx context.Context, meetingID, userID uuid.UUID) (room string, err error)
	Leave(ctx context.Context, meetingID, userID uuid.UUID) error
}

type meetingService struct {
	meetingRepo repository.MeetingRepository
	publisher   events.EventPublisher
}

func NewMeetingService(repo repository.MeetingRepository, pub events.EventPublisher) MeetingService {
	return &meetingService{meetingRepo: repo, publisher: pub}
}

func newRoomToken() string {
	buf := make([]byte, 12)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}

// Create retries with a fresh room token when the unique index on
// meetings.room rejects the insert.
func (s *meetingService) Create(ctx context.Context, hostID uuid.UUID, input CreateMeetingInput) (*model.Meeting, error) {
	for attempt := 0; attempt < roomCreateAttempts; attempt++ {
		meeting := &model.Meeting{
			HostID:      hostID,
			Title:       input.Title,
			Description: input.Description,
			StartTime:   input.StartTime,
			EndTime:     input.EndTime,
			Room:        newRoomToken(),
		}

		created, err := s.meetingRepo.Create(ctx, meeting)

		if err != nil {
			if isUniqueViolation(err, "meetings_room_key") {
				continue
			}
			return nil, err
		}

		go s.publisher.PublishMeetingCreated(created)

		return created, nil
	}

	return nil, ErrRoomExhausted
}

func (s *meetingService) ListAll(ctx context.Context) ([]model.MeetingDetails, error) {
	return s.meetingRepo.ListAll(ctx)
}

func (s *meetingService) ListByHost(ctx context.Context, hostID uuid.UUID) ([]model.Meeting, error) {
	return s.meetingRepo.ListByHostID(ctx, hostID)
}

func (s *meetingService) Get(ctx context.Context, meetingID uuid.UUID) (*model.MeetingDetails, error) {
	details, err := s.meetingRepo.FindDetailsByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, ErrMeetingNotFound
	}
	return details, nil
}

func canModify(meeting *model.Meeting, actor *model.User) bool {
	return meeting.HostID == actor.ID || actor.IsAdmin
}

// Update checks existence, then ownership, then the field allow-list.
// A patch with a disallowed field is rejected whole, nothing applied.
func (s *meetingService) Update(ctx context.Context, meetingID uuid.UUID, actor *model.User, fields []string, patch repository.MeetingPatch) (*model.Meeting, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)

	if err != nil {
		return nil, err
	}

	if meeting == nil {
		return nil, ErrMeetingNotFound
	}

	if !canModify(meeting, actor) {
		return nil, ErrNotMeetingOwner
	}

	for _, field := range fields {
		if !allowedUpdateFields[field] {
			return nil, ErrInvalidUpdate
		}
	}

	updated, err := s.meetingRepo.Update(ctx, meetingID, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrMeetingNotFound
	}

	return updated, nil
}

func (s *meetingService) Delete(ctx context.Context, meetingID uuid.UUID, actor *model.User) error {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)

	if err != nil {
		return err
	}

	if meeting == nil {
		return ErrMeetingNotFound
	}

	if !canModify(meeting, actor) {
		return ErrNotMeetingOwner
	}

	if err := s.meetingRepo.Delete(ctx, meetingID); err != nil {
		return err
	}

	go s.publisher.PublishMeetingDeleted(meetingID)

	return nil
}

// Join relies on the unique (meeting_id, user_id) index for the
// set-add: a duplicate insert fails instead of racing a read.
func (s *meetingService) Join(ctx context.Context, meetingID, userID uuid.UUID) (string, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)

	if err != nil {
		return "", err
	}

	if meeting == nil {
		return "", ErrMeetingNotFound
	}

	err = s.meetingRepo.AddParticipant(ctx, meetingID, userID)

	if err != nil {
		if isUniqueViolation(err, "") {
			return "", ErrAlreadyJoined
		}
		return "", err
	}

	go s.publisher.PublishMeetingJoined(meetingID, userID)

	return meeting.Room, nil
}

func (s *meetingService) Leave(ctx context.Context, meetingID, userID uuid.UUID) error {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)

	if err != nil {
		return err
	}

	if meeting == nil {
		return ErrMeetingNotFound
	}

	removed, err := s.meetingRepo.RemoveParticipant(ctx, meetingID, userID)

	if err != nil {
		return err
	}

	if !removed {
		return ErrNotParticipant
	}

	go s.publisher.PublishMeetingLeft(meetingID, userID)

	return nil
}
