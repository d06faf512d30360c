package repository

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"meeting-service/internal/model"
	_ "meeting-service/migrations"
)

type MeetingRepositoryIntegrationTestSuite struct {
	suite.Suite
	db       *sqlx.DB
	users    UserRepository
	meetings MeetingRepository
	pgc      *postgres.PostgresContainer
	ctx      context.Context
	hostID   uuid.UUID
}

func (s *MeetingRepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	pgc, err := postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}
	s.pgc = pgc

	connStr, err := pgc.ConnectionString(s.ctx, "sslmode=disable")
	assert.NoError(s.T(), err)

	db, err := sqlx.Connect("pgx", connStr)
	assert.NoError(s.T(), err)
	s.db = db

	err = goose.Up(db.DB, "../../migrations")
	assert.NoError(s.T(), err)

	s.users = NewPostgresUserRepository(s.db)
	s.meetings = NewPostgresMeetingRepository(s.db)

	s.hostID, err = s.users.Create(s.ctx, &model.User{
		Username:     "host",
		Email:        "host@test.com",
		PasswordHash: "hashed_password",
	})
	assert.NoError(s.T(), err)
}

func (s *MeetingRepositoryIntegrationTestSuite) TearDownSuite() {
	s.db.Close()
	if err := s.pgc.Terminate(s.ctx); err != nil {
		log.Fatalf("failed to terminate pg container: %s", err)
	}
}

func (s *MeetingRepositoryIntegrationTestSuite) newMeeting(room string) *model.Meeting {
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	return &model.Meeting{
		HostID:      s.hostID,
		Title:       "Integration",
		Description: "Integration meeting",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		Room:        room,
	}
}

func (s *MeetingRepositoryIntegrationTestSuite) TestRoomUniqueConstraint() {
	_, err := s.meetings.Create(s.ctx, s.newMeeting("room-unique-a"))
	assert.NoError(s.T(), err)

	_, err = s.meetings.Create(s.ctx, s.newMeeting("room-unique-a"))
	assert.Error(s.T(), err)
}

func (s *MeetingRepositoryIntegrationTestSuite) TestDuplicateJoinRejected() {
	meeting, err := s.meetings.Create(s.ctx, s.newMeeting("room-join"))
	assert.NoError(s.T(), err)

	userID, err := s.users.Create(s.ctx, &model.User{
		Username:     "joiner",
		Email:        "joiner@test.com",
		PasswordHash: "hashed_password",
	})
	assert.NoError(s.T(), err)

	assert.NoError(s.T(), s.meetings.AddParticipant(s.ctx, meeting.ID, userID))
	assert.Error(s.T(), s.meetings.AddParticipant(s.ctx, meeting.ID, userID))

	ids, err := s.meetings.ListParticipantIDs(s.ctx, meeting.ID)
	assert.NoError(s.T(), err)
	assert.Len(s.T(), ids, 1)

	removed, err := s.meetings.RemoveParticipant(s.ctx, meeting.ID, userID)
	assert.NoError(s.T(), err)
	assert.True(s.T(), removed)

	removed, err = s.meetings.RemoveParticipant(s.ctx, meeting.ID, userID)
	assert.NoError(s.T(), err)
	assert.False(s.T(), removed)
}

func (s *MeetingRepositoryIntegrationTestSuite) TestFindDetailsResolvesHost() {
	meeting, err := s.meetings.Create(s.ctx, s.newMeeting("room-details"))
	assert.NoError(s.T(), err)

	details, err := s.meetings.FindDetailsByID(s.ctx, meeting.ID)
	assert.NoError(s.T(), err)
	assert.NotNil(s.T(), details)
	assert.Equal(s.T(), "host", details.HostUsername)
}

func TestMeetingRepositoryIntegration(t *testing.T) {
	if os.Getenv("DOCKER_HOST") == "" {
		t.Skip("Docker is not available, skipping integration test.")
	}
	suite.Run(t, new(MeetingRepositoryIntegrationTestSuite))
}
