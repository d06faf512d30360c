package model

import (
	"time"

	"github.com/google/uuid"
)

type Meeting struct {
	ID          uuid.UUID `db:"id" json:"id"`
	HostID      uuid.UUID `db:"host_id" json:"host"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	StartTime   time.Time `db:"start_time" json:"startTime"`
	EndTime     time.Time `db:"end_time" json:"endTime"`
	Room        string    `db:"room" json:"room"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// MeetingDetails is the read-side projection with the host resolved to
// a display name and the participant set attached.
type MeetingDetails struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	HostID       uuid.UUID   `db:"host_id" json:"host"`
	HostUsername string      `db:"host_username" json:"hostUsername"`
	Title        string      `db:"title" json:"title"`
	Description  string      `db:"description" json:"description"`
	StartTime    time.Time   `db:"start_time" json:"startTime"`
	EndTime      time.Time   `db:"end_time" json:"endTime"`
	Room         string      `db:"room" json:"room"`
	Participants []uuid.UUID `db:"-" json:"participants"`
}
