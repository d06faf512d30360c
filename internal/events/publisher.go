package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"meeting-service/internal/model"
)

type EventPublisher interface {
	PublishMeetingCreated(meeting *model.Meeting) error
	PublishMeetingJoined(meetingID, userID uuid.UUID) error
	PublishMeetingLeft(meetingID, userID uuid.UUID) error
	PublishMeetingDeleted(meetingID uuid.UUID) error
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (EventPublisher, error) {
	nc, err := nats.Connect(natsURL)

	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc}, nil
}

type MeetingCreatedEvent struct {
	EventType string    `json:"event_type"`
	MeetingID uuid.UUID `json:"meeting_id"`
	HostID    uuid.UUID `json:"host_id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type MeetingMembershipEvent struct {
	EventType string    `json:"event_type"`
	MeetingID uuid.UUID `json:"meeting_id"`
	UserID    uuid.UUID `json:"user_id"`
	At        time.Time `json:"at"`
}

type MeetingDeletedEvent struct {
	EventType string    `json:"event_type"`
	MeetingID uuid.UUID `json:"meeting_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

func (p *NatsPublisher) publish(subject string, event interface{}) error {
	eventJSON, err := json.Marshal(event)

	if err != nil {
		log.Printf("Error marshalling event JSON: %v", err)
		return err
	}

	if err := p.conn.Publish(subject, eventJSON); err != nil {
		log.Printf("Error publishing to NATS: %v", err)
		return err
	}

	return nil
}

func (p *NatsPublisher) PublishMeetingCreated(meeting *model.Meeting) error {
	event := MeetingCreatedEvent{
		EventType: "meeting.created",
		MeetingID: meeting.ID,
		HostID:    meeting.HostID,
		Title:     meeting.Title,
		StartTime: meeting.StartTime,
		EndTime:   meeting.EndTime,
	}

	return p.publish("meeting.created", event)
}

func (p *NatsPublisher) PublishMeetingJoined(meetingID, userID uuid.UUID) error {
	event := MeetingMembershipEvent{
		EventType: "meeting.joined",
		MeetingID: meetingID,
		UserID:    userID,
		At:        time.Now(),
	}

	return p.publish("meeting.joined", event)
}

func (p *NatsPublisher) PublishMeetingLeft(meetingID, userID uuid.UUID) error {
	event := MeetingMembershipEvent{
		EventType: "meeting.left",
		MeetingID: meetingID,
		UserID:    userID,
		At:        time.Now(),
	}

	return p.publish("meeting.left", event)
}

func (p *NatsPublisher) PublishMeetingDeleted(meetingID uuid.UUID) error {
	event := MeetingDeletedEvent{
		EventType: "meeting.deleted",
		MeetingID: meetingID,
		DeletedAt: time.Now(),
	}

	return p.publish("meeting.deleted", event)
}
