package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"meeting-service/internal/repository"
	"meeting-service/internal/service"
)

type MeetingHandler struct {
	meetingService service.MeetingService
	validate       *validator.Validate
}

func NewMeetingHandler(meetingService service.MeetingService) *MeetingHandler {
	return &MeetingHandler{
		meetingService: meetingService,
		validate:       validator.New(),
	}
}

type CreateMeetingRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"required,max=2000"`
	StartTime   time.Time `json:"startTime" validate:"required"`
	EndTime     time.Time `json:"endTime" validate:"required"`
}

func (h *MeetingHandler) CreateMeeting(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var request CreateMeetingRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	meeting, err := h.meetingService.Create(c.Context(), user.ID, service.CreateMeetingInput{
		Title:       request.Title,
		Description: request.Description,
		StartTime:   request.StartTime,
		EndTime:     request.EndTime,
	})

	if err != nil {
		slog.ErrorContext(c.UserContext(), "Failed to create meeting", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create meeting"})
	}

	return c.Status(fiber.StatusCreated).JSON(meeting)
}

func (h *MeetingHandler) ListMeetings(c *fiber.Ctx) error {
	meetings, err := h.meetingService.ListAll(c.Context())
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Failed to list meetings", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch meetings"})
	}

	return c.Status(fiber.StatusOK).JSON(meetings)
}

// ListMyMeetings returns meetings the caller hosts. Meetings the caller
// merely joined are intentionally excluded.
func (h *MeetingHandler) ListMyMeetings(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	meetings, err := h.meetingService.ListByHost(c.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Failed to list my meetings", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch meetings"})
	}

	return c.Status(fiber.StatusOK).JSON(meetings)
}

func (h *MeetingHandler) GetMeeting(c *fiber.Ctx) error {
	meetingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Meeting not found"})
	}

	details, err := h.meetingService.Get(c.Context(), meetingID)
	if err != nil {
		if errors.Is(err, service.ErrMeetingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Meeting not found"})
		}

		slog.ErrorContext(c.UserContext(), "Failed to get meeting", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch meeting"})
	}

	return c.Status(fiber.StatusOK).JSON(details)
}

type UpdateMeetingRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
}

func (h *MeetingHandler) UpdateMeeting(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	meetingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Meeting not found"})
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	fields := make([]string, 0, len(raw))
	for key := range raw {
		fields = append(fields, key)
	}

	var request UpdateMeetingRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	patch := repository.MeetingPatch{
		Title:       request.Title,
		Description: request.Description,
		StartTime:   request.StartTime,
		EndTime:     request.EndTime,
	}

	meeting, err := h.meetingService.Update(c.Context(), meetingID, user, fields, patch)

	if err != nil {
		switch {
		case errors.Is(err, service.ErrMeetingNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Meeting not found"})
		case errors.Is(err, service.ErrNotMeetingOwner):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Not authorized to update this meeting"})
		case errors.Is(err, service.ErrInvalidUpdate):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid updates"})
		default:
			slog.ErrorContext(c.UserContext(), "Failed to update meeting", slog.String("error", err.Error()))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Could not update meeting"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(meeting)
}

func (h *MeetingHandler) DeleteMeeting(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	meetingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Meeting not found"})
	}

	err = h.meetingService.Delete(c.Context(), meetingID, user)

	if err != nil {
		switch {
		case errors.Is(err, service.ErrMeetingNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Meeting not found"})
		case errors.Is(err, service.ErrNotMeetingOwner):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Not authorized to delete this meeting"})
		default:
			slog.ErrorContext(c.UserContext(), "Failed to delete meeting", slog.String("error", err.Error()))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete meeting"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Meeting deleted successfully"})
}

func (h *MeetingHandler) JoinMeeting(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	meetingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Meeting not found"})
	}

	room, err := h.meetingService.Join(c.Context(), meetingID, user.ID)

	if err != nil {
		switch {
		case errors.Is(err, service.ErrMeetingNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Meeting not found"})
		case errors.Is(err, service.ErrAlreadyJoined):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "You have already joined this meeting"})
		default:
			slog.ErrorContext(c.UserContext(), "Failed to join meeting", slog.String("error", err.Error()))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not join meeting"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Joined meeting successfully", "room": room})
}

func (h *MeetingHandler) LeaveMeeting(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	meetingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Meeting not found"})
	}

	err = h.meetingService.Leave(c.Context(), meetingID, user.ID)

	if err != nil {
		switch {
		case errors.Is(err, service.ErrMeetingNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Meeting not found"})
		case errors.Is(err, service.ErrNotParticipant):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "You are not a participant in this meeting"})
		default:
			slog.ErrorContext(c.UserContext(), "Failed to leave meeting", slog.String("error", err.Error()))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not leave meeting"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Left meeting successfully"})
}
