package dto

import (
	"net/http"
	"time"

	"github.com/wb-go/wbf/ginext"

	"activitySignup/internal/model"
)

const (
	InternalError = "Service is currently unavailable. Please try again later."

	ActivityNotFound    = "Activity not found"
	ParticipantNotFound = "Participant not found in this activity"
	AlreadySignedUp     = "Student is already signed up for this activity"
	ActivityFull        = "Activity is full"
	RouteNotFound       = "Not Found"
)

const (
	EventSignedUp     = "participant.signed_up"
	EventUnregistered = "participant.unregistered"
)

type ParticipantQuery struct {
	ActivityName string `form:"-" validate:"required"`
	Email        string `form:"email" validate:"required,notblank,max=254"`
}

type ActivityResponse struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// ParticipantEvent is published after every successful signup or unregister.
type ParticipantEvent struct {
	Kind         string    `json:"kind"`
	Activity     string    `json:"activity"`
	Schedule     string    `json:"schedule"`
	Email        string    `json:"email"`
	Participants int       `json:"participants"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

func ToActivityResponse(a model.Activity) ActivityResponse {
	participants := a.Participants
	if participants == nil {
		participants = []string{}
	}
	return ActivityResponse{
		Description:     a.Description,
		Schedule:        a.Schedule,
		MaxParticipants: a.MaxParticipants,
		Participants:    participants,
	}
}

func ToActivitiesResponse(activities map[string]model.Activity) map[string]ActivityResponse {
	out := make(map[string]ActivityResponse, len(activities))
	for name, a := range activities {
		out[name] = ToActivityResponse(a)
	}
	return out
}

func errorResponse(c *ginext.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: detail})
}

func BadRequestError(c *ginext.Context, detail string) {
	errorResponse(c, http.StatusBadRequest, detail)
}

func NotFoundError(c *ginext.Context, detail string) {
	errorResponse(c, http.StatusNotFound, detail)
}

func InternalServerError(c *ginext.Context) {
	errorResponse(c, http.StatusInternalServerError, InternalError)
}

func ActivityNotFoundError(c *ginext.Context) {
	NotFoundError(c, ActivityNotFound)
}

func ParticipantNotFoundError(c *ginext.Context) {
	NotFoundError(c, ParticipantNotFound)
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func MessageSuccessResponse(c *ginext.Context, message string) {
	SuccessResponse(c, MessageResponse{Message: message})
}
