package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"activitySignup/internal/dto"
	"activitySignup/internal/metrics"
	"activitySignup/internal/model"
	"activitySignup/internal/rabbit"
	"activitySignup/internal/repo"
	"activitySignup/pkg/validator"
)

const publishTimeout = 2 * time.Second

type Service interface {
	ListActivities(ctx *ginext.Context)
	Signup(ctx *ginext.Context)
	Unregister(ctx *ginext.Context)
}

type service struct {
	repo repo.Repository
	log  *zerolog.Logger
	pub  rabbit.Publisher
}

// NewService wires the handlers. pub may be nil, in which case participant
// events are not published.
func NewService(repo repo.Repository, logger *zerolog.Logger, pub rabbit.Publisher) Service {
	return &service{
		repo: repo,
		log:  logger,
		pub:  pub,
	}
}

func (s *service) ListActivities(ctx *ginext.Context) {
	activities, err := s.repo.ListActivities(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list activities")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.ToActivitiesResponse(activities))
}

func (s *service) Signup(ctx *ginext.Context) {
	q, ok := s.bindParticipantQuery(ctx)
	if !ok {
		return
	}

	activity, err := s.repo.AddParticipant(ctx.Request.Context(), q.ActivityName, q.Email)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrActivityNotFound):
			dto.ActivityNotFoundError(ctx)
		case errors.Is(err, repo.ErrAlreadySignedUp):
			dto.BadRequestError(ctx, dto.AlreadySignedUp)
		case errors.Is(err, repo.ErrActivityFull):
			dto.BadRequestError(ctx, dto.ActivityFull)
		default:
			s.log.Error().Err(err).Str("activity", q.ActivityName).Msg("failed to sign up participant")
			dto.InternalServerError(ctx)
		}
		return
	}

	s.log.Info().
		Str("activity", q.ActivityName).
		Str("email", q.Email).
		Int("participants", len(activity.Participants)).
		Msg("participant signed up")
	metrics.RecordSignup(q.ActivityName, len(activity.Participants))
	s.publish(ctx.Request.Context(), dto.EventSignedUp, activity, q.Email)

	dto.MessageSuccessResponse(ctx, fmt.Sprintf("Signed up %s for %s", q.Email, q.ActivityName))
}

func (s *service) Unregister(ctx *ginext.Context) {
	q, ok := s.bindParticipantQuery(ctx)
	if !ok {
		return
	}

	activity, err := s.repo.RemoveParticipant(ctx.Request.Context(), q.ActivityName, q.Email)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrActivityNotFound):
			dto.ActivityNotFoundError(ctx)
		case errors.Is(err, repo.ErrParticipantNotFound):
			dto.ParticipantNotFoundError(ctx)
		default:
			s.log.Error().Err(err).Str("activity", q.ActivityName).Msg("failed to unregister participant")
			dto.InternalServerError(ctx)
		}
		return
	}

	s.log.Info().
		Str("activity", q.ActivityName).
		Str("email", q.Email).
		Int("participants", len(activity.Participants)).
		Msg("participant unregistered")
	metrics.RecordUnregister(q.ActivityName, len(activity.Participants))
	s.publish(ctx.Request.Context(), dto.EventUnregistered, activity, q.Email)

	dto.MessageSuccessResponse(ctx, fmt.Sprintf("Removed %s from %s", q.Email, q.ActivityName))
}

func (s *service) bindParticipantQuery(ctx *ginext.Context) (dto.ParticipantQuery, bool) {
	var q dto.ParticipantQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		dto.BadRequestError(ctx, "Invalid query parameters")
		return q, false
	}
	q.ActivityName = ctx.Param("name")

	if verr := validator.Validate(ctx.Request.Context(), q); verr != nil {
		s.log.Debug().Err(verr).Msg("participant query rejected")
		dto.BadRequestError(ctx, verr.Error())
		return q, false
	}
	return q, true
}

func (s *service) publish(ctx context.Context, kind string, activity *model.Activity, email string) {
	if s.pub == nil {
		return
	}

	payload, err := json.Marshal(dto.ParticipantEvent{
		Kind:         kind,
		Activity:     activity.Name,
		Schedule:     activity.Schedule,
		Email:        email,
		Participants: len(activity.Participants),
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal participant event")
		return
	}

	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = s.pub.Publish(pctx, kind, payload)
	metrics.RecordPublish(kind, err)
	if err != nil {
		s.log.Warn().Err(err).Str("kind", kind).Str("activity", activity.Name).Msg("participant event not published")
	}
}
