package repo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"activitySignup/internal/model"
)

var (
	ErrActivityNotFound    = errors.New("activity not found")
	ErrActivityFull        = errors.New("activity is full")
	ErrAlreadySignedUp     = errors.New("participant already signed up")
	ErrParticipantNotFound = errors.New("participant not found")
)

type Repository interface {
	ListActivities(ctx context.Context) (map[string]model.Activity, error)
	GetActivity(ctx context.Context, name string) (*model.Activity, error)
	AddParticipant(ctx context.Context, name, email string) (*model.Activity, error)
	RemoveParticipant(ctx context.Context, name, email string) (*model.Activity, error)
}

type repository struct {
	mu         sync.RWMutex
	activities map[string]*model.Activity
	log        *zerolog.Logger
}

func NewRepository(seed []model.Activity, log *zerolog.Logger) (Repository, error) {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}

	activities := make(map[string]*model.Activity, len(seed))
	for _, a := range seed {
		if a.Name == "" {
			return nil, fmt.Errorf("seed activity with empty name")
		}
		if _, exists := activities[a.Name]; exists {
			return nil, fmt.Errorf("duplicate seed activity %q", a.Name)
		}
		cp := a.Clone()
		activities[a.Name] = &cp
	}

	log.Info().Int("activities", len(activities)).Msg("activity store seeded")
	return &repository{activities: activities, log: log}, nil
}

func (r *repository) ListActivities(ctx context.Context) (map[string]model.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]model.Activity, len(r.activities))
	for name, a := range r.activities {
		out[name] = a.Clone()
	}
	return out, nil
}

func (r *repository) GetActivity(ctx context.Context, name string) (*model.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.activities[name]
	if !ok {
		return nil, ErrActivityNotFound
	}
	cp := a.Clone()
	return &cp, nil
}

func (r *repository) AddParticipant(ctx context.Context, name, email string) (*model.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return nil, ErrActivityNotFound
	}
	if a.HasParticipant(email) {
		return nil, ErrAlreadySignedUp
	}
	if a.IsFull() {
		return nil, ErrActivityFull
	}

	a.Participants = append(a.Participants, email)
	r.log.Debug().
		Str("activity", name).
		Str("email", email).
		Int("participants", len(a.Participants)).
		Msg("participant added")

	cp := a.Clone()
	return &cp, nil
}

func (r *repository) RemoveParticipant(ctx context.Context, name, email string) (*model.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return nil, ErrActivityNotFound
	}

	idx := -1
	for i, p := range a.Participants {
		if p == email {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrParticipantNotFound
	}

	a.Participants = append(a.Participants[:idx], a.Participants[idx+1:]...)
	r.log.Debug().
		Str("activity", name).
		Str("email", email).
		Int("participants", len(a.Participants)).
		Msg("participant removed")

	cp := a.Clone()
	return &cp, nil
}
