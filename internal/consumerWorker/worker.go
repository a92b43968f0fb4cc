package consumerWorker

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"activitySignup/internal/dto"
	"activitySignup/internal/mailer"
)

type Consumer interface {
	Consume(handler func([]byte) error) error
}

type Reader struct {
	consumer Consumer
	sender   mailer.Sender
	log      *zerolog.Logger
	done     chan struct{}
	cancel   context.CancelFunc
}

func NewReader(consumer Consumer, sender mailer.Sender, log *zerolog.Logger) *Reader {
	return &Reader{
		consumer: consumer,
		sender:   sender,
		log:      log,
		done:     make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.log.Info().Msg("participant event reader started")

	go func() {
		defer close(r.done)

		if err := r.consumer.Consume(r.handle); err != nil {
			r.log.Error().Err(err).Msg("failed to start consuming")
			return
		}

		<-cctx.Done()
		r.log.Info().Msg("participant event reader stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}

// handle returns an error only when the message is worth redelivering.
func (r *Reader) handle(body []byte) error {
	var event dto.ParticipantEvent
	if err := json.Unmarshal(body, &event); err != nil {
		r.log.Error().Err(err).Str("body", string(body)).Msg("dropping malformed participant event")
		return nil
	}
	if event.Email == "" {
		r.log.Warn().Str("activity", event.Activity).Msg("dropping participant event without email")
		return nil
	}
	switch event.Kind {
	case dto.EventSignedUp, dto.EventUnregistered:
	default:
		r.log.Warn().Str("kind", event.Kind).Str("activity", event.Activity).Msg("dropping participant event of unknown kind")
		return nil
	}

	r.log.Info().
		Str("kind", event.Kind).
		Str("activity", event.Activity).
		Str("email", event.Email).
		Msg("received participant event")

	if err := r.sender.Send(event); err != nil {
		r.log.Warn().Err(err).Str("email", event.Email).Msg("failed to send participant notification")
		return err
	}
	return nil
}
