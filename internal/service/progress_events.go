package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pathfinder-api/internal/observability"
)

// EventAssessmentCompleted is published after an attempt is scored.
const EventAssessmentCompleted = "assessment.completed"

// ProgressEvent describes a change to a user's assessment history.
type ProgressEvent struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Source       string    `json:"source"`
	UserID       uint      `json:"user_id"`
	AssessmentID uint      `json:"assessment_id"`
	ProgressID   uint      `json:"progress_id"`
	Category     string    `json:"category"`
	Score        float64   `json:"score"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// ProgressEventHandler reacts to events published by other nodes.
type ProgressEventHandler func(ctx context.Context, event ProgressEvent)

// ProgressEventPublisher fans progress events out over Redis pub/sub and NATS.
type ProgressEventPublisher interface {
	Publish(ctx context.Context, event ProgressEvent) error
	Start(ctx context.Context)
}

type progressEventBus struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	queueGroup   string
	handlers     []ProgressEventHandler
	nodeID       string
	logger       zerolog.Logger
}

// NewProgressEventBus constructs the publisher. Either transport may be nil; with neither, Publish is a no-op.
func NewProgressEventBus(redisClient *redis.Client, channelBase string, natsConn *nats.Conn, logger zerolog.Logger, handlers ...ProgressEventHandler) ProgressEventPublisher {
	base := strings.TrimSpace(channelBase)
	if base == "" {
		base = "pathfinder"
	}

	return &progressEventBus{
		redis:        redisClient,
		redisChannel: base + ":progress",
		nats:         natsConn,
		natsSubject:  strings.ReplaceAll(base, ":", ".") + ".progress",
		queueGroup:   base + "-progress",
		handlers:     handlers,
		nodeID:       uuid.NewString(),
		logger:       logger.With().Str("component", "progress_events").Logger(),
	}
}

func (b *progressEventBus) Start(ctx context.Context) {
	if len(b.handlers) == 0 {
		return
	}
	if b.redis != nil {
		go b.consumeRedis(ctx)
	}
	if b.nats != nil {
		b.consumeNATS(ctx)
	}
}

func (b *progressEventBus) Publish(ctx context.Context, event ProgressEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Type == "" {
		event.Type = EventAssessmentCompleted
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	event.Source = b.nodeID

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	var errs []error
	if b.redis != nil {
		if err := b.redis.Publish(ctx, b.redisChannel, payload).Err(); err != nil {
			errs = append(errs, err)
		} else {
			observability.EventsPublished().WithLabelValues("redis", event.Type).Inc()
		}
	}
	if b.nats != nil {
		if err := b.nats.Publish(b.natsSubject, payload); err != nil {
			errs = append(errs, err)
		} else {
			observability.EventsPublished().WithLabelValues("nats", event.Type).Inc()
		}
	}

	return errors.Join(errs...)
}

func (b *progressEventBus) consumeRedis(ctx context.Context) {
	pubsub := b.redis.Subscribe(ctx, b.redisChannel)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			b.logger.Error().Err(err).Msg("progress redis subscription closed")
			return
		}
		b.handle(ctx, "redis", []byte(msg.Payload))
	}
}

func (b *progressEventBus) consumeNATS(ctx context.Context) {
	sub, err := b.nats.QueueSubscribe(b.natsSubject, b.queueGroup, func(msg *nats.Msg) {
		b.handle(ctx, "nats", msg.Data)
	})
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to subscribe to progress subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			b.logger.Warn().Err(err).Msg("failed to drain progress subscription")
		}
	}()
}

func (b *progressEventBus) handle(ctx context.Context, transport string, payload []byte) {
	var event ProgressEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		b.logger.Warn().Err(err).Str("transport", transport).Msg("invalid progress event payload")
		return
	}
	if event.Source == b.nodeID {
		return
	}

	observability.EventsReceived().WithLabelValues(transport, event.Type).Inc()
	for _, handler := range b.handlers {
		handler(ctx, event)
	}
}

// InvalidateOnProgress drops a user's cached recommendations when another node completes an attempt.
func InvalidateOnProgress(cache CacheInvalidator, logger zerolog.Logger) ProgressEventHandler {
	return func(ctx context.Context, event ProgressEvent) {
		if event.Type != EventAssessmentCompleted || event.UserID == 0 {
			return
		}
		if err := cache.Invalidate(ctx, event.UserID); err != nil {
			logger.Warn().Err(err).Uint("user_id", event.UserID).Msg("failed to invalidate recommendations for remote event")
		}
	}
}
