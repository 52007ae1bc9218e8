package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/SagFerNando/TELNET/internal/events"
)

// NotificationService forwards domain events to subscribers: a structured
// log line always, and a Redis pub/sub channel when a client is configured.
// Delivery is best effort; clients can always poll the read endpoints.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	redis      *redis.Client
	channel    string
}

// NewNotificationService creates the service. redisClient may be nil.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, redisClient *redis.Client, channel string) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		redis:      redisClient,
		channel:    channel,
	}
}

// RegisterHandlers subscribes to all workflow and chat events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handle)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handle)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handle)
	n.dispatcher.Subscribe(events.EventMessageAdded, n.handle)
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.logger.Info("domain event",
		zap.String("type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor_id", event.Actor.ID))

	if n.redis == nil || n.channel == "" {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("encode event", zap.Error(err))
		return nil
	}
	if err := n.redis.Publish(ctx, n.channel, payload).Err(); err != nil {
		// broadcast is best effort only
		n.logger.Warn("publish event", zap.String("channel", n.channel), zap.Error(err))
	}
	return nil
}
