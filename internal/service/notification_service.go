package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/config"
	"github.com/spec-kit/moderation-service/internal/events"
)

// NotificationService emits operator and user notifications for moderation
// events. Delivery is stubbed to logging plus the configured endpoints.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventDecisionRecorded, n.handleDecisionRecorded)
	n.dispatcher.Subscribe(events.EventEntitySuspended, n.handleEntitySuspended)
	n.dispatcher.Subscribe(events.EventBulkCompleted, n.handleBulkCompleted)
}

func (n *NotificationService) handleDecisionRecorded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DecisionRecordedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("DecisionRecorded",
		zap.String("queue_id", event.QueueID),
		zap.String("action", payload.Action),
		zap.String("actor", payload.Actor),
		zap.Bool("durable", payload.Durable))

	if payload.NotifyUser {
		n.sendEmailNotificationStub(ctx, event, payload)
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleEntitySuspended(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DecisionRecordedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("EntitySuspended",
		zap.String("queue_id", event.QueueID),
		zap.String("kind", string(event.Kind)),
		zap.String("actor", payload.Actor))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleBulkCompleted(ctx context.Context, event events.Event) error {
	n.logger.Info("BulkCompleted", zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event, payload events.DecisionRecordedPayload) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("queue_id", event.QueueID),
		zap.String("action", payload.Action))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
