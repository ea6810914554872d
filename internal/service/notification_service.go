package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/timesheet-service/internal/config"
	"github.com/spec-kit/timesheet-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
// Delivery itself is an external collaborator; this service only formats
// and hands off through stubs.
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
	n.dispatcher.Subscribe(events.EventBillingRunCreated, n.handleRunCreated)
	n.dispatcher.Subscribe(events.EventBillingRunStatusChange, n.handleRunStatusChanged)
}

func (n *NotificationService) handleRunCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("BillingRunCreated", zap.String("run_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRunStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("BillingRunStatusChanged", zap.String("run_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("run_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("run_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
