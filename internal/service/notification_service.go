package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/sharek-engine/internal/domain"
	"github.com/spec-kit/sharek-engine/internal/events"
	"github.com/spec-kit/sharek-engine/internal/repository"
)

// NotificationService turns domain events into inbox notifications.
type NotificationService struct {
	dispatcher events.Dispatcher
	users      repository.UserRepository
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, users repository.UserRepository, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		users:      users,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAppointmentScheduled, n.handleAppointmentScheduled)
	n.dispatcher.Subscribe(events.EventIdeaCreated, n.handleIdeaCreated)
	n.dispatcher.Subscribe(events.EventCommentAdded, n.handleCommentAdded)
}

// handleAppointmentScheduled confirms the booking in the user's inbox unless
// the user switched in-app notifications off.
func (n *NotificationService) handleAppointmentScheduled(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AppointmentScheduledPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}

	user, err := n.users.GetUser(ctx, event.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if !user.Settings.Notifications {
		n.logger.Debug("notifications disabled; skipping appointment confirmation", zap.String("email", event.Subject))
		return nil
	}

	_, err = n.users.AddNotification(ctx, event.Subject, repository.NotificationInput{
		Title:   "Appointment booked",
		Message: fmt.Sprintf("Your %s appointment on %s is scheduled.", payload.Service, payload.Date),
		Type:    domain.NotificationSuccess,
	})
	return err
}

func (n *NotificationService) handleIdeaCreated(_ context.Context, event events.Event) error {
	n.logger.Info("IdeaCreated", zap.String("idea_id", event.Subject), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleCommentAdded(_ context.Context, event events.Event) error {
	n.logger.Info("CommentAdded", zap.String("idea_id", event.Subject), zap.Any("payload", event.Payload))
	return nil
}
