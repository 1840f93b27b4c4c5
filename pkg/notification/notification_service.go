package notification

import (
	"SaveByte/domain"
	"SaveByte/entities"
	"SaveByte/internal/metrics"
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Pusher delivers a payload to every live connection of a user. It reports
// whether at least one connection received it.
type Pusher interface {
	NotifyUser(userID string, payload any) bool
}

type (
	NotificationService interface {
		Notify(ctx context.Context, userID uuid.UUID, message, notificationType string) error
		NotifyMany(ctx context.Context, userIDs []uuid.UUID, message, notificationType string) error
		NotifyAll(ctx context.Context, notifications []*entities.Notification) error
		ListUnread(ctx context.Context, userID string) (domain.NotificationInbox, error)
		MarkAllRead(ctx context.Context, userID string) error
	}

	notificationService struct {
		notificationRepository NotificationRepository
		pusher                 Pusher
		logger                 zerolog.Logger
	}
)

func NewNotificationService(notificationRepository NotificationRepository, pusher Pusher, logger zerolog.Logger) NotificationService {
	return &notificationService{
		notificationRepository: notificationRepository,
		pusher:                 pusher,
		logger:                 logger,
	}
}

func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, message, notificationType string) error {
	return s.NotifyAll(ctx, []*entities.Notification{{
		UserID:  userID,
		Message: message,
		Type:    notificationType,
	}})
}

func (s *notificationService) NotifyMany(ctx context.Context, userIDs []uuid.UUID, message, notificationType string) error {
	notifications := make([]*entities.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		notifications = append(notifications, &entities.Notification{
			UserID:  id,
			Message: message,
			Type:    notificationType,
		})
	}
	return s.NotifyAll(ctx, notifications)
}

// NotifyAll stores the rows and then pushes each one to its owner's room.
// Nothing is pushed when the insert fails.
func (s *notificationService) NotifyAll(ctx context.Context, notifications []*entities.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	if err := s.notificationRepository.CreateNotifications(ctx, notifications); err != nil {
		metrics.NotificationsDelivered.WithLabelValues("inbox", "error").Add(float64(len(notifications)))
		return err
	}
	metrics.NotificationsDelivered.WithLabelValues("inbox", "ok").Add(float64(len(notifications)))

	if s.pusher == nil {
		return nil
	}
	for _, n := range notifications {
		delivered := s.pusher.NotifyUser(n.UserID.String(), domain.NotificationPayload{
			Message: n.Message,
			Type:    n.Type,
		})
		if delivered {
			metrics.NotificationsDelivered.WithLabelValues("realtime", "ok").Inc()
		} else {
			metrics.NotificationsDelivered.WithLabelValues("realtime", "offline").Inc()
			s.logger.Debug().Str("user_id", n.UserID.String()).Msg("user offline, notification kept in inbox")
		}
	}
	return nil
}

func (s *notificationService) ListUnread(ctx context.Context, userID string) (domain.NotificationInbox, error) {
	notifications, err := s.notificationRepository.GetUnreadNotifications(ctx, userID)
	if err != nil {
		return domain.NotificationInbox{}, err
	}

	count, err := s.notificationRepository.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return domain.NotificationInbox{}, err
	}

	responses := make([]domain.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, domain.NotificationResponse{
			ID:        n.ID.String(),
			Message:   n.Message,
			Type:      n.Type,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}

	return domain.NotificationInbox{
		Notifications: responses,
		UnreadCount:   count,
	}, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	updated, err := s.notificationRepository.MarkAllRead(ctx, userID)
	if err != nil {
		return err
	}
	s.logger.Debug().Str("user_id", userID).Int64("updated", updated).Msg("notifications marked read")
	return nil
}
