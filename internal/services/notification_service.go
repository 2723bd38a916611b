package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dias221467/Travel_Planner/internal/metrics"
	"github.com/Dias221467/Travel_Planner/internal/models"
	"github.com/Dias221467/Travel_Planner/internal/repository"
	"github.com/Dias221467/Travel_Planner/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItineraryEvent describes something an actor did to an itinerary that a recipient should hear about.
type ItineraryEvent struct {
	ActorID       primitive.ObjectID
	ActorName     string
	ItineraryID   primitive.ObjectID
	ItineraryName string
	RecipientID   primitive.ObjectID
	Role          string
}

// NotificationService turns domain events into persisted notifications.
type NotificationService struct {
	repo      NotificationStore
	outbox    NotificationOutbox
	publisher NotificationPublisher
}

// NewNotificationService creates a NotificationService. outbox and publisher are optional.
func NewNotificationService(repo NotificationStore, outbox NotificationOutbox, publisher NotificationPublisher) *NotificationService {
	return &NotificationService{
		repo:      repo,
		outbox:    outbox,
		publisher: publisher,
	}
}

// CreateNotification validates and persists exactly one notification. When the
// write fails and an outbox is configured the notification is queued for retry,
// but the write error is still returned.
func (s *NotificationService) CreateNotification(ctx context.Context, notif *models.Notification) error {
	if notif.UserID.IsZero() {
		return newError(ErrValidation, "notification recipient is required")
	}

	if err := s.repo.CreateNotification(ctx, notif); err != nil {
		metrics.NotificationsFailed.WithLabelValues(notif.Type).Inc()
		if s.outbox != nil {
			if qerr := s.outbox.Push(ctx, notif); qerr != nil {
				logger.Log.WithError(qerr).Error("Failed to queue notification for retry")
			} else {
				logger.Log.WithFields(logrus.Fields{
					"recipient": notif.UserID.Hex(),
					"type":      notif.Type,
				}).Warn("Notification queued for retry")
			}
		}
		return fmt.Errorf("failed to persist notification: %w", err)
	}

	metrics.NotificationsCreated.WithLabelValues(notif.Type).Inc()
	if s.publisher != nil {
		s.publisher.Publish(notif)
	}
	return nil
}

// notifyItinerary builds an itinerary notification. Self-actions never notify.
func (s *NotificationService) notifyItinerary(ctx context.Context, notifType, title, message string, ev ItineraryEvent) error {
	if ev.RecipientID.IsZero() {
		return newError(ErrValidation, "notification recipient is required")
	}
	if ev.RecipientID == ev.ActorID {
		return nil
	}

	itineraryID := ev.ItineraryID
	notif := &models.Notification{
		UserID:      ev.RecipientID,
		Type:        notifType,
		Title:       title,
		Message:     message,
		ItineraryID: &itineraryID,
	}
	if !ev.ActorID.IsZero() {
		actorID := ev.ActorID
		notif.SenderID = &actorID
	}
	return s.CreateNotification(ctx, notif)
}

func (s *NotificationService) NotifyInvite(ctx context.Context, ev ItineraryEvent) error {
	return s.notifyItinerary(ctx, models.NotificationInvite, "Itinerary invitation",
		fmt.Sprintf("%s invited you to join the itinerary \"%s\" as %s", ev.ActorName, ev.ItineraryName, ev.Role), ev)
}

func (s *NotificationService) NotifyItineraryUpdated(ctx context.Context, ev ItineraryEvent) error {
	return s.notifyItinerary(ctx, models.NotificationUpdate, "Itinerary updated",
		fmt.Sprintf("%s updated the itinerary \"%s\"", ev.ActorName, ev.ItineraryName), ev)
}

func (s *NotificationService) NotifyRoleUpdated(ctx context.Context, ev ItineraryEvent) error {
	return s.notifyItinerary(ctx, models.NotificationUpdate, "Role updated",
		fmt.Sprintf("%s changed your role in \"%s\" to %s", ev.ActorName, ev.ItineraryName, ev.Role), ev)
}

func (s *NotificationService) NotifyTravelerLeft(ctx context.Context, ev ItineraryEvent) error {
	return s.notifyItinerary(ctx, models.NotificationLeave, "Traveler left",
		fmt.Sprintf("%s left the itinerary \"%s\"", ev.ActorName, ev.ItineraryName), ev)
}

func (s *NotificationService) NotifyTravelerRemoved(ctx context.Context, ev ItineraryEvent) error {
	return s.notifyItinerary(ctx, models.NotificationTravelerRemoved, "Removed from itinerary",
		fmt.Sprintf("%s removed you from the itinerary \"%s\"", ev.ActorName, ev.ItineraryName), ev)
}

// NotifyFriendAdded tells recipientID that actorID added them as a friend.
func (s *NotificationService) NotifyFriendAdded(ctx context.Context, actorID primitive.ObjectID, actorName string, recipientID primitive.ObjectID) error {
	if recipientID.IsZero() {
		return newError(ErrValidation, "notification recipient is required")
	}
	if recipientID == actorID {
		return nil
	}
	return s.CreateNotification(ctx, &models.Notification{
		UserID:   recipientID,
		SenderID: &actorID,
		Type:     models.NotificationFriendAdded,
		Title:    "New friend",
		Message:  fmt.Sprintf("%s added you as a friend", actorName),
	})
}

// GetUserNotifications returns all notifications for a user
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return s.repo.GetUserNotifications(ctx, userID)
}

// MarkNotificationAsRead sets the "read" status of one of the user's notifications
func (s *NotificationService) MarkNotificationAsRead(ctx context.Context, notifID, userID primitive.ObjectID) error {
	err := s.repo.MarkAsRead(ctx, notifID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return newError(ErrNotFound, "notification not found")
	}
	return err
}

// DeleteNotification deletes one of the user's notifications
func (s *NotificationService) DeleteNotification(ctx context.Context, notifID, userID primitive.ObjectID) error {
	err := s.repo.DeleteNotification(ctx, notifID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return newError(ErrNotFound, "notification not found")
	}
	return err
}

// RetryPending drains up to batch queued notifications and tries to persist
// them again. Entries that reach maxAttempts are dropped.
func (s *NotificationService) RetryPending(ctx context.Context, batch, maxAttempts int) (int, error) {
	if s.outbox == nil {
		return 0, nil
	}

	entries, err := s.outbox.Pop(ctx, batch)
	if err != nil && len(entries) == 0 {
		return 0, err
	}

	delivered := 0
	for _, entry := range entries {
		notif := entry.Notification
		if werr := s.repo.CreateNotification(ctx, &notif); werr != nil {
			entry.Attempts++
			if entry.Attempts >= maxAttempts {
				metrics.OutboxRetries.WithLabelValues("dropped").Inc()
				logger.Log.WithError(werr).WithFields(logrus.Fields{
					"entry_id":  entry.ID,
					"recipient": notif.UserID.Hex(),
					"attempts":  entry.Attempts,
				}).Error("Dropping notification after repeated failures")
				continue
			}
			metrics.OutboxRetries.WithLabelValues("requeued").Inc()
			if qerr := s.outbox.Requeue(ctx, entry); qerr != nil {
				logger.Log.WithError(qerr).WithField("entry_id", entry.ID).Error("Failed to requeue notification")
			}
			continue
		}

		delivered++
		metrics.OutboxRetries.WithLabelValues("delivered").Inc()
		metrics.NotificationsCreated.WithLabelValues(notif.Type).Inc()
		if s.publisher != nil {
			s.publisher.Publish(&notif)
		}
	}

	if delivered > 0 {
		logger.Log.WithField("count", delivered).Info("Delivered queued notifications")
	}
	return delivered, err
}
