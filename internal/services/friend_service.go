package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dias221467/Travel_Planner/internal/models"
	"github.com/Dias221467/Travel_Planner/internal/repository"
	"github.com/Dias221467/Travel_Planner/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendNotifier is the part of the notification service the friend flow uses.
type FriendNotifier interface {
	NotifyFriendAdded(ctx context.Context, actorID primitive.ObjectID, actorName string, recipientID primitive.ObjectID) error
}

var _ FriendNotifier = (*NotificationService)(nil)

// FriendService handles business logic for managing friendships.
type FriendService struct {
	userRepo UserStore
	notifier FriendNotifier
}

// NewFriendService creates a new FriendService.
func NewFriendService(userRepo UserStore, notifier FriendNotifier) *FriendService {
	return &FriendService{
		userRepo: userRepo,
		notifier: notifier,
	}
}

// ToggleFriend adds friendID as a friend of userID (and vice versa), or removes
// the friendship when it already exists. It returns userID's new friend list
// and whether a friendship was created.
func (s *FriendService) ToggleFriend(ctx context.Context, userID primitive.ObjectID, friendID string) ([]primitive.ObjectID, bool, error) {
	friendObjID, err := parseID("user ID", friendID)
	if err != nil {
		return nil, false, err
	}
	if friendObjID == userID {
		return nil, false, newError(ErrBadRequest, "you cannot add yourself as a friend")
	}

	current, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, false, userLookupError(err)
	}
	if _, err := s.userRepo.GetUserByID(ctx, friendObjID); err != nil {
		return nil, false, userLookupError(err)
	}

	if current.HasFriend(friendObjID) {
		if err := s.userRepo.RemoveFriend(ctx, userID, friendObjID); err != nil {
			return nil, false, err
		}
		if err := s.userRepo.RemoveFriend(ctx, friendObjID, userID); err != nil {
			return nil, false, err
		}

		friends := make([]primitive.ObjectID, 0, len(current.Friends))
		for _, id := range current.Friends {
			if id != friendObjID {
				friends = append(friends, id)
			}
		}
		logger.Log.WithFields(logrus.Fields{"user_id": userID.Hex(), "friend_id": friendID}).Info("Friend removed")
		return friends, false, nil
	}

	// Friendship is symmetric: both lists are updated.
	if err := s.userRepo.AddFriend(ctx, userID, friendObjID); err != nil {
		return nil, false, err
	}
	if err := s.userRepo.AddFriend(ctx, friendObjID, userID); err != nil {
		return nil, false, err
	}

	if err := s.notifier.NotifyFriendAdded(ctx, userID, current.Name, friendObjID); err != nil {
		logger.Log.WithError(err).WithField("friend_id", friendID).Warn("Failed to send friend added notification")
	}

	logger.Log.WithFields(logrus.Fields{"user_id": userID.Hex(), "friend_id": friendID}).Info("Friend added")
	return append(append([]primitive.ObjectID{}, current.Friends...), friendObjID), true, nil
}

// GetFriends returns the public profiles of a user's friends.
func (s *FriendService) GetFriends(ctx context.Context, userID primitive.ObjectID) ([]models.PublicUser, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, userLookupError(err)
	}
	if len(user.Friends) == 0 {
		return []models.PublicUser{}, nil
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, user.Friends)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	publicFriends := make([]models.PublicUser, 0, len(users))
	for i := range users {
		publicFriends = append(publicFriends, users[i].Public())
	}
	return publicFriends, nil
}

func userLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return newError(ErrNotFound, "user not found")
	}
	return fmt.Errorf("failed to fetch user: %w", err)
}
