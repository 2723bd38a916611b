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

// FavoriteService manages the experiences users save.
type FavoriteService struct {
	repo        FavoriteStore
	experiences ExperienceStore
}

func NewFavoriteService(repo FavoriteStore, experiences ExperienceStore) *FavoriteService {
	return &FavoriteService{repo: repo, experiences: experiences}
}

// AddFavorite saves an experience for the user.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID primitive.ObjectID, experienceID string) (*models.Favorite, error) {
	expID, err := parseID("experienceId", experienceID)
	if err != nil {
		return nil, err
	}

	if _, err := s.experiences.GetExperienceByID(ctx, expID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "experience not found")
		}
		return nil, fmt.Errorf("failed to fetch experience: %w", err)
	}

	fav, err := s.repo.CreateFavorite(ctx, &models.Favorite{UserID: userID, ExperienceID: expID})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, newError(ErrConflict, "experience already in favorites")
	}
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":       userID.Hex(),
		"experience_id": experienceID,
	}).Info("Favorite added")
	return fav, nil
}

// RemoveFavorite deletes the user's favorite for an experience.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID primitive.ObjectID, experienceID string) error {
	expID, err := parseID("experienceId", experienceID)
	if err != nil {
		return err
	}
	err = s.repo.DeleteFavorite(ctx, userID, expID)
	if errors.Is(err, repository.ErrNotFound) {
		return newError(ErrNotFound, "favorite not found")
	}
	return err
}

// GetUserFavorites returns a user's favorites with experiences expanded.
// Favorites pointing at deleted experiences are left out.
func (s *FavoriteService) GetUserFavorites(ctx context.Context, userID string) ([]models.FavoriteWithExperience, error) {
	uid, err := parseID("user ID", userID)
	if err != nil {
		return nil, err
	}

	favorites, err := s.repo.GetFavoritesByUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	expIDs := make([]primitive.ObjectID, 0, len(favorites))
	for _, f := range favorites {
		expIDs = append(expIDs, f.ExperienceID)
	}
	experiences, err := s.experiences.GetExperiencesByIDs(ctx, uniqueIDs(expIDs))
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.Experience, len(experiences))
	for _, e := range experiences {
		byID[e.ID] = e
	}

	out := make([]models.FavoriteWithExperience, 0, len(favorites))
	for _, f := range favorites {
		exp, ok := byID[f.ExperienceID]
		if !ok {
			continue
		}
		out = append(out, models.FavoriteWithExperience{
			ID:         f.ID,
			UserID:     f.UserID,
			Experience: &exp,
			CreatedAt:  f.CreatedAt,
		})
	}
	return out, nil
}

// CountFavorites returns how many users saved the experience.
func (s *FavoriteService) CountFavorites(ctx context.Context, experienceID string) (int64, error) {
	expID, err := parseID("experience ID", experienceID)
	if err != nil {
		return 0, err
	}
	return s.repo.CountByExperience(ctx, expID)
}
