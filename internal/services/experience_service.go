package services

import (
	"context"
	"errors"

	"github.com/Dias221467/Travel_Planner/internal/models"
	"github.com/Dias221467/Travel_Planner/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ExperienceService struct {
	repo ExperienceStore
}

func NewExperienceService(repo ExperienceStore) *ExperienceService {
	return &ExperienceService{repo: repo}
}

func (s *ExperienceService) CreateExperience(ctx context.Context, actorID primitive.ObjectID, exp *models.Experience) (*models.Experience, error) {
	if exp.Title == "" {
		return nil, newError(ErrBadRequest, "experience title is required")
	}
	exp.ID = primitive.NilObjectID
	exp.CreatedBy = actorID
	return s.repo.CreateExperience(ctx, exp)
}

func (s *ExperienceService) GetExperience(ctx context.Context, id string) (*models.Experience, error) {
	objID, err := parseID("experience ID", id)
	if err != nil {
		return nil, err
	}
	exp, err := s.repo.GetExperienceByID(ctx, objID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "experience not found")
	}
	return exp, err
}

func (s *ExperienceService) ListExperiences(ctx context.Context, limit int64) ([]models.Experience, error) {
	return s.repo.GetAllExperiences(ctx, limit)
}
