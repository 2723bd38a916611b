package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Dias221467/Travel_Planner/internal/models"
	"github.com/Dias221467/Travel_Planner/internal/repository"
	"github.com/Dias221467/Travel_Planner/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserService encapsulates the business logic for user operations.
type UserService struct {
	repo UserStore
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo UserStore) *UserService {
	return &UserService{
		repo: repo,
	}
}

// RegisterUser registers a new user after hashing their password.
func (s *UserService) RegisterUser(ctx context.Context, name, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		logger.Log.Warn("Missing required fields during registration")
		return nil, newError(ErrBadRequest, "name, email and password are required")
	}
	if !emailRegex.MatchString(email) {
		return nil, newError(ErrBadRequest, "invalid email format")
	}
	if len(password) < 6 {
		return nil, newError(ErrBadRequest, "password must be at least 6 characters")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user, err := s.repo.CreateUser(ctx, &models.User{
		Name:           name,
		Email:          email,
		HashedPassword: string(hashedPwd),
		Role:           models.RoleUser,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, newError(ErrConflict, "email already in use")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	logger.Log.WithField("userID", user.ID.Hex()).Info("User registered successfully")
	return user, nil
}

// AuthenticateUser checks the credentials and returns the matching user.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrUnauthorized, "invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, newError(ErrUnauthorized, "invalid email or password")
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, userLookupError(err)
	}
	return user, nil
}
