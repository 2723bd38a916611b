package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/Dias221467/Travel_Planner/internal/handlers"
	"github.com/Dias221467/Travel_Planner/internal/models"
	"github.com/Dias221467/Travel_Planner/internal/services"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockFavoriteManager struct {
	addFn    func(ctx context.Context, userID primitive.ObjectID, experienceID string) (*models.Favorite, error)
	removeFn func(ctx context.Context, userID primitive.ObjectID, experienceID string) error
	listFn   func(ctx context.Context, userID string) ([]models.FavoriteWithExperience, error)
	countFn  func(ctx context.Context, experienceID string) (int64, error)
}

var _ handlers.FavoriteManager = (*mockFavoriteManager)(nil)

func (m *mockFavoriteManager) AddFavorite(ctx context.Context, userID primitive.ObjectID, experienceID string) (*models.Favorite, error) {
	return m.addFn(ctx, userID, experienceID)
}
func (m *mockFavoriteManager) RemoveFavorite(ctx context.Context, userID primitive.ObjectID, experienceID string) error {
	return m.removeFn(ctx, userID, experienceID)
}
func (m *mockFavoriteManager) GetUserFavorites(ctx context.Context, userID string) ([]models.FavoriteWithExperience, error) {
	return m.listFn(ctx, userID)
}
func (m *mockFavoriteManager) CountFavorites(ctx context.Context, experienceID string) (int64, error) {
	return m.countFn(ctx, experienceID)
}

func TestFavoriteHandlers(t *testing.T) {
	me := primitive.NewObjectID()
	expID := primitive.NewObjectID()
	var listedFor []string
	m := &mockFavoriteManager{
		addFn: func(_ context.Context, userID primitive.ObjectID, experienceID string) (*models.Favorite, error) {
			if experienceID == expID.Hex() {
				return nil, fmt.Errorf("%w: experience already in favorites", services.ErrConflict)
			}
			return &models.Favorite{ID: primitive.NewObjectID(), UserID: userID}, nil
		},
		removeFn: func(context.Context, primitive.ObjectID, string) error {
			return fmt.Errorf("%w: favorite not found", services.ErrNotFound)
		},
		listFn: func(_ context.Context, userID string) ([]models.FavoriteWithExperience, error) {
			listedFor = append(listedFor, userID)
			return []models.FavoriteWithExperience{}, nil
		},
		countFn: func(_ context.Context, experienceID string) (int64, error) {
			return 7, nil
		},
	}
	router := mux.NewRouter()
	handlers.NewFavoriteHandler(m).RegisterRoutes(router, testSecret)
	tok := tokenFor(t, me, models.RoleUser)

	rr := do(t, router, http.MethodPost, "/favorites", tok, `{"experienceId":"`+primitive.NewObjectID().Hex()+`"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, router, http.MethodPost, "/favorites", tok, `{"experienceId":"`+expID.Hex()+`"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, router, http.MethodDelete, "/favorites", tok, `{"experienceId":"`+expID.Hex()+`"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, router, http.MethodGet, "/favorites/count/"+expID.Hex(), "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"count":7}`, rr.Body.String())

	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/favorites/user/"+me.Hex(), tok, "").Code)
	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/favorites/"+me.Hex(), tok, "").Code)
	assert.Equal(t, []string{me.Hex(), me.Hex()}, listedFor)

	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/favorites/"+me.Hex(), "", "").Code)
}

type mockExperienceManager struct {
	created int
}

var _ handlers.ExperienceManager = (*mockExperienceManager)(nil)

func (m *mockExperienceManager) CreateExperience(_ context.Context, actorID primitive.ObjectID, exp *models.Experience) (*models.Experience, error) {
	m.created++
	exp.ID = primitive.NewObjectID()
	exp.CreatedBy = actorID
	return exp, nil
}
func (m *mockExperienceManager) GetExperience(_ context.Context, id string) (*models.Experience, error) {
	return nil, fmt.Errorf("%w: experience not found", services.ErrNotFound)
}
func (m *mockExperienceManager) ListExperiences(_ context.Context, limit int64) ([]models.Experience, error) {
	return make([]models.Experience, limit), nil
}

func TestExperienceHandlers(t *testing.T) {
	m := &mockExperienceManager{}
	router := mux.NewRouter()
	handlers.NewExperienceHandler(m).RegisterRoutes(router, testSecret)

	rr := do(t, router, http.MethodPost, "/experiences", tokenFor(t, primitive.NewObjectID(), models.RoleUser), `{"title":"Tea"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Zero(t, m.created)

	rr = do(t, router, http.MethodPost, "/experiences", tokenFor(t, primitive.NewObjectID(), models.RoleAdmin), `{"title":"Tea"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, 1, m.created)

	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/experiences?limit=2", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/experiences?limit=abc", "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/experiences/"+primitive.NewObjectID().Hex(), "", "").Code)
}
