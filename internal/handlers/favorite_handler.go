package handlers

import (
	"context"
	"net/http"

	"github.com/Dias221467/Travel_Planner/internal/models"
	"github.com/Dias221467/Travel_Planner/internal/services"
	"github.com/Dias221467/Travel_Planner/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FavoriteManager interface {
	AddFavorite(ctx context.Context, userID primitive.ObjectID, experienceID string) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, userID primitive.ObjectID, experienceID string) error
	GetUserFavorites(ctx context.Context, userID string) ([]models.FavoriteWithExperience, error)
	CountFavorites(ctx context.Context, experienceID string) (int64, error)
}

var _ FavoriteManager = (*services.FavoriteService)(nil)

type FavoriteHandler struct {
	Service FavoriteManager
}

func NewFavoriteHandler(service FavoriteManager) *FavoriteHandler {
	return &FavoriteHandler{Service: service}
}

func (h *FavoriteHandler) RegisterRoutes(router *mux.Router, jwtSecret string) {
	router.HandleFunc("/favorites/count/{experienceId}", h.CountFavoritesHandler).Methods("GET")

	protected := router.PathPrefix("/favorites").Subrouter()
	protected.Use(middleware.AuthMiddleware(jwtSecret))
	protected.HandleFunc("", h.AddFavoriteHandler).Methods("POST")
	protected.HandleFunc("", h.RemoveFavoriteHandler).Methods("DELETE")
	protected.HandleFunc("/user/{userId}", h.GetUserFavoritesHandler).Methods("GET")
	protected.HandleFunc("/{userId}", h.GetUserFavoritesHandler).Methods("GET")
}

type favoriteRequest struct {
	ExperienceID string `json:"experienceId"`
}

// POST /favorites
func (h *FavoriteHandler) AddFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req favoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	fav, err := h.Service.AddFavorite(r.Context(), actor.ID, req.ExperienceID)
	if err != nil {
		writeError(w, err, "Failed to add favorite")
		return
	}
	writeJSON(w, http.StatusCreated, fav)
}

// DELETE /favorites
func (h *FavoriteHandler) RemoveFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req favoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.Service.RemoveFavorite(r.Context(), actor.ID, req.ExperienceID); err != nil {
		writeError(w, err, "Failed to remove favorite")
		return
	}
	writeMessage(w, http.StatusOK, "Favorite removed")
}

// GET /favorites/user/{userId}
func (h *FavoriteHandler) GetUserFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	favs, err := h.Service.GetUserFavorites(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err, "Failed to fetch favorites")
		return
	}
	writeJSON(w, http.StatusOK, favs)
}

// GET /favorites/count/{experienceId}
func (h *FavoriteHandler) CountFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.Service.CountFavorites(r.Context(), mux.Vars(r)["experienceId"])
	if err != nil {
		writeError(w, err, "Failed to count favorites")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}
