package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Dias221467/Travel_Planner/internal/models"
	"github.com/Dias221467/Travel_Planner/internal/services"
	"github.com/Dias221467/Travel_Planner/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ExperienceManager interface {
	CreateExperience(ctx context.Context, actorID primitive.ObjectID, exp *models.Experience) (*models.Experience, error)
	GetExperience(ctx context.Context, id string) (*models.Experience, error)
	ListExperiences(ctx context.Context, limit int64) ([]models.Experience, error)
}

var _ ExperienceManager = (*services.ExperienceService)(nil)

type ExperienceHandler struct {
	Service ExperienceManager
}

func NewExperienceHandler(service ExperienceManager) *ExperienceHandler {
	return &ExperienceHandler{Service: service}
}

func (h *ExperienceHandler) RegisterRoutes(router *mux.Router, jwtSecret string) {
	admin := router.PathPrefix("/experiences").Subrouter()
	admin.Use(middleware.AuthMiddleware(jwtSecret))
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.HandleFunc("", h.CreateExperienceHandler).Methods("POST")

	router.HandleFunc("/experiences", h.GetExperiencesHandler).Methods("GET")
	router.HandleFunc("/experiences/{id}", h.GetExperienceHandler).Methods("GET")
}

func (h *ExperienceHandler) CreateExperienceHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var exp models.Experience
	if err := decodeJSON(r, &exp); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	created, err := h.Service.CreateExperience(r.Context(), actor.ID, &exp)
	if err != nil {
		writeError(w, err, "Failed to create experience")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GET /experiences?limit=n
func (h *ExperienceHandler) GetExperiencesHandler(w http.ResponseWriter, r *http.Request) {
	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			writeMessage(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	exps, err := h.Service.ListExperiences(r.Context(), limit)
	if err != nil {
		writeError(w, err, "Failed to fetch experiences")
		return
	}
	writeJSON(w, http.StatusOK, exps)
}

func (h *ExperienceHandler) GetExperienceHandler(w http.ResponseWriter, r *http.Request) {
	exp, err := h.Service.GetExperience(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "Failed to fetch experience")
		return
	}
	writeJSON(w, http.StatusOK, exp)
}
