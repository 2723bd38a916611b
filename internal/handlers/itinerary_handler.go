package handlers

import (
	"context"
	"net/http"

	"github.com/Dias221467/Travel_Planner/internal/models"
	"github.com/Dias221467/Travel_Planner/internal/services"
	"github.com/Dias221467/Travel_Planner/pkg/logger"
	"github.com/Dias221467/Travel_Planner/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItineraryManager is what the itinerary routes need from the service layer.
type ItineraryManager interface {
	CreateItinerary(ctx context.Context, actor services.Actor, req models.ItineraryCreate) (*models.Itinerary, error)
	GetItinerary(ctx context.Context, id string) (*models.ItineraryDetail, error)
	GetItineraryForEdit(ctx context.Context, id string) (*models.ItineraryEdit, error)
	ListItineraries(ctx context.Context) ([]models.ItineraryEdit, error)
	ListOwnedItineraries(ctx context.Context, userID primitive.ObjectID) ([]models.ItineraryEdit, error)
	ListInvitedItineraries(ctx context.Context, userID primitive.ObjectID) ([]models.ItineraryEdit, error)
	UpdateItinerary(ctx context.Context, actor services.Actor, id string, req models.ItineraryUpdate) (*models.ItineraryEdit, error)
	DeleteItinerary(ctx context.Context, id string) error
	AddTraveler(ctx context.Context, actor services.Actor, id, userID, role string) (*models.Itinerary, error)
	UpdateTravelerRole(ctx context.Context, actor services.Actor, id, travelerID, role string) (*models.Itinerary, error)
	LeaveItinerary(ctx context.Context, actor services.Actor, id string) (*models.Itinerary, error)
	RemoveTraveler(ctx context.Context, actor services.Actor, id, travelerID string) (*models.Itinerary, error)
}

var _ ItineraryManager = (*services.ItineraryService)(nil)

// ItineraryHandler serves /itineraries.
type ItineraryHandler struct {
	Service ItineraryManager
}

func NewItineraryHandler(service ItineraryManager) *ItineraryHandler {
	return &ItineraryHandler{Service: service}
}

// RegisterRoutes mounts the itinerary routes. Static segments are registered
// before /{id} so that /mine and /invited are not captured as ids.
func (h *ItineraryHandler) RegisterRoutes(router *mux.Router, jwtSecret string) {
	protected := router.PathPrefix("/itineraries").Subrouter()
	protected.Use(middleware.AuthMiddleware(jwtSecret))
	protected.HandleFunc("", h.CreateItineraryHandler).Methods("POST")
	protected.HandleFunc("/mine", h.GetMyItinerariesHandler).Methods("GET")
	protected.HandleFunc("/invited", h.GetInvitedItinerariesHandler).Methods("GET")
	protected.HandleFunc("/{id}/leave", h.LeaveItineraryHandler).Methods("POST")
	protected.HandleFunc("/{id}/travelers", h.AddTravelerHandler).Methods("POST")
	protected.HandleFunc("/{id}/travelers", h.UpdateTravelerRoleHandler).Methods("PUT")
	protected.HandleFunc("/{id}/travelers", h.RemoveTravelerHandler).Methods("DELETE")

	public := router.PathPrefix("/itineraries").Subrouter()
	public.Use(middleware.OptionalAuthMiddleware(jwtSecret))
	public.HandleFunc("", h.GetItinerariesHandler).Methods("GET")
	public.HandleFunc("/{id}/edit", h.GetItineraryForEditHandler).Methods("GET")
	public.HandleFunc("/{id}", h.GetItineraryHandler).Methods("GET")
	public.HandleFunc("/{id}", h.UpdateItineraryHandler).Methods("PUT")
	public.HandleFunc("/{id}", h.DeleteItineraryHandler).Methods("DELETE")
}

// POST /itineraries
func (h *ItineraryHandler) CreateItineraryHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req models.ItineraryCreate
	if err := decodeJSON(r, &req); err != nil {
		logger.Log.WithError(err).Warn("Failed to decode itinerary create request")
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	it, err := h.Service.CreateItinerary(r.Context(), actor, req)
	if err != nil {
		writeError(w, err, "Failed to create itinerary")
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

// GET /itineraries
func (h *ItineraryHandler) GetItinerariesHandler(w http.ResponseWriter, r *http.Request) {
	its, err := h.Service.ListItineraries(r.Context())
	if err != nil {
		writeError(w, err, "Failed to fetch itineraries")
		return
	}
	writeJSON(w, http.StatusOK, its)
}

// GET /itineraries/mine
func (h *ItineraryHandler) GetMyItinerariesHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	its, err := h.Service.ListOwnedItineraries(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err, "Failed to fetch itineraries")
		return
	}
	writeJSON(w, http.StatusOK, its)
}

// GET /itineraries/invited
func (h *ItineraryHandler) GetInvitedItinerariesHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	its, err := h.Service.ListInvitedItineraries(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err, "Failed to fetch invited itineraries")
		return
	}
	writeJSON(w, http.StatusOK, its)
}

// GET /itineraries/{id}
func (h *ItineraryHandler) GetItineraryHandler(w http.ResponseWriter, r *http.Request) {
	it, err := h.Service.GetItinerary(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "Failed to fetch itinerary")
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// GET /itineraries/{id}/edit
func (h *ItineraryHandler) GetItineraryForEditHandler(w http.ResponseWriter, r *http.Request) {
	it, err := h.Service.GetItineraryForEdit(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "Failed to fetch itinerary")
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// PUT /itineraries/{id}
func (h *ItineraryHandler) UpdateItineraryHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ItineraryUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	it, err := h.Service.UpdateItinerary(r.Context(), actorFromRequest(r), mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, err, "Failed to update itinerary")
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// DELETE /itineraries/{id}
func (h *ItineraryHandler) DeleteItineraryHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Service.DeleteItinerary(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete itinerary")
		return
	}
	logger.Log.WithField("itinerary_id", id).Info("Itinerary deleted")
	writeMessage(w, http.StatusOK, "Itinerary deleted successfully")
}

// POST /itineraries/{id}/leave
func (h *ItineraryHandler) LeaveItineraryHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	it, err := h.Service.LeaveItinerary(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "Failed to leave itinerary")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "You have left the itinerary",
		"itinerary": it,
	})
}

type travelerRequest struct {
	UserID     string `json:"userId"`
	TravelerID string `json:"travelerId"`
	Role       string `json:"role"`
}

// POST /itineraries/{id}/travelers
func (h *ItineraryHandler) AddTravelerHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req travelerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	it, err := h.Service.AddTraveler(r.Context(), actor, mux.Vars(r)["id"], req.UserID, req.Role)
	if err != nil {
		writeError(w, err, "Failed to add traveler")
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// PUT /itineraries/{id}/travelers
func (h *ItineraryHandler) UpdateTravelerRoleHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req travelerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	it, err := h.Service.UpdateTravelerRole(r.Context(), actor, mux.Vars(r)["id"], req.TravelerID, req.Role)
	if err != nil {
		writeError(w, err, "Failed to update traveler role")
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// DELETE /itineraries/{id}/travelers
func (h *ItineraryHandler) RemoveTravelerHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req travelerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	id := mux.Vars(r)["id"]
	it, err := h.Service.RemoveTraveler(r.Context(), actor, id, req.TravelerID)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"itinerary_id": id,
			"traveler_id":  req.TravelerID,
			"actor_id":     actor.ID.Hex(),
		}).WithError(err).Warn("Remove traveler failed")
		writeError(w, err, "Failed to remove traveler")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Traveler removed successfully",
		"itinerary": it,
	})
}
