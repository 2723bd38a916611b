package handlers

import (
	"context"
	"net/http"

	"github.com/Dias221467/Travel_Planner/internal/config"
	"github.com/Dias221467/Travel_Planner/internal/models"
	"github.com/Dias221467/Travel_Planner/internal/services"
	jwtutil "github.com/Dias221467/Travel_Planner/pkg/jwt"
	"github.com/Dias221467/Travel_Planner/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserManager interface {
	RegisterUser(ctx context.Context, name, email, password string) (*models.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type FriendManager interface {
	ToggleFriend(ctx context.Context, userID primitive.ObjectID, friendID string) ([]primitive.ObjectID, bool, error)
	GetFriends(ctx context.Context, userID primitive.ObjectID) ([]models.PublicUser, error)
}

var (
	_ UserManager   = (*services.UserService)(nil)
	_ FriendManager = (*services.FriendService)(nil)
)

// UserHandler handles HTTP requests related to users and their friends.
type UserHandler struct {
	Users   UserManager
	Friends FriendManager
	Config  *config.Config
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(users UserManager, friends FriendManager, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Users:   users,
		Friends: friends,
		Config:  cfg,
	}
}

func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users/register", h.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", h.LoginUserHandler).Methods("POST")

	protected := router.PathPrefix("/users").Subrouter()
	protected.Use(middleware.AuthMiddleware(h.Config.JWTSecret))
	protected.HandleFunc("/profile", h.GetProfileHandler).Methods("GET")
	protected.HandleFunc("/friends", h.GetFriendsHandler).Methods("GET")
	protected.HandleFunc("/toggleFriend/{userId}", h.ToggleFriendHandler).Methods("POST")
}

// RegisterUserHandler handles user registration.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		log.WithError(err).Warn("Failed to decode user registration request")
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.Users.RegisterUser(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err, "Failed to register user")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// LoginUserHandler handles user login.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &credentials); err != nil {
		log.WithError(err).Warn("Failed to decode login request")
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.Users.AuthenticateUser(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		log.WithField("email", credentials.Email).WithError(err).Warn("Authentication failed")
		writeError(w, err, "Failed to log in")
		return
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, user.Role, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate JWT token")
		writeMessage(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User logged in successfully")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// GET /users/profile
func (h *UserHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	user, err := h.Users.GetUser(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err, "Failed to fetch profile")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// POST /users/toggleFriend/{userId}
func (h *UserHandler) ToggleFriendHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	friends, added, err := h.Friends.ToggleFriend(r.Context(), actor.ID, mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err, "Failed to update friends")
		return
	}

	message := "Friend removed"
	if added {
		message = "Friend added"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": message,
		"friends": friends,
	})
}

// GET /users/friends
func (h *UserHandler) GetFriendsHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	friends, err := h.Friends.GetFriends(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err, "Failed to fetch friends")
		return
	}
	writeJSON(w, http.StatusOK, friends)
}
