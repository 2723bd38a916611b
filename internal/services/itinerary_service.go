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
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the authenticated user performing an operation. A zero ID means anonymous.
type Actor struct {
	ID   primitive.ObjectID
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// ItineraryNotifier is the part of the notification service the itinerary flow uses.
type ItineraryNotifier interface {
	NotifyInvite(ctx context.Context, ev ItineraryEvent) error
	NotifyItineraryUpdated(ctx context.Context, ev ItineraryEvent) error
	NotifyRoleUpdated(ctx context.Context, ev ItineraryEvent) error
	NotifyTravelerLeft(ctx context.Context, ev ItineraryEvent) error
	NotifyTravelerRemoved(ctx context.Context, ev ItineraryEvent) error
}

var _ ItineraryNotifier = (*NotificationService)(nil)

// ItineraryService owns itineraries and their traveler rosters.
type ItineraryService struct {
	repo     ItineraryStore
	users    UserStore
	notifier ItineraryNotifier
	pop      *populator
}

// NewItineraryService creates a new instance of ItineraryService.
func NewItineraryService(repo ItineraryStore, users UserStore, favorites FavoriteStore, experiences ExperienceStore, notifier ItineraryNotifier) *ItineraryService {
	return &ItineraryService{
		repo:     repo,
		users:    users,
		notifier: notifier,
		pop:      &populator{users: users, favorites: favorites, experiences: experiences},
	}
}

// CreateItinerary stores a new itinerary owned by the actor and invites every
// traveler other than the owner.
func (s *ItineraryService) CreateItinerary(ctx context.Context, actor Actor, req models.ItineraryCreate) (*models.Itinerary, error) {
	if req.Name == "" {
		return nil, newError(ErrBadRequest, "itinerary name is required")
	}

	travelers := make([]models.Traveler, 0, len(req.Travelers))
	seen := map[primitive.ObjectID]bool{}
	for _, t := range req.Travelers {
		if t.UserID.IsZero() {
			return nil, newError(ErrBadRequest, "traveler userId is required")
		}
		role, err := normalizeRole(t.Role)
		if err != nil {
			return nil, err
		}
		if seen[t.UserID] {
			continue
		}
		seen[t.UserID] = true
		travelers = append(travelers, models.Traveler{UserID: t.UserID, Role: role})
	}

	isPrivate := true
	if req.IsPrivate != nil {
		isPrivate = *req.IsPrivate
	}

	it, err := s.repo.CreateItinerary(ctx, &models.Itinerary{
		Name:        req.Name,
		TravelDays:  req.TravelDays,
		TotalBudget: req.TotalBudget,
		Notes:       req.Notes,
		IsPrivate:   isPrivate,
		Boards:      req.Boards,
		Travelers:   travelers,
		OwnerID:     actor.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create itinerary: %w", err)
	}

	if len(travelers) > 0 {
		actorName := s.actorName(ctx, actor.ID)
		for _, t := range travelers {
			if t.UserID == actor.ID {
				continue
			}
			s.notify(ctx, "invite", s.notifier.NotifyInvite, s.event(actor.ID, actorName, it, t.UserID, t.Role))
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"itinerary_id": it.ID.Hex(),
		"owner_id":     actor.ID.Hex(),
		"travelers":    len(travelers),
	}).Info("Itinerary created")
	return it, nil
}

// GetItinerary returns an itinerary with owner, travelers and board favorites resolved.
func (s *ItineraryService) GetItinerary(ctx context.Context, id string) (*models.ItineraryDetail, error) {
	it, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	j, err := s.pop.load(ctx, *it)
	if err != nil {
		return nil, err
	}
	return j.detail(it), nil
}

// GetItineraryForEdit returns an itinerary with full favorite documents.
func (s *ItineraryService) GetItineraryForEdit(ctx context.Context, id string) (*models.ItineraryEdit, error) {
	it, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	j, err := s.pop.load(ctx, *it)
	if err != nil {
		return nil, err
	}
	return j.edit(it), nil
}

// ListItineraries returns every itinerary.
func (s *ItineraryService) ListItineraries(ctx context.Context) ([]models.ItineraryEdit, error) {
	its, err := s.repo.GetAllItineraries(ctx)
	if err != nil {
		return nil, err
	}
	return s.populateAll(ctx, its)
}

// ListOwnedItineraries returns the itineraries created by userID.
func (s *ItineraryService) ListOwnedItineraries(ctx context.Context, userID primitive.ObjectID) ([]models.ItineraryEdit, error) {
	its, err := s.repo.GetItinerariesByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.populateAll(ctx, its)
}

// ListInvitedItineraries returns the itineraries where userID is on the roster.
func (s *ItineraryService) ListInvitedItineraries(ctx context.Context, userID primitive.ObjectID) ([]models.ItineraryEdit, error) {
	its, err := s.repo.GetItinerariesByTraveler(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.populateAll(ctx, its)
}

func (s *ItineraryService) populateAll(ctx context.Context, its []models.Itinerary) ([]models.ItineraryEdit, error) {
	out := make([]models.ItineraryEdit, 0, len(its))
	if len(its) == 0 {
		return out, nil
	}
	j, err := s.pop.load(ctx, its...)
	if err != nil {
		return nil, err
	}
	for i := range its {
		out = append(out, *j.edit(&its[i]))
	}
	return out, nil
}

// UpdateItinerary merges the provided fields into the stored itinerary and
// tells every traveler except the actor. It returns the edit view.
func (s *ItineraryService) UpdateItinerary(ctx context.Context, actor Actor, id string, req models.ItineraryUpdate) (*models.ItineraryEdit, error) {
	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateItineraryFields(ctx, existing.ID, updateFields(req)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "itinerary not found")
		}
		return nil, fmt.Errorf("failed to update itinerary: %w", err)
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(updated.Travelers) > 0 {
		actorName := s.actorName(ctx, actor.ID)
		for _, t := range updated.Travelers {
			if t.UserID == actor.ID {
				continue
			}
			s.notify(ctx, "update", s.notifier.NotifyItineraryUpdated, s.event(actor.ID, actorName, updated, t.UserID, t.Role))
		}
	}

	j, err := s.pop.load(ctx, *updated)
	if err != nil {
		return nil, err
	}
	logger.Log.WithField("itinerary_id", id).Info("Itinerary updated")
	return j.edit(updated), nil
}

// updateFields keeps only the fields the client actually set. Empty strings and
// zero numbers count as "not provided".
func updateFields(req models.ItineraryUpdate) bson.M {
	fields := bson.M{}
	if req.Name != nil && *req.Name != "" {
		fields["name"] = *req.Name
	}
	if req.TravelDays != nil && *req.TravelDays != 0 {
		fields["travel_days"] = *req.TravelDays
	}
	if req.TotalBudget != nil && *req.TotalBudget != 0 {
		fields["total_budget"] = *req.TotalBudget
	}
	if req.Notes != nil && *req.Notes != "" {
		fields["notes"] = *req.Notes
	}
	if req.IsPrivate != nil {
		fields["is_private"] = *req.IsPrivate
	}
	if req.Boards != nil {
		fields["boards"] = req.Boards
	}
	return fields
}

// DeleteItinerary removes the itinerary. Favorites it referenced are untouched.
func (s *ItineraryService) DeleteItinerary(ctx context.Context, id string) error {
	objID, err := parseID("itinerary ID", id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteItinerary(ctx, objID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "itinerary not found")
		}
		return fmt.Errorf("failed to delete itinerary: %w", err)
	}
	return nil
}

// AddTraveler puts userID on the roster with role and sends an invite unless
// the actor added themselves.
func (s *ItineraryService) AddTraveler(ctx context.Context, actor Actor, id, userID, role string) (*models.Itinerary, error) {
	travelerID, err := parseID("userId", userID)
	if err != nil {
		return nil, err
	}
	role, err = normalizeRole(role)
	if err != nil {
		return nil, err
	}

	it, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.HasTraveler(travelerID) {
		return nil, newError(ErrConflict, "user is already a traveler")
	}

	added, err := s.repo.AddTraveler(ctx, it.ID, models.Traveler{UserID: travelerID, Role: role})
	if err != nil {
		return nil, fmt.Errorf("failed to add traveler: %w", err)
	}
	if !added {
		// Either another request added the same user first or the itinerary is gone.
		if _, lerr := s.load(ctx, id); lerr != nil {
			return nil, lerr
		}
		return nil, newError(ErrConflict, "user is already a traveler")
	}
	metrics.RosterChanges.WithLabelValues("add").Inc()

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if travelerID != actor.ID {
		s.notify(ctx, "invite", s.notifier.NotifyInvite, s.event(actor.ID, s.actorName(ctx, actor.ID), updated, travelerID, role))
	}

	logger.Log.WithFields(logrus.Fields{
		"itinerary_id": id,
		"traveler_id":  userID,
		"role":         role,
	}).Info("Traveler added")
	return updated, nil
}

// UpdateTravelerRole changes the role of a traveler already on the roster.
func (s *ItineraryService) UpdateTravelerRole(ctx context.Context, actor Actor, id, travelerID, role string) (*models.Itinerary, error) {
	travelerObjID, err := parseID("travelerId", travelerID)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, newError(ErrBadRequest, "role is required")
	}
	role, err = normalizeRole(role)
	if err != nil {
		return nil, err
	}

	it, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !it.HasTraveler(travelerObjID) {
		return nil, newError(ErrTravelerNotFound, "traveler not found in itinerary")
	}

	matched, err := s.repo.UpdateTravelerRole(ctx, it.ID, travelerObjID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to update traveler role: %w", err)
	}
	if !matched {
		return nil, newError(ErrTravelerNotFound, "traveler not found in itinerary")
	}
	metrics.RosterChanges.WithLabelValues("role").Inc()

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, "update", s.notifier.NotifyRoleUpdated, s.event(actor.ID, s.actorName(ctx, actor.ID), updated, travelerObjID, role))
	return updated, nil
}

// LeaveItinerary takes the actor off the roster. Leaving an itinerary the actor
// is not on changes nothing and is not an error.
func (s *ItineraryService) LeaveItinerary(ctx context.Context, actor Actor, id string) (*models.Itinerary, error) {
	it, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !it.HasTraveler(actor.ID) {
		return it, nil
	}

	if err := s.repo.RemoveTraveler(ctx, it.ID, actor.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "itinerary not found")
		}
		return nil, fmt.Errorf("failed to leave itinerary: %w", err)
	}
	metrics.RosterChanges.WithLabelValues("leave").Inc()
	dropTraveler(it, actor.ID)

	s.notify(ctx, "leave", s.notifier.NotifyTravelerLeft, s.event(actor.ID, s.actorName(ctx, actor.ID), it, it.OwnerID, ""))
	return it, nil
}

// RemoveTraveler lets the owner or an admin take someone off the roster. The
// roster change stands even when the removal notification cannot be sent.
func (s *ItineraryService) RemoveTraveler(ctx context.Context, actor Actor, id, travelerID string) (*models.Itinerary, error) {
	if travelerID == "" {
		return nil, newError(ErrBadRequest, "travelerId is required")
	}
	travelerObjID, err := parseID("travelerId", travelerID)
	if err != nil {
		return nil, err
	}

	it, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != actor.ID && !actor.IsAdmin() {
		logger.Log.WithFields(logrus.Fields{
			"itinerary_id": id,
			"actor_id":     actor.ID.Hex(),
		}).Warn("Forbidden: traveler removal by non-owner")
		return nil, newError(ErrForbidden, "only the itinerary owner or an admin can remove travelers")
	}
	if !it.HasTraveler(travelerObjID) {
		return nil, newError(ErrBadRequest, "traveler is not part of this itinerary")
	}

	if err := s.repo.RemoveTraveler(ctx, it.ID, travelerObjID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "itinerary not found")
		}
		return nil, fmt.Errorf("failed to remove traveler: %w", err)
	}
	metrics.RosterChanges.WithLabelValues("remove").Inc()

	dropTraveler(it, travelerObjID)

	s.notify(ctx, "traveler_removed", s.notifier.NotifyTravelerRemoved, s.event(actor.ID, s.actorName(ctx, actor.ID), it, travelerObjID, ""))

	logger.Log.WithFields(logrus.Fields{
		"itinerary_id": id,
		"traveler_id":  travelerID,
		"actor_id":     actor.ID.Hex(),
	}).Info("Traveler removed")
	return it, nil
}

func (s *ItineraryService) load(ctx context.Context, id string) (*models.Itinerary, error) {
	objID, err := parseID("itinerary ID", id)
	if err != nil {
		return nil, err
	}
	it, err := s.repo.GetItineraryByID(ctx, objID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "itinerary not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch itinerary: %w", err)
	}
	return it, nil
}

func (s *ItineraryService) event(actorID primitive.ObjectID, actorName string, it *models.Itinerary, recipient primitive.ObjectID, role string) ItineraryEvent {
	return ItineraryEvent{
		ActorID:       actorID,
		ActorName:     actorName,
		ItineraryID:   it.ID,
		ItineraryName: it.Name,
		RecipientID:   recipient,
		Role:          role,
	}
}

func (s *ItineraryService) actorName(ctx context.Context, id primitive.ObjectID) string {
	if id.IsZero() {
		return "Someone"
	}
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil || u.Name == "" {
		return "Someone"
	}
	return u.Name
}

// notify sends a notification best-effort: failures are logged and swallowed.
func (s *ItineraryService) notify(ctx context.Context, kind string, send func(context.Context, ItineraryEvent) error, ev ItineraryEvent) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.WithFields(logrus.Fields{
				"kind":         kind,
				"itinerary_id": ev.ItineraryID.Hex(),
				"recipient":    ev.RecipientID.Hex(),
			}).Errorf("Notification panicked: %v", r)
		}
	}()

	if err := send(ctx, ev); err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"kind":         kind,
			"itinerary_id": ev.ItineraryID.Hex(),
			"recipient":    ev.RecipientID.Hex(),
		}).Warn("Failed to send itinerary notification")
	}
}

func dropTraveler(it *models.Itinerary, userID primitive.ObjectID) {
	for i, t := range it.Travelers {
		if t.UserID == userID {
			it.Travelers = append(it.Travelers[:i], it.Travelers[i+1:]...)
			return
		}
	}
}

func normalizeRole(role string) (string, error) {
	switch role {
	case "":
		return models.TravelerRoleViewer, nil
	case models.TravelerRoleEditor, models.TravelerRoleViewer:
		return role, nil
	default:
		return "", newError(ErrBadRequest, "invalid traveler role %q", role)
	}
}
