package services

import (
	"context"
	"fmt"

	"github.com/Dias221467/Travel_Planner/internal/models"
	"github.com/Dias221467/Travel_Planner/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// populator expands the references an itinerary holds (owner, travelers,
// board favorites and their experiences) with one batched query per collection.
type populator struct {
	users       UserStore
	favorites   FavoriteStore
	experiences ExperienceStore
}

type joined struct {
	users       map[primitive.ObjectID]models.User
	favorites   map[primitive.ObjectID]models.Favorite
	experiences map[primitive.ObjectID]models.Experience
}

func (p *populator) load(ctx context.Context, itineraries ...models.Itinerary) (*joined, error) {
	j := &joined{
		users:       map[primitive.ObjectID]models.User{},
		favorites:   map[primitive.ObjectID]models.Favorite{},
		experiences: map[primitive.ObjectID]models.Experience{},
	}

	var userIDs, favoriteIDs []primitive.ObjectID
	for _, it := range itineraries {
		userIDs = append(userIDs, it.OwnerID)
		for _, t := range it.Travelers {
			userIDs = append(userIDs, t.UserID)
		}
		favoriteIDs = append(favoriteIDs, it.FavoriteIDs()...)
	}

	users, err := p.users.GetUsersByIDs(ctx, uniqueIDs(userIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for _, u := range users {
		j.users[u.ID] = u
	}

	favorites, err := p.favorites.GetFavoritesByIDs(ctx, uniqueIDs(favoriteIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	var experienceIDs []primitive.ObjectID
	for _, f := range favorites {
		j.favorites[f.ID] = f
		experienceIDs = append(experienceIDs, f.ExperienceID)
	}

	experiences, err := p.experiences.GetExperiencesByIDs(ctx, uniqueIDs(experienceIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load experiences: %w", err)
	}
	for _, e := range experiences {
		j.experiences[e.ID] = e
	}
	return j, nil
}

func (j *joined) publicUser(id primitive.ObjectID) *models.PublicUser {
	u, ok := j.users[id]
	if !ok {
		return nil
	}
	pu := u.Public()
	return &pu
}

func (j *joined) experience(id primitive.ObjectID) *models.Experience {
	e, ok := j.experiences[id]
	if !ok {
		return nil
	}
	return &e
}

func (j *joined) summary(it *models.Itinerary) models.ItinerarySummary {
	travelers := make([]models.TravelerView, 0, len(it.Travelers))
	for _, t := range it.Travelers {
		travelers = append(travelers, models.TravelerView{User: j.publicUser(t.UserID), Role: t.Role})
	}
	return models.ItinerarySummary{
		ID:          it.ID,
		Name:        it.Name,
		TravelDays:  it.TravelDays,
		TotalBudget: it.TotalBudget,
		Notes:       it.Notes,
		IsPrivate:   it.IsPrivate,
		Owner:       j.publicUser(it.OwnerID),
		Travelers:   travelers,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

// detail resolves every favorite to its experience. Favorites that are gone,
// or whose experience is gone, are dropped.
func (j *joined) detail(it *models.Itinerary) *models.ItineraryDetail {
	boards := make([]models.ResolvedBoard, 0, len(it.Boards))
	for _, b := range it.Boards {
		favorites := make([]models.ResolvedFavorite, 0, len(b.Favorites))
		for _, favID := range b.Favorites {
			fav, ok := j.favorites[favID]
			if !ok {
				logDroppedFavorite(it.ID, favID, "favorite missing")
				continue
			}
			exp := j.experience(fav.ExperienceID)
			if exp == nil {
				logDroppedFavorite(it.ID, favID, "experience missing")
				continue
			}
			favorites = append(favorites, models.ResolvedFavorite{FavoriteID: fav.ID, Experience: exp})
		}
		boards = append(boards, models.ResolvedBoard{Name: b.Name, Favorites: favorites})
	}
	return &models.ItineraryDetail{ItinerarySummary: j.summary(it), Boards: boards}
}

// edit returns full favorite documents. Missing favorites are dropped; a
// favorite whose experience is gone keeps a nil experience.
func (j *joined) edit(it *models.Itinerary) *models.ItineraryEdit {
	boards := make([]models.PopulatedBoard, 0, len(it.Boards))
	for _, b := range it.Boards {
		favorites := make([]models.FavoriteWithExperience, 0, len(b.Favorites))
		for _, favID := range b.Favorites {
			fav, ok := j.favorites[favID]
			if !ok {
				continue
			}
			favorites = append(favorites, models.FavoriteWithExperience{
				ID:         fav.ID,
				UserID:     fav.UserID,
				Experience: j.experience(fav.ExperienceID),
				CreatedAt:  fav.CreatedAt,
			})
		}
		boards = append(boards, models.PopulatedBoard{Name: b.Name, Favorites: favorites})
	}
	return &models.ItineraryEdit{ItinerarySummary: j.summary(it), Boards: boards}
}

func logDroppedFavorite(itineraryID, favoriteID primitive.ObjectID, reason string) {
	logger.Log.WithFields(logrus.Fields{
		"itinerary_id": itineraryID.Hex(),
		"favorite_id":  favoriteID.Hex(),
		"reason":       reason,
	}).Warn("Dropping unresolvable favorite from board")
}

func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
