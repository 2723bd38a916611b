package services_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Dias221467/Travel_Planner/internal/models"
	"github.com/Dias221467/Travel_Planner/internal/outbox"
	"github.com/Dias221467/Travel_Planner/internal/repository"
	"github.com/Dias221467/Travel_Planner/internal/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	_ services.ItineraryStore     = (*memItineraries)(nil)
	_ services.UserStore          = (*memUsers)(nil)
	_ services.FavoriteStore      = (*memFavorites)(nil)
	_ services.ExperienceStore    = (*memExperiences)(nil)
	_ services.NotificationStore  = (*memNotifications)(nil)
	_ services.NotificationOutbox = (*memOutbox)(nil)
	_ services.ItineraryNotifier  = (*failingNotifier)(nil)
)

// memItineraries mimics the conditional writes of the Mongo repository.
type memItineraries struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]*models.Itinerary

	// hook runs inside AddTraveler before the conditional check.
	beforeAdd func()
}

func newMemItineraries() *memItineraries {
	return &memItineraries{docs: map[primitive.ObjectID]*models.Itinerary{}}
}

func cloneItinerary(it *models.Itinerary) *models.Itinerary {
	c := *it
	c.Travelers = append([]models.Traveler{}, it.Travelers...)
	c.Boards = append([]models.Board{}, it.Boards...)
	return &c
}

func (m *memItineraries) CreateItinerary(_ context.Context, it *models.Itinerary) (*models.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it.ID = primitive.NewObjectID()
	it.CreatedAt = time.Now()
	it.UpdatedAt = it.CreatedAt
	if it.Boards == nil {
		it.Boards = []models.Board{}
	}
	if it.Travelers == nil {
		it.Travelers = []models.Traveler{}
	}
	m.docs[it.ID] = cloneItinerary(it)
	return it, nil
}

func (m *memItineraries) put(it *models.Itinerary) *models.Itinerary {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it.ID.IsZero() {
		it.ID = primitive.NewObjectID()
	}
	m.docs[it.ID] = cloneItinerary(it)
	return it
}

func (m *memItineraries) get(id primitive.ObjectID) *models.Itinerary {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.docs[id]
	if !ok {
		return nil
	}
	return cloneItinerary(it)
}

func (m *memItineraries) GetItineraryByID(_ context.Context, id primitive.ObjectID) (*models.Itinerary, error) {
	if it := m.get(id); it != nil {
		return it, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memItineraries) filter(keep func(*models.Itinerary) bool) []models.Itinerary {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Itinerary{}
	for _, it := range m.docs {
		if keep(it) {
			out = append(out, *cloneItinerary(it))
		}
	}
	return out
}

func (m *memItineraries) GetAllItineraries(context.Context) ([]models.Itinerary, error) {
	return m.filter(func(*models.Itinerary) bool { return true }), nil
}

func (m *memItineraries) GetItinerariesByOwner(_ context.Context, ownerID primitive.ObjectID) ([]models.Itinerary, error) {
	return m.filter(func(it *models.Itinerary) bool { return it.OwnerID == ownerID }), nil
}

func (m *memItineraries) GetItinerariesByTraveler(_ context.Context, userID primitive.ObjectID) ([]models.Itinerary, error) {
	return m.filter(func(it *models.Itinerary) bool { return it.HasTraveler(userID) }), nil
}

func (m *memItineraries) UpdateItineraryFields(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.docs[id]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			it.Name = v.(string)
		case "travel_days":
			it.TravelDays = v.(int)
		case "total_budget":
			it.TotalBudget = v.(float64)
		case "notes":
			it.Notes = v.(string)
		case "is_private":
			it.IsPrivate = v.(bool)
		case "boards":
			it.Boards = v.([]models.Board)
		}
	}
	it.UpdatedAt = time.Now()
	return nil
}

func (m *memItineraries) DeleteItinerary(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *memItineraries) AddTraveler(_ context.Context, id primitive.ObjectID, traveler models.Traveler) (bool, error) {
	if m.beforeAdd != nil {
		m.beforeAdd()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.docs[id]
	if !ok || it.HasTraveler(traveler.UserID) {
		return false, nil
	}
	it.Travelers = append(it.Travelers, traveler)
	return true, nil
}

func (m *memItineraries) UpdateTravelerRole(_ context.Context, id, userID primitive.ObjectID, role string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.docs[id]
	if !ok {
		return false, nil
	}
	for i := range it.Travelers {
		if it.Travelers[i].UserID == userID {
			it.Travelers[i].Role = role
			return true, nil
		}
	}
	return false, nil
}

func (m *memItineraries) RemoveTraveler(_ context.Context, id, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.docs[id]
	if !ok {
		return repository.ErrNotFound
	}
	kept := it.Travelers[:0]
	for _, t := range it.Travelers {
		if t.UserID != userID {
			kept = append(kept, t)
		}
	}
	it.Travelers = kept
	return nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMemUsers(users ...*models.User) *memUsers {
	m := &memUsers{users: map[primitive.ObjectID]*models.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUsers) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return nil, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	if user.Friends == nil {
		user.Friends = []primitive.ObjectID{}
	}
	c := *user
	m.users[user.ID] = &c
	return user, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	c.Friends = append([]primitive.ObjectID{}, u.Friends...)
	return &c, nil
}

func (m *memUsers) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memUsers) AddFriend(_ context.Context, userID, friendID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if !u.HasFriend(friendID) {
		u.Friends = append(u.Friends, friendID)
	}
	return nil
}

func (m *memUsers) RemoveFriend(_ context.Context, userID, friendID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	kept := []primitive.ObjectID{}
	for _, id := range u.Friends {
		if id != friendID {
			kept = append(kept, id)
		}
	}
	u.Friends = kept
	return nil
}

type memFavorites struct {
	mu   sync.Mutex
	favs []models.Favorite
}

func (m *memFavorites) CreateFavorite(_ context.Context, fav *models.Favorite) (*models.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.favs {
		if f.UserID == fav.UserID && f.ExperienceID == fav.ExperienceID {
			return nil, repository.ErrDuplicate
		}
	}
	fav.ID = primitive.NewObjectID()
	fav.CreatedAt = time.Now()
	m.favs = append(m.favs, *fav)
	return fav, nil
}

func (m *memFavorites) add(userID, experienceID primitive.ObjectID) models.Favorite {
	fav, _ := m.CreateFavorite(context.Background(), &models.Favorite{UserID: userID, ExperienceID: experienceID})
	return *fav
}

func (m *memFavorites) GetFavorite(_ context.Context, userID, experienceID primitive.ObjectID) (*models.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.favs {
		if f.UserID == userID && f.ExperienceID == experienceID {
			c := f
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memFavorites) DeleteFavorite(_ context.Context, userID, experienceID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, f := range m.favs {
		if f.UserID == userID && f.ExperienceID == experienceID {
			m.favs = append(m.favs[:i], m.favs[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memFavorites) GetFavoritesByUser(_ context.Context, userID primitive.ObjectID) ([]models.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Favorite{}
	for _, f := range m.favs {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memFavorites) GetFavoritesByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := []models.Favorite{}
	for _, f := range m.favs {
		if want[f.ID] {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memFavorites) CountByExperience(_ context.Context, experienceID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, f := range m.favs {
		if f.ExperienceID == experienceID {
			n++
		}
	}
	return n, nil
}

type memExperiences struct {
	mu   sync.Mutex
	exps map[primitive.ObjectID]models.Experience
}

func newMemExperiences(exps ...models.Experience) *memExperiences {
	m := &memExperiences{exps: map[primitive.ObjectID]models.Experience{}}
	for _, e := range exps {
		m.exps[e.ID] = e
	}
	return m
}

func (m *memExperiences) CreateExperience(_ context.Context, exp *models.Experience) (*models.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp.ID = primitive.NewObjectID()
	m.exps[exp.ID] = *exp
	return exp, nil
}

func (m *memExperiences) GetExperienceByID(_ context.Context, id primitive.ObjectID) (*models.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (m *memExperiences) GetExperiencesByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Experience{}
	for _, id := range ids {
		if e, ok := m.exps[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memExperiences) GetAllExperiences(_ context.Context, limit int64) ([]models.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Experience{}
	for _, e := range m.exps {
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		out = append(out, e)
	}
	return out, nil
}

// memNotifications records every persisted notification. When fail is set
// every write returns that error instead.
type memNotifications struct {
	mu    sync.Mutex
	saved []models.Notification
	fail  error
}

func (m *memNotifications) CreateNotification(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	n.ID = primitive.NewObjectID()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	m.saved = append(m.saved, *n)
	return nil
}

func (m *memNotifications) setFail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

func (m *memNotifications) all() []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Notification{}, m.saved...)
}

func (m *memNotifications) forRecipient(id primitive.ObjectID) []models.Notification {
	var out []models.Notification
	for _, n := range m.all() {
		if n.UserID == id {
			out = append(out, n)
		}
	}
	return out
}

func (m *memNotifications) GetUserNotifications(_ context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return m.forRecipient(userID), nil
}

func (m *memNotifications) MarkAsRead(_ context.Context, id, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.saved {
		if m.saved[i].ID == id && m.saved[i].UserID == userID {
			m.saved[i].Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memNotifications) DeleteNotification(_ context.Context, id, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.saved {
		if m.saved[i].ID == id && m.saved[i].UserID == userID {
			m.saved = append(m.saved[:i], m.saved[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memOutbox struct {
	entries []outbox.Entry
	pushErr error
}

func (m *memOutbox) Push(_ context.Context, n *models.Notification) error {
	if m.pushErr != nil {
		return m.pushErr
	}
	m.entries = append(m.entries, outbox.Entry{ID: primitive.NewObjectID().Hex(), QueuedAt: time.Now(), Notification: *n})
	return nil
}

func (m *memOutbox) Requeue(_ context.Context, e outbox.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *memOutbox) Pop(_ context.Context, max int) ([]outbox.Entry, error) {
	if max > len(m.entries) {
		max = len(m.entries)
	}
	out := append([]outbox.Entry{}, m.entries[:max]...)
	m.entries = m.entries[max:]
	return out, nil
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []*models.Notification
}

func (p *recordingPublisher) Publish(n *models.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, n)
}

// failingNotifier fails every call, or panics when panicking is set.
type failingNotifier struct {
	panicking bool
	calls     int
}

func (f *failingNotifier) fail() error {
	f.calls++
	if f.panicking {
		panic("notification subsystem exploded")
	}
	return errors.New("notification subsystem unavailable")
}

func (f *failingNotifier) NotifyInvite(context.Context, services.ItineraryEvent) error {
	return f.fail()
}
func (f *failingNotifier) NotifyItineraryUpdated(context.Context, services.ItineraryEvent) error {
	return f.fail()
}
func (f *failingNotifier) NotifyRoleUpdated(context.Context, services.ItineraryEvent) error {
	return f.fail()
}
func (f *failingNotifier) NotifyTravelerLeft(context.Context, services.ItineraryEvent) error {
	return f.fail()
}
func (f *failingNotifier) NotifyTravelerRemoved(context.Context, services.ItineraryEvent) error {
	return f.fail()
}
