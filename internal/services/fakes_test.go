package services

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/joshua-takyi/estate/internal/cache"
	"github.com/joshua-takyi/estate/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (r *memUserRepo) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, models.ErrDuplicateKey
		}
	}
	user.BeforeCreate(time.Now().UTC())
	cp := *user
	r.users[user.ID] = &cp
	return user, nil
}

func (r *memUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (r *memUserRepo) FindUserByUsernameOrEmail(_ context.Context, username, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (r *memUserRepo) UpdateUser(_ context.Context, id primitive.ObjectID, update models.UserUpdate) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.Password != nil {
		u.Password = *update.Password
	}
	if update.Avatar != nil {
		u.Avatar = *update.Avatar
	}
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return models.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type memListingRepo struct {
	mu       sync.Mutex
	listings map[primitive.ObjectID]*models.Listing
	searches int
	// afterGet runs once, after the next GetListingByID has read its copy
	afterGet func()
}

func newMemListingRepo() *memListingRepo {
	return &memListingRepo{listings: map[primitive.ObjectID]*models.Listing{}}
}

func cloneListing(l *models.Listing) *models.Listing {
	cp := *l
	cp.ImageUrls = append([]string(nil), l.ImageUrls...)
	return &cp
}

func (r *memListingRepo) CreateListing(_ context.Context, l *models.Listing) (*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	r.listings[l.ID] = cloneListing(l)
	return l, nil
}

func (r *memListingRepo) GetListingByID(_ context.Context, id primitive.ObjectID) (*models.Listing, error) {
	r.mu.Lock()
	l, ok := r.listings[id]
	if ok {
		l = cloneListing(l)
	}
	hook := r.afterGet
	r.afterGet = nil
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	if !ok {
		return nil, models.ErrListingNotFound
	}
	return l, nil
}

func (r *memListingRepo) ReplaceListing(_ context.Context, l *models.Listing) (*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.listings[l.ID]
	if !ok || existing.UserRef != l.UserRef {
		return nil, models.ErrListingNotFound
	}
	r.listings[l.ID] = cloneListing(l)
	return cloneListing(l), nil
}

func (r *memListingRepo) DeleteListing(_ context.Context, id, owner primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.listings[id]
	if !ok || existing.UserRef != owner {
		return models.ErrListingNotFound
	}
	delete(r.listings, id)
	return nil
}

func (r *memListingRepo) DeleteListingsByOwner(_ context.Context, owner primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, l := range r.listings {
		if l.UserRef == owner {
			delete(r.listings, id)
			n++
		}
	}
	return n, nil
}

func (r *memListingRepo) SearchListings(_ context.Context, q models.ListingQuery) ([]*models.Listing, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searches++

	var matched []*models.Listing
	for _, l := range r.listings {
		if matches(l, q) {
			matched = append(matched, cloneListing(l))
		}
	}

	asc := q.Order == models.OrderAsc
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if q.Sort == models.SortRegularPrice && a.RegularPrice != b.RegularPrice {
			return (a.RegularPrice < b.RegularPrice) == asc
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if q.Sort == models.SortRegularPrice {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt) == asc
		}
		return bytes.Compare(a.ID[:], b.ID[:]) > 0
	})

	total := int64(len(matched))
	if q.Offset >= len(matched) {
		return []*models.Listing{}, total, nil
	}
	end := min(q.Offset+q.Limit, len(matched))
	return matched[q.Offset:end], total, nil
}

func matches(l *models.Listing, q models.ListingQuery) bool {
	if q.SearchTerm != "" {
		term := strings.ToLower(q.SearchTerm)
		if !strings.Contains(strings.ToLower(l.Name), term) && !strings.Contains(strings.ToLower(l.Description), term) {
			return false
		}
	}
	if q.Type != "" && l.Type != q.Type {
		return false
	}
	if (q.Parking && !l.Parking) || (q.Furnished && !l.Furnished) || (q.Offer && !l.Offer) {
		return false
	}
	if q.MinPrice != nil && l.RegularPrice < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && l.RegularPrice > *q.MaxPrice {
		return false
	}
	if q.UserRef != nil && l.UserRef != *q.UserRef {
		return false
	}
	return true
}

// memCache records invalidations so tests can assert on them. Like the
// Redis cache it drops writes for recently invalidated ids.
type memCache struct {
	mu          sync.Mutex
	entries     map[string]*models.Listing
	stale       map[string]time.Time
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]*models.Listing{}, stale: map[string]time.Time{}}
}

func (c *memCache) Get(_ context.Context, id string) (*models.Listing, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	return cloneListing(l), true
}

func (c *memCache) Set(_ context.Context, l *models.Listing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if until, ok := c.stale[l.ID.Hex()]; ok && time.Now().Before(until) {
		return
	}
	c.entries[l.ID.Hex()] = cloneListing(l)
}

func (c *memCache) Invalidate(_ context.Context, ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.entries, id)
		c.stale[id] = time.Now().Add(cache.StaleWindow)
		c.invalidated = append(c.invalidated, id)
	}
}

type fakeImageStore struct {
	mu      sync.Mutex
	names   []string
	failOn  string
	failErr error
}

func (s *fakeImageStore) Upload(ctx context.Context, name, contentType string, data io.Reader) (string, error) {
	if _, err := io.ReadAll(data); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != "" && strings.Contains(name, s.failOn) {
		return "", s.failErr
	}
	s.names = append(s.names, name)
	return "https://img.example.com/" + name, nil
}
