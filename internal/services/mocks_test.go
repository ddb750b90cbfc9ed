package services_test

import (
	"context"
	"sort"

	"github.com/maynagashev/estate/internal/models"
	"github.com/maynagashev/estate/internal/repository"
	"github.com/stretchr/testify/mock"
)

// --- Mock UserRepository --- //

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *MockUserRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	args := m.Called(ctx, id, isAdmin)
	return args.Error(0)
}

// --- Mock SigningRepository --- //

type MockSigningRepository struct {
	mock.Mock
}

func (m *MockSigningRepository) CreateSigning(ctx context.Context, signing *models.Signing) (int64, error) {
	args := m.Called(ctx, signing)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSigningRepository) HasSigning(ctx context.Context, userID, listingID int64) (bool, error) {
	args := m.Called(ctx, userID, listingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSigningRepository) ListSigningsByUser(
	ctx context.Context,
	userID int64,
) ([]models.SigningWithListing, error) {
	args := m.Called(ctx, userID)
	rows, _ := args.Get(0).([]models.SigningWithListing)
	return rows, args.Error(1)
}

func (m *MockSigningRepository) ListSignings(ctx context.Context) ([]models.SigningWithListing, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]models.SigningWithListing)
	return rows, args.Error(1)
}

// --- In-memory ListingRepository --- //

// memListingRepo хранит объекты и изображения в памяти и проверяет владельца так же, как SQL-запросы.
type memListingRepo struct {
	listings map[int64]models.Listing
	images   []models.Image
	nextID   int64
}

var _ repository.ListingRepository = (*memListingRepo)(nil)

func newMemListingRepo() *memListingRepo {
	return &memListingRepo{listings: map[int64]models.Listing{}}
}

func (r *memListingRepo) ListListings(_ context.Context) ([]models.Listing, error) {
	out := make([]models.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memListingRepo) ListListingsByUser(ctx context.Context, userID int64) ([]models.Listing, error) {
	all, _ := r.ListListings(ctx)
	out := make([]models.Listing, 0)
	for _, l := range all {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memListingRepo) ListFeed(ctx context.Context) ([]models.ListingFeedItem, error) {
	all, _ := r.ListListings(ctx)
	out := make([]models.ListingFeedItem, 0, len(all))
	for _, l := range all {
		out = append(out, models.ListingFeedItem{
			Name: l.Name, About: l.About, Address: l.Address, Price: l.Price, ImageLink: l.ImageLink, Tags: l.Tags,
		})
	}
	return out, nil
}

func (r *memListingRepo) GetListingByID(_ context.Context, id int64) (*models.Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}
	return &l, nil
}

func (r *memListingRepo) GetOwnedListing(_ context.Context, id, userID int64) (*models.Listing, error) {
	l, ok := r.listings[id]
	if !ok || l.UserID != userID {
		return nil, repository.ErrListingNotFound
	}
	return &l, nil
}

func (r *memListingRepo) ListImages(_ context.Context, listingID int64) ([]models.Image, error) {
	out := make([]models.Image, 0)
	for _, img := range r.images {
		if img.ListingID == listingID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (r *memListingRepo) CreateListing(_ context.Context, l *models.Listing, links []string) (int64, error) {
	r.nextID++
	stored := *l
	stored.ID = r.nextID
	r.listings[stored.ID] = stored
	r.addImages(stored.ID, links)
	return stored.ID, nil
}

func (r *memListingRepo) UpdateListing(_ context.Context, l *models.Listing, newLinks []string) error {
	cur, ok := r.listings[l.ID]
	if !ok || cur.UserID != l.UserID {
		return repository.ErrListingNotFound
	}
	r.listings[l.ID] = *l
	r.addImages(l.ID, newLinks)
	return nil
}

func (r *memListingRepo) DeleteListing(_ context.Context, id, userID int64) error {
	cur, ok := r.listings[id]
	if !ok || cur.UserID != userID {
		return repository.ErrListingNotFound
	}
	delete(r.listings, id)
	return nil
}

func (r *memListingRepo) addImages(listingID int64, links []string) {
	for _, link := range links {
		r.images = append(r.images, models.Image{ID: int64(len(r.images) + 1), ListingID: listingID, Link: link})
	}
}
