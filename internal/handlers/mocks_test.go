package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/estate/internal/middleware"
	"github.com/maynagashev/estate/internal/models"
	"github.com/maynagashev/estate/internal/services"
	"github.com/maynagashev/estate/internal/views"
)

// MockAuthService is a mock implementation of services.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in services.RegisterInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string, remember bool) (string, error) {
	args := m.Called(ctx, email, password, remember)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

// MockListingService is a mock implementation of services.ListingService.
type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) Catalog(ctx context.Context) ([]models.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockListingService) Feed(ctx context.Context) ([]models.ListingFeedItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ListingFeedItem), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockListingService) UserListings(ctx context.Context, userID int64) ([]models.Listing, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockListingService) Detail(ctx context.Context, id, userID int64) (*services.ListingDetail, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ListingDetail), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockListingService) Create(ctx context.Context, userID int64, in services.ListingInput) (int64, error) {
	args := m.Called(ctx, userID, in)
	return args.Get(0).(int64), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockListingService) EditState(ctx context.Context, id, userID int64) (*services.ListingEdit, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ListingEdit), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockListingService) Update(ctx context.Context, id, userID int64, in services.ListingInput) error {
	args := m.Called(ctx, id, userID, in)
	return args.Error(0)
}

func (m *MockListingService) Delete(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockSigningService is a mock implementation of services.SigningService.
type MockSigningService struct {
	mock.Mock
}

func (m *MockSigningService) Create(
	ctx context.Context,
	userID, listingID int64,
	in services.SigningInput,
) (int64, error) {
	args := m.Called(ctx, userID, listingID, in)
	return args.Get(0).(int64), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockSigningService) UserSignings(ctx context.Context, userID int64) ([]models.SigningWithListing, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SigningWithListing), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockSigningService) AllSignings(ctx context.Context) ([]models.SigningWithListing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SigningWithListing), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

// MockAdminService is a mock implementation of services.AdminService.
type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1) //nolint:errcheck // Acceptable for mocks
}

func (m *MockAdminService) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	args := m.Called(ctx, id, isAdmin)
	return args.Error(0)
}

// MockImageStorage is a mock implementation of storage.ImageStorage.
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) UploadImage(
	ctx context.Context,
	reader io.Reader,
	size int64,
	contentType, ext string,
) (string, error) {
	args := m.Called(ctx, reader, size, contentType, ext)
	// Consume the reader to simulate reading the body
	_, _ = io.Copy(io.Discard, reader)
	return args.String(0), args.Error(1)
}

var (
	testUser  = &models.User{ID: 2, Name: "Олег", Surname: "Петров", Email: "oleg@example.com"}
	testAdmin = &models.User{ID: 1, Name: "Анна", Surname: "Иванова", Email: "anna@example.com", IsAdmin: true}
)

func newViews(t *testing.T) *views.Renderer {
	t.Helper()
	v, err := views.New()
	require.NoError(t, err)
	return v
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// serve прогоняет запрос через chi-роутер с одним маршрутом, чтобы работали параметры URL.
func serve(pattern string, h http.HandlerFunc, req *http.Request, user *models.User) *httptest.ResponseRecorder {
	if user != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), user))
	}
	router := chi.NewRouter()
	router.MethodFunc(req.Method, pattern, h)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}
