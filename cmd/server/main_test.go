package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/estate/internal/handlers"
	appmiddleware "github.com/maynagashev/estate/internal/middleware"
	"github.com/maynagashev/estate/internal/models"
	"github.com/maynagashev/estate/internal/services"
	"github.com/maynagashev/estate/internal/storage"
	"github.com/maynagashev/estate/internal/views"
)

const testSecret = "test-session-secret"

// stubAuth - AuthService, который знает только заранее заданных пользователей.
type stubAuth struct {
	users map[int64]*models.User
}

func (s *stubAuth) Register(context.Context, services.RegisterInput) error { return nil }

func (s *stubAuth) Login(context.Context, string, string, bool) (string, error) { return "", nil }

func (s *stubAuth) GetUser(_ context.Context, id int64) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, services.ErrNotFound
}

func testDependencies(t *testing.T, withUpload bool) *dependencies {
	t.Helper()
	renderer, err := views.New()
	require.NoError(t, err)

	deps := &dependencies{
		authService: &stubAuth{users: map[int64]*models.User{
			1: {ID: 1, Name: "Анна", IsAdmin: true},
			2: {ID: 2, Name: "Олег"},
		}},
		authHandler:    handlers.NewAuthHandler(nil, renderer, false),
		pageHandler:    handlers.NewPageHandler(nil, renderer),
		listingHandler: handlers.NewListingHandler(nil, renderer),
		signingHandler: handlers.NewSigningHandler(nil, renderer),
		adminHandler:   handlers.NewAdminHandler(nil, renderer),
	}
	if withUpload {
		deps.uploadHandler = handlers.NewUploadHandler(nil)
	}
	return deps
}

func sessionCookie(t *testing.T, userID int64) *http.Cookie {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return &http.Cookie{Name: appmiddleware.SessionCookieName, Value: token}
}

func TestSetupRouter(t *testing.T) {
	r := setupRouter(testDependencies(t, true), []byte(testSecret))
	require.NotNil(t, r)

	// Проверяем наличие основных middleware
	assert.Len(t, r.Middlewares(), 5)

	routes := []struct {
		method  string
		pattern string
	}{
		{http.MethodGet, "/ping"},
		{http.MethodGet, "/"},
		{http.MethodGet, "/index"},
		{http.MethodGet, "/catalog"},
		{http.MethodGet, "/api/lodging"},
		{http.MethodGet, "/register"},
		{http.MethodPost, "/register"},
		{http.MethodGet, "/login"},
		{http.MethodPost, "/login"},
		{http.MethodGet, "/logout"},
		{http.MethodGet, "/object_lodging/{id}"},
		{http.MethodGet, "/object_lodging/sign_for/{id}"},
		{http.MethodPost, "/object_lodging/sign_for/{id}"},
		{http.MethodGet, "/post_edit"},
		{http.MethodGet, "/object_lodging_info_edit"},
		{http.MethodPost, "/object_lodging_info_edit"},
		{http.MethodGet, "/object_lodging_info_edit/{id}"},
		{http.MethodPost, "/object_lodging_info_edit/{id}"},
		{http.MethodGet, "/object_lodging_info_delete/{id}"},
		{http.MethodPost, "/object_lodging_info_delete/{id}"},
		{http.MethodGet, "/profile"},
		{http.MethodPost, "/profile"},
		{http.MethodPost, "/images/upload"},
		{http.MethodGet, "/users"},
		{http.MethodGet, "/user_admin/{id}"},
		{http.MethodGet, "/user_no_admin/{id}"},
		{http.MethodGet, "/signings"},
	}
	for _, rt := range routes {
		assert.True(t, hasRoute(r, rt.method, rt.pattern), "%s %s", rt.method, rt.pattern)
	}
}

func TestSetupRouter_WithoutUpload(t *testing.T) {
	r := setupRouter(testDependencies(t, false), []byte(testSecret))
	assert.False(t, hasRoute(r, http.MethodPost, "/images/upload"))
}

func TestSetupRouter_Access(t *testing.T) {
	r := setupRouter(testDependencies(t, false), []byte(testSecret))

	tests := []struct {
		name         string
		method       string
		path         string
		userID       int64 // 0 - аноним
		expectedCode int
		location     string
		body         string
	}{
		{name: "ping", method: http.MethodGet, path: "/ping", expectedCode: http.StatusOK, body: "pong\n"},
		{name: "Главная анониму", method: http.MethodGet, path: "/", expectedCode: http.StatusOK},
		{
			name: "Мои здания анониму", method: http.MethodGet, path: "/post_edit",
			expectedCode: http.StatusSeeOther, location: "/login",
		},
		{
			name: "Объект анониму", method: http.MethodGet, path: "/object_lodging/1",
			expectedCode: http.StatusSeeOther, location: "/login",
		},
		{
			name: "Добавление анониму", method: http.MethodPost, path: "/object_lodging_info_edit",
			expectedCode: http.StatusSeeOther, location: "/login",
		},
		{
			name: "Пользователи анониму", method: http.MethodGet, path: "/users",
			expectedCode: http.StatusSeeOther, location: "/login",
		},
		{
			name: "Пользователи без прав", method: http.MethodGet, path: "/users", userID: 2,
			expectedCode: http.StatusForbidden, body: "Недостаточно прав\n",
		},
		{
			name: "Выдача прав без прав", method: http.MethodGet, path: "/user_no_admin/2", userID: 2,
			expectedCode: http.StatusForbidden, body: "Недостаточно прав\n",
		},
		{
			name: "Записи без прав", method: http.MethodPost, path: "/signings", userID: 2,
			expectedCode: http.StatusForbidden, body: "Недостаточно прав\n",
		},
		{
			name: "Форма добавления пользователю", method: http.MethodGet, path: "/object_lodging_info_edit", userID: 2,
			expectedCode: http.StatusOK,
		},
		{
			name: "Загрузка отключена", method: http.MethodPost, path: "/images/upload", userID: 2,
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.userID != 0 {
				req.AddCookie(sessionCookie(t, tt.userID))
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rr.Header().Get("Location"))
			}
			if tt.body != "" {
				assert.Equal(t, tt.body, rr.Body.String())
			}
		})
	}
}

// Вспомогательная функция для проверки наличия маршрута.
func hasRoute(r chi.Router, method, pattern string) bool {
	found := false
	// Ошибка chi.Walk используется только для прерывания обхода
	_ = chi.Walk(r, func(m, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if m == method && route == pattern {
			found = true
			return errors.New("found")
		}
		return nil
	})
	return found
}

func mockPostgresDB(t *testing.T) func(string) (*sqlx.DB, error) {
	return func(_ string) (*sqlx.DB, error) {
		mockDB, _, err := sqlmock.New()
		require.NoError(t, err)
		return sqlx.NewDb(mockDB, "sqlmock"), nil
	}
}

func TestSetupDependencies(t *testing.T) {
	// Сохраняем оригинальные функции и восстанавливаем после тестов
	originalNewPostgresDB := newPostgresDB
	originalMigrateDB := migrateDB
	originalNewImageStorage := newImageStorage
	defer func() {
		newPostgresDB = originalNewPostgresDB
		migrateDB = originalMigrateDB
		newImageStorage = originalNewImageStorage
	}()

	ctx := context.Background()
	noMigrate := func(context.Context, *sqlx.DB) error { return nil }

	t.Run("Ошибка: Некорректный DatabaseDSN", func(t *testing.T) {
		newPostgresDB = originalNewPostgresDB
		_, err := setupDependencies(ctx, &config{DatabaseDSN: "невалидный dsn", SessionSecret: testSecret})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ошибка инициализации БД")
	})

	t.Run("Ошибка миграций", func(t *testing.T) {
		newPostgresDB = mockPostgresDB(t)
		migrateDB = func(context.Context, *sqlx.DB) error { return errors.New("goose failed") }

		_, err := setupDependencies(ctx, &config{DatabaseDSN: "dummy", SessionSecret: testSecret})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ошибка применения миграций")
	})

	t.Run("Без MinIO", func(t *testing.T) {
		newPostgresDB = mockPostgresDB(t)
		migrateDB = noMigrate
		newImageStorage = func(context.Context, storage.MinioConfig) (storage.ImageStorage, error) {
			t.Fatal("MinIO не должен инициализироваться без endpoint")
			return nil, nil
		}

		deps, err := setupDependencies(ctx, &config{DatabaseDSN: "dummy", SessionSecret: testSecret})
		require.NoError(t, err)
		defer deps.db.Close()

		assert.NotNil(t, deps.authService)
		assert.NotNil(t, deps.authHandler)
		assert.NotNil(t, deps.pageHandler)
		assert.NotNil(t, deps.listingHandler)
		assert.NotNil(t, deps.signingHandler)
		assert.NotNil(t, deps.adminHandler)
		assert.Nil(t, deps.imageStorage)
		assert.Nil(t, deps.uploadHandler)
	})

	t.Run("С MinIO", func(t *testing.T) {
		newPostgresDB = mockPostgresDB(t)
		migrateDB = noMigrate
		var got storage.MinioConfig
		newImageStorage = func(_ context.Context, cfg storage.MinioConfig) (storage.ImageStorage, error) {
			got = cfg
			return &storage.MinioClient{}, nil
		}

		cfg := &config{
			DatabaseDSN:   "dummy",
			SessionSecret: testSecret,
			Minio: minioConfig{
				Endpoint:  "localhost:9000",
				User:      "minioadmin",
				Password:  "minioadmin",
				Bucket:    "estate-images",
				PublicURL: "https://cdn.example.com",
			},
		}
		deps, err := setupDependencies(ctx, cfg)
		require.NoError(t, err)
		defer deps.db.Close()

		assert.NotNil(t, deps.uploadHandler)
		assert.Equal(t, "localhost:9000", got.Endpoint)
		assert.Equal(t, "minioadmin", got.AccessKeyID)
		assert.Equal(t, "estate-images", got.BucketName)
		assert.Equal(t, "https://cdn.example.com", got.PublicURL)
	})

	t.Run("Ошибка MinIO", func(t *testing.T) {
		newPostgresDB = mockPostgresDB(t)
		migrateDB = noMigrate
		newImageStorage = func(context.Context, storage.MinioConfig) (storage.ImageStorage, error) {
			return nil, errors.New("bucket check failed")
		}

		cfg := &config{DatabaseDSN: "dummy", SessionSecret: testSecret, Minio: minioConfig{Endpoint: "localhost:9000"}}
		_, err := setupDependencies(ctx, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ошибка инициализации клиента MinIO")
	})
}
