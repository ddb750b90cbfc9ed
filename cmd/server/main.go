package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"

	"github.com/maynagashev/estate/internal/handlers"
	appmiddleware "github.com/maynagashev/estate/internal/middleware"
	"github.com/maynagashev/estate/internal/repository"
	"github.com/maynagashev/estate/internal/services"
	"github.com/maynagashev/estate/internal/storage"
	"github.com/maynagashev/estate/internal/views"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second // Загрузка фотографий бывает долгой
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 15 * time.Second
)

// Подменяются в тестах.
var (
	newPostgresDB   = repository.NewPostgresDB
	migrateDB       = repository.Migrate
	newImageStorage = func(ctx context.Context, cfg storage.MinioConfig) (storage.ImageStorage, error) {
		return storage.NewMinioClient(ctx, cfg)
	}
)

// Структура для хранения инициализированных зависимостей.
type dependencies struct {
	db             *sqlx.DB
	authService    services.AuthService
	imageStorage   storage.ImageStorage // nil, если MinIO не настроен
	authHandler    *handlers.AuthHandler
	pageHandler    *handlers.PageHandler
	listingHandler *handlers.ListingHandler
	signingHandler *handlers.SigningHandler
	adminHandler   *handlers.AdminHandler
	uploadHandler  *handlers.UploadHandler // nil, если MinIO не настроен
}

// main - точка входа. Вызывает run и обрабатывает ошибку.
func main() {
	if err := run(); err != nil {
		log.Printf("Ошибка выполнения сервера: %v", err)
		os.Exit(1)
	}
}

// run содержит основную логику запуска сервера и возвращает ошибку.
func run() error {
	log.Println("Запуск сервера объектов недвижимости...")

	cfg, err := parseFlags()
	if err != nil {
		return fmt.Errorf("ошибка конфигурации: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := setupDependencies(ctx, cfg)
	if err != nil {
		return fmt.Errorf("ошибка инициализации зависимостей: %w", err)
	}
	defer func() {
		if closeErr := deps.db.Close(); closeErr != nil {
			log.Printf("Ошибка закрытия соединения с БД: %v", closeErr)
		}
	}()

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      setupRouter(deps, []byte(cfg.SessionSecret)),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if cfg.TLSEnabled() {
			log.Printf("Запуск HTTPS-сервера на %s (сертификат: %s)...", cfg.Addr, cfg.CertFile)
			errCh <- server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
			return
		}
		log.Printf("Запуск HTTP-сервера на %s...", cfg.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ошибка запуска сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Получен сигнал завершения, останавливаем сервер...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}
	log.Println("Сервер остановлен")
	return nil
}

// setupDependencies инициализирует и возвращает все необходимые зависимости сервера.
func setupDependencies(ctx context.Context, cfg *config) (*dependencies, error) {
	deps := &dependencies{}
	var err error

	// 1. Подключение к БД и миграции
	deps.db, err = newPostgresDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации БД: %w", err)
	}
	log.Println("Соединение с БД успешно установлено.")

	if err = migrateDB(ctx, deps.db); err != nil {
		closeDB(deps.db)
		return nil, fmt.Errorf("ошибка применения миграций: %w", err)
	}

	// 2. Хранилище фотографий (необязательно)
	if cfg.Minio.Endpoint != "" {
		deps.imageStorage, err = newImageStorage(ctx, storage.MinioConfig{
			Endpoint:        cfg.Minio.Endpoint,
			AccessKeyID:     cfg.Minio.User,
			SecretAccessKey: cfg.Minio.Password,
			UseSSL:          cfg.Minio.UseSSL,
			BucketName:      cfg.Minio.Bucket,
			PublicURL:       cfg.Minio.PublicURL,
		})
		if err != nil {
			closeDB(deps.db)
			return nil, fmt.Errorf("ошибка инициализации клиента MinIO: %w", err)
		}
	} else {
		log.Println("MinIO не настроен, загрузка фотографий отключена.")
	}

	// 3. Шаблоны страниц
	renderer, err := views.New()
	if err != nil {
		closeDB(deps.db)
		return nil, fmt.Errorf("ошибка загрузки шаблонов: %w", err)
	}

	// 4. Создание репозиториев
	userRepo := repository.NewPostgresUserRepository(deps.db)
	listingRepo := repository.NewPostgresListingRepository(deps.db)
	signingRepo := repository.NewPostgresSigningRepository(deps.db)

	// 5. Создание сервисов
	deps.authService = services.NewAuthService(userRepo, []byte(cfg.SessionSecret))
	listingService := services.NewListingService(listingRepo, signingRepo)
	signingService := services.NewSigningService(signingRepo, listingRepo)
	adminService := services.NewAdminService(userRepo)

	// 6. Создание обработчиков
	deps.authHandler = handlers.NewAuthHandler(deps.authService, renderer, cfg.TLSEnabled())
	deps.pageHandler = handlers.NewPageHandler(listingService, renderer)
	deps.listingHandler = handlers.NewListingHandler(listingService, renderer)
	deps.signingHandler = handlers.NewSigningHandler(signingService, renderer)
	deps.adminHandler = handlers.NewAdminHandler(adminService, renderer)
	if deps.imageStorage != nil {
		deps.uploadHandler = handlers.NewUploadHandler(deps.imageStorage)
	}

	return deps, nil
}

func closeDB(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("Ошибка закрытия соединения с БД: %v", err)
	}
}

// setupRouter настраивает и возвращает роутер chi.
func setupRouter(deps *dependencies, secret []byte) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appmiddleware.Session(secret, deps.authService))

	// --- Публичные маршруты --- //
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong\n"))
	})
	r.Get("/", deps.pageHandler.Index)
	r.Get("/index", deps.pageHandler.Index)
	r.Get("/catalog", deps.pageHandler.Catalog)
	r.Get("/api/lodging", deps.pageHandler.Feed)

	r.Get("/register", deps.authHandler.RegisterPage)
	r.Post("/register", deps.authHandler.Register)
	r.Get("/login", deps.authHandler.LoginPage)
	r.Post("/login", deps.authHandler.Login)
	r.Get("/logout", deps.authHandler.Logout)

	// --- Маршруты для вошедших пользователей --- //
	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.RequireAuth)

		r.Get("/object_lodging/{id}", deps.pageHandler.Detail)
		r.Get("/object_lodging/sign_for/{id}", deps.signingHandler.SignPage)
		r.Post("/object_lodging/sign_for/{id}", deps.signingHandler.Sign)

		r.Get("/post_edit", deps.listingHandler.MyListings)
		r.Get("/object_lodging_info_edit", deps.listingHandler.CreatePage)
		r.Post("/object_lodging_info_edit", deps.listingHandler.Create)
		r.Get("/object_lodging_info_edit/{id}", deps.listingHandler.EditPage)
		r.Post("/object_lodging_info_edit/{id}", deps.listingHandler.Update)
		r.Get("/object_lodging_info_delete/{id}", deps.listingHandler.Delete)
		r.Post("/object_lodging_info_delete/{id}", deps.listingHandler.Delete)

		r.Get("/profile", deps.signingHandler.Profile)
		r.Post("/profile", deps.signingHandler.Profile)

		if deps.uploadHandler != nil {
			r.Post("/images/upload", deps.uploadHandler.Upload)
		}
	})

	// --- Маршруты администратора --- //
	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.RequireAdmin)

		r.Get("/users", deps.adminHandler.Users)
		r.Post("/users", deps.adminHandler.Users)
		r.Get("/user_admin/{id}", deps.adminHandler.Revoke)
		r.Post("/user_admin/{id}", deps.adminHandler.Revoke)
		r.Get("/user_no_admin/{id}", deps.adminHandler.Grant)
		r.Post("/user_no_admin/{id}", deps.adminHandler.Grant)
		r.Get("/signings", deps.signingHandler.All)
		r.Post("/signings", deps.signingHandler.All)
	})

	return r
}
