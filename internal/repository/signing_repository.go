package repository

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/maynagashev/estate/internal/models"
)

// Колонки записи на осмотр и объекта под префиксами для вложенных структур sqlx.
const signingWithListingColumns = `
	s.id AS "signing.id", s.name AS "signing.name", s.surname AS "signing.surname",
	s.patronymic AS "signing.patronymic", s.phone AS "signing.phone", s.date AS "signing.date",
	s.user_id AS "signing.user_id", s.listing_id AS "signing.listing_id", s.created_at AS "signing.created_at",
	l.id AS "listing.id", l.user_id AS "listing.user_id", l.name AS "listing.name", l.about AS "listing.about",
	l.tags AS "listing.tags", l.price AS "listing.price", l.address AS "listing.address",
	l.image_link AS "listing.image_link", l.created_at AS "listing.created_at"`

// SigningRepository определяет методы для работы с записями на осмотр.
type SigningRepository interface {
	CreateSigning(ctx context.Context, signing *models.Signing) (int64, error)
	HasSigning(ctx context.Context, userID, listingID int64) (bool, error)
	ListSigningsByUser(ctx context.Context, userID int64) ([]models.SigningWithListing, error)
	ListSignings(ctx context.Context) ([]models.SigningWithListing, error)
}

// postgresSigningRepository реализует SigningRepository для PostgreSQL.
type postgresSigningRepository struct {
	db *sqlx.DB
}

// NewPostgresSigningRepository создает новый экземпляр репозитория записей на осмотр.
func NewPostgresSigningRepository(db *sqlx.DB) SigningRepository {
	return &postgresSigningRepository{db: db}
}

// CreateSigning сохраняет запись на осмотр. Повторные записи не проверяются.
func (r *postgresSigningRepository) CreateSigning(ctx context.Context, signing *models.Signing) (int64, error) {
	query := `INSERT INTO signings (name, surname, patronymic, phone, date, user_id, listing_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	var id int64

	err := r.db.QueryRowxContext(ctx, query,
		signing.Name, signing.Surname, signing.Patronymic, signing.Phone,
		signing.Date, signing.UserID, signing.ListingID,
	).Scan(&id)
	if err != nil {
		log.Printf("[SigningRepo] Ошибка создания записи на осмотр объекта ID %d: %v", signing.ListingID, err)
		return 0, fmt.Errorf("ошибка выполнения запроса на создание записи: %w", err)
	}

	log.Printf("[SigningRepo] Запись ID %d: пользователь %d, объект %d", id, signing.UserID, signing.ListingID)
	return id, nil
}

// HasSigning сообщает, записывался ли пользователь на осмотр объекта.
func (r *postgresSigningRepository) HasSigning(ctx context.Context, userID, listingID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM signings WHERE user_id=$1 AND listing_id=$2)`
	var exists bool

	if err := r.db.GetContext(ctx, &exists, query, userID, listingID); err != nil {
		log.Printf("[SigningRepo] Ошибка проверки записи пользователя %d на объект %d: %v", userID, listingID, err)
		return false, fmt.Errorf("ошибка выполнения запроса на проверку записи: %w", err)
	}
	return exists, nil
}

// ListSigningsByUser возвращает записи пользователя вместе с объектами.
func (r *postgresSigningRepository) ListSigningsByUser(
	ctx context.Context,
	userID int64,
) ([]models.SigningWithListing, error) {
	query := `SELECT ` + signingWithListingColumns + `
	          FROM signings s JOIN listings l ON l.id = s.listing_id
	          WHERE s.user_id=$1 ORDER BY s.date, s.id`
	return r.list(ctx, query, userID)
}

// ListSignings возвращает все записи вместе с объектами.
func (r *postgresSigningRepository) ListSignings(ctx context.Context) ([]models.SigningWithListing, error) {
	query := `SELECT ` + signingWithListingColumns + `
	          FROM signings s JOIN listings l ON l.id = s.listing_id
	          ORDER BY s.date, s.id`
	return r.list(ctx, query)
}

func (r *postgresSigningRepository) list(ctx context.Context, query string, args ...any) ([]models.SigningWithListing, error) {
	rows := make([]models.SigningWithListing, 0)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		log.Printf("[SigningRepo] Ошибка при получении списка записей: %v", err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение записей: %w", err)
	}
	return rows, nil
}
