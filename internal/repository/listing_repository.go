package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/maynagashev/estate/internal/models"
)

const listingColumns = `id, user_id, name, about, tags, price, address, image_link, created_at`

// ListingRepository определяет методы для работы с объектами недвижимости и их изображениями.
type ListingRepository interface {
	ListListings(ctx context.Context) ([]models.Listing, error)
	ListListingsByUser(ctx context.Context, userID int64) ([]models.Listing, error)
	ListFeed(ctx context.Context) ([]models.ListingFeedItem, error)
	GetListingByID(ctx context.Context, id int64) (*models.Listing, error)
	GetOwnedListing(ctx context.Context, id, userID int64) (*models.Listing, error)
	ListImages(ctx context.Context, listingID int64) ([]models.Image, error)
	// CreateListing сохраняет объект и его изображения в одной транзакции.
	CreateListing(ctx context.Context, listing *models.Listing, links []string) (int64, error)
	// UpdateListing обновляет объект владельца и добавляет новые изображения в одной транзакции.
	UpdateListing(ctx context.Context, listing *models.Listing, newLinks []string) error
	DeleteListing(ctx context.Context, id, userID int64) error
}

// postgresListingRepository реализует ListingRepository для PostgreSQL.
type postgresListingRepository struct {
	db *sqlx.DB
}

// NewPostgresListingRepository создает новый экземпляр репозитория объектов.
func NewPostgresListingRepository(db *sqlx.DB) ListingRepository {
	return &postgresListingRepository{db: db}
}

// ListListings возвращает все объекты для каталога.
func (r *postgresListingRepository) ListListings(ctx context.Context) ([]models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings ORDER BY id`
	listings := make([]models.Listing, 0)

	if err := r.db.SelectContext(ctx, &listings, query); err != nil {
		log.Printf("[ListingRepo] Ошибка при получении каталога: %v", err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение каталога: %w", err)
	}
	return listings, nil
}

// ListListingsByUser возвращает объекты указанного владельца.
func (r *postgresListingRepository) ListListingsByUser(ctx context.Context, userID int64) ([]models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE user_id=$1 ORDER BY id`
	listings := make([]models.Listing, 0)

	if err := r.db.SelectContext(ctx, &listings, query, userID); err != nil {
		log.Printf("[ListingRepo] Ошибка при получении объектов пользователя ID %d: %v", userID, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение объектов пользователя: %w", err)
	}
	return listings, nil
}

// ListFeed возвращает поля объектов, публикуемые в JSON-ленте.
func (r *postgresListingRepository) ListFeed(ctx context.Context) ([]models.ListingFeedItem, error) {
	query := `SELECT name, about, address, price, image_link, tags FROM listings ORDER BY id`
	items := make([]models.ListingFeedItem, 0)

	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		log.Printf("[ListingRepo] Ошибка при получении ленты: %v", err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение ленты: %w", err)
	}
	return items, nil
}

// GetListingByID находит объект по ID.
func (r *postgresListingRepository) GetListingByID(ctx context.Context, id int64) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id=$1`
	return r.getListing(ctx, query, id)
}

// GetOwnedListing находит объект по ID, только если он принадлежит пользователю.
func (r *postgresListingRepository) GetOwnedListing(ctx context.Context, id, userID int64) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id=$1 AND user_id=$2`
	return r.getListing(ctx, query, id, userID)
}

func (r *postgresListingRepository) getListing(ctx context.Context, query string, args ...any) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.GetContext(ctx, &listing, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		log.Printf("[ListingRepo] Ошибка при поиске объекта %v: %v", args, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение объекта: %w", err)
	}
	return &listing, nil
}

// ListImages возвращает изображения объекта в порядке добавления.
func (r *postgresListingRepository) ListImages(ctx context.Context, listingID int64) ([]models.Image, error) {
	query := `SELECT id, listing_id, link FROM images WHERE listing_id=$1 ORDER BY id`
	images := make([]models.Image, 0)

	if err := r.db.SelectContext(ctx, &images, query, listingID); err != nil {
		log.Printf("[ListingRepo] Ошибка при получении изображений объекта ID %d: %v", listingID, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение изображений: %w", err)
	}
	return images, nil
}

// CreateListing сохраняет объект и по записи Image на каждую ссылку.
func (r *postgresListingRepository) CreateListing(
	ctx context.Context,
	listing *models.Listing,
	links []string,
) (int64, error) {
	query := `INSERT INTO listings (user_id, name, about, tags, price, address, image_link)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	var listingID int64

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx, query,
			listing.UserID, listing.Name, listing.About, listing.Tags,
			listing.Price, listing.Address, listing.ImageLink,
		).Scan(&listingID); err != nil {
			return fmt.Errorf("ошибка выполнения запроса на создание объекта: %w", err)
		}
		return insertImages(ctx, tx, listingID, links)
	})
	if err != nil {
		log.Printf("[ListingRepo] Ошибка создания объекта '%s': %v", listing.Name, err)
		return 0, err
	}

	log.Printf("[ListingRepo] Объект '%s' создан с ID %d, изображений: %d", listing.Name, listingID, len(links))
	return listingID, nil
}

// UpdateListing обновляет поля объекта и добавляет записи Image для новых ссылок.
// Существующие изображения не изменяются. Если объект не принадлежит
// listing.UserID, ничего не меняется и возвращается ErrListingNotFound.
func (r *postgresListingRepository) UpdateListing(
	ctx context.Context,
	listing *models.Listing,
	newLinks []string,
) error {
	query := `UPDATE listings SET name=$1, about=$2, tags=$3, price=$4, address=$5, image_link=$6
	          WHERE id=$7 AND user_id=$8`

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query,
			listing.Name, listing.About, listing.Tags, listing.Price,
			listing.Address, listing.ImageLink, listing.ID, listing.UserID,
		)
		if err != nil {
			return fmt.Errorf("ошибка выполнения запроса на обновление объекта: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("ошибка получения числа обновленных строк: %w", err)
		}
		if n == 0 {
			return ErrListingNotFound
		}
		return insertImages(ctx, tx, listing.ID, newLinks)
	})
	if err != nil {
		if !errors.Is(err, ErrListingNotFound) {
			log.Printf("[ListingRepo] Ошибка обновления объекта ID %d: %v", listing.ID, err)
		}
		return err
	}

	log.Printf("[ListingRepo] Объект ID %d обновлен, новых изображений: %d", listing.ID, len(newLinks))
	return nil
}

// DeleteListing удаляет объект владельца. Изображения и записи на осмотр
// удаляются каскадно на уровне схемы.
func (r *postgresListingRepository) DeleteListing(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		log.Printf("[ListingRepo] Ошибка удаления объекта ID %d: %v", id, err)
		return fmt.Errorf("ошибка выполнения запроса на удаление объекта: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения числа удаленных строк: %w", err)
	}
	if n == 0 {
		return ErrListingNotFound
	}

	log.Printf("[ListingRepo] Объект ID %d удален пользователем ID %d", id, userID)
	return nil
}

func insertImages(ctx context.Context, tx *sqlx.Tx, listingID int64, links []string) error {
	for _, link := range links {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO images (listing_id, link) VALUES ($1, $2)`, listingID, link,
		); err != nil {
			return fmt.Errorf("ошибка выполнения запроса на добавление изображения: %w", err)
		}
	}
	return nil
}

// Кастомная ошибка репозитория.
var (
	ErrListingNotFound = errors.New("объект не найден")
)
