package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/maynagashev/estate/internal/listing"
	"github.com/maynagashev/estate/internal/models"
	"github.com/maynagashev/estate/internal/repository"
)

// ListingInput - поля объекта из формы добавления и редактирования.
type ListingInput struct {
	Name       string
	About      string
	Tags       string
	Price      int64
	Address    string
	ImageLinks string // Ссылки через пробел
}

// ListingDetail - объект со всеми изображениями для страницы объекта.
type ListingDetail struct {
	Listing       *models.Listing
	Images        []models.Image
	AlreadySigned bool // Текущий пользователь уже записывался на осмотр
}

// ListingEdit - текущее состояние объекта для формы редактирования.
type ListingEdit struct {
	Listing    *models.Listing
	ImageLinks string // Существующие ссылки через пробел
}

// ListingService определяет операции над объектами недвижимости.
type ListingService interface {
	Catalog(ctx context.Context) ([]models.Listing, error)
	Feed(ctx context.Context) ([]models.ListingFeedItem, error)
	UserListings(ctx context.Context, userID int64) ([]models.Listing, error)
	Detail(ctx context.Context, id, userID int64) (*ListingDetail, error)
	Create(ctx context.Context, userID int64, in ListingInput) (int64, error)
	EditState(ctx context.Context, id, userID int64) (*ListingEdit, error)
	Update(ctx context.Context, id, userID int64, in ListingInput) error
	Delete(ctx context.Context, id, userID int64) error
}

var _ ListingService = (*listingService)(nil)

type listingService struct {
	listingRepo repository.ListingRepository
	signingRepo repository.SigningRepository
}

// NewListingService создает новый экземпляр сервиса объектов.
func NewListingService(
	listingRepo repository.ListingRepository,
	signingRepo repository.SigningRepository,
) ListingService {
	return &listingService{listingRepo: listingRepo, signingRepo: signingRepo}
}

// Catalog возвращает все объекты.
func (s *listingService) Catalog(ctx context.Context) ([]models.Listing, error) {
	return s.listingRepo.ListListings(ctx)
}

// Feed возвращает объекты для JSON-ленты.
func (s *listingService) Feed(ctx context.Context) ([]models.ListingFeedItem, error) {
	return s.listingRepo.ListFeed(ctx)
}

// UserListings возвращает объекты владельца.
func (s *listingService) UserListings(ctx context.Context, userID int64) ([]models.Listing, error) {
	return s.listingRepo.ListListingsByUser(ctx, userID)
}

// Detail возвращает объект, его изображения и признак записи пользователя на осмотр.
func (s *listingService) Detail(ctx context.Context, id, userID int64) (*ListingDetail, error) {
	l, err := s.listingRepo.GetListingByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	images, err := s.listingRepo.ListImages(ctx, id)
	if err != nil {
		return nil, err
	}
	signed, err := s.signingRepo.HasSigning(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return &ListingDetail{Listing: l, Images: images, AlreadySigned: signed}, nil
}

// Create создает объект пользователя и по изображению на каждую ссылку.
func (s *listingService) Create(ctx context.Context, userID int64, in ListingInput) (int64, error) {
	rec, err := listing.ReconcileImages(in.ImageLinks, nil)
	if err != nil {
		return 0, err
	}

	l := &models.Listing{
		UserID:    userID,
		Name:      in.Name,
		About:     in.About,
		Tags:      listing.NormalizeTags(in.Tags),
		Price:     in.Price,
		Address:   in.Address,
		ImageLink: rec.Primary,
	}
	id, err := s.listingRepo.CreateListing(ctx, l, rec.New)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания объекта: %w", err)
	}

	log.Printf("[ListingService] Пользователь %d создал объект ID %d", userID, id)
	return id, nil
}

// EditState возвращает объект владельца и склеенные ссылки его изображений.
func (s *listingService) EditState(ctx context.Context, id, userID int64) (*ListingEdit, error) {
	l, err := s.listingRepo.GetOwnedListing(ctx, id, userID)
	if err != nil {
		return nil, notFound(err)
	}
	links, err := s.imageLinks(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ListingEdit{Listing: l, ImageLinks: listing.JoinLinks(links)}, nil
}

// Update применяет форму редактирования к объекту владельца.
// Новые ссылки добавляются как изображения, существующие изображения сохраняются.
func (s *listingService) Update(ctx context.Context, id, userID int64, in ListingInput) error {
	if _, err := s.listingRepo.GetOwnedListing(ctx, id, userID); err != nil {
		return notFound(err)
	}
	existing, err := s.imageLinks(ctx, id)
	if err != nil {
		return err
	}
	rec, err := listing.ReconcileImages(in.ImageLinks, existing)
	if err != nil {
		return err
	}

	l := &models.Listing{
		ID:        id,
		UserID:    userID,
		Name:      in.Name,
		About:     in.About,
		Tags:      listing.NormalizeTags(in.Tags),
		Price:     in.Price,
		Address:   in.Address,
		ImageLink: rec.Primary,
	}
	if err = s.listingRepo.UpdateListing(ctx, l, rec.New); err != nil {
		return notFound(err)
	}

	log.Printf("[ListingService] Пользователь %d обновил объект ID %d", userID, id)
	return nil
}

// Delete удаляет объект владельца.
func (s *listingService) Delete(ctx context.Context, id, userID int64) error {
	if err := s.listingRepo.DeleteListing(ctx, id, userID); err != nil {
		return notFound(err)
	}
	return nil
}

func (s *listingService) imageLinks(ctx context.Context, id int64) ([]string, error) {
	images, err := s.listingRepo.ListImages(ctx, id)
	if err != nil {
		return nil, err
	}
	links := make([]string, 0, len(images))
	for _, img := range images {
		links = append(links, img.Link)
	}
	return links, nil
}

// notFound переводит ошибки "не найдено" репозитория в ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, repository.ErrListingNotFound) || errors.Is(err, repository.ErrUserNotFound) {
		return ErrNotFound
	}
	return err
}
