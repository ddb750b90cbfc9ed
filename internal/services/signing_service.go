package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/maynagashev/estate/internal/models"
	"github.com/maynagashev/estate/internal/repository"
)

// SigningInput - данные формы записи на осмотр.
type SigningInput struct {
	Name       string
	Surname    string
	Patronymic string
	Phone      string
	Date       time.Time
}

// SigningService определяет операции над записями на осмотр.
type SigningService interface {
	Create(ctx context.Context, userID, listingID int64, in SigningInput) (int64, error)
	UserSignings(ctx context.Context, userID int64) ([]models.SigningWithListing, error)
	AllSignings(ctx context.Context) ([]models.SigningWithListing, error)
}

var _ SigningService = (*signingService)(nil)

type signingService struct {
	signingRepo repository.SigningRepository
	listingRepo repository.ListingRepository
}

// NewSigningService создает новый экземпляр сервиса записей на осмотр.
func NewSigningService(
	signingRepo repository.SigningRepository,
	listingRepo repository.ListingRepository,
) SigningService {
	return &signingService{signingRepo: signingRepo, listingRepo: listingRepo}
}

// Create записывает пользователя на осмотр объекта.
// Повторные записи и занятость объекта не проверяются.
func (s *signingService) Create(ctx context.Context, userID, listingID int64, in SigningInput) (int64, error) {
	if _, err := s.listingRepo.GetListingByID(ctx, listingID); err != nil {
		return 0, notFound(err)
	}

	id, err := s.signingRepo.CreateSigning(ctx, &models.Signing{
		Name:       in.Name,
		Surname:    in.Surname,
		Patronymic: in.Patronymic,
		Phone:      in.Phone,
		Date:       in.Date,
		UserID:     userID,
		ListingID:  listingID,
	})
	if err != nil {
		return 0, fmt.Errorf("ошибка создания записи на осмотр: %w", err)
	}

	log.Printf("[SigningService] Пользователь %d записан на осмотр объекта %d", userID, listingID)
	return id, nil
}

// UserSignings возвращает историю записей пользователя.
func (s *signingService) UserSignings(ctx context.Context, userID int64) ([]models.SigningWithListing, error) {
	return s.signingRepo.ListSigningsByUser(ctx, userID)
}

// AllSignings возвращает все записи на осмотр.
func (s *signingService) AllSignings(ctx context.Context) ([]models.SigningWithListing, error) {
	return s.signingRepo.ListSignings(ctx)
}
