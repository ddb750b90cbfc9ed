package services

import (
	"context"
	"log"

	"github.com/maynagashev/estate/internal/models"
	"github.com/maynagashev/estate/internal/repository"
)

// AdminService определяет операции администратора над пользователями.
type AdminService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error
}

var _ AdminService = (*adminService)(nil)

type adminService struct {
	userRepo repository.UserRepository
}

// NewAdminService создает новый экземпляр сервиса администрирования.
func NewAdminService(userRepo repository.UserRepository) AdminService {
	return &adminService{userRepo: userRepo}
}

// ListUsers возвращает всех пользователей.
func (s *adminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListUsers(ctx)
}

// SetAdmin выдает или снимает права администратора.
func (s *adminService) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	if err := s.userRepo.SetAdmin(ctx, id, isAdmin); err != nil {
		return notFound(err)
	}
	log.Printf("[AdminService] Пользователь ID %d: права администратора = %t", id, isAdmin)
	return nil
}
