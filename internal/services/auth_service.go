package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/maynagashev/estate/internal/models"
	"github.com/maynagashev/estate/internal/repository"
)

// Время жизни сессии.
const (
	SessionTTL  = 24 * time.Hour      // Без "запомнить меня"
	RememberTTL = 30 * 24 * time.Hour // С "запомнить меня"
	tokenIssuer = "estate-server"
)

// RegisterInput - данные для регистрации пользователя.
type RegisterInput struct {
	Name          string
	Surname       string
	Email         string
	Password      string
	PasswordAgain string
}

// AuthService определяет интерфейс для сервиса аутентификации.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) error
	// Login возвращает подписанный токен сессии.
	Login(ctx context.Context, email, password string, remember bool) (string, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// Структура для пользовательских данных в JWT (claims).
type jwtClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Убедимся, что authService удовлетворяет интерфейсу AuthService.
var _ AuthService = (*authService)(nil)

type authService struct {
	userRepo repository.UserRepository
	secret   []byte
	now      func() time.Time
}

// NewAuthService создает новый экземпляр сервиса аутентификации.
// secret - ключ подписи токенов сессии.
func NewAuthService(userRepo repository.UserRepository, secret []byte) AuthService {
	return &authService{userRepo: userRepo, secret: secret, now: time.Now}
}

// Register регистрирует нового пользователя без прав администратора.
func (s *authService) Register(ctx context.Context, in RegisterInput) error {
	if in.Password != in.PasswordAgain {
		return ErrPasswordMismatch
	}

	_, err := s.userRepo.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		log.Printf("[AuthService] Попытка регистрации с занятым email: %s", in.Email)
		return ErrUserExists
	case !errors.Is(err, repository.ErrUserNotFound):
		return fmt.Errorf("внутренняя ошибка сервера при поиске пользователя: %w", err)
	}

	// Хешируем пароль
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[AuthService] Ошибка хеширования пароля для '%s': %v", in.Email, err)
		return errors.New("внутренняя ошибка сервера при хешировании пароля")
	}

	user := &models.User{
		Name:         in.Name,
		Surname:      in.Surname,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
		IsAdmin:      false,
	}

	if _, err = s.userRepo.CreateUser(ctx, user); err != nil {
		// Email могли занять между проверкой и вставкой
		if errors.Is(err, repository.ErrEmailTaken) {
			return ErrUserExists
		}
		return fmt.Errorf("внутренняя ошибка сервера при создании пользователя: %w", err)
	}

	log.Printf("[AuthService] Пользователь '%s' успешно зарегистрирован", in.Email)
	return nil
}

// Login аутентифицирует пользователя и возвращает JWT токен сессии.
func (s *authService) Login(ctx context.Context, email, password string, remember bool) (string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Printf("[AuthService] Попытка входа несуществующего пользователя: %s", email)
			return "", ErrInvalidCredentials // Общая ошибка для несуществующего пользователя и неверного пароля
		}
		return "", fmt.Errorf("внутренняя ошибка сервера при поиске пользователя: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Printf("[AuthService] Неверный пароль для пользователя: %s", email)
		return "", ErrInvalidCredentials
	}

	ttl := SessionTTL
	if remember {
		ttl = RememberTTL
	}
	token, err := s.generateJWT(user.ID, ttl)
	if err != nil {
		log.Printf("[AuthService] Ошибка генерации JWT для '%s': %v", email, err)
		return "", errors.New("внутренняя ошибка сервера при генерации токена")
	}

	log.Printf("[AuthService] Пользователь '%s' успешно аутентифицирован", email)
	return token, nil
}

// GetUser возвращает пользователя по ID.
func (s *authService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("внутренняя ошибка сервера при получении пользователя: %w", err)
	}
	return user, nil
}

// generateJWT создает и подписывает JWT токен для пользователя.
func (s *authService) generateJWT(userID int64, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwtClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи JWT: %w", err)
	}
	return signedToken, nil
}
