package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/maynagashev/estate/internal/models"
)

// Тип для ключа контекста.
type contextKey string

// Ключ для хранения текущего пользователя в контексте.
const UserKey contextKey = "user"

// SessionCookieName - имя cookie с токеном сессии.
const SessionCookieName = "session"

// Ответ пользователю без прав администратора.
const insufficientRights = "Недостаточно прав"

// Структура для пользовательских данных в JWT (claims) - должна совпадать с той, что в services.
type jwtClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// UserLoader загружает пользователя по ID из токена сессии.
type UserLoader interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// Session возвращает middleware, которое проверяет cookie сессии и кладет
// пользователя в контекст запроса. Запрос без валидной сессии проходит анонимно.
func Session(secret []byte, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := parseToken(cookie.Value, secret)
			if err != nil {
				log.Printf("[SessionMiddleware] Невалидный токен сессии: %v", err)
				ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUser(r.Context(), userID)
			if err != nil {
				log.Printf("[SessionMiddleware] Не удалось загрузить пользователя %d: %v", userID, err)
				ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAuth перенаправляет анонимных пользователей на страницу входа.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin пропускает только администраторов. Анонимные пользователи
// перенаправляются на страницу входа, остальные получают отказ.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if !user.IsAdmin {
			log.Printf("[AdminMiddleware] Пользователь %d без прав запросил %s", user.ID, r.URL.Path)
			http.Error(w, insufficientRights, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUser возвращает контекст с текущим пользователем.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// CurrentUser извлекает текущего пользователя из контекста запроса.
// Возвращает пользователя и true, если запрос аутентифицирован.
func CurrentUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok && user != nil
}

// SetSessionCookie сохраняет токен сессии в cookie. При maxAge > 0 cookie
// переживает закрытие браузера, иначе живет до конца сессии браузера.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration, secure bool) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge > 0 {
		cookie.MaxAge = int(maxAge.Seconds())
	}
	http.SetCookie(w, cookie)
}

// ClearSessionCookie удаляет cookie сессии.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// parseToken проверяет подпись и срок действия токена и возвращает ID пользователя.
func parseToken(tokenString string, secret []byte) (int64, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Убеждаемся, что метод подписи - HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, fmt.Errorf("токен невалиден")
	}
	return claims.UserID, nil
}
