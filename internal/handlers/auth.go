package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/maynagashev/estate/internal/forms"
	"github.com/maynagashev/estate/internal/middleware"
	"github.com/maynagashev/estate/internal/services"
)

// AuthHandler обрабатывает регистрацию, вход и выход.
type AuthHandler struct {
	service      services.AuthService
	views        Renderer
	secureCookie bool
}

// NewAuthHandler создает новый экземпляр AuthHandler.
// secureCookie включает флаг Secure у cookie сессии (для HTTPS).
func NewAuthHandler(s services.AuthService, v Renderer, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: s, views: v, secureCookie: secureCookie}
}

// RegisterPage показывает форму регистрации.
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "register", formPage(r, "Регистрация", &forms.RegisterForm{}, nil))
}

// Register обрабатывает отправку формы регистрации.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var form forms.RegisterForm
	if errs := forms.Parse(r, &form); errs != nil {
		h.views.Render(w, http.StatusOK, "register", formPage(r, "Регистрация", &form, errs))
		return
	}

	err := h.service.Register(r.Context(), services.RegisterInput{
		Email:         form.Email,
		Password:      form.Password,
		PasswordAgain: form.PasswordAgain,
		Name:          form.Name,
		Surname:       form.Surname,
	})
	switch {
	case errors.Is(err, services.ErrPasswordMismatch):
		h.renderRegisterMessage(w, r, &form, "Пароли не совпадают")
		return
	case errors.Is(err, services.ErrUserExists):
		h.renderRegisterMessage(w, r, &form, "Такой пользователь уже есть")
		return
	case err != nil:
		log.Printf("[AuthHandler:Register] Ошибка регистрации '%s': %v", form.Email, err)
		http.Error(w, msgInternalError, http.StatusInternalServerError)
		return
	}

	redirect(w, r, "/login")
}

func (h *AuthHandler) renderRegisterMessage(w http.ResponseWriter, r *http.Request, form *forms.RegisterForm, msg string) {
	p := formPage(r, "Регистрация", form, nil)
	p.Message = msg
	h.views.Render(w, http.StatusOK, "register", p)
}

// LoginPage показывает форму входа.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "login", formPage(r, "Авторизация", &forms.LoginForm{}, nil))
}

// Login проверяет учетные данные и выдает cookie сессии.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var form forms.LoginForm
	if errs := forms.Parse(r, &form); errs != nil {
		h.views.Render(w, http.StatusOK, "login", formPage(r, "Авторизация", &form, errs))
		return
	}

	token, err := h.service.Login(r.Context(), form.Email, form.Password, form.RememberMe)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			p := formPage(r, "Авторизация", &form, nil)
			p.Message = "Неправильный логин или пароль"
			h.views.Render(w, http.StatusOK, "login", p)
			return
		}
		log.Printf("[AuthHandler:Login] Ошибка входа '%s': %v", form.Email, err)
		http.Error(w, msgInternalError, http.StatusInternalServerError)
		return
	}

	var maxAge time.Duration // cookie до закрытия браузера
	if form.RememberMe {
		maxAge = services.RememberTTL
	}
	middleware.SetSessionCookie(w, token, maxAge, h.secureCookie)
	redirect(w, r, "/")
}

// Logout удаляет cookie сессии.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w)
	redirect(w, r, "/")
}
