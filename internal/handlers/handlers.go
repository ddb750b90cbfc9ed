// Package handlers содержит HTTP-обработчики страниц приложения.
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/maynagashev/estate/internal/forms"
	"github.com/maynagashev/estate/internal/middleware"
	"github.com/maynagashev/estate/internal/models"
	"github.com/maynagashev/estate/internal/services"
	"github.com/maynagashev/estate/internal/views"
)

// Renderer отрисовывает HTML-страницы.
type Renderer interface {
	Render(w http.ResponseWriter, status int, page string, data views.Page)
}

const (
	msgInternalError = "Внутренняя ошибка сервера"
	msgNotFound      = "Страница не найдена"
)

// newPage заполняет общие поля страницы для текущего запроса.
func newPage(r *http.Request, title string) views.Page {
	user, _ := middleware.CurrentUser(r.Context())
	return views.Page{Title: title, User: user}
}

// formPage возвращает страницу формы с ошибками проверки.
func formPage(r *http.Request, title string, form any, errs forms.Errors) views.Page {
	p := newPage(r, title)
	p.Form = form
	p.Errors = errs
	p.Message = errs.Get("")
	return p
}

// currentUser возвращает пользователя, которого middleware уже положило в контекст.
// Обработчики за RequireAuth всегда получают пользователя.
func currentUser(w http.ResponseWriter, r *http.Request, tag string) (*models.User, bool) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		log.Printf("[%s] Не удалось получить пользователя из контекста", tag)
		http.Error(w, msgInternalError, http.StatusInternalServerError)
		return nil, false
	}
	return user, true
}

// idParam разбирает числовой параметр {id} маршрута.
// Нечисловой ID обрабатывается как отсутствующая страница.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, msgNotFound, http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// serviceError отвечает по ошибке сервиса: 404 для ErrNotFound, 500 для остальных.
func serviceError(w http.ResponseWriter, tag string, err error) {
	if errors.Is(err, services.ErrNotFound) {
		http.Error(w, msgNotFound, http.StatusNotFound)
		return
	}
	log.Printf("[%s] Внутренняя ошибка: %v", tag, err)
	http.Error(w, msgInternalError, http.StatusInternalServerError)
}

func redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}
