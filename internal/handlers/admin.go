package handlers

import (
	"log"
	"net/http"

	"github.com/maynagashev/estate/internal/services"
)

// AdminHandler обрабатывает управление пользователями.
type AdminHandler struct {
	admin services.AdminService
	views Renderer
}

// NewAdminHandler создает новый экземпляр AdminHandler.
func NewAdminHandler(as services.AdminService, v Renderer) *AdminHandler {
	return &AdminHandler{admin: as, views: v}
}

// Users показывает список пользователей.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		serviceError(w, "AdminHandler:Users", err)
		return
	}
	p := newPage(r, "Пользователи")
	p.Data = users
	h.views.Render(w, http.StatusOK, "users", p)
}

// Grant выдает пользователю права администратора.
func (h *AdminHandler) Grant(w http.ResponseWriter, r *http.Request) {
	h.setAdmin(w, r, true)
}

// Revoke снимает с пользователя права администратора.
func (h *AdminHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	h.setAdmin(w, r, false)
}

func (h *AdminHandler) setAdmin(w http.ResponseWriter, r *http.Request, isAdmin bool) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.admin.SetAdmin(r.Context(), id, isAdmin); err != nil {
		serviceError(w, "AdminHandler:SetAdmin", err)
		return
	}
	log.Printf("[AdminHandler] Пользователю %d установлен флаг администратора: %t", id, isAdmin)
	redirect(w, r, "/users")
}
