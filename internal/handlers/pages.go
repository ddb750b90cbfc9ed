package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/maynagashev/estate/internal/models"
	"github.com/maynagashev/estate/internal/services"
)

// PageHandler обрабатывает публичные страницы и ленту объектов.
type PageHandler struct {
	listings services.ListingService
	views    Renderer
}

// NewPageHandler создает новый экземпляр PageHandler.
func NewPageHandler(ls services.ListingService, v Renderer) *PageHandler {
	return &PageHandler{listings: ls, views: v}
}

// Index показывает главную страницу.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "main", newPage(r, "Главная"))
}

// Catalog показывает все объекты.
func (h *PageHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	items, err := h.listings.Catalog(r.Context())
	if err != nil {
		serviceError(w, "PageHandler:Catalog", err)
		return
	}
	p := newPage(r, "Каталог")
	p.Data = items
	h.views.Render(w, http.StatusOK, "catalog", p)
}

// Detail показывает объект со всеми изображениями.
func (h *PageHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	user, ok := currentUser(w, r, "PageHandler:Detail")
	if !ok {
		return
	}

	detail, err := h.listings.Detail(r.Context(), id, user.ID)
	if err != nil {
		serviceError(w, "PageHandler:Detail", err)
		return
	}
	p := newPage(r, detail.Listing.Name)
	p.Data = detail
	h.views.Render(w, http.StatusOK, "object_lodging", p)
}

// Feed отдает ленту объектов в JSON.
func (h *PageHandler) Feed(w http.ResponseWriter, r *http.Request) {
	items, err := h.listings.Feed(r.Context())
	if err != nil {
		serviceError(w, "PageHandler:Feed", err)
		return
	}
	if items == nil {
		items = []models.ListingFeedItem{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(models.ListingFeed{News: items}); err != nil {
		log.Printf("[PageHandler:Feed] Ошибка кодирования ответа: %v", err)
	}
}
