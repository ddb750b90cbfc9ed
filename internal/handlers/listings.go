package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/maynagashev/estate/internal/forms"
	"github.com/maynagashev/estate/internal/listing"
	"github.com/maynagashev/estate/internal/services"
)

const (
	createListingPath = "/object_lodging_info_edit"
	titleCreate       = "Добавление здания"
	titleEdit         = "Редактирование здания"
)

// ListingHandler обрабатывает объекты текущего пользователя.
type ListingHandler struct {
	listings services.ListingService
	views    Renderer
}

// NewListingHandler создает новый экземпляр ListingHandler.
func NewListingHandler(ls services.ListingService, v Renderer) *ListingHandler {
	return &ListingHandler{listings: ls, views: v}
}

// MyListings показывает объекты текущего пользователя.
func (h *ListingHandler) MyListings(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, "ListingHandler:MyListings")
	if !ok {
		return
	}
	items, err := h.listings.UserListings(r.Context(), user.ID)
	if err != nil {
		serviceError(w, "ListingHandler:MyListings", err)
		return
	}
	p := newPage(r, "Мои здания")
	p.Data = items
	h.views.Render(w, http.StatusOK, "post_edit", p)
}

// CreatePage показывает пустую форму добавления объекта.
func (h *ListingHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, titleCreate, createListingPath, &forms.ListingForm{}, nil)
}

// Create обрабатывает отправку формы добавления объекта.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, "ListingHandler:Create")
	if !ok {
		return
	}

	var form forms.ListingForm
	if errs := forms.Parse(r, &form); errs != nil {
		h.renderForm(w, r, titleCreate, createListingPath, &form, errs)
		return
	}

	if _, err := h.listings.Create(r.Context(), user.ID, listingInput(&form)); err != nil {
		if errors.Is(err, listing.ErrNoImages) {
			h.renderForm(w, r, titleCreate, createListingPath, &form, noImagesErrors())
			return
		}
		serviceError(w, "ListingHandler:Create", err)
		return
	}
	redirect(w, r, "/catalog")
}

// EditPage показывает форму редактирования объекта владельца.
func (h *ListingHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	user, ok := currentUser(w, r, "ListingHandler:EditPage")
	if !ok {
		return
	}

	state, err := h.listings.EditState(r.Context(), id, user.ID)
	if err != nil {
		serviceError(w, "ListingHandler:EditPage", err)
		return
	}

	price := state.Listing.Price
	form := &forms.ListingForm{
		Name:      state.Listing.Name,
		About:     state.Listing.About,
		Tags:      listing.DisplayTags(state.Listing.Tags),
		Price:     &price,
		Address:   state.Listing.Address,
		ImageLink: state.ImageLinks,
	}
	h.renderForm(w, r, titleEdit, editListingPath(id), form, nil)
}

// Update обрабатывает отправку формы редактирования объекта.
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	user, ok := currentUser(w, r, "ListingHandler:Update")
	if !ok {
		return
	}

	var form forms.ListingForm
	if errs := forms.Parse(r, &form); errs != nil {
		h.renderForm(w, r, titleEdit, editListingPath(id), &form, errs)
		return
	}

	if err := h.listings.Update(r.Context(), id, user.ID, listingInput(&form)); err != nil {
		if errors.Is(err, listing.ErrNoImages) {
			h.renderForm(w, r, titleEdit, editListingPath(id), &form, noImagesErrors())
			return
		}
		serviceError(w, "ListingHandler:Update", err)
		return
	}
	redirect(w, r, "/post_edit")
}

// Delete удаляет объект владельца.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	user, ok := currentUser(w, r, "ListingHandler:Delete")
	if !ok {
		return
	}

	if err := h.listings.Delete(r.Context(), id, user.ID); err != nil {
		serviceError(w, "ListingHandler:Delete", err)
		return
	}
	redirect(w, r, "/post_edit")
}

func (h *ListingHandler) renderForm(
	w http.ResponseWriter,
	r *http.Request,
	title, action string,
	form *forms.ListingForm,
	errs forms.Errors,
) {
	p := formPage(r, title, form, errs)
	p.Data = action
	h.views.Render(w, http.StatusOK, "object_lodging_info_edit", p)
}

func editListingPath(id int64) string {
	return createListingPath + "/" + strconv.FormatInt(id, 10)
}

func listingInput(form *forms.ListingForm) services.ListingInput {
	return services.ListingInput{
		Name:       form.Name,
		About:      form.About,
		Tags:       form.Tags,
		Price:      *form.Price,
		Address:    form.Address,
		ImageLinks: form.ImageLink,
	}
}

func noImagesErrors() forms.Errors {
	return forms.Errors{"image_link": "Укажите хотя бы одну ссылку на изображение"}
}
