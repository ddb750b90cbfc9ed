package handlers

import (
	"net/http"

	"github.com/maynagashev/estate/internal/forms"
	"github.com/maynagashev/estate/internal/services"
)

const titleSign = "Запись на осмотр"

// SigningHandler обрабатывает записи на осмотр.
type SigningHandler struct {
	signings services.SigningService
	views    Renderer
}

// NewSigningHandler создает новый экземпляр SigningHandler.
func NewSigningHandler(ss services.SigningService, v Renderer) *SigningHandler {
	return &SigningHandler{signings: ss, views: v}
}

// SignPage показывает форму записи, заполненную именем и фамилией пользователя.
func (h *SigningHandler) SignPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := idParam(w, r); !ok {
		return
	}
	user, ok := currentUser(w, r, "SigningHandler:SignPage")
	if !ok {
		return
	}
	form := &forms.SignForm{Name: user.Name, Surname: user.Surname}
	h.views.Render(w, http.StatusOK, "sign_for", formPage(r, titleSign, form, nil))
}

// Sign создает запись на осмотр объекта.
func (h *SigningHandler) Sign(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	user, ok := currentUser(w, r, "SigningHandler:Sign")
	if !ok {
		return
	}

	var form forms.SignForm
	if errs := forms.Parse(r, &form); errs != nil {
		h.views.Render(w, http.StatusOK, "sign_for", formPage(r, titleSign, &form, errs))
		return
	}

	_, err := h.signings.Create(r.Context(), user.ID, id, services.SigningInput{
		Name:       form.Name,
		Surname:    form.Surname,
		Patronymic: form.Patronymic,
		Phone:      form.Phone,
		Date:       form.Date,
	})
	if err != nil {
		serviceError(w, "SigningHandler:Sign", err)
		return
	}
	redirect(w, r, "/index")
}

// Profile показывает историю записей текущего пользователя.
func (h *SigningHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, "SigningHandler:Profile")
	if !ok {
		return
	}
	rows, err := h.signings.UserSignings(r.Context(), user.ID)
	if err != nil {
		serviceError(w, "SigningHandler:Profile", err)
		return
	}
	p := newPage(r, "Профиль")
	p.Data = rows
	h.views.Render(w, http.StatusOK, "profile", p)
}

// All показывает все записи на осмотр (для администраторов).
func (h *SigningHandler) All(w http.ResponseWriter, r *http.Request) {
	rows, err := h.signings.AllSignings(r.Context())
	if err != nil {
		serviceError(w, "SigningHandler:All", err)
		return
	}
	p := newPage(r, "Записи на осмотр")
	p.Data = rows
	h.views.Render(w, http.StatusOK, "signings", p)
}
