// Package views отрисовывает HTML-страницы из встроенных шаблонов.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/maynagashev/estate/internal/forms"
	"github.com/maynagashev/estate/internal/models"
)

//go:embed templates/*.html
var files embed.FS

const layoutFile = "templates/layout.html"

// Page - данные, передаваемые в шаблон страницы.
type Page struct {
	Title   string
	User    *models.User // Текущий пользователь или nil
	Message string       // Общее сообщение формы
	Errors  forms.Errors // Ошибки по полям формы
	Form    any
	Data    any
}

// Renderer хранит разобранные шаблоны страниц.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("02.01.2006")
	},
	"trim": func(s string) string {
		return strings.TrimRight(s, " ")
	},
}

// New разбирает все шаблоны страниц вместе с общим макетом.
func New() (*Renderer, error) {
	names, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска шаблонов: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		if name == layoutFile {
			continue
		}
		page := strings.TrimSuffix(path.Base(name), ".html")
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(files, layoutFile, name)
		if err != nil {
			return nil, fmt.Errorf("ошибка разбора шаблона %s: %w", name, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Render отрисовывает страницу с указанным статусом ответа.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data Page) {
	tmpl, ok := r.pages[page]
	if !ok {
		log.Printf("[Views] Шаблон '%s' не найден", page)
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	// Сначала отрисовываем в буфер, чтобы при ошибке не отдать половину страницы
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("[Views] Ошибка отрисовки шаблона '%s': %v", page, err)
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[Views] Ошибка записи ответа '%s': %v", page, err)
	}
}
