package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/maynagashev/estate/internal/storage"
)

// MaxUploadSize - максимальный размер загружаемого изображения.
const MaxUploadSize = 10 << 20

// sniffLen - сколько байт нужно http.DetectContentType.
const sniffLen = 512

// UploadHandler принимает фотографии объектов и сохраняет их в хранилище.
type UploadHandler struct {
	images storage.ImageStorage
}

// NewUploadHandler создает новый экземпляр UploadHandler.
func NewUploadHandler(s storage.ImageStorage) *UploadHandler {
	return &UploadHandler{images: s}
}

// UploadResponse - ответ на загрузку изображения.
type UploadResponse struct {
	URL string `json:"url"`
}

// Upload обрабатывает multipart-запрос с полем file.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Запас на заголовки multipart сверх размера файла
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+sniffLen*2)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Файл слишком большой", http.StatusRequestEntityTooLarge)
			return
		}
		log.Printf("[UploadHandler] Ошибка разбора формы: %v", err)
		http.Error(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Файл не передан", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > MaxUploadSize {
		http.Error(w, "Файл слишком большой", http.StatusRequestEntityTooLarge)
		return
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		log.Printf("[UploadHandler] Ошибка чтения файла: %v", err)
		http.Error(w, msgInternalError, http.StatusInternalServerError)
		return
	}
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		http.Error(w, "Можно загружать только изображения", http.StatusUnsupportedMediaType)
		return
	}
	if _, err = file.Seek(0, io.SeekStart); err != nil {
		log.Printf("[UploadHandler] Ошибка перемотки файла: %v", err)
		http.Error(w, msgInternalError, http.StatusInternalServerError)
		return
	}

	url, err := h.images.UploadImage(r.Context(), file, header.Size, contentType, imageExt(header.Filename, contentType))
	if err != nil {
		log.Printf("[UploadHandler] Ошибка сохранения файла '%s': %v", header.Filename, err)
		http.Error(w, msgInternalError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err = json.NewEncoder(w).Encode(UploadResponse{URL: url}); err != nil {
		log.Printf("[UploadHandler] Ошибка кодирования ответа: %v", err)
	}
}

// imageExt берет расширение из имени файла или, если его нет, из типа содержимого.
func imageExt(filename, contentType string) string {
	if ext := filepath.Ext(filename); ext != "" {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
