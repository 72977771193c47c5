package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/maynagashev/portfolio-server/internal/services"
)

// CVHandler обрабатывает HTTP-запросы, связанные с резюме.
type CVHandler struct {
	cvService services.CVService
}

// NewCVHandler создает новый экземпляр CVHandler.
func NewCVHandler(cs services.CVService) *CVHandler {
	return &CVHandler{cvService: cs}
}

// Upload обрабатывает POST запрос на загрузку (замену) резюме.
// Ожидает multipart-форму с файлом в поле "cv" или "cvFile".
// Маршрут защищен middleware.
func (h *CVHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := formFile(r, "cv", "cvFile")
	if err != nil {
		log.Printf("[CVHandler:Upload] Файл не приложен: %v", err)
		http.Error(w, "Файл резюме не приложен", http.StatusBadRequest)
		return
	}
	defer closeQuietly(file, "CVHandler:Upload")

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}

	if err = h.cvService.Upload(r.Context(), contentType, file, header.Size); err != nil {
		if errors.Is(err, services.ErrEmptyFile) {
			http.Error(w, "Файл резюме пуст", http.StatusBadRequest)
			return
		}
		log.Printf("[CVHandler:Upload] Ошибка сервиса при загрузке резюме: %v", err)
		http.Error(w, "Внутренняя ошибка сервера при загрузке резюме", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Резюме успешно загружено\n"))
}

// Download обрабатывает публичный GET запрос на скачивание резюме.
func (h *CVHandler) Download(w http.ResponseWriter, r *http.Request) {
	reader, cv, err := h.cvService.Download(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrCVNotFound) {
			http.Error(w, "Резюме не найдено", http.StatusNotFound)
			return
		}
		log.Printf("[CVHandler:Download] Ошибка сервиса при скачивании резюме: %v", err)
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}
	defer closeQuietly(reader, "CVHandler:Download")

	w.Header().Set("Content-Disposition", `attachment; filename=CV.pdf`)
	contentType := cv.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	if cv.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(cv.SizeBytes, 10))
	}

	if _, err = io.Copy(w, reader); err != nil {
		log.Printf("[CVHandler:Download] Ошибка копирования файла резюме в ответ: %v", err)
		return
	}

	log.Printf("[CVHandler:Download] Резюме успешно отправлено")
}
