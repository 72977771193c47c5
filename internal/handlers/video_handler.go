package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/maynagashev/portfolio-server/internal/services"
)

// Максимальный объем частей multipart-формы, удерживаемых в памяти;
// остальное net/http сбрасывает во временные файлы.
const maxMultipartMemory = 32 << 20 // 32 MiB

// VideoHandler обрабатывает HTTP-запросы, связанные с демо-видео.
type VideoHandler struct {
	videoService services.VideoService
}

// NewVideoHandler создает новый экземпляр VideoHandler.
func NewVideoHandler(vs services.VideoService) *VideoHandler {
	return &VideoHandler{videoService: vs}
}

// Upload обрабатывает POST запрос на загрузку нового видео.
// Ожидает multipart-форму с файлом (поле "video" или "videoFile")
// и необязательным полем "videoTitle". Маршрут защищен middleware.
func (h *VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := formFile(r, "video", "videoFile")
	if err != nil {
		log.Printf("[VideoHandler:Upload] Файл не приложен: %v", err)
		http.Error(w, "Файл видео не приложен", http.StatusBadRequest)
		return
	}
	defer closeQuietly(file, "VideoHandler:Upload")

	title := r.FormValue("videoTitle")
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	videoID, err := h.videoService.Upload(r.Context(), title, header.Filename, contentType, file, header.Size)
	if err != nil {
		if errors.Is(err, services.ErrEmptyFile) {
			http.Error(w, "Файл видео пуст", http.StatusBadRequest)
			return
		}
		log.Printf("[VideoHandler:Upload] Ошибка сервиса при загрузке видео: %v", err)
		http.Error(w, "Внутренняя ошибка сервера при загрузке видео", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "Видео успешно загружено (ID: %d)\n", videoID)
}

// List обрабатывает публичный GET запрос на список видео.
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.videoService.List(r.Context())
	if err != nil {
		log.Printf("[VideoHandler:List] Ошибка сервиса при получении списка видео: %v", err)
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Stream обрабатывает публичный GET запрос на потоковую раздачу видео.
func (h *VideoHandler) Stream(w http.ResponseWriter, r *http.Request) {
	id, err := videoIDFromURL(r)
	if err != nil {
		http.Error(w, "Неверный идентификатор видео", http.StatusBadRequest)
		return
	}

	reader, video, err := h.videoService.Download(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrVideoNotFound) {
			http.Error(w, "Видео не найдено", http.StatusNotFound)
			return
		}
		log.Printf("[VideoHandler:Stream] Ошибка сервиса при скачивании видео ID %d: %v", id, err)
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}
	defer closeQuietly(reader, "VideoHandler:Stream")

	contentType := video.ContentType
	if contentType == "" {
		contentType = "video/mp4"
	}
	w.Header().Set("Content-Type", contentType)
	if video.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(video.SizeBytes, 10))
	}

	if _, err = io.Copy(w, reader); err != nil {
		// Клиент мог оборвать соединение посреди потока; статус уже отправлен.
		log.Printf("[VideoHandler:Stream] Ошибка копирования потока видео ID %d: %v", id, err)
		return
	}

	log.Printf("[VideoHandler:Stream] Видео ID %d успешно отправлено", id)
}

// Edit обрабатывает PUT запрос на изменение видео.
// Новое название приходит в поле "videoTitle", новый файл - в поле
// "video"/"videoFile"; и то и другое необязательно. Замена файла
// назначает видео новый ID. Маршрут защищен middleware.
func (h *VideoHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := videoIDFromURL(r)
	if err != nil {
		http.Error(w, "Неверный идентификатор видео", http.StatusBadRequest)
		return
	}

	if err = r.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		log.Printf("[VideoHandler:Edit] Ошибка разбора формы: %v", err)
		http.Error(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}
	newTitle := r.FormValue("videoTitle")

	var (
		reader      io.Reader
		fileName    string
		contentType string
		size        int64
	)
	file, header, err := formFile(r, "video", "videoFile")
	switch {
	case err == nil:
		defer closeQuietly(file, "VideoHandler:Edit")
		reader = file
		fileName = header.Filename
		size = header.Size
		contentType = header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// Файл не приложен - правка только названия.
	default:
		log.Printf("[VideoHandler:Edit] Ошибка чтения файла из формы: %v", err)
		http.Error(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	newID, err := h.videoService.Edit(r.Context(), id, newTitle, fileName, contentType, reader, size)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVideoNotFound):
			http.Error(w, "Видео не найдено", http.StatusNotFound)
		case errors.Is(err, services.ErrEmptyFile):
			http.Error(w, "Файл видео пуст", http.StatusBadRequest)
		default:
			log.Printf("[VideoHandler:Edit] Ошибка сервиса при правке видео ID %d: %v", id, err)
			http.Error(w, "Внутренняя ошибка сервера при правке видео", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "Видео успешно обновлено (ID: %d)\n", newID)
}

// Delete обрабатывает DELETE запрос на удаление видео.
// Маршрут защищен middleware.
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := videoIDFromURL(r)
	if err != nil {
		http.Error(w, "Неверный идентификатор видео", http.StatusBadRequest)
		return
	}

	if err = h.videoService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrVideoNotFound) {
			http.Error(w, "Видео не найдено", http.StatusNotFound)
			return
		}
		log.Printf("[VideoHandler:Delete] Ошибка сервиса при удалении видео ID %d: %v", id, err)
		http.Error(w, "Внутренняя ошибка сервера при удалении видео", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Видео успешно удалено\n"))
}

// videoIDFromURL извлекает и валидирует идентификатор видео из URL.
func videoIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("неверный идентификатор видео: %q", idStr)
	}
	return id, nil
}

// formFile достает файл из multipart-формы, пробуя имена полей по очереди.
// Старый фронтенд отправлял поле "videoFile", новый - "video".
func formFile(r *http.Request, names ...string) (multipart.File, *multipart.FileHeader, error) {
	var (
		file   multipart.File
		header *multipart.FileHeader
		err    error
	)
	for _, name := range names {
		file, header, err = r.FormFile(name)
		if err == nil {
			return file, header, nil
		}
		if !errors.Is(err, http.ErrMissingFile) {
			return nil, nil, err
		}
	}
	return nil, nil, err
}

// closeQuietly закрывает ресурс, логируя ошибку закрытия.
func closeQuietly(c io.Closer, where string) {
	if err := c.Close(); err != nil {
		log.Printf("[%s] Ошибка закрытия ресурса: %v", where, err)
	}
}
