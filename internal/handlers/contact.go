package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/maynagashev/portfolio-server/internal/models"
	"github.com/maynagashev/portfolio-server/internal/services"
)

// ContactHandler обрабатывает сообщения из публичной контактной формы.
type ContactHandler struct {
	contactService services.ContactService
}

// NewContactHandler создает новый экземпляр ContactHandler.
func NewContactHandler(cs services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: cs}
}

// SendEmail обрабатывает POST запрос контактной формы.
// Принимает как JSON, так и HTML-форму.
func (h *ContactHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Неверный формат запроса", http.StatusBadRequest)
			return
		}
		req.Name = r.PostFormValue("name")
		req.Email = r.PostFormValue("email")
		req.Message = r.PostFormValue("message")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ContactHandler] Ошибка декодирования сообщения: %v", err)
		http.Error(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.contactService.Send(req); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			http.Error(w, "Имя, email и сообщение обязательны", http.StatusBadRequest)
		case errors.Is(err, services.ErrRelayFailure):
			log.Printf("[ContactHandler] Ошибка почтового релея: %v", err)
			http.Error(w, "Не удалось отправить сообщение", http.StatusInternalServerError)
		default:
			log.Printf("[ContactHandler] Внутренняя ошибка при отправке сообщения: %v", err)
			http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Сообщение отправлено (демо-режим)\n"))
}
