package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/maynagashev/portfolio-server/internal/middleware"
	"github.com/maynagashev/portfolio-server/internal/models"
	"github.com/maynagashev/portfolio-server/internal/services"
)

// Время жизни cookie сессии (совпадает со временем жизни токена).
const sessionCookieTTL = 24 * time.Hour

// AuthHandler обрабатывает HTTP-запросы, связанные с аутентификацией.
type AuthHandler struct {
	service services.AuthService // Зависимость от интерфейса, а не конкретной реализации
}

// NewAuthHandler создает новый экземпляр AuthHandler.
func NewAuthHandler(s services.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// Login обрабатывает запрос на вход администратора.
// Успешный вход возвращает {"success":true} и ставит HttpOnly cookie
// с токеном сессии; токен дублируется в теле ответа для API-клиентов.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLoginRequest(r)
	if err != nil {
		log.Printf("[AuthHandler] Ошибка декодирования запроса входа: %v", err)
		http.Error(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		log.Printf("[AuthHandler] Пустое имя пользователя или пароль при входе")
		http.Error(w, "Имя пользователя и пароль не могут быть пустыми", http.StatusBadRequest)
		return
	}

	log.Printf("[AuthHandler] Попытка входа пользователя: %s", req.Username)

	token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, models.LoginResponse{Success: false})
			return
		}
		log.Printf("[AuthHandler] Внутренняя ошибка при входе '%s': %v", req.Username, err)
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionCookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, models.LoginResponse{Success: true, Token: token})
	log.Printf("[AuthHandler] Успешный вход для: %s", req.Username)
}

// ChangeCredentials обрабатывает запрос на смену учетных данных администратора.
// Маршрут защищен middleware аутентификации.
func (h *AuthHandler) ChangeCredentials(w http.ResponseWriter, r *http.Request) {
	var req models.ChangeCredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[AuthHandler] Ошибка декодирования запроса смены учетных данных: %v", err)
		http.Error(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	admin, _ := middleware.GetAdminUsernameFromContext(r.Context())
	log.Printf("[AuthHandler] Запрос на смену учетных данных от '%s'", admin)

	if err := h.service.ChangeCredentials(req.NewUsername, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			http.Error(w, "Имя пользователя и пароль не могут быть пустыми", http.StatusBadRequest)
			return
		}
		log.Printf("[AuthHandler] Внутренняя ошибка при смене учетных данных: %v", err)
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Учетные данные успешно изменены\n"))
}

// decodeLoginRequest разбирает тело запроса входа.
// Принимает как JSON, так и HTML-форму (urlencoded) ради старого фронтенда.
func decodeLoginRequest(r *http.Request) (models.LoginRequest, error) {
	var req models.LoginRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
		return req, nil
	}

	err := json.NewDecoder(r.Body).Decode(&req)
	return req, err
}

// writeJSON кодирует ответ в JSON с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Handlers] Ошибка кодирования JSON-ответа: %v", err)
	}
}
