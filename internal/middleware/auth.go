package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Тип для ключа контекста.
type contextKey string

// Ключ для хранения имени администратора в контексте.
const AdminUsernameKey contextKey = "adminUsername"

// SessionCookieName - имя cookie с токеном сессии администратора.
const SessionCookieName = "portfolio_session"

// Структура для пользовательских данных в JWT (claims) - должна совпадать с той, что в services.
type jwtClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Authenticator возвращает middleware, проверяющий токен сессии администратора.
// Токен принимается из cookie или из заголовка "Authorization: Bearer".
// Секрет подписи приходит из конфигурации, а не из глобальной константы.
func Authenticator(jwtSecret string) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				log.Println("[AuthMiddleware] Токен сессии отсутствует")
				http.Error(w, "Требуется аутентификация", http.StatusUnauthorized)
				return
			}

			// Парсим и валидируем токен
			claims := &jwtClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				// Убеждаемся, что метод подписи - HS256
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
				}
				return secret, nil
			})
			if err != nil {
				log.Printf("[AuthMiddleware] Ошибка парсинга/валидации токена: %v", err)
				http.Error(w, "Невалидный токен", http.StatusUnauthorized)
				return
			}

			// Проверяем валидность токена (включая время жизни)
			if !token.Valid {
				log.Println("[AuthMiddleware] Предоставлен невалидный токен (возможно, истек)")
				http.Error(w, "Невалидный токен", http.StatusUnauthorized)
				return
			}

			// Добавляем имя администратора в контекст запроса
			ctx := context.WithValue(r.Context(), AdminUsernameKey, claims.Username)

			log.Printf("[AuthMiddleware] Администратор '%s' успешно аутентифицирован", claims.Username)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken достает токен сессии из cookie или заголовка Authorization.
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
		return ""
	}
	return headerParts[1]
}

// GetAdminUsernameFromContext извлекает имя администратора из контекста запроса.
// Возвращает имя и true, если оно найдено, иначе пустую строку и false.
func GetAdminUsernameFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	username, ok := ctx.Value(AdminUsernameKey).(string)
	return username, ok
}
