package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maynagashev/portfolio-server/internal/auth"
)

// AuthService определяет интерфейс для сервиса аутентификации администратора.
type AuthService interface {
	Login(username, password string) (string, error) // Возвращает JWT токен или ошибку
	ChangeCredentials(newUsername, newPassword string) error
}

// Время жизни токена сессии администратора.
const tokenTTL = time.Hour * 24

// jwtClaims - полезная нагрузка JWT токена сессии.
type jwtClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Убедимся, что authService удовлетворяет интерфейсу AuthService.
var _ AuthService = (*authService)(nil)

type authService struct {
	credentials *auth.CredentialStore // Хранилище учетных данных администратора
	jwtSecret   []byte                // Секрет подписи токенов, приходит из конфигурации
}

// NewAuthService создает новый экземпляр сервиса аутентификации.
func NewAuthService(credentials *auth.CredentialStore, jwtSecret string) AuthService {
	return &authService{
		credentials: credentials,
		jwtSecret:   []byte(jwtSecret),
	}
}

// Login проверяет учетные данные администратора и возвращает JWT токен.
func (s *authService) Login(username, password string) (string, error) {
	if !s.credentials.Verify(username, password) {
		log.Printf("[AuthService] Неудачная попытка входа для пользователя '%s'", username)
		return "", ErrInvalidCredentials
	}

	token, err := s.generateJWT(username)
	if err != nil {
		log.Printf("[AuthService] Ошибка генерации JWT для '%s': %v", username, err)
		return "", errors.New("внутренняя ошибка сервера при генерации токена")
	}

	log.Printf("[AuthService] Администратор '%s' успешно аутентифицирован", username)
	return token, nil
}

// ChangeCredentials заменяет учетные данные администратора.
// Вызывается только из-под аутентифицированной сессии (проверяет middleware).
func (s *authService) ChangeCredentials(newUsername, newPassword string) error {
	err := s.credentials.Update(newUsername, newPassword)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyCredentials) {
			log.Printf("[AuthService] Попытка смены учетных данных с пустыми полями")
			return ErrInvalidInput
		}
		log.Printf("[AuthService] Ошибка смены учетных данных: %v", err)
		return errors.New("внутренняя ошибка сервера при смене учетных данных")
	}

	log.Printf("[AuthService] Учетные данные администратора успешно изменены")
	return nil
}

// generateJWT создает и подписывает JWT токен сессии администратора.
func (s *authService) generateJWT(username string) (string, error) {
	claims := jwtClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)), // Время истечения
			IssuedAt:  jwt.NewNumericDate(time.Now()),               // Время выдачи
			NotBefore: jwt.NewNumericDate(time.Now()),               // Время, с которого токен валиден
			Issuer:    "portfolio-server",                           // Источник токена
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи JWT: %w", err)
	}

	return signedToken, nil
}

// Кастомные ошибки сервиса.
var (
	ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")
	ErrInvalidInput       = errors.New("отсутствует обязательное поле")
)
