// Package auth содержит хранилище учетных данных администратора.
package auth

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// CredentialStore хранит учетные данные единственного администратора
// в памяти процесса. Пароль хранится только в виде bcrypt-хеша,
// сравнение выполняется за константное время внутри bcrypt.
// Данные не переживают перезапуск процесса: при старте они
// инициализируются из конфигурации заново.
type CredentialStore struct {
	mu           sync.RWMutex
	username     string
	passwordHash []byte
}

// NewCredentialStore создает хранилище и хеширует начальный пароль.
func NewCredentialStore(username, password string) (*CredentialStore, error) {
	if username == "" || password == "" {
		return nil, ErrEmptyCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля администратора: %w", err)
	}

	return &CredentialStore{
		username:     username,
		passwordHash: hash,
	}, nil
}

// Verify проверяет, совпадают ли переданные учетные данные с текущими.
func (s *CredentialStore) Verify(username, password string) bool {
	s.mu.RLock()
	currentUsername := s.username
	currentHash := s.passwordHash
	s.mu.RUnlock()

	if username != currentUsername {
		return false
	}

	return bcrypt.CompareHashAndPassword(currentHash, []byte(password)) == nil
}

// Update полностью заменяет учетные данные администратора.
// Оба поля обязательны; частичное обновление не поддерживается.
func (s *CredentialStore) Update(newUsername, newPassword string) error {
	if newUsername == "" || newPassword == "" {
		return ErrEmptyCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка хеширования нового пароля: %w", err)
	}

	s.mu.Lock()
	s.username = newUsername
	s.passwordHash = hash
	s.mu.Unlock()

	log.Printf("[CredentialStore] Учетные данные администратора обновлены (новое имя: '%s')", newUsername)
	return nil
}

// Кастомная ошибка хранилища учетных данных.
var (
	ErrEmptyCredentials = errors.New("имя пользователя и пароль не могут быть пустыми")
)
