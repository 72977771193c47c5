package services

import (
	"errors"
	"log"

	"github.com/maynagashev/portfolio-server/internal/models"
)

// ContactService определяет интерфейс для сервиса контактной формы.
type ContactService interface {
	Send(msg models.ContactRequest) error
}

// Убедимся, что contactService удовлетворяет интерфейсу ContactService.
var _ ContactService = (*contactService)(nil)

// contactService - демо-реализация без реального почтового релея:
// сообщение валидируется и пишется в журнал сервера. Подключение
// внешнего релея остается за развертыванием.
type contactService struct{}

// NewContactService создает новый экземпляр сервиса контактной формы.
func NewContactService() ContactService {
	return &contactService{}
}

// Send принимает сообщение из контактной формы.
func (s *contactService) Send(msg models.ContactRequest) error {
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return ErrInvalidInput
	}

	log.Printf("[ContactService] Сообщение от %s (%s): %s", msg.Name, msg.Email, msg.Message)
	return nil
}

// Кастомная ошибка сервиса.
var (
	ErrRelayFailure = errors.New("ошибка внешнего почтового релея")
)
