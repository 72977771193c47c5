package handlers_test

import (
	"context"
	"io"

	"github.com/maynagashev/portfolio-server/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockAuthService - мок сервиса аутентификации.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(username, password string) (string, error) {
	args := m.Called(username, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ChangeCredentials(newUsername, newPassword string) error {
	args := m.Called(newUsername, newPassword)
	return args.Error(0)
}

// MockVideoService - мок сервиса видео.
type MockVideoService struct {
	mock.Mock
}

func (m *MockVideoService) Upload(
	ctx context.Context,
	title, fileName, contentType string,
	reader io.Reader,
	size int64,
) (int64, error) {
	args := m.Called(ctx, title, fileName, contentType, reader, size)
	// Вычитываем тело, имитируя реальную загрузку
	if reader != nil {
		_, _ = io.Copy(io.Discard, reader)
	}
	return args.Get(0).(int64), args.Error(1) //nolint:errcheck // Допустимо для моков
}

func (m *MockVideoService) List(ctx context.Context) ([]models.VideoListItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VideoListItem), args.Error(1) //nolint:errcheck // Допустимо для моков
}

func (m *MockVideoService) Download(ctx context.Context, id int64) (io.ReadCloser, *models.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*models.Video), args.Error(2) //nolint:errcheck // Допустимо для моков
}

func (m *MockVideoService) Edit(
	ctx context.Context,
	id int64,
	newTitle, fileName, contentType string,
	reader io.Reader,
	size int64,
) (int64, error) {
	args := m.Called(ctx, id, newTitle, fileName, contentType, reader, size)
	if reader != nil {
		_, _ = io.Copy(io.Discard, reader)
	}
	return args.Get(0).(int64), args.Error(1) //nolint:errcheck // Допустимо для моков
}

func (m *MockVideoService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCVService - мок сервиса резюме.
type MockCVService struct {
	mock.Mock
}

func (m *MockCVService) Upload(ctx context.Context, contentType string, reader io.Reader, size int64) error {
	args := m.Called(ctx, contentType, reader, size)
	if reader != nil {
		_, _ = io.Copy(io.Discard, reader)
	}
	return args.Error(0)
}

func (m *MockCVService) Download(ctx context.Context) (io.ReadCloser, *models.CVFile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*models.CVFile), args.Error(2) //nolint:errcheck // Допустимо для моков
}

// MockContactService - мок сервиса контактной формы.
type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Send(msg models.ContactRequest) error {
	args := m.Called(msg)
	return args.Error(0)
}
