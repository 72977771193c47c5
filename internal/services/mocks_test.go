package services_test

import (
	"context"
	"io"

	"github.com/maynagashev/portfolio-server/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockVideoRepository - мок репозитория видео.
type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) Create(ctx context.Context, video *models.Video) (int64, error) {
	args := m.Called(ctx, video)
	return args.Get(0).(int64), args.Error(1) //nolint:errcheck // Допустимо для моков
}

func (m *MockVideoRepository) GetByID(ctx context.Context, id int64) (*models.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1) //nolint:errcheck // Допустимо для моков
}

func (m *MockVideoRepository) List(ctx context.Context) ([]models.Video, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Video), args.Error(1) //nolint:errcheck // Допустимо для моков
}

func (m *MockVideoRepository) UpdateTitle(ctx context.Context, id int64, title string) error {
	args := m.Called(ctx, id, title)
	return args.Error(0)
}

func (m *MockVideoRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCVRepository - мок репозитория резюме.
type MockCVRepository struct {
	mock.Mock
}

func (m *MockCVRepository) Create(ctx context.Context, cv *models.CVFile) (int64, error) {
	args := m.Called(ctx, cv)
	return args.Get(0).(int64), args.Error(1) //nolint:errcheck // Допустимо для моков
}

func (m *MockCVRepository) GetCurrent(ctx context.Context) (*models.CVFile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CVFile), args.Error(1) //nolint:errcheck // Допустимо для моков
}

func (m *MockCVRepository) ListAll(ctx context.Context) ([]models.CVFile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CVFile), args.Error(1) //nolint:errcheck // Допустимо для моков
}

func (m *MockCVRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockFileStorage - мок объектного хранилища.
type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) UploadFile(
	ctx context.Context,
	objectKey string,
	reader io.Reader,
	size int64,
	contentType string,
) error {
	args := m.Called(ctx, objectKey, reader, size, contentType)
	return args.Error(0)
}

func (m *MockFileStorage) DownloadFile(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	args := m.Called(ctx, objectKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1) //nolint:errcheck // Допустимо для моков
}

func (m *MockFileStorage) DeleteFile(ctx context.Context, objectKey string) error {
	args := m.Called(ctx, objectKey)
	return args.Error(0)
}
