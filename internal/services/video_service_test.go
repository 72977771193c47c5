package services_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/maynagashev/portfolio-server/internal/models"
	"github.com/maynagashev/portfolio-server/internal/repository"
	"github.com/maynagashev/portfolio-server/internal/services"
	"github.com/maynagashev/portfolio-server/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// videoKeyMatcher проверяет, что ключ объекта лежит в пространстве видео.
func videoKeyMatcher() interface{} {
	return mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "videos/")
	})
}

func TestVideoService_Upload(t *testing.T) {
	ctx := context.Background()
	payload := strings.NewReader("0123456789")

	t.Run("Успешная загрузка возвращает ID", func(t *testing.T) {
		mockRepo := new(MockVideoRepository)
		mockStorage := new(MockFileStorage)
		mockStorage.On("UploadFile", ctx, videoKeyMatcher(), payload, int64(10), "video/mp4").
			Return(nil).Once()
		mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Video")).
			Return(int64(7), nil).Once()

		svc := services.NewVideoService(mockRepo, mockStorage)
		id, err := svc.Upload(ctx, "Demo Reel", "demo.mp4", "video/mp4", payload, 10)

		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
		mockRepo.AssertExpectations(t)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Пустое название подменяется значением по умолчанию", func(t *testing.T) {
		mockRepo := new(MockVideoRepository)
		mockStorage := new(MockFileStorage)
		mockStorage.On("UploadFile", ctx, videoKeyMatcher(), payload, int64(10), "video/mp4").
			Return(nil).Once()
		mockRepo.On("Create", ctx, mock.MatchedBy(func(v *models.Video) bool {
			return v.Title == "Untitled Video"
		})).Return(int64(1), nil).Once()

		svc := services.NewVideoService(mockRepo, mockStorage)
		_, err := svc.Upload(ctx, "", "demo.mp4", "video/mp4", payload, 10)

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Пустой файл отклоняется без обращения к хранилищу", func(t *testing.T) {
		mockRepo := new(MockVideoRepository)
		mockStorage := new(MockFileStorage)

		svc := services.NewVideoService(mockRepo, mockStorage)
		id, err := svc.Upload(ctx, "Demo", "demo.mp4", "video/mp4", payload, 0)

		require.ErrorIs(t, err, services.ErrEmptyFile)
		assert.Zero(t, id)
		mockStorage.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Ошибка БД подчищает загруженный объект", func(t *testing.T) {
		mockRepo := new(MockVideoRepository)
		mockStorage := new(MockFileStorage)
		mockStorage.On("UploadFile", ctx, videoKeyMatcher(), payload, int64(10), "video/mp4").
			Return(nil).Once()
		mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Video")).
			Return(int64(0), errors.New("database error")).Once()
		mockStorage.On("DeleteFile", ctx, videoKeyMatcher()).Return(nil).Once()

		svc := services.NewVideoService(mockRepo, mockStorage)
		id, err := svc.Upload(ctx, "Demo Reel", "demo.mp4", "video/mp4", payload, 10)

		require.Error(t, err)
		assert.Zero(t, id)
		mockStorage.AssertExpectations(t)
	})
}

func TestVideoService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Подстановка значений по умолчанию", func(t *testing.T) {
		mockRepo := new(MockVideoRepository)
		mockStorage := new(MockFileStorage)
		mockRepo.On("List", ctx).Return([]models.Video{
			{ID: 1, Title: "Demo Reel", ContentType: "video/webm"},
			{ID: 2, Title: "", FileName: "raw.mp4", ContentType: ""},
		}, nil).Once()

		svc := services.NewVideoService(mockRepo, mockStorage)
		items, err := svc.List(ctx)

		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, int64(1), items[0].ID)
		assert.Equal(t, "Demo Reel", items[0].Title)
		assert.Equal(t, "/video/1", items[0].URL)
		assert.Equal(t, "video/webm", items[0].ContentType)

		// Пустое название падает до имени файла, пустой MIME-тип - до video/mp4
		assert.Equal(t, "raw.mp4", items[1].Title)
		assert.Equal(t, "video/mp4", items[1].ContentType)
	})

	t.Run("Пустой список", func(t *testing.T) {
		mockRepo := new(MockVideoRepository)
		mockRepo.On("List", ctx).Return([]models.Video{}, nil).Once()

		svc := services.NewVideoService(mockRepo, new(MockFileStorage))
		items, err := svc.List(ctx)

		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("Ошибка репозитория", func(t *testing.T) {
		mockRepo := new(MockVideoRepository)
		mockRepo.On("List", ctx).Return(nil, errors.New("database error")).Once()

		svc := services.NewVideoService(mockRepo, new(MockFileStorage))
		items, err := svc.List(ctx)

		require.Error(t, err)
		assert.Nil(t, items)
	})
}

func TestVideoService_Download(t *testing.T) {
	ctx := context.Background()
	testVideo := &models.Video{
		ID:          1,
		Title:       "Demo Reel",
		ContentType: "video/mp4",
		ObjectKey:   "videos/abc",
		SizeBytes:   10,
	}

	t.Run("Успешное скачивание", func(t *testing.T) {
		mockRepo := new(MockVideoRepository)
		mockStorage := new(MockFileStorage)
		body := io.NopCloser(strings.NewReader("0123456789"))
		mockRepo.On("GetByID", ctx, int64(1)).Return(testVideo, nil).Once()
		mockStorage.On("DownloadFile", ctx, "videos/abc").Return(body, nil).Once()

		svc := services.NewVideoService(mockRepo, mockStorage)
		reader, video, err := svc.Download(ctx, 1)

		require.NoError(t, err)
		require.NotNil(t, video)
		assert.Equal(t, testVideo, video)

		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, "0123456789", string(data))
	})

	t.Run("Видео не найдено", func(t *testing.T) {
		mockRepo := new(MockVideoRepository)
		mockRepo.On("GetByID", ctx, int64(42)).Return(nil, repository.ErrVideoNotFound).Once()

		svc := services.NewVideoService(mockRepo, new(MockFileStorage))
		reader, video, err := svc.Download(ctx, 42)

		require.ErrorIs(t, err, services.ErrVideoNotFound)
		assert.Nil(t, reader)
		assert.Nil(t, video)
	})

	t.Run("Объект отсутствует в хранилище", func(t *testing.T) {
		mockRepo := new(MockVideoRepository)
		mockStorage := new(MockFileStorage)
		mockRepo.On("GetByID", ctx, int64(1)).Return(testVideo, nil).Once()
		mockStorage.On("DownloadFile", ctx, "videos/abc").Return(nil, storage.ErrObjectNotFound).Once()

		svc := services.NewVideoService(mockRepo, mockStorage)
		_, _, err := svc.Download(ctx, 1)

		require.ErrorIs(t, err, services.ErrVideoNotFound)
	})
}

func TestVideoService_Edit(t *testing.T) {
	ctx := context.Background()
	testVideo := &models.Video{
		ID:          1,
		Title:       "Old Title",
		FileName:    "old.mp4",
		ContentType: "video/mp4",
		ObjectKey:   "videos/old",
		SizeBytes:   10,
	}

	t.Run("Видео не найдено", func(t *testing.T) {
		mockRepo := new(MockVideoRepository)
		mockRepo.On("GetByID", ctx, int64(42)).Return(nil, repository.ErrVideoNotFound).Once()

		svc := services.NewVideoService(mockRepo, new(MockFileStorage))
		id, err := svc.Edit(ctx, 42, "New", "", "", nil, 0)

		require.ErrorIs(t, err, services.ErrVideoNotFound)
		assert.Zero(t, id)
	})

	t.Run("Правка только названия не трогает файл", func(t *testing.T) {
		mockRepo := new(MockVideoRepository)
		mockStorage := new(MockFileStorage)
		mockRepo.On("GetByID", ctx, int64(1)).Return(testVideo, nil).Once()
		mockRepo.On("UpdateTitle", ctx, int64(1), "New Title").Return(nil).Once()

		svc := services.NewVideoService(mockRepo, mockStorage)
		id, err := svc.Edit(ctx, 1, "New Title", "", "", nil, 0)

		require.NoError(t, err)
		assert.Equal(t, int64(1), id, "ID не меняется при патче метаданных")
		mockStorage.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockStorage.AssertNotCalled(t, "DeleteFile", mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Правка без названия и файла - запрос без эффекта", func(t *testing.T) {
		mockRepo := new(MockVideoRepository)
		mockRepo.On("GetByID", ctx, int64(1)).Return(testVideo, nil).Once()

		svc := services.NewVideoService(mockRepo, new(MockFileStorage))
		id, err := svc.Edit(ctx, 1, "", "", "", nil, 0)

		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
		mockRepo.AssertNotCalled(t, "UpdateTitle", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Замена файла назначает новый ID", func(t *testing.T) {
		mockRepo := new(MockVideoRepository)
		mockStorage := new(MockFileStorage)
		payload := strings.NewReader("new-payload")

		mockRepo.On("GetByID", ctx, int64(1)).Return(testVideo, nil).Once()
		mockRepo.On("Delete", ctx, int64(1)).Return(nil).Once()
		mockStorage.On("DeleteFile", ctx, "videos/old").Return(nil).Once()
		mockStorage.On("UploadFile", ctx, videoKeyMatcher(), payload, int64(11), "video/webm").
			Return(nil).Once()
		mockRepo.On("Create", ctx, mock.MatchedBy(func(v *models.Video) bool {
			// Название переносится со старой записи, файл - новый
			return v.Title == "Old Title" && v.FileName == "new.webm" && v.ContentType == "video/webm"
		})).Return(int64(2), nil).Once()

		svc := services.NewVideoService(mockRepo, mockStorage)
		id, err := svc.Edit(ctx, 1, "", "new.webm", "video/webm", payload, 11)

		require.NoError(t, err)
		assert.Equal(t, int64(2), id, "Замена файла меняет ID видео")
		mockRepo.AssertExpectations(t)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Замена файла с новым названием", func(t *testing.T) {
		mockRepo := new(MockVideoRepository)
		mockStorage := new(MockFileStorage)
		payload := strings.NewReader("new-payload")

		mockRepo.On("GetByID", ctx, int64(1)).Return(testVideo, nil).Once()
		mockRepo.On("Delete", ctx, int64(1)).Return(nil).Once()
		mockStorage.On("DeleteFile", ctx, "videos/old").Return(nil).Once()
		mockStorage.On("UploadFile", ctx, videoKeyMatcher(), payload, int64(11), "video/webm").
			Return(nil).Once()
		mockRepo.On("Create", ctx, mock.MatchedBy(func(v *models.Video) bool {
			return v.Title == "Brand New"
		})).Return(int64(2), nil).Once()

		svc := services.NewVideoService(mockRepo, mockStorage)
		id, err := svc.Edit(ctx, 1, "Brand New", "new.webm", "video/webm", payload, 11)

		require.NoError(t, err)
		assert.Equal(t, int64(2), id)
	})

	t.Run("Пустой новый файл отклоняется", func(t *testing.T) {
		mockRepo := new(MockVideoRepository)
		mockRepo.On("GetByID", ctx, int64(1)).Return(testVideo, nil).Once()

		svc := services.NewVideoService(mockRepo, new(MockFileStorage))
		id, err := svc.Edit(ctx, 1, "", "new.webm", "video/webm", strings.NewReader(""), 0)

		require.ErrorIs(t, err, services.ErrEmptyFile)
		assert.Zero(t, id)
	})
}

func TestVideoService_Delete(t *testing.T) {
	ctx := context.Background()
	testVideo := &models.Video{ID: 1, Title: "Demo", ObjectKey: "videos/abc"}

	t.Run("Успешное удаление", func(t *testing.T) {
		mockRepo := new(MockVideoRepository)
		mockStorage := new(MockFileStorage)
		mockRepo.On("GetByID", ctx, int64(1)).Return(testVideo, nil).Once()
		mockRepo.On("Delete", ctx, int64(1)).Return(nil).Once()
		mockStorage.On("DeleteFile", ctx, "videos/abc").Return(nil).Once()

		svc := services.NewVideoService(mockRepo, mockStorage)
		err := svc.Delete(ctx, 1)

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Повторное удаление возвращает NotFound", func(t *testing.T) {
		mockRepo := new(MockVideoRepository)
		mockStorage := new(MockFileStorage)
		// Первое удаление успешно
		mockRepo.On("GetByID", ctx, int64(1)).Return(testVideo, nil).Once()
		mockRepo.On("Delete", ctx, int64(1)).Return(nil).Once()
		mockStorage.On("DeleteFile", ctx, "videos/abc").Return(nil).Once()
		// Второе - записи уже нет
		mockRepo.On("GetByID", ctx, int64(1)).Return(nil, repository.ErrVideoNotFound).Once()

		svc := services.NewVideoService(mockRepo, mockStorage)

		require.NoError(t, svc.Delete(ctx, 1))
		require.ErrorIs(t, svc.Delete(ctx, 1), services.ErrVideoNotFound)
	})

	t.Run("Ошибка удаления объекта", func(t *testing.T) {
		mockRepo := new(MockVideoRepository)
		mockStorage := new(MockFileStorage)
		mockRepo.On("GetByID", ctx, int64(1)).Return(testVideo, nil).Once()
		mockRepo.On("Delete", ctx, int64(1)).Return(nil).Once()
		mockStorage.On("DeleteFile", ctx, "videos/abc").Return(errors.New("minio error")).Once()

		svc := services.NewVideoService(mockRepo, mockStorage)
		err := svc.Delete(ctx, 1)

		require.Error(t, err)
	})
}
