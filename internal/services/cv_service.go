package services

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/maynagashev/portfolio-server/internal/models"
	"github.com/maynagashev/portfolio-server/internal/repository"
	"github.com/maynagashev/portfolio-server/internal/storage"
)

// CVService определяет интерфейс для сервиса работы с резюме.
type CVService interface {
	Upload(ctx context.Context, contentType string, reader io.Reader, size int64) error
	Download(ctx context.Context) (io.ReadCloser, *models.CVFile, error)
}

// Убедимся, что cvService удовлетворяет интерфейсу CVService.
var _ CVService = (*cvService)(nil)

type cvService struct {
	cvRepo      repository.CVRepository // Метаданные резюме в PostgreSQL
	fileStorage storage.FileStorage     // Файлы резюме в MinIO (бакет cv)
}

// NewCVService создает новый экземпляр сервиса резюме.
func NewCVService(cvRepo repository.CVRepository, fileStorage storage.FileStorage) CVService {
	return &cvService{
		cvRepo:      cvRepo,
		fileStorage: fileStorage,
	}
}

// Upload заменяет резюме целиком: сначала удаляются ВСЕ существующие
// записи и объекты, затем вставляется новое под каноническим именем
// cv.pdf независимо от расширения загруженного файла. Так соблюдается
// инвариант "в любой момент не более одного актуального резюме".
// Два одновременных вызова Upload могут оставить ноль или два резюме
// на время гонки - для сайта с одним администратором это принято.
func (s *cvService) Upload(ctx context.Context, contentType string, reader io.Reader, size int64) error {
	if size <= 0 {
		return ErrEmptyFile
	}

	existing, err := s.cvRepo.ListAll(ctx)
	if err != nil {
		log.Printf("[CVService] Ошибка получения списка резюме перед заменой: %v", err)
		return errors.New("внутренняя ошибка сервера при замене резюме")
	}

	for _, cv := range existing {
		if err = s.cvRepo.Delete(ctx, cv.ID); err != nil && !errors.Is(err, repository.ErrCVNotFound) {
			log.Printf("[CVService] Ошибка удаления старой записи о резюме ID %d: %v", cv.ID, err)
			return errors.New("внутренняя ошибка сервера при замене резюме")
		}
		if err = s.fileStorage.DeleteFile(ctx, cv.ObjectKey); err != nil {
			// Запись уже удалена, объект осиротел; только логируем.
			log.Printf("[CVService] Не удалось удалить старый объект резюме '%s': %v", cv.ObjectKey, err)
		}
	}

	objectKey := "cv/" + uuid.NewString()
	if err = s.fileStorage.UploadFile(ctx, objectKey, reader, size, contentType); err != nil {
		log.Printf("[CVService] Ошибка загрузки файла резюме в хранилище: %v", err)
		return errors.New("внутренняя ошибка сервера при загрузке файла")
	}

	cv := &models.CVFile{
		FileName:    models.CVCanonicalName,
		ContentType: contentType,
		ObjectKey:   objectKey,
		SizeBytes:   size,
	}
	if _, err = s.cvRepo.Create(ctx, cv); err != nil {
		if delErr := s.fileStorage.DeleteFile(ctx, objectKey); delErr != nil {
			log.Printf("[CVService] Не удалось удалить осиротевший объект '%s': %v", objectKey, delErr)
		}
		log.Printf("[CVService] Ошибка создания записи о резюме: %v", err)
		return errors.New("внутренняя ошибка сервера при сохранении метаданных")
	}

	log.Printf("[CVService] Резюме успешно заменено (удалено старых: %d)", len(existing))
	return nil
}

// Download открывает поток с актуальным резюме.
func (s *cvService) Download(ctx context.Context) (io.ReadCloser, *models.CVFile, error) {
	cv, err := s.cvRepo.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrCVNotFound) {
			return nil, nil, ErrCVNotFound
		}
		log.Printf("[CVService] Ошибка получения метаданных резюме: %v", err)
		return nil, nil, errors.New("внутренняя ошибка сервера при получении метаданных резюме")
	}

	reader, err := s.fileStorage.DownloadFile(ctx, cv.ObjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			log.Printf("[CVService] Объект резюме '%s' отсутствует в хранилище", cv.ObjectKey)
			return nil, nil, ErrCVNotFound
		}
		log.Printf("[CVService] Ошибка скачивания файла резюме: %v", err)
		return nil, nil, errors.New("внутренняя ошибка сервера при скачивании файла")
	}

	return reader, cv, nil
}

// Кастомная ошибка сервиса.
var (
	ErrCVNotFound = errors.New("резюме не найдено")
)
