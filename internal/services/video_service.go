package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/maynagashev/portfolio-server/internal/models"
	"github.com/maynagashev/portfolio-server/internal/repository"
	"github.com/maynagashev/portfolio-server/internal/storage"
)

// VideoService определяет интерфейс для сервиса работы с демо-видео.
type VideoService interface {
	Upload(ctx context.Context, title, fileName, contentType string, reader io.Reader, size int64) (int64, error)
	List(ctx context.Context) ([]models.VideoListItem, error)
	Download(ctx context.Context, id int64) (io.ReadCloser, *models.Video, error)
	Edit(ctx context.Context, id int64, newTitle, fileName, contentType string, reader io.Reader, size int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

const (
	// Название по умолчанию, если клиент не прислал videoTitle.
	defaultVideoTitle = "Untitled Video"
	// MIME-тип по умолчанию для записей без сохраненного типа.
	defaultVideoContentType = "video/mp4"
)

// Убедимся, что videoService удовлетворяет интерфейсу VideoService.
var _ VideoService = (*videoService)(nil)

type videoService struct {
	videoRepo   repository.VideoRepository // Метаданные видео в PostgreSQL
	fileStorage storage.FileStorage        // Бинарные файлы в MinIO (бакет videos)
}

// NewVideoService создает новый экземпляр сервиса видео.
func NewVideoService(videoRepo repository.VideoRepository, fileStorage storage.FileStorage) VideoService {
	return &videoService{
		videoRepo:   videoRepo,
		fileStorage: fileStorage,
	}
}

// Upload загружает новое видео: сначала файл в объектное хранилище,
// затем запись метаданных. Возвращает ID созданного видео, чтобы
// клиенту не приходилось перечитывать список ради идентификатора.
func (s *videoService) Upload(
	ctx context.Context,
	title, fileName, contentType string,
	reader io.Reader,
	size int64,
) (int64, error) {
	if size <= 0 {
		return 0, ErrEmptyFile
	}
	if title == "" {
		title = defaultVideoTitle
	}

	objectKey := "videos/" + uuid.NewString()

	if err := s.fileStorage.UploadFile(ctx, objectKey, reader, size, contentType); err != nil {
		log.Printf("[VideoService] Ошибка загрузки файла видео '%s' в хранилище: %v", title, err)
		return 0, errors.New("внутренняя ошибка сервера при загрузке файла")
	}

	video := &models.Video{
		Title:       title,
		FileName:    fileName,
		ContentType: contentType,
		ObjectKey:   objectKey,
		SizeBytes:   size,
	}

	videoID, err := s.videoRepo.Create(ctx, video)
	if err != nil {
		// Файл уже в хранилище, а записи о нем не будет - подчищаем,
		// чтобы не копить осиротевшие объекты. Ошибку подчистки только логируем.
		if delErr := s.fileStorage.DeleteFile(ctx, objectKey); delErr != nil {
			log.Printf("[VideoService] Не удалось удалить осиротевший объект '%s': %v", objectKey, delErr)
		}
		log.Printf("[VideoService] Ошибка создания записи о видео '%s': %v", title, err)
		return 0, errors.New("внутренняя ошибка сервера при сохранении метаданных")
	}

	log.Printf("[VideoService] Видео '%s' успешно загружено (ID: %d)", title, videoID)
	return videoID, nil
}

// List возвращает публичный список видео в порядке добавления.
// Пустое название подменяется именем файла, пустой MIME-тип - типом по умолчанию.
func (s *videoService) List(ctx context.Context) ([]models.VideoListItem, error) {
	videos, err := s.videoRepo.List(ctx)
	if err != nil {
		log.Printf("[VideoService] Ошибка получения списка видео: %v", err)
		return nil, errors.New("внутренняя ошибка сервера при получении списка видео")
	}

	items := make([]models.VideoListItem, 0, len(videos))
	for _, v := range videos {
		title := v.Title
		if title == "" {
			title = v.FileName
		}
		contentType := v.ContentType
		if contentType == "" {
			contentType = defaultVideoContentType
		}
		items = append(items, models.VideoListItem{
			ID:          v.ID,
			Title:       title,
			URL:         fmt.Sprintf("/video/%d", v.ID),
			ContentType: contentType,
		})
	}

	return items, nil
}

// Download открывает поток с содержимым видео.
// Возвращает io.ReadCloser (закрывает вызывающий) и метаданные записи.
func (s *videoService) Download(ctx context.Context, id int64) (io.ReadCloser, *models.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return nil, nil, ErrVideoNotFound
		}
		log.Printf("[VideoService] Ошибка получения метаданных видео ID %d: %v", id, err)
		return nil, nil, errors.New("внутренняя ошибка сервера при получении метаданных видео")
	}

	reader, err := s.fileStorage.DownloadFile(ctx, video.ObjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			// Запись есть, а объекта нет - для клиента это то же отсутствие видео.
			log.Printf("[VideoService] Объект '%s' для видео ID %d отсутствует в хранилище", video.ObjectKey, id)
			return nil, nil, ErrVideoNotFound
		}
		log.Printf("[VideoService] Ошибка скачивания файла видео ID %d: %v", id, err)
		return nil, nil, errors.New("внутренняя ошибка сервера при скачивании файла")
	}

	return reader, video, nil
}

// Edit изменяет видео. Новое название применяется патчем метаданных,
// файл при этом не перезаписывается. Новый файл заменяет старый по
// протоколу "удалить старое - вставить новое": видео получает НОВЫЙ ID,
// который и возвращается. Название переносится по приоритету:
// новое название > прежнее название > прежнее имя файла.
// При конкурирующих правках одного видео побеждает последняя.
func (s *videoService) Edit(
	ctx context.Context,
	id int64,
	newTitle, fileName, contentType string,
	reader io.Reader,
	size int64,
) (int64, error) {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return 0, ErrVideoNotFound
		}
		log.Printf("[VideoService] Ошибка получения метаданных видео ID %d при правке: %v", id, err)
		return 0, errors.New("внутренняя ошибка сервера при получении метаданных видео")
	}

	// Правка без нового файла: только патч названия.
	if reader == nil {
		if newTitle == "" {
			// Менять нечего; считаем запрос успешным без побочных эффектов.
			return id, nil
		}
		if err = s.videoRepo.UpdateTitle(ctx, id, newTitle); err != nil {
			if errors.Is(err, repository.ErrVideoNotFound) {
				return 0, ErrVideoNotFound
			}
			log.Printf("[VideoService] Ошибка обновления названия видео ID %d: %v", id, err)
			return 0, errors.New("внутренняя ошибка сервера при обновлении названия")
		}
		log.Printf("[VideoService] Название видео ID %d обновлено", id)
		return id, nil
	}

	if size <= 0 {
		return 0, ErrEmptyFile
	}

	// Определяем итоговое название до замены.
	title := newTitle
	if title == "" {
		title = video.Title
	}
	if title == "" {
		title = video.FileName
	}

	// Двухфазная замена: удаляем старую пару запись+объект, затем
	// вставляем новую. Между фазами видео временно недоступно - для
	// сайта с одним администратором это принятое окно несогласованности.
	if err = s.videoRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return 0, ErrVideoNotFound
		}
		log.Printf("[VideoService] Ошибка удаления старой записи видео ID %d при замене: %v", id, err)
		return 0, errors.New("внутренняя ошибка сервера при замене видео")
	}
	if err = s.fileStorage.DeleteFile(ctx, video.ObjectKey); err != nil {
		log.Printf("[VideoService] Не удалось удалить старый объект '%s' при замене видео ID %d: %v",
			video.ObjectKey, id, err)
		// Запись уже удалена, объект осиротел; продолжаем вставку нового.
	}

	objectKey := "videos/" + uuid.NewString()
	if err = s.fileStorage.UploadFile(ctx, objectKey, reader, size, contentType); err != nil {
		log.Printf("[VideoService] Ошибка загрузки нового файла при замене видео ID %d: %v", id, err)
		return 0, errors.New("внутренняя ошибка сервера при загрузке файла")
	}

	newVideo := &models.Video{
		Title:       title,
		FileName:    fileName,
		ContentType: contentType,
		ObjectKey:   objectKey,
		SizeBytes:   size,
	}
	newID, err := s.videoRepo.Create(ctx, newVideo)
	if err != nil {
		if delErr := s.fileStorage.DeleteFile(ctx, objectKey); delErr != nil {
			log.Printf("[VideoService] Не удалось удалить осиротевший объект '%s': %v", objectKey, delErr)
		}
		log.Printf("[VideoService] Ошибка создания новой записи при замене видео ID %d: %v", id, err)
		return 0, errors.New("внутренняя ошибка сервера при сохранении метаданных")
	}

	log.Printf("[VideoService] Видео ID %d заменено, новый ID: %d", id, newID)
	return newID, nil
}

// Delete удаляет видео: сначала запись метаданных, затем объект.
// Повторное удаление того же ID возвращает ErrVideoNotFound.
func (s *videoService) Delete(ctx context.Context, id int64) error {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return ErrVideoNotFound
		}
		log.Printf("[VideoService] Ошибка получения метаданных видео ID %d при удалении: %v", id, err)
		return errors.New("внутренняя ошибка сервера при получении метаданных видео")
	}

	if err = s.videoRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return ErrVideoNotFound
		}
		log.Printf("[VideoService] Ошибка удаления записи о видео ID %d: %v", id, err)
		return errors.New("внутренняя ошибка сервера при удалении видео")
	}

	if err = s.fileStorage.DeleteFile(ctx, video.ObjectKey); err != nil {
		log.Printf("[VideoService] Ошибка удаления объекта '%s' видео ID %d: %v", video.ObjectKey, id, err)
		return errors.New("внутренняя ошибка сервера при удалении файла")
	}

	log.Printf("[VideoService] Видео ID %d успешно удалено", id)
	return nil
}

// Кастомные ошибки сервиса.
var (
	ErrVideoNotFound = errors.New("видео не найдено")
	ErrEmptyFile     = errors.New("файл не приложен или пуст")
)
