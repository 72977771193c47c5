package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/maynagashev/portfolio-server/internal/models"
)

// VideoRepository определяет методы для работы с метаданными видео.
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Video, error)
	List(ctx context.Context) ([]models.Video, error)
	UpdateTitle(ctx context.Context, id int64, title string) error
	Delete(ctx context.Context, id int64) error
}

// postgresVideoRepository реализует VideoRepository для PostgreSQL.
type postgresVideoRepository struct {
	db *sqlx.DB
}

// NewPostgresVideoRepository создает новый экземпляр репозитория видео.
func NewPostgresVideoRepository(db *sqlx.DB) VideoRepository {
	return &postgresVideoRepository{db: db}
}

// Create создает новую запись о видео.
// Возвращает ID созданной записи или ошибку.
func (r *postgresVideoRepository) Create(ctx context.Context, video *models.Video) (int64, error) {
	query := `INSERT INTO videos (title, file_name, content_type, object_key, size_bytes)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var videoID int64

	err := r.db.QueryRowxContext(ctx, query,
		video.Title, video.FileName, video.ContentType, video.ObjectKey, video.SizeBytes,
	).Scan(&videoID)
	if err != nil {
		log.Printf("[VideoRepo] Непредвиденная ошибка при создании записи о видео '%s': %v", video.Title, err)
		return 0, fmt.Errorf("ошибка выполнения запроса на создание видео: %w", err)
	}

	log.Printf("[VideoRepo] Видео '%s' успешно создано с ID %d", video.Title, videoID)
	return videoID, nil
}

// GetByID находит метаданные видео по его ID.
// Возвращает видео или ErrVideoNotFound, если записи нет.
func (r *postgresVideoRepository) GetByID(ctx context.Context, id int64) (*models.Video, error) {
	query := `SELECT id, title, file_name, content_type, object_key, size_bytes, created_at, updated_at
	          FROM videos WHERE id=$1`
	var video models.Video

	err := r.db.GetContext(ctx, &video, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Printf("[VideoRepo] Видео с ID %d не найдено", id)
			return nil, ErrVideoNotFound
		}
		log.Printf("[VideoRepo] Ошибка при поиске видео ID %d: %v", id, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение видео: %w", err)
	}

	log.Printf("[VideoRepo] Найдено видео ID %d ('%s')", video.ID, video.Title)
	return &video, nil
}

// List возвращает все видео в порядке добавления (сначала старые).
func (r *postgresVideoRepository) List(ctx context.Context) ([]models.Video, error) {
	query := `SELECT id, title, file_name, content_type, object_key, size_bytes, created_at, updated_at
	          FROM videos
	          ORDER BY id ASC`

	videos := make([]models.Video, 0)
	err := r.db.SelectContext(ctx, &videos, query)
	if err != nil {
		log.Printf("[VideoRepo] Ошибка при получении списка видео: %v", err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение списка видео: %w", err)
	}

	log.Printf("[VideoRepo] Получено %d видео", len(videos))
	return videos, nil
}

// UpdateTitle обновляет название видео, не затрагивая сам файл.
// Возвращает ErrVideoNotFound, если записи с таким ID нет.
func (r *postgresVideoRepository) UpdateTitle(ctx context.Context, id int64, title string) error {
	query := `UPDATE videos SET title=$1, updated_at=now() WHERE id=$2`

	res, err := r.db.ExecContext(ctx, query, title, id)
	if err != nil {
		log.Printf("[VideoRepo] Ошибка при обновлении названия видео ID %d: %v", id, err)
		return fmt.Errorf("ошибка выполнения запроса на обновление названия: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения числа обновленных строк: %w", err)
	}
	if rows == 0 {
		log.Printf("[VideoRepo] Видео с ID %d не найдено при обновлении названия", id)
		return ErrVideoNotFound
	}

	log.Printf("[VideoRepo] Название видео ID %d обновлено на '%s'", id, title)
	return nil
}

// Delete удаляет запись о видео.
// Возвращает ErrVideoNotFound, если записи с таким ID нет.
func (r *postgresVideoRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM videos WHERE id=$1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Printf("[VideoRepo] Ошибка при удалении видео ID %d: %v", id, err)
		return fmt.Errorf("ошибка выполнения запроса на удаление видео: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения числа удаленных строк: %w", err)
	}
	if rows == 0 {
		log.Printf("[VideoRepo] Видео с ID %d не найдено при удалении", id)
		return ErrVideoNotFound
	}

	log.Printf("[VideoRepo] Видео ID %d успешно удалено", id)
	return nil
}

// Кастомная ошибка репозитория.
var (
	ErrVideoNotFound = errors.New("видео не найдено")
)
