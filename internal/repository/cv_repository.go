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

// CVRepository определяет методы для работы с метаданными резюме.
// Актуальным считается последняя запись; замена резюме на уровне
// сервиса удаляет все предыдущие записи.
type CVRepository interface {
	Create(ctx context.Context, cv *models.CVFile) (int64, error)
	GetCurrent(ctx context.Context) (*models.CVFile, error)
	ListAll(ctx context.Context) ([]models.CVFile, error)
	Delete(ctx context.Context, id int64) error
}

// postgresCVRepository реализует CVRepository для PostgreSQL.
type postgresCVRepository struct {
	db *sqlx.DB
}

// NewPostgresCVRepository создает новый экземпляр репозитория резюме.
func NewPostgresCVRepository(db *sqlx.DB) CVRepository {
	return &postgresCVRepository{db: db}
}

// Create создает новую запись о резюме.
func (r *postgresCVRepository) Create(ctx context.Context, cv *models.CVFile) (int64, error) {
	query := `INSERT INTO cv_files (file_name, content_type, object_key, size_bytes)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	var cvID int64

	err := r.db.QueryRowxContext(ctx, query,
		cv.FileName, cv.ContentType, cv.ObjectKey, cv.SizeBytes,
	).Scan(&cvID)
	if err != nil {
		log.Printf("[CVRepo] Непредвиденная ошибка при создании записи о резюме: %v", err)
		return 0, fmt.Errorf("ошибка выполнения запроса на создание записи о резюме: %w", err)
	}

	log.Printf("[CVRepo] Запись о резюме успешно создана с ID %d", cvID)
	return cvID, nil
}

// GetCurrent возвращает метаданные актуального (последнего) резюме.
// Возвращает ErrCVNotFound, если резюме еще не загружалось.
func (r *postgresCVRepository) GetCurrent(ctx context.Context) (*models.CVFile, error) {
	query := `SELECT id, file_name, content_type, object_key, size_bytes, created_at
	          FROM cv_files
	          ORDER BY id DESC
	          LIMIT 1`
	var cv models.CVFile

	err := r.db.GetContext(ctx, &cv, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Printf("[CVRepo] Резюме не найдено")
			return nil, ErrCVNotFound
		}
		log.Printf("[CVRepo] Ошибка при поиске актуального резюме: %v", err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение резюме: %w", err)
	}

	log.Printf("[CVRepo] Найдено актуальное резюме (ID: %d)", cv.ID)
	return &cv, nil
}

// ListAll возвращает все записи о резюме (для полной замены при загрузке нового).
func (r *postgresCVRepository) ListAll(ctx context.Context) ([]models.CVFile, error) {
	query := `SELECT id, file_name, content_type, object_key, size_bytes, created_at
	          FROM cv_files
	          ORDER BY id ASC`

	cvs := make([]models.CVFile, 0)
	err := r.db.SelectContext(ctx, &cvs, query)
	if err != nil {
		log.Printf("[CVRepo] Ошибка при получении списка резюме: %v", err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение списка резюме: %w", err)
	}

	log.Printf("[CVRepo] Получено %d записей о резюме", len(cvs))
	return cvs, nil
}

// Delete удаляет запись о резюме.
func (r *postgresCVRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM cv_files WHERE id=$1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Printf("[CVRepo] Ошибка при удалении записи о резюме ID %d: %v", id, err)
		return fmt.Errorf("ошибка выполнения запроса на удаление записи о резюме: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения числа удаленных строк: %w", err)
	}
	if rows == 0 {
		log.Printf("[CVRepo] Запись о резюме ID %d не найдена при удалении", id)
		return ErrCVNotFound
	}

	log.Printf("[CVRepo] Запись о резюме ID %d успешно удалена", id)
	return nil
}

// Кастомная ошибка репозитория.
var (
	ErrCVNotFound = errors.New("резюме не найдено")
)
