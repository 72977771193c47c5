package models

import "time"

// Video представляет метаданные загруженного демо-видео.
// Тэги `db` используются для маппинга с полями БД с помощью sqlx.
// Сам бинарный файл лежит в S3/MinIO под ключом ObjectKey.
type Video struct {
	ID          int64     `db:"id" json:"id"`                     // Уникальный ID видео
	Title       string    `db:"title" json:"title"`               // Название видео
	FileName    string    `db:"file_name" json:"file_name"`       // Оригинальное имя файла
	ContentType string    `db:"content_type" json:"content_type"` // MIME-тип файла
	ObjectKey   string    `db:"object_key" json:"-"`              // Ключ файла в S3/MinIO, наружу не отдаем
	SizeBytes   int64     `db:"size_bytes" json:"size"`           // Размер файла в байтах
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// VideoListItem представляет один элемент публичного списка видео.
// URL указывает на эндпоинт потоковой раздачи.
type VideoListItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
}
