package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// FileStorage определяет интерфейс для взаимодействия с объектным хранилищем.
// Одна реализация привязана к одному бакету (videos или cv).
type FileStorage interface {
	UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	DownloadFile(ctx context.Context, objectKey string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, objectKey string) error
}

// MinioClient реализует FileStorage для MinIO.
type MinioClient struct {
	client     *minio.Client
	bucketName string
}

// MinioConfig содержит параметры для подключения к MinIO.
type MinioConfig struct {
	Endpoint        string // Адрес MinIO (например, "localhost:9000")
	AccessKeyID     string // Логин
	SecretAccessKey string // Пароль
	UseSSL          bool   // Использовать SSL (обычно false для локальной разработки)
	BucketName      string // Имя бакета для хранения файлов
	Region          string // Регион (не обязательно для MinIO, но может требоваться)
}

// NewMinioClient создает новый клиент MinIO, привязанный к одному бакету.
// Бакет создается, если его еще нет.
func NewMinioClient(cfg MinioConfig) (*MinioClient, error) {
	log.Printf("Инициализация клиента MinIO для эндпоинта %s (бакет '%s')...", cfg.Endpoint, cfg.BucketName)

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации клиента MinIO: %w", err)
	}

	// Проверка существования бакета и создание при необходимости
	ctx := context.Background()
	exists, err := minioClient.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки существования бакета '%s': %w", cfg.BucketName, err)
	}
	if !exists {
		log.Printf("Бакет '%s' не найден, попытка создания...", cfg.BucketName)
		err = minioClient.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания бакета '%s': %w", cfg.BucketName, err)
		}
		log.Printf("Бакет '%s' успешно создан.", cfg.BucketName)
	}

	log.Printf("Клиент MinIO успешно инициализирован для бакета '%s'.", cfg.BucketName)
	return &MinioClient{
		client:     minioClient,
		bucketName: cfg.BucketName,
	}, nil
}

// UploadFile загружает файл в MinIO.
// Контекст запроса пробрасывается до клиента MinIO: если HTTP-клиент
// отключился посреди загрузки, передача прерывается.
func (c *MinioClient) UploadFile(
	ctx context.Context,
	objectKey string,
	reader io.Reader,
	size int64,
	contentType string,
) error {
	log.Printf("[Minio] Загрузка файла '%s' в бакет '%s'...", objectKey, c.bucketName)

	opts := minio.PutObjectOptions{
		ContentType: contentType,
	}

	uploadInfo, err := c.client.PutObject(ctx, c.bucketName, objectKey, reader, size, opts)
	if err != nil {
		log.Printf("[Minio] Ошибка загрузки файла '%s': %v", objectKey, err)
		return fmt.Errorf("ошибка загрузки файла в MinIO: %w", err)
	}

	log.Printf("[Minio] Файл '%s' успешно загружен, размер: %d, ETag: %s", objectKey, uploadInfo.Size, uploadInfo.ETag)
	return nil
}

// DownloadFile скачивает файл из MinIO.
// Возвращает io.ReadCloser, который нужно закрыть после использования.
func (c *MinioClient) DownloadFile(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	log.Printf("[Minio] Скачивание файла '%s' из бакета '%s'...", objectKey, c.bucketName)

	object, err := c.client.GetObject(ctx, c.bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			log.Printf("[Minio] Файл '%s' не найден в бакете '%s'", objectKey, c.bucketName)
			return nil, ErrObjectNotFound
		}
		log.Printf("[Minio] Ошибка получения файла '%s': %v", objectKey, err)
		return nil, fmt.Errorf("ошибка получения файла из MinIO: %w", err)
	}

	// GetObject ленивый: NoSuchKey может проявиться только при первом
	// чтении. Проверяем метаданные сразу, чтобы вернуть NotFound до
	// начала отдачи ответа.
	if _, err = object.Stat(); err != nil {
		_ = object.Close()
		if isNoSuchKey(err) {
			log.Printf("[Minio] Файл '%s' не найден в бакете '%s'", objectKey, c.bucketName)
			return nil, ErrObjectNotFound
		}
		log.Printf("[Minio] Ошибка получения метаданных файла '%s': %v", objectKey, err)
		return nil, fmt.Errorf("ошибка получения метаданных из MinIO: %w", err)
	}

	log.Printf("[Minio] Файл '%s' успешно получен для скачивания", objectKey)
	return object, nil
}

// DeleteFile удаляет файл из MinIO.
func (c *MinioClient) DeleteFile(ctx context.Context, objectKey string) error {
	log.Printf("[Minio] Удаление файла '%s' из бакета '%s'...", objectKey, c.bucketName)

	err := c.client.RemoveObject(ctx, c.bucketName, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		log.Printf("[Minio] Ошибка удаления файла '%s': %v", objectKey, err)
		return fmt.Errorf("ошибка удаления файла из MinIO: %w", err)
	}

	log.Printf("[Minio] Файл '%s' успешно удален", objectKey)
	return nil
}

// isNoSuchKey проверяет, является ли ошибка MinIO ошибкой "NoSuchKey".
func isNoSuchKey(err error) bool {
	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) {
		return minioErr.Code == "NoSuchKey"
	}
	return false
}

// Кастомная ошибка хранилища.
var (
	ErrObjectNotFound = errors.New("объект не найден в хранилище")
)
