package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq" // Драйвер PostgreSQL

	"github.com/maynagashev/portfolio-server/internal/auth"
	"github.com/maynagashev/portfolio-server/internal/handlers"
	appmiddleware "github.com/maynagashev/portfolio-server/internal/middleware"
	"github.com/maynagashev/portfolio-server/internal/repository"
	"github.com/maynagashev/portfolio-server/internal/services"
	"github.com/maynagashev/portfolio-server/internal/storage"
)

const (
	// Таймаут только на чтение заголовков: тела запросов и ответов -
	// потоковые загрузки/раздачи видео, глобальные read/write таймауты
	// обрывали бы большие передачи.
	defaultReadHeaderTimeout = 10 * time.Second
	defaultIdleTimeout       = 30 * time.Second
)

// Вынесено в переменную для подмены в тестах.
var newPostgresDB = repository.NewPostgresDB

// Структура для хранения инициализированных зависимостей.
type dependencies struct {
	db             *sqlx.DB
	authHandler    *handlers.AuthHandler
	videoHandler   *handlers.VideoHandler
	cvHandler      *handlers.CVHandler
	contactHandler *handlers.ContactHandler
}

// main - точка входа. Вызывает run и обрабатывает ошибку.
func main() {
	if err := run(); err != nil {
		log.Printf("Ошибка выполнения сервера: %v", err)
		os.Exit(1)
	}
}

// run содержит основную логику запуска сервера и возвращает ошибку.
func run() error {
	log.Println("Запуск сервера портфолио...")

	// Подхватываем .env, если он есть (локальная разработка)
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используются переменные окружения")
	}

	cfg, err := parseFlags()
	if err != nil {
		return fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}

	// Инициализация зависимостей
	deps, err := setupDependencies(cfg)
	if err != nil {
		return fmt.Errorf("ошибка инициализации зависимостей: %w", err)
	}
	// Отложенное закрытие соединения с БД
	defer func() {
		if deps.db != nil {
			if closeErr := deps.db.Close(); closeErr != nil {
				log.Printf("Ошибка закрытия соединения с БД: %v", closeErr)
			}
		}
	}()

	// Настройка роутера
	r := setupRouter(cfg, deps)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		IdleTimeout:       defaultIdleTimeout,
	}

	// HTTPS, если заданы сертификат и ключ; иначе HTTP (за обратным прокси)
	if cfg.CertFile != "" && cfg.KeyFile != "" {
		log.Printf("Запуск HTTPS-сервера на порту %s...", cfg.Port)
		err = server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
	} else {
		log.Printf("Запуск HTTP-сервера на порту %s...", cfg.Port)
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("ошибка запуска сервера: %w", err)
	}
	return nil
}

// setupDependencies инициализирует и возвращает все необходимые зависимости сервера.
func setupDependencies(cfg *config) (*dependencies, error) {
	deps := &dependencies{}
	var err error

	// 1. Подключение к БД и применение схемы
	deps.db, err = newPostgresDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации БД: %w", err)
	}
	if err = repository.Bootstrap(context.Background(), deps.db); err != nil {
		closeDB(deps.db)
		return nil, err
	}

	// 2. Инициализация клиентов MinIO: отдельный бакет под видео и под резюме
	videoStorage, err := storage.NewMinioClient(storage.MinioConfig{
		Endpoint:        cfg.MinioEndpoint,
		AccessKeyID:     cfg.MinioUser,
		SecretAccessKey: cfg.MinioPassword,
		UseSSL:          cfg.MinioUseSSL,
		BucketName:      cfg.VideosBucket,
	})
	if err != nil {
		closeDB(deps.db)
		return nil, fmt.Errorf("ошибка инициализации клиента MinIO (видео): %w", err)
	}
	cvStorage, err := storage.NewMinioClient(storage.MinioConfig{
		Endpoint:        cfg.MinioEndpoint,
		AccessKeyID:     cfg.MinioUser,
		SecretAccessKey: cfg.MinioPassword,
		UseSSL:          cfg.MinioUseSSL,
		BucketName:      cfg.CVBucket,
	})
	if err != nil {
		closeDB(deps.db)
		return nil, fmt.Errorf("ошибка инициализации клиента MinIO (резюме): %w", err)
	}

	// 3. Хранилище учетных данных администратора
	credentials, err := auth.NewCredentialStore(cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		closeDB(deps.db)
		return nil, fmt.Errorf("ошибка инициализации учетных данных администратора: %w", err)
	}

	// 4. Создание репозиториев
	videoRepo := repository.NewPostgresVideoRepository(deps.db)
	cvRepo := repository.NewPostgresCVRepository(deps.db)

	// 5. Создание сервисов
	authService := services.NewAuthService(credentials, cfg.JWTSecret)
	videoService := services.NewVideoService(videoRepo, videoStorage)
	cvService := services.NewCVService(cvRepo, cvStorage)
	contactService := services.NewContactService()

	// 6. Создание обработчиков
	deps.authHandler = handlers.NewAuthHandler(authService)
	deps.videoHandler = handlers.NewVideoHandler(videoService)
	deps.cvHandler = handlers.NewCVHandler(cvService)
	deps.contactHandler = handlers.NewContactHandler(contactService)

	return deps, nil
}

// setupRouter настраивает и возвращает роутер chi.
func setupRouter(cfg *config, deps *dependencies) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// --- Маршруты --- //
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong\n"))
	})

	// Публичные маршруты (вход, список и раздача видео, резюме, контактная форма)
	r.Post("/admin/login", deps.authHandler.Login)
	r.Get("/videos", deps.videoHandler.List)
	r.Get("/video/{id}", deps.videoHandler.Stream)
	r.Get("/cv-download", deps.cvHandler.Download)
	r.Post("/send-email", deps.contactHandler.SendEmail)

	// Приватные маршруты (требуют аутентифицированной сессии администратора)
	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.Authenticator(cfg.JWTSecret))

		// Маршруты с префиксом /admin и их старые алиасы без префикса
		r.Post("/upload-video", deps.videoHandler.Upload)
		r.Post("/admin/upload-video", deps.videoHandler.Upload)
		r.Put("/admin/edit-video/{id}", deps.videoHandler.Edit)
		r.Delete("/admin/delete-video/{id}", deps.videoHandler.Delete)
		r.Post("/upload-cv", deps.cvHandler.Upload)
		r.Post("/admin/upload-cv", deps.cvHandler.Upload)
		r.Post("/admin/change-credentials", deps.authHandler.ChangeCredentials)
	})

	// Статика фронтенда
	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}

// closeDB закрывает соединение с БД, логируя ошибку закрытия.
func closeDB(db *sqlx.DB) {
	if closeErr := db.Close(); closeErr != nil {
		log.Printf("Ошибка закрытия соединения с БД: %v", closeErr)
	}
}
