// @title Resort Admin API
// @version 1.0
// @description API панели администратора каталога горнолыжных курортов. Импорт из файлов, сверка дубликатов, пакетная запись в каталог.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@example.com

// @host localhost:9999
// @BasePath /api
// @schemes http https

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"resortadmin/database"
	"resortadmin/internal/config"
	"resortadmin/server"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════")
	log.Println("🚀 Запуск Resort Admin Server...")

	// Загружаем конфигурацию из переменных окружения
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Создаем конфигурацию для БД
	dbConfig := database.DBConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}

	// Открываем базу данных каталога
	db, err := database.NewResortDBWithConfig(cfg.DatabasePath, dbConfig)
	if err != nil {
		log.Fatalf("Ошибка создания базы данных: %v", err)
	}
	defer db.Close()
	log.Printf("Используется база данных каталога: %s", cfg.DatabasePath)

	// Заглушки изображений по умолчанию (только при пустой таблице)
	if err := db.SeedPlaceholders(defaultPlaceholderURLs); err != nil {
		log.Printf("⚠ Не удалось засеять заглушки изображений: %v", err)
	}

	// Создаем сервер
	srv := server.NewServer(db, cfg)

	// Запускаем сервер в отдельной горутине
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Fatalf("✗ КРИТИЧЕСКАЯ ОШИБКА: Паника при запуске сервера: %v", r)
			}
		}()
		if err := srv.Start(); err != nil {
			log.Fatalf("✗ КРИТИЧЕСКАЯ ОШИБКА: Ошибка запуска сервера: %v", err)
		}
	}()

	// Обработка сигналов для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("═══════════════════════════════════════════════════════")
		log.Println("⏹  Получен сигнал завершения, останавливаю сервер...")

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("✗ Ошибка при остановке сервера: %v", err)
		} else {
			log.Println("✓ Сервер успешно остановлен")
		}

		cancel()
		os.Exit(0)
	}()

	log.Println("═══════════════════════════════════════════════════════")
	log.Printf("✓ Сервер успешно запущен на порту %s", cfg.Port)
	log.Printf("✓ API доступно: http://localhost:%s", cfg.Port)
	log.Printf("✓ Swagger UI: http://localhost:%s/swagger/index.html", cfg.Port)
	log.Printf("✓ База данных: %s", cfg.DatabasePath)
	log.Println("  Для остановки нажмите Ctrl+C")
	log.Println("═══════════════════════════════════════════════════════")

	<-ctx.Done()
}

// defaultPlaceholderURLs стартовый набор изображений-заглушек
var defaultPlaceholderURLs = []string{
	"https://images.example.com/placeholders/ski-resort-1.jpg",
	"https://images.example.com/placeholders/ski-resort-2.jpg",
	"https://images.example.com/placeholders/ski-resort-3.jpg",
	"https://images.example.com/placeholders/ski-resort-4.jpg",
	"https://images.example.com/placeholders/ski-resort-5.jpg",
}
