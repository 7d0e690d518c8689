package main

import (
	"log"

	"lensinspect/config"
	telegram "lensinspect/internal/api"
	"lensinspect/internal/container"
	"lensinspect/internal/infrastructure/report"
	"lensinspect/internal/infrastructure/storage"
	"lensinspect/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	// Создаём хранилище пользователей
	userRepo := storage.NewMemoryUserRepository()

	// Собираем сервисы приложения
	appContainer := container.New(userRepo, vision.NewPipeline(), report.NewTextBuilder(), cfg.Pipeline)

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	log.Println("Bot is running...")
	if err := bot.Run(); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
}
