package main

import (
	"log"

	"github.com/Gehlin/Currency-calculator/internal/app"
	"github.com/Gehlin/Currency-calculator/internal/config"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.Load()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	log.Println("Starting Currency Converter...")
	log.Println("Widget: http://localhost:" + cfg.Server.Port + "/ui")

	if err := application.Run(); err != nil {
		log.Fatalf("Failed: %v", err)
	}

	log.Println("Stopped")
}
