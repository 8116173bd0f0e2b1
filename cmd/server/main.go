package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/torqueup/assistant-api/config"
	"github.com/torqueup/assistant-api/internal/delivery/httpserver"
	"github.com/torqueup/assistant-api/internal/delivery/telegram"
	"github.com/torqueup/assistant-api/internal/domain/repository"
	"github.com/torqueup/assistant-api/internal/infrastructure/gemini"
	"github.com/torqueup/assistant-api/internal/infrastructure/logger"
	"github.com/torqueup/assistant-api/internal/infrastructure/parser"
	"github.com/torqueup/assistant-api/internal/infrastructure/storage"
	"github.com/torqueup/assistant-api/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Repositories.
	vehicleRepo := storage.NewMemoryVehicleRepository()
	partRepo := storage.NewMemoryPartRepository()
	profileRepo := storage.NewMemoryProfileRepository()
	auditRepo := storage.NewMemoryAuditRepository()

	var chatRepo repository.ChatRepository
	if cfg.ChatDBPath != "" {
		chatRepo, err = storage.NewSQLiteChatRepository(cfg.ChatDBPath, cfg.MaxContextSize)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.ChatDBPath).Msg("sqlite unavailable, keeping history in memory")
			chatRepo = storage.NewMemoryChatRepository(cfg.MaxContextSize)
		}
	} else {
		chatRepo = storage.NewMemoryChatRepository(cfg.MaxContextSize)
	}

	// Upstream model client.
	aiClient, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Gemini client")
	}
	defer aiClient.Close()

	// Use cases.
	catalogParser := parser.NewExcelParser(log)
	listingUC := usecase.NewListingUseCase(vehicleRepo, partRepo)
	catalogUC := usecase.NewCatalogUseCase(vehicleRepo, catalogParser, auditRepo, log)
	chatUC := usecase.NewChatUseCase(aiClient, chatRepo, listingUC, partRepo, profileRepo, log)

	// Optional Telegram channel.
	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBotHandler(cfg.TelegramToken, cfg.TelegramAdminID, log, chatUC, listingUC, catalogUC)
		if err != nil {
			log.Error().Err(err).Msg("telegram disabled")
		} else {
			go bot.Start(ctx)
		}
	}

	srv := httpserver.New(cfg, log, chatUC, listingUC, catalogUC)
	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
	log.Info().Msg("shutdown complete")
}
