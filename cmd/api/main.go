package main

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/selfstoragehq/storage-agent-be/internal/core/followup"
	"github.com/selfstoragehq/storage-agent-be/internal/core/llm"
	"github.com/selfstoragehq/storage-agent-be/internal/core/whatsapp"
	"github.com/selfstoragehq/storage-agent-be/internal/engine"
	"github.com/selfstoragehq/storage-agent-be/internal/handlers"
	"github.com/selfstoragehq/storage-agent-be/internal/repositories"
	"github.com/selfstoragehq/storage-agent-be/internal/shared/config"
	"github.com/selfstoragehq/storage-agent-be/internal/shared/database"
	"github.com/selfstoragehq/storage-agent-be/internal/shared/utils"
)

func main() {
	cfg := config.LoadConfig()
	logger := utils.InitLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("Starting storage-agent API")

	db := database.NewDB(cfg.DatabaseURL)
	defer db.Close()

	escalationRepo := repositories.NewEscalationRepo(db.GORM)
	convRepo := repositories.NewConversationRepo(db.GORM)

	llmService := llm.NewService()
	waService := whatsapp.NewService(cfg.WhatsAppStoreURL)
	if err := waService.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize WhatsApp provider")
	}

	runner := followup.NewRunner()
	defer runner.Stop()

	engCfg := engine.DefaultConfig()
	engCfg.ConfidenceThreshold = cfg.ConfidenceThreshold
	engCfg.FollowUpDelay = cfg.FollowUpDelay
	engCfg.RateCard.TaxRate = cfg.TaxRate
	if err := engCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid engine configuration")
	}

	eng := engine.New(engCfg, llmService, escalationRepo, waService, runner, convRepo, logger)

	webhookHandler := handlers.NewWebhookHandler(eng, waService, cfg.VerifyToken)

	app := fiber.New()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/webhook", webhookHandler.VerifyWebhook)
	app.Post("/webhook", webhookHandler.ReceiveWebhook)

	app.Get("/whatsapp/qr", func(c *fiber.Ctx) error {
		qr, err := waService.GenerateQR()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{
			"qr_image": base64.StdEncoding.EncodeToString(qr),
		})
	})

	app.Get("/escalations", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
		defer cancel()
		pending, err := escalationRepo.Pending(ctx, c.QueryInt("limit", 50))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch escalations"})
		}
		return c.JSON(pending)
	})

	app.Patch("/escalations/:id", func(c *fiber.Ctx) error {
		var req struct {
			Status string `json:"status"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
		defer cancel()
		if err := escalationRepo.UpdateStatus(ctx, c.Params("id"), req.Status); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "updated"})
	})

	app.Get("/conversations", func(c *fiber.Ctx) error {
		sender := c.Query("sender")
		if sender == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "sender is required"})
		}
		ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
		defer cancel()
		conversations, err := convRepo.RecentBySender(ctx, sender, c.QueryInt("limit", 50))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch conversations"})
		}
		return c.JSON(conversations)
	})

	log.Info().Str("port", cfg.Port).Msg("🚀 API running")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("API server stopped")
	}
}
