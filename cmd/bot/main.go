package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/selfstoragehq/storage-agent-be/internal/core/followup"
	"github.com/selfstoragehq/storage-agent-be/internal/core/llm"
	"github.com/selfstoragehq/storage-agent-be/internal/core/whatsapp"
	"github.com/selfstoragehq/storage-agent-be/internal/engine"
	"github.com/selfstoragehq/storage-agent-be/internal/engine/sanitize"
	"github.com/selfstoragehq/storage-agent-be/internal/repositories"
	"github.com/selfstoragehq/storage-agent-be/internal/shared/config"
	"github.com/selfstoragehq/storage-agent-be/internal/shared/database"
	"github.com/selfstoragehq/storage-agent-be/internal/shared/utils"
)

func main() {
	cfg := config.LoadConfig()
	logger := utils.InitLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("Starting storage-agent bot")

	db := database.NewDB(cfg.DatabaseURL)
	defer db.Close()

	escalationRepo := repositories.NewEscalationRepo(db.GORM)
	convRepo := repositories.NewConversationRepo(db.GORM)

	llmService := llm.NewService()
	waService := whatsapp.NewService(cfg.WhatsAppStoreURL)

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

	if err := waService.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect WhatsApp client")
	}

	err := waService.StartListening(func(evt interface{}) {
		switch v := evt.(type) {
		case *events.Message:
			if v.Info.IsFromMe {
				return
			}
			text := v.Message.GetConversation()
			if text == "" {
				text = v.Message.GetExtendedTextMessage().GetText()
			}
			env := &sanitize.Envelope{
				SenderID:  v.Info.Sender.User,
				MessageID: string(v.Info.ID),
				Timestamp: v.Info.Timestamp,
				Type:      sanitize.TypeText,
				Text:      text,
			}
			go eng.HandleMessage(context.Background(), env)
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to start listening")
		return
	}

	keepAliveCtx, cancelKeepAlive := context.WithCancel(context.Background())
	defer cancelKeepAlive()
	go waService.StartKeepAlive(keepAliveCtx)

	scheduler := followup.NewScheduler()
	_ = scheduler.AddJob("escalation-sweep", "0 0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		count, err := escalationRepo.PendingCount(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Escalation sweep failed")
			return
		}
		if count > 0 {
			log.Warn().Int64("pending", count).Msg("Escalations waiting for a human")
		}
	})
	scheduler.Start()
	defer scheduler.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down...")
	waService.Disconnect()
	log.Info().Msg("Goodbye 👋")
}
