package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"boostbot/internal/agency"
	"boostbot/internal/bootstrap"
	"boostbot/internal/bot"
	"boostbot/internal/catalog"
	"boostbot/internal/config"
	cronpkg "boostbot/internal/cron"
	"boostbot/internal/dispatch"
	"boostbot/internal/handler"
	"boostbot/internal/middleware"
	"boostbot/internal/payment"
	"boostbot/internal/pkg/httpclient"
	"boostbot/internal/pkg/telegram"
	"boostbot/internal/poller"
	"boostbot/internal/reconcile"
	"boostbot/internal/repository"
	"boostbot/internal/router"
	"boostbot/internal/state"
)

func main() {
	// --- Logger ---
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// --- Database ---
	db, err := config.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := bootstrap.MigrateAndSeed(db, cfg.Pricing.Mode, cfg.Pricing.DefaultMargin); err != nil {
		logger.Fatal("Failed to bootstrap database schema", zap.Error(err))
	}

	// --- Agency client + catalog ---
	agencyClient := agency.NewClient(
		httpclient.New().WithTimeout(cfg.Agency.Timeout),
		cfg.Agency.BaseURL,
		cfg.Agency.APIKey,
	)
	cat := catalog.New(agencyClient, logger)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := cat.Load(ctx)
		cancel()
		if err != nil {
			// no catalog means no sellable services; refuse to start
			logger.Fatal("Failed to load service catalog", zap.Error(err))
		}
	}

	// --- Telegram Bot API (direct HTTP client) ---
	botAPI := telegram.NewBotAPI(cfg.Bot.Token)
	notifier := telegram.NewNotifier(botAPI, logger)

	// --- Webhook Deduper (Redis with in-memory fallback) ---
	deduper, dedupeErr := middleware.NewDeduper(
		cfg.Redis.Addr,
		cfg.Redis.Pass,
		cfg.Redis.DB,
		10*time.Minute,
	)
	if dedupeErr != nil {
		logger.Warn("Redis unavailable for webhook dedup, using in-memory fallback", zap.Error(dedupeErr))
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	pendingRepo := repository.NewPendingRepository(db)
	processedRepo := repository.NewProcessedRepository(db)
	linkRepo := repository.NewPaymentLinkRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// --- Conversation state ---
	store := state.NewStore()

	// --- Order pipeline: poller -> dispatcher -> reconciler ---
	watch := poller.New(agencyClient, orderRepo, notifier, store, cfg.Poller.Interval, logger)
	dispatcher := dispatch.New(agencyClient, pendingRepo, orderRepo, watch, notifier, cfg.Bot.AdminIDs, logger)
	reconciler := reconcile.New(processedRepo, orderRepo, linkRepo, dispatcher, notifier, logger)

	// --- Payment gateway (link mode only) ---
	var gateway payment.Gateway
	if cfg.Payment.Mode == config.PaymentModeLink {
		gateway = payment.NewRazorpayGateway(cfg.Payment.Razorpay.KeyID, cfg.Payment.Razorpay.KeySecret)
	}

	// --- Bot ---
	botRepos := &bot.BotRepos{
		User:    userRepo,
		Order:   orderRepo,
		Pending: pendingRepo,
		Link:    linkRepo,
		Setting: settingRepo,
	}
	teleBot, err := bot.New(cfg, botRepos, agencyClient, cat, store, reconciler, gateway, botAPI, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// --- Routes ---
	e := echo.New()
	var razorpayHandler *handler.RazorpayWebhookHandler
	if cfg.Payment.Mode == config.PaymentModeLink {
		razorpayHandler = handler.NewRazorpayWebhookHandler(
			cfg.Payment.Razorpay.WebhookSecret, reconciler, notifier, cfg.Bot.AdminIDs, logger)
	}
	router.Setup(e, logger, deduper, teleBot.WebhookHandler(), razorpayHandler)

	// --- Cron Scheduler ---
	scheduler := cronpkg.New(cat, dispatcher, linkRepo, cfg.Dispatch.SweepInterval, logger)
	scheduler.Start()

	// --- Start Server ---
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.Info("Starting server", zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("Server stopped", zap.Error(err))
		}
	}()

	// Start bot (webhook updates arrive via the Echo-mounted handler)
	go teleBot.Start()

	// Re-attach status watchers for orders that were processing when the
	// process last stopped.
	if err := watch.Resume(); err != nil {
		logger.Error("Failed to resume order watchers", zap.Error(err))
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	// Stop bot
	teleBot.Stop()

	// Stop cron
	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	// Stop order watchers
	watch.Stop()

	// Stop HTTP server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
