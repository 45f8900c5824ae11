package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"boostbot/internal/handler"
	"boostbot/internal/middleware"
)

// Setup configures all routes for the Echo server.
func Setup(
	e *echo.Echo,
	logger *zap.Logger,
	deduper middleware.Deduper,
	telegramWebhook http.Handler,
	razorpayHandler *handler.RazorpayWebhookHandler,
) {
	e.Use(echomw.Recover())
	e.HideBanner = true

	// Telegram webhook (protected by IP check + deduplication)
	if telegramWebhook != nil {
		botGroup := e.Group("/bot")
		botGroup.Use(middleware.TelegramIPCheck())
		botGroup.Use(middleware.TelegramUpdateDedup(deduper))
		botGroup.POST("/webhook", echo.WrapHandler(telegramWebhook))
	} else {
		logger.Info("Telegram webhook routes disabled (bot update mode is polling)")
	}

	// Payment gateway webhook
	if razorpayHandler != nil {
		paymentGroup := e.Group("/webhook")
		paymentGroup.Use(middleware.GatewayEventDedup(deduper))
		paymentGroup.POST("/razorpay", razorpayHandler.Handle)
	}

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
}
