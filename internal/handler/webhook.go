package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"boostbot/internal/payment"
	"boostbot/internal/reconcile"
)

// Messenger sends plain text notifications to a chat.
type Messenger interface {
	Notify(chatID string, text string)
}

// RazorpayWebhookHandler receives payment-link events from the gateway.
type RazorpayWebhookHandler struct {
	secret     string
	reconciler *reconcile.Reconciler
	notify     Messenger
	admins     []string
	logger     *zap.Logger
}

func NewRazorpayWebhookHandler(secret string, reconciler *reconcile.Reconciler, notify Messenger, admins []string, logger *zap.Logger) *RazorpayWebhookHandler {
	return &RazorpayWebhookHandler{
		secret:     secret,
		reconciler: reconciler,
		notify:     notify,
		admins:     admins,
		logger:     logger,
	}
}

type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		PaymentLink struct {
			Entity struct {
				ID          string `json:"id"`
				ReferenceID string `json:"reference_id"`
			} `json:"entity"`
		} `json:"payment_link"`
	} `json:"payload"`
}

// Handle verifies the signature over the raw body, then reconciles
// payment_link.paid events. Any other event is acknowledged and ignored.
func (h *RazorpayWebhookHandler) Handle(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	signature := c.Request().Header.Get("X-Razorpay-Signature")
	if !payment.VerifySignature(body, signature, h.secret) {
		h.logger.Warn("webhook signature verification failed",
			zap.String("ip", c.RealIP()))
		for _, admin := range h.admins {
			h.notify.Notify(admin, "🚨 Webhook with a bad signature was rejected. Possible misconfiguration or probe from "+c.RealIP()+".")
		}
		return c.NoContent(http.StatusBadRequest)
	}

	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		h.logger.Warn("webhook body unparseable", zap.Error(err))
		return c.NoContent(http.StatusOK)
	}

	if p.Event != "payment_link.paid" {
		return c.NoContent(http.StatusOK)
	}

	linkID := p.Payload.PaymentLink.Entity.ID
	if linkID == "" {
		h.logger.Warn("payment_link.paid event without link id")
		return c.NoContent(http.StatusOK)
	}

	_, err = h.reconciler.ConfirmPaymentLink(c.Request().Context(), linkID)
	switch {
	case errors.Is(err, reconcile.ErrAlreadyProcessed):
		// replayed delivery, nothing to do
	case err != nil:
		h.logger.Error("webhook reconciliation failed",
			zap.String("link_id", linkID), zap.Error(err))
		for _, admin := range h.admins {
			h.notify.Notify(admin, fmt.Sprintf("🚨 Paid link %s could not be reconciled: %v", linkID, err))
		}
	}

	// the signature checked out, so always acknowledge; retrying a
	// broken mapping will not fix it
	return c.NoContent(http.StatusOK)
}
