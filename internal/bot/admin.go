package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"boostbot/internal/models"
	"boostbot/internal/pkg/utils"
	"boostbot/internal/pricing"
)

// admin input steps, tracked separately from the order conversation so
// an admin mid-order can still run panel commands.
const (
	adminStepNone      = ""
	adminStepMargin    = "margin"
	adminStepBroadcast = "broadcast"
)

type adminState struct {
	allowed map[string]bool

	mu    sync.Mutex
	steps map[string]string
}

func newAdminState(ids []string) *adminState {
	allowed := make(map[string]bool, len(ids))
	for _, id := range ids {
		allowed[id] = true
	}
	return &adminState{
		allowed: allowed,
		steps:   make(map[string]string),
	}
}

func (a *adminState) isAdmin(chatID string) bool {
	return a.allowed[chatID]
}

func (a *adminState) step(chatID string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.steps[chatID]
}

func (a *adminState) setStep(chatID, step string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if step == adminStepNone {
		delete(a.steps, chatID)
		return
	}
	a.steps[chatID] = step
}

// ── /admin ────────────────────────────────────────────────────────────

func (b *Bot) handleAdmin(c tele.Context) error {
	chatID := fmt.Sprintf("%d", c.Chat().ID)
	if !b.admin.isAdmin(chatID) {
		return nil
	}
	return c.Send("🔧 <b>Admin panel</b>", b.adminKeyboard(), tele.ModeHTML)
}

// /reload is a shortcut for the panel's refresh button.
func (b *Bot) handleReload(c tele.Context) error {
	if !b.admin.isAdmin(fmt.Sprintf("%d", c.Chat().ID)) {
		return nil
	}
	return b.adminRefreshCatalog(c)
}

func (b *Bot) handleAdminCallback(c tele.Context, data string) error {
	chatID := fmt.Sprintf("%d", c.Chat().ID)
	if !b.admin.isAdmin(chatID) {
		return nil
	}

	switch data {
	case "admin_balance":
		return b.adminBalance(c)
	case "admin_stats":
		return b.adminStats(c)
	case "admin_margin":
		b.admin.setStep(chatID, adminStepMargin)
		margin, mode := b.currentMargin()
		return c.Send(fmt.Sprintf(
			"Current margin: %g (%s mode).\nSend the new value. It applies to future orders only.",
			margin, mode))
	case "admin_refresh":
		return b.adminRefreshCatalog(c)
	case "admin_broadcast":
		b.admin.setStep(chatID, adminStepBroadcast)
		return c.Send("Send the broadcast message text:")
	case "admin_queue":
		return b.adminQueue(c)
	default:
		return nil
	}
}

// handleAdminText consumes pending admin input. Returns handled=false
// when the admin has no input pending, so the order flow can take over.
func (b *Bot) handleAdminText(c tele.Context, text string) (bool, error) {
	chatID := fmt.Sprintf("%d", c.Chat().ID)

	switch b.admin.step(chatID) {
	case adminStepMargin:
		b.admin.setStep(chatID, adminStepNone)
		return true, b.adminSetMargin(c, text)
	case adminStepBroadcast:
		b.admin.setStep(chatID, adminStepNone)
		return true, b.adminBroadcast(c, text)
	default:
		return false, nil
	}
}

// ── Panel actions ─────────────────────────────────────────────────────

func (b *Bot) adminBalance(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	balance, currency, err := b.agency.Balance(ctx)
	if err != nil {
		return c.Send(fmt.Sprintf("❌ Balance check failed: %v", err))
	}
	return c.Send(fmt.Sprintf("💰 Agency balance: %.2f %s", balance, currency))
}

func (b *Bot) adminStats(c tele.Context) error {
	users, err := b.repos.User.Count()
	if err != nil {
		return c.Send(fmt.Sprintf("❌ Stats failed: %v", err))
	}
	total, err := b.repos.Order.Count()
	if err != nil {
		return c.Send(fmt.Sprintf("❌ Stats failed: %v", err))
	}
	byStatus, err := b.repos.Order.CountByStatus()
	if err != nil {
		return c.Send(fmt.Sprintf("❌ Stats failed: %v", err))
	}

	var sb strings.Builder
	sb.WriteString("📊 <b>Stats</b>\n\n")
	sb.WriteString(fmt.Sprintf("👤 Users: %s\n", utils.FormatNumber(users)))
	sb.WriteString(fmt.Sprintf("🛒 Orders: %s\n", utils.FormatNumber(total)))
	sb.WriteString(fmt.Sprintf("📚 Catalog: %d services\n", b.catalog.Count()))
	for _, status := range []string{
		models.OrderStatusProcessing,
		models.OrderStatusQueued,
		models.OrderStatusDelivered,
		models.OrderStatusPartial,
		models.OrderStatusFailed,
	} {
		if n := byStatus[status]; n > 0 {
			sb.WriteString(fmt.Sprintf("  • %s: %d\n", status, n))
		}
	}
	return c.Send(sb.String(), tele.ModeHTML)
}

func (b *Bot) adminSetMargin(c tele.Context, text string) error {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || value <= 0 {
		return c.Send("That's not a valid margin value, nothing changed.")
	}

	_, mode := b.currentMargin()
	if mode == pricing.ModeFactor && value < 1 {
		return c.Send("In factor mode the margin must be >= 1 (1.4 means +40%). Nothing changed.")
	}

	if err := b.repos.Setting.UpdateMargin(value, string(mode)); err != nil {
		b.logger.Error("margin update failed", zap.Error(err))
		return c.Send(fmt.Sprintf("❌ Margin update failed: %v", err))
	}

	b.logger.Info("margin updated", zap.Float64("value", value), zap.String("mode", string(mode)))
	return c.Send(fmt.Sprintf("✅ Margin set to %g (%s mode). In-flight orders keep their old price.", value, mode))
}

func (b *Bot) adminRefreshCatalog(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := b.catalog.Load(ctx); err != nil {
		return c.Send(fmt.Sprintf("❌ Catalog refresh failed, old catalog still serves: %v", err))
	}
	return c.Send(fmt.Sprintf("✅ Catalog refreshed, %d services loaded.", b.catalog.Count()))
}

func (b *Bot) adminQueue(c tele.Context) error {
	n, err := b.repos.Pending.Count()
	if err != nil {
		return c.Send(fmt.Sprintf("❌ Queue check failed: %v", err))
	}
	if n == 0 {
		return c.Send("📥 The pending fulfillment queue is empty.")
	}
	return c.Send(fmt.Sprintf("📥 %d paid order(s) waiting for agency balance. They release automatically after a top-up.", n))
}

func (b *Bot) adminBroadcast(c tele.Context, text string) error {
	users, err := b.repos.User.FindAll()
	if err != nil {
		return c.Send(fmt.Sprintf("❌ Broadcast failed: %v", err))
	}

	jobID := utils.GenerateUUID()
	b.logger.Info("broadcast started",
		zap.String("job_id", jobID), zap.Int("recipients", len(users)))

	go func() {
		sent := 0
		for _, u := range users {
			if u.Blocked {
				continue
			}
			if _, err := b.botAPI.SendMessage(u.ID, text, nil); err != nil {
				_ = b.repos.User.SetBlocked(u.ID, true)
				continue
			}
			sent++
			// keep under Telegram's ~30 msg/s limit
			time.Sleep(50 * time.Millisecond)
		}
		b.logger.Info("broadcast finished",
			zap.String("job_id", jobID), zap.Int("sent", sent))
		_, _ = b.botAPI.SendMessage(fmt.Sprintf("%d", c.Chat().ID),
			fmt.Sprintf("📣 Broadcast done: %d delivered.", sent), nil)
	}()

	return c.Send(fmt.Sprintf("📣 Broadcast queued for %d users (job %s).", len(users), jobID[:8]))
}
