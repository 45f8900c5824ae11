package bot

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"boostbot/internal/agency"
	"boostbot/internal/catalog"
	"boostbot/internal/config"
	"boostbot/internal/models"
	"boostbot/internal/payment"
	"boostbot/internal/pkg/telegram"
	"boostbot/internal/pkg/utils"
	"boostbot/internal/reconcile"
	"boostbot/internal/repository"
	"boostbot/internal/state"
)

// Bot wraps the telebot instance and handlers.
type Bot struct {
	tb         *tele.Bot
	webhook    *tele.Webhook
	useWebhook bool
	cfg        *config.Config
	repos      *BotRepos
	agency     *agency.Client
	catalog    *catalog.Catalog
	state      state.Store
	reconciler *reconcile.Reconciler
	gateway    payment.Gateway
	botAPI     *telegram.BotAPI
	logger     *zap.Logger

	admin *adminState
}

// BotRepos bundles all repositories needed by bot handlers.
type BotRepos struct {
	User    *repository.UserRepository
	Order   *repository.OrderRepository
	Pending *repository.PendingRepository
	Link    *repository.PaymentLinkRepository
	Setting *repository.SettingRepository
}

// New creates and configures a new Bot instance.
func New(
	cfg *config.Config,
	repos *BotRepos,
	agencyClient *agency.Client,
	cat *catalog.Catalog,
	store state.Store,
	reconciler *reconcile.Reconciler,
	gateway payment.Gateway,
	botAPI *telegram.BotAPI,
	logger *zap.Logger,
) (*Bot, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Bot.UpdateMode))
	if mode == "" {
		mode = "auto"
	}

	useWebhook := true
	switch mode {
	case "polling":
		useWebhook = false
	case "webhook":
		useWebhook = true
	default: // auto
		useWebhook = strings.TrimSpace(cfg.Bot.WebhookURL) != ""
	}

	var poller tele.Poller
	var webhook *tele.Webhook
	if useWebhook {
		if strings.TrimSpace(cfg.Bot.WebhookURL) == "" {
			return nil, fmt.Errorf("BOT_WEBHOOK_URL is required when BOT_UPDATE_MODE=webhook")
		}
		webhook = &tele.Webhook{
			Listen:   "", // mounted on Echo instead of telebot's own server
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.Bot.WebhookURL},
		}
		poller = webhook
	} else {
		poller = &tele.LongPoller{Timeout: 10 * time.Second}
	}

	pref := tele.Settings{
		Token:  cfg.Bot.Token,
		Poller: poller,
		OnError: func(err error, c tele.Context) {
			logger.Error("telebot error", zap.Error(err))
		},
	}

	tb, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telebot: %w", err)
	}

	b := &Bot{
		tb:         tb,
		webhook:    webhook,
		useWebhook: useWebhook,
		cfg:        cfg,
		repos:      repos,
		agency:     agencyClient,
		catalog:    cat,
		state:      store,
		reconciler: reconciler,
		gateway:    gateway,
		botAPI:     botAPI,
		logger:     logger,
		admin:      newAdminState(cfg.Bot.AdminIDs),
	}

	b.registerHandlers()

	return b, nil
}

// WebhookHandler returns the webhook handler for mounting on Echo.
// Returns nil when running in long-polling mode.
func (b *Bot) WebhookHandler() http.Handler {
	return b.webhook
}

// Start begins polling/webhook processing.
func (b *Bot) Start() {
	if b.useWebhook {
		b.logger.Info("Starting Telegram bot", zap.String("mode", "webhook"), zap.String("webhook_url", b.cfg.Bot.WebhookURL))
	} else {
		// Long polling requires webhook to be removed first.
		if err := b.tb.RemoveWebhook(true); err != nil {
			b.logger.Warn("Failed to remove webhook before long polling", zap.Error(err))
		}
		b.logger.Info("Starting Telegram bot", zap.String("mode", "polling"))
	}
	b.tb.Start()
}

// Stop gracefully shuts down the bot.
func (b *Bot) Stop() {
	b.tb.Stop()
}

// registerHandlers sets up all bot message and callback handlers.
func (b *Bot) registerHandlers() {
	b.tb.Handle("/start", b.handleStart)
	b.tb.Handle("/manageraccess", b.handleManagerAccess)
	b.tb.Handle("/orders", b.handleOrders)
	b.tb.Handle("/admin", b.handleAdmin)
	b.tb.Handle("/reload", b.handleReload)
	b.tb.Handle(tele.OnText, b.handleText)
	b.tb.Handle(tele.OnContact, b.handleContact)
	b.tb.Handle(tele.OnCallback, b.handleCallback)
	b.tb.Handle(tele.OnPhoto, b.handlePhoto)
}

// ── /start ────────────────────────────────────────────────────────────

func (b *Bot) handleStart(c tele.Context) error {
	chatID := fmt.Sprintf("%d", c.Chat().ID)

	known, err := b.repos.User.Exists(chatID)
	if err != nil {
		b.logger.Error("user lookup failed", zap.String("chat_id", chatID), zap.Error(err))
	}
	if !known {
		newUser := &models.User{
			ID:       chatID,
			Username: c.Chat().Username,
			Register: utils.NowUnix(),
		}
		if err := b.repos.User.Create(newUser); err != nil {
			b.logger.Error("Failed to create user", zap.String("chat_id", chatID), zap.Error(err))
		}
	}

	b.state.Reset(c.Chat().ID)
	return b.sendWelcome(c)
}

// ── /manageraccess ────────────────────────────────────────────────────

func (b *Bot) handleManagerAccess(c tele.Context) error {
	return c.Send(
		"🔐 <b>Manager access</b>\n\n"+
			"Some services need the bot's manager account added as a collaborator "+
			"on your page before delivery can start. After checkout we'll send you "+
			"the exact account to add. You can remove it once the order is delivered.",
		tele.ModeHTML)
}

// ── /orders ───────────────────────────────────────────────────────────

func (b *Bot) handleOrders(c tele.Context) error {
	chatID := fmt.Sprintf("%d", c.Chat().ID)

	orders, err := b.repos.Order.FindByUser(chatID, 10)
	if err != nil {
		b.logger.Error("order listing failed", zap.String("chat_id", chatID), zap.Error(err))
		return c.Send("Something went wrong fetching your orders, please try again.")
	}
	if len(orders) == 0 {
		return c.Send("You have no orders yet. Hit /start to place one!")
	}

	var sb strings.Builder
	sb.WriteString("📦 <b>Your recent orders</b>\n")
	for _, o := range orders {
		sb.WriteString(fmt.Sprintf("\n<code>%s</code>\n%s ×%d\nStatus: %s\n",
			o.OrderID, o.ServiceName, o.Quantity, statusLabel(o.Status)))
	}
	return c.Send(sb.String(), tele.ModeHTML)
}

func statusLabel(status string) string {
	switch status {
	case models.OrderStatusAwaitingPayment:
		return "💳 awaiting payment"
	case models.OrderStatusPendingApproval:
		return "🕐 payment under review"
	case models.OrderStatusQueued:
		return "📥 confirmed, starting soon"
	case models.OrderStatusProcessing:
		return "⚙️ processing"
	case models.OrderStatusDelivered:
		return "✅ delivered"
	case models.OrderStatusPartial:
		return "⚠️ partially delivered"
	case models.OrderStatusFailed:
		return "❌ failed"
	case models.OrderStatusRejected:
		return "❌ payment rejected"
	default:
		return status
	}
}

// ── Text routing ──────────────────────────────────────────────────────

func (b *Bot) handleText(c tele.Context) error {
	chatID := c.Chat().ID
	text := strings.TrimSpace(c.Text())

	if b.admin.isAdmin(fmt.Sprintf("%d", chatID)) {
		if handled, err := b.handleAdminText(c, text); handled {
			return err
		}
	}

	frame := b.state.Current(chatID)
	switch frame.Step {
	case state.StepLink:
		return b.handleLinkInput(c, frame, text)
	case state.StepCustomQuantity:
		return b.handleQuantityInput(c, frame, text)
	case state.StepPhone:
		return b.handlePhoneInput(c, frame, text)
	case state.StepPayment, state.StepAwaitingProof:
		return c.Send("📸 Please send the payment screenshot as a photo.")
	case state.StepPendingApproval:
		return c.Send("🕐 Your payment is being reviewed, hang tight!")
	default:
		return c.Send("Use the buttons to continue, or /start to begin a new order.")
	}
}

// ── Contact (phone sharing) ───────────────────────────────────────────

func (b *Bot) handleContact(c tele.Context) error {
	frame := b.state.Current(c.Chat().ID)
	if frame.Step != state.StepPhone {
		return nil
	}
	contact := c.Message().Contact
	if contact == nil {
		return nil
	}
	return b.handlePhoneInput(c, frame, contact.PhoneNumber)
}
