package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"boostbot/internal/catalog"
	"boostbot/internal/config"
	"boostbot/internal/dispatch"
	"boostbot/internal/models"
	"boostbot/internal/payment"
	"boostbot/internal/pkg/utils"
	"boostbot/internal/pricing"
	"boostbot/internal/reconcile"
	"boostbot/internal/state"
)

func (b *Bot) sendWelcome(c tele.Context) error {
	if b.catalog.Count() == 0 {
		return c.Send("😔 The service catalog is being updated right now, please try again in a minute.")
	}
	return c.Send(
		"👋 <b>Welcome!</b>\n\nPick a platform to boost:",
		b.platformKeyboard(), tele.ModeHTML)
}

// currentMargin reads the runtime margin, falling back to config
// defaults when the settings row is unreadable.
func (b *Bot) currentMargin() (float64, pricing.Mode) {
	s, err := b.repos.Setting.Get()
	if err != nil {
		return b.cfg.Pricing.DefaultMargin, pricing.Mode(b.cfg.Pricing.Mode)
	}
	return s.MarginValue, pricing.Mode(s.MarginMode)
}

// ── Callback routing ──────────────────────────────────────────────────

func (b *Bot) handleCallback(c tele.Context) error {
	data := strings.TrimSpace(strings.TrimPrefix(c.Callback().Data, "\f"))
	_ = c.Respond()

	switch {
	case strings.HasPrefix(data, "plat_"):
		return b.selectPlatform(c, strings.TrimPrefix(data, "plat_"))
	case strings.HasPrefix(data, "cat_"):
		return b.selectCategory(c, strings.TrimPrefix(data, "cat_"))
	case strings.HasPrefix(data, "svc_"):
		return b.selectService(c, strings.TrimPrefix(data, "svc_"))
	case data == "order":
		return b.startOrder(c)
	case data == "qty_custom":
		return b.askCustomQuantity(c)
	case strings.HasPrefix(data, "qty_"):
		return b.selectQuantity(c, strings.TrimPrefix(data, "qty_"))
	case data == "confirm":
		return b.confirmOrder(c)
	case data == "back":
		return b.handleBack(c)
	case data == "cancel":
		b.state.Reset(c.Chat().ID)
		return c.Edit("Order cancelled. Hit /start whenever you're ready!")
	case strings.HasPrefix(data, "approve_"), strings.HasPrefix(data, "reject_"):
		return b.handleApproval(c, data)
	case strings.HasPrefix(data, "admin_"):
		return b.handleAdminCallback(c, data)
	default:
		return nil
	}
}

// ── Platform / category / service selection ───────────────────────────

func (b *Bot) selectPlatform(c tele.Context, platform string) error {
	_, err := b.state.Push(c.Chat().ID, func(f *state.Frame) {
		f.Step = state.StepCategory
		f.Platform = platform
	})
	if err != nil {
		return b.staleFlow(c)
	}
	return c.Edit(
		fmt.Sprintf("%s <b>%s</b>\n\nWhat would you like to boost?", platformEmoji(platform), platform),
		b.categoryKeyboard(platform), tele.ModeHTML)
}

func (b *Bot) selectCategory(c tele.Context, category string) error {
	frame, err := b.state.Push(c.Chat().ID, func(f *state.Frame) {
		f.Step = state.StepService
		f.Category = category
	})
	if err != nil {
		return b.staleFlow(c)
	}
	return c.Edit(
		fmt.Sprintf("<b>%s › %s</b>\n\nPick a service:", frame.Platform, category),
		b.serviceKeyboard(frame.Platform, category), tele.ModeHTML)
}

func (b *Bot) selectService(c tele.Context, rawID string) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return b.staleFlow(c)
	}
	svc, err := b.catalog.Find(id)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			return c.Edit("😔 That service was just updated and is no longer available. Please pick another one.",
				b.platformKeyboard())
		}
		return err
	}

	if _, err := b.state.Push(c.Chat().ID, func(f *state.Frame) {
		f.Step = state.StepDetails
		f.ServiceID = id
	}); err != nil {
		return b.staleFlow(c)
	}
	return c.Edit(b.renderDetails(svc), b.detailsKeyboard(), tele.ModeHTML)
}

func (b *Bot) renderDetails(svc *models.Service) string {
	margin, mode := b.currentMargin()
	per1000 := pricing.Price(svc.Rate, 1000, margin, mode)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>%s</b>\n\n", svc.Name))
	sb.WriteString(fmt.Sprintf("💵 Price: %s per 1000\n", pricing.FormatINR(per1000)))
	if _, fixed := svc.FixedQuantity(); !fixed {
		sb.WriteString(fmt.Sprintf("📏 Min %d / Max %d\n", svc.Min, svc.Max))
	}
	if svc.Refill {
		sb.WriteString("♻️ Refill guarantee\n")
	}
	if _, fixed := svc.FixedQuantity(); fixed {
		sb.WriteString("🔐 Needs manager access, see /manageraccess\n")
	}
	if svc.Description != "" {
		sb.WriteString("\n" + svc.Description + "\n")
	}
	return sb.String()
}

// ── Link entry ────────────────────────────────────────────────────────

func (b *Bot) startOrder(c tele.Context) error {
	frame, err := b.state.Push(c.Chat().ID, func(f *state.Frame) {
		f.Step = state.StepLink
	})
	if err != nil {
		return b.staleFlow(c)
	}
	return c.Send(linkPrompt(frame.Platform, frame.Category))
}

// linkPrompt tailors the link request to what the service targets.
func linkPrompt(platform, category string) string {
	switch {
	case category == "Followers" || category == "Subscribers" || category == "Members":
		return fmt.Sprintf("🔗 Send the link to your %s profile/channel:", platform)
	case platform == "YouTube":
		return "🔗 Send the link to your YouTube video:"
	case platform == "Instagram" && category == "Story":
		return "🔗 Send the link to your Instagram profile (story boosts target the latest story):"
	default:
		return fmt.Sprintf("🔗 Send the link to your %s post:", platform)
	}
}

func (b *Bot) handleLinkInput(c tele.Context, frame state.Frame, text string) error {
	if !utils.ValidLink(text) {
		return c.Send("🤔 That doesn't look like a valid link. Please send a full http(s) URL.")
	}

	svc, err := b.catalog.Find(frame.ServiceID)
	if err != nil {
		b.state.Reset(c.Chat().ID)
		return c.Send("😔 That service is no longer available. Hit /start to pick another.")
	}

	// fixed-block services skip quantity selection entirely
	if qty, fixed := svc.FixedQuantity(); fixed {
		if _, err := b.state.Push(c.Chat().ID, func(f *state.Frame) {
			f.Step = state.StepSummary
			f.Link = text
			f.Quantity = qty
		}); err != nil {
			return b.staleFlow(c)
		}
		return b.sendSummary(c)
	}

	if _, err := b.state.Push(c.Chat().ID, func(f *state.Frame) {
		f.Step = state.StepQuantity
		f.Link = text
	}); err != nil {
		return b.staleFlow(c)
	}
	return c.Send(
		fmt.Sprintf("🔢 How many? (min %d, max %d)", svc.Min, svc.Max),
		b.quantityKeyboard(svc))
}

// ── Quantity ──────────────────────────────────────────────────────────

func (b *Bot) selectQuantity(c tele.Context, raw string) error {
	qty, err := strconv.Atoi(raw)
	if err != nil {
		return b.staleFlow(c)
	}
	return b.applyQuantity(c, qty)
}

func (b *Bot) askCustomQuantity(c tele.Context) error {
	if _, err := b.state.Push(c.Chat().ID, func(f *state.Frame) {
		f.Step = state.StepCustomQuantity
	}); err != nil {
		return b.staleFlow(c)
	}
	return c.Send("✏️ Type the exact amount you want:")
}

func (b *Bot) handleQuantityInput(c tele.Context, frame state.Frame, text string) error {
	if !utils.IsNumeric(text) {
		return c.Send("Please send a plain number, e.g. 1500.")
	}
	qty, _ := strconv.Atoi(text)
	return b.applyQuantity(c, qty)
}

func (b *Bot) applyQuantity(c tele.Context, qty int) error {
	frame := b.state.Current(c.Chat().ID)
	svc, err := b.catalog.Find(frame.ServiceID)
	if err != nil {
		b.state.Reset(c.Chat().ID)
		return c.Send("😔 That service is no longer available. Hit /start to pick another.")
	}

	if reason := validateQuantity(svc, qty, b.marginFor(svc, qty)); reason != "" {
		return c.Send(reason)
	}

	if _, err := b.state.Push(c.Chat().ID, func(f *state.Frame) {
		f.Step = state.StepSummary
		f.Quantity = qty
	}); err != nil {
		return b.staleFlow(c)
	}
	return b.sendSummary(c)
}

// marginFor prices qty units of svc with the current margin.
func (b *Bot) marginFor(svc *models.Service, qty int) float64 {
	margin, mode := b.currentMargin()
	return pricing.Price(svc.Rate, qty, margin, mode)
}

// ── Summary + confirm ─────────────────────────────────────────────────

func (b *Bot) sendSummary(c tele.Context) error {
	frame := b.state.Current(c.Chat().ID)
	svc, err := b.catalog.Find(frame.ServiceID)
	if err != nil {
		b.state.Reset(c.Chat().ID)
		return c.Send("😔 That service is no longer available. Hit /start to pick another.")
	}

	amount := b.marginFor(svc, frame.Quantity)
	text := fmt.Sprintf(
		"🧾 <b>Order summary</b>\n\n"+
			"▫️ %s\n"+
			"🔗 %s\n"+
			"🔢 Quantity: %d\n"+
			"💵 Total: <b>%s</b>\n\n"+
			"Ready to pay?",
		svc.Name, frame.Link, frame.Quantity, pricing.FormatINR(amount))
	return c.Send(text, b.summaryKeyboard(), tele.ModeHTML)
}

func (b *Bot) confirmOrder(c tele.Context) error {
	chatID := c.Chat().ID
	userID := fmt.Sprintf("%d", chatID)
	frame := b.state.Current(chatID)

	if frame.Step != state.StepSummary {
		// a second tap on an old confirm button must not destroy a
		// checkout that is already past payment
		if repromptable(frame.Step) {
			return b.reprompt(c, frame)
		}
		return b.staleFlow(c)
	}

	svc, err := b.catalog.Find(frame.ServiceID)
	if err != nil {
		b.state.Reset(chatID)
		return c.Send("😔 That service is no longer available. Hit /start to pick another.")
	}

	margin, mode := b.currentMargin()
	amount := pricing.Price(svc.Rate, frame.Quantity, margin, mode)
	cost := pricing.Cost(svc.Rate, frame.Quantity)
	if pricing.BelowMinimum(amount) {
		return c.Send(fmt.Sprintf(
			"The total for this quantity is below the %s payment minimum. Please pick a larger amount.",
			pricing.FormatINR(pricing.MinPayableINR)))
	}

	orderID := utils.GenerateOrderID(chatID)
	order := &models.Order{
		OrderID:     orderID,
		UserID:      userID,
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		Platform:    frame.Platform,
		Category:    frame.Category,
		Link:        frame.Link,
		Quantity:    frame.Quantity,
		Amount:      amount,
		Cost:        cost,
		Status:      models.OrderStatusAwaitingPayment,
	}
	if err := b.repos.Order.Create(order); err != nil {
		b.logger.Error("order create failed", zap.String("order_id", orderID), zap.Error(err))
		return c.Send("Something went wrong saving your order, please try again.")
	}

	b.logger.Info("order confirmed",
		zap.String("order_id", orderID),
		zap.Int64("service_id", svc.ID),
		zap.Float64("amount", amount))

	switch b.cfg.Payment.Mode {
	case config.PaymentModeLink:
		if _, err := b.state.Push(chatID, func(f *state.Frame) {
			f.Step = state.StepPhone
			f.OrderID = orderID
		}); err != nil {
			return b.staleFlow(c)
		}
		return c.Send("📱 Share your mobile number for the payment link (tap the button or type it):", phoneKeyboard())
	default:
		return b.sendUPIQR(c, order, amount)
	}
}

// ── UPI payment ───────────────────────────────────────────────────────

func (b *Bot) sendUPIQR(c tele.Context, order *models.Order, amount float64) error {
	chatID := c.Chat().ID

	if _, err := b.state.Push(chatID, func(f *state.Frame) {
		f.Step = state.StepPayment
		f.OrderID = order.OrderID
	}); err != nil {
		return b.staleFlow(c)
	}

	if err := b.sendQRMessage(c, order, amount); err != nil {
		return err
	}

	if _, err := b.state.Push(chatID, func(f *state.Frame) {
		f.Step = state.StepAwaitingProof
	}); err != nil {
		return b.staleFlow(c)
	}
	return nil
}

func (b *Bot) sendQRMessage(c tele.Context, order *models.Order, amount float64) error {
	upiLink := payment.UPILink(b.cfg.Payment.UPIID, b.cfg.Payment.Payee, amount, order.OrderID)
	png, err := payment.QRPNG(upiLink)
	if err != nil {
		b.logger.Error("qr render failed", zap.String("order_id", order.OrderID), zap.Error(err))
		return c.Send("Something went wrong preparing the payment QR, please try again.")
	}

	photo := &tele.Photo{
		File: tele.FromReader(strings.NewReader(string(png))),
		Caption: fmt.Sprintf(
			"💳 Pay %s via any UPI app\n\n"+
				"Scan the QR or pay to <code>%s</code>\n"+
				"🧾 Order: <code>%s</code>\n\n"+
				"📸 After paying, send a screenshot of the payment here.",
			pricing.FormatINR(amount), b.cfg.Payment.UPIID, order.OrderID),
	}
	return c.Send(photo, tele.ModeHTML)
}

// resendPayment re-renders the payment instructions for the frame's
// order after back-navigation or a repeated tap.
func (b *Bot) resendPayment(c tele.Context, frame state.Frame) error {
	order, err := b.repos.Order.FindByID(frame.OrderID)
	if err != nil {
		b.state.Reset(c.Chat().ID)
		return c.Send("Something went wrong, please start over with /start.")
	}

	if b.cfg.Payment.Mode == config.PaymentModeLink {
		link, err := b.repos.Link.FindByLinkID(order.PaymentRef)
		if err != nil {
			b.state.Reset(c.Chat().ID)
			return c.Send("Something went wrong, please start over with /start.")
		}
		return c.Send(fmt.Sprintf(
			"💳 Your payment link for %s:\n\n%s",
			pricing.FormatINR(order.Amount), link.ShortURL))
	}
	return b.sendQRMessage(c, order, order.Amount)
}

// reprompt repeats the live step's prompt without touching the stack.
func (b *Bot) reprompt(c tele.Context, frame state.Frame) error {
	switch frame.Step {
	case state.StepPhone:
		return c.Send("📱 Share your mobile number for the payment link (tap the button or type it):", phoneKeyboard())
	case state.StepPayment, state.StepAwaitingProof:
		if b.cfg.Payment.Mode == config.PaymentModeLink {
			return b.resendPayment(c, frame)
		}
		return c.Send("📸 Please send the payment screenshot as a photo.")
	case state.StepPendingApproval:
		return c.Send("🕐 Your payment is being reviewed, hang tight!")
	default:
		return b.staleFlow(c)
	}
}

// handlePhoto accepts a payment screenshot. Back-navigation can leave
// the chat at the payment step with the QR re-shown, so both steps take
// the proof.
func (b *Bot) handlePhoto(c tele.Context) error {
	chatID := c.Chat().ID
	userID := fmt.Sprintf("%d", chatID)
	frame := b.state.Current(chatID)

	if frame.Step != state.StepAwaitingProof && frame.Step != state.StepPayment {
		return nil
	}

	photo := c.Message().Photo
	if photo == nil {
		return nil
	}

	rc, err := b.tb.File(&photo.File)
	if err != nil {
		b.logger.Error("proof download failed", zap.String("order_id", frame.OrderID), zap.Error(err))
		return c.Send("Couldn't read that photo, please send it again.")
	}
	defer rc.Close()

	if err := os.MkdirAll(b.cfg.Payment.ProofDir, 0o755); err != nil {
		return err
	}
	proofPath := filepath.Join(b.cfg.Payment.ProofDir,
		fmt.Sprintf("payment_%d_%s.jpg", chatID, frame.OrderID))

	data, err := io.ReadAll(rc)
	if err != nil {
		b.logger.Error("proof read failed", zap.String("order_id", frame.OrderID), zap.Error(err))
		return c.Send("Couldn't read that photo, please send it again.")
	}
	if err := os.WriteFile(proofPath, data, 0o644); err != nil {
		b.logger.Error("proof save failed", zap.String("order_id", frame.OrderID), zap.Error(err))
		return c.Send("Couldn't save that photo, please send it again.")
	}

	if err := b.repos.Order.SetPaymentRef(frame.OrderID, proofPath); err != nil {
		b.logger.Error("record proof path failed", zap.String("order_id", frame.OrderID), zap.Error(err))
	}
	if err := b.repos.Order.SetStatus(frame.OrderID, models.OrderStatusPendingApproval); err != nil {
		b.logger.Error("mark pending approval failed", zap.String("order_id", frame.OrderID), zap.Error(err))
	}
	if _, err := b.state.Push(chatID, func(f *state.Frame) {
		f.Step = state.StepPendingApproval
	}); err != nil {
		return b.staleFlow(c)
	}

	order, err := b.repos.Order.FindByID(frame.OrderID)
	if err != nil {
		b.logger.Error("order lookup failed", zap.String("order_id", frame.OrderID), zap.Error(err))
		return c.Send("Something went wrong, please contact support.")
	}

	caption := fmt.Sprintf(
		"🧾 Payment proof\n\n👤 User: %s\n🛒 %s ×%d\n💵 %s\n🆔 %s",
		userID, order.ServiceName, order.Quantity,
		pricing.FormatINR(order.Amount), order.OrderID)
	for _, admin := range b.cfg.Bot.AdminIDs {
		if _, err := b.botAPI.SendPhotoBytes(admin, data, "proof.jpg", caption); err != nil {
			b.logger.Warn("forward proof to admin failed",
				zap.String("admin", admin), zap.Error(err))
			continue
		}
		// the keyboard rides on a follow-up message so the photo upload
		// stays a plain multipart call
		_, _ = b.botAPI.SendMessage(admin,
			"Review payment for order "+order.OrderID,
			approvalKeyboard(userID, order.OrderID))
	}

	return c.Send("🕐 Got it! Your payment is being verified, this usually takes a few minutes.")
}

// ── Hosted payment link ───────────────────────────────────────────────

func (b *Bot) handlePhoneInput(c tele.Context, frame state.Frame, text string) error {
	phone, ok := utils.NormalizePhone(text)
	if !ok {
		return c.Send("🤔 That doesn't look like a valid Indian mobile number. Please try again.")
	}

	if _, err := b.state.Push(c.Chat().ID, func(f *state.Frame) {
		f.Step = state.StepPayment
		f.Phone = phone
	}); err != nil {
		return b.staleFlow(c)
	}

	if err := b.repos.Order.SetPhone(frame.OrderID, phone); err != nil {
		b.logger.Error("record phone failed", zap.String("order_id", frame.OrderID), zap.Error(err))
	}

	order, err := b.repos.Order.FindByID(frame.OrderID)
	if err != nil {
		b.state.Reset(c.Chat().ID)
		return c.Send("Something went wrong, please start over with /start.")
	}

	if b.gateway == nil {
		return c.Send("Payment links are not configured, please contact support.")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	amountPaise := int64(math.Round(order.Amount * 100))
	link, err := b.gateway.CreatePaymentLink(ctx, amountPaise, order.OrderID,
		fmt.Sprintf("%s x%d", order.ServiceName, order.Quantity), phone)
	if err != nil {
		b.logger.Error("payment link creation failed",
			zap.String("order_id", order.OrderID), zap.Error(err))
		return c.Send("Couldn't create the payment link right now, please try again in a moment.")
	}

	if err := b.repos.Link.Create(&models.PaymentLink{
		LinkID:   link.LinkID,
		OrderID:  order.OrderID,
		UserID:   order.UserID,
		ShortURL: link.ShortURL,
	}); err != nil {
		b.logger.Error("record payment link failed",
			zap.String("link_id", link.LinkID), zap.Error(err))
		return c.Send("Something went wrong, please contact support.")
	}
	if err := b.repos.Order.SetPaymentRef(order.OrderID, link.LinkID); err != nil {
		b.logger.Error("record link ref failed", zap.String("order_id", order.OrderID), zap.Error(err))
	}
	if err := b.repos.Order.SetStatus(order.OrderID, models.OrderStatusPendingApproval); err != nil {
		b.logger.Error("mark pending approval failed", zap.String("order_id", order.OrderID), zap.Error(err))
	}

	if _, err := b.state.Push(c.Chat().ID, func(f *state.Frame) {
		f.Step = state.StepPendingApproval
	}); err != nil {
		return b.staleFlow(c)
	}

	return c.Send(fmt.Sprintf(
		"💳 Here's your secure payment link for %s:\n\n%s\n\n"+
			"Your order starts automatically the moment the payment goes through.",
		pricing.FormatINR(order.Amount), link.ShortURL),
		&tele.ReplyMarkup{RemoveKeyboard: true})
}

// ── Admin approval callbacks ──────────────────────────────────────────

func (b *Bot) handleApproval(c tele.Context, data string) error {
	adminID := fmt.Sprintf("%d", c.Chat().ID)
	if !b.admin.isAdmin(adminID) {
		return c.Respond(&tele.CallbackResponse{Text: "Not allowed"})
	}

	parts := strings.SplitN(data, "_", 3)
	if len(parts) != 3 {
		return nil
	}
	action, orderID := parts[0], parts[2]
	buyerChat, _ := strconv.ParseInt(parts[1], 10, 64)

	if action == "reject" {
		err := b.reconciler.Reject(orderID)
		switch {
		case errors.Is(err, reconcile.ErrAlreadyProcessed):
			return c.Edit("Order " + orderID + " was already handled.")
		case err != nil:
			b.logger.Error("reject failed", zap.String("order_id", orderID), zap.Error(err))
			return c.Edit("Reject failed for " + orderID + ", check logs.")
		}
		if buyerChat != 0 {
			b.state.Reset(buyerChat)
		}
		return c.Edit("❌ Payment for " + orderID + " rejected.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	res, err := b.reconciler.Approve(ctx, orderID)
	switch {
	case errors.Is(err, reconcile.ErrAlreadyProcessed):
		return c.Edit("Order " + orderID + " was already handled.")
	case err != nil:
		b.logger.Error("approve failed", zap.String("order_id", orderID), zap.Error(err))
		return c.Edit("Approve failed for " + orderID + ", check logs.")
	}

	switch res {
	case dispatch.ResultSubmitted, dispatch.ResultDeferred:
		if buyerChat != 0 {
			// the poller resets the stack at the terminal status
			_, _ = b.state.Push(buyerChat, func(f *state.Frame) {
				f.Step = state.StepProcessing
			})
		}
		if res == dispatch.ResultDeferred {
			return c.Edit("✅ Approved. Agency balance is short, order " + orderID + " is queued.")
		}
		return c.Edit("✅ Approved, order " + orderID + " submitted to the agency.")
	default:
		if buyerChat != 0 {
			b.state.Reset(buyerChat)
		}
		return c.Edit("⚠️ Approved, but the agency rejected order " + orderID + ".")
	}
}

// ── Back navigation ───────────────────────────────────────────────────

func (b *Bot) handleBack(c tele.Context) error {
	chatID := c.Chat().ID
	current := b.state.Current(chatID)

	if backBlocked(current.Step) {
		return c.Respond(&tele.CallbackResponse{Text: "The order is already awaiting verification."})
	}

	frame := b.state.Pop(chatID)
	switch frame.Step {
	case state.StepPlatform:
		return c.Edit("👋 <b>Welcome!</b>\n\nPick a platform to boost:", b.platformKeyboard(), tele.ModeHTML)
	case state.StepCategory:
		return c.Edit(
			fmt.Sprintf("%s <b>%s</b>\n\nWhat would you like to boost?", platformEmoji(frame.Platform), frame.Platform),
			b.categoryKeyboard(frame.Platform), tele.ModeHTML)
	case state.StepService:
		return c.Edit(
			fmt.Sprintf("<b>%s › %s</b>\n\nPick a service:", frame.Platform, frame.Category),
			b.serviceKeyboard(frame.Platform, frame.Category), tele.ModeHTML)
	case state.StepDetails:
		svc, err := b.catalog.Find(frame.ServiceID)
		if err != nil {
			b.state.Reset(chatID)
			return c.Edit("😔 That service is no longer available. Hit /start to pick another.")
		}
		return c.Edit(b.renderDetails(svc), b.detailsKeyboard(), tele.ModeHTML)
	case state.StepLink:
		return c.Send(linkPrompt(frame.Platform, frame.Category))
	case state.StepQuantity:
		svc, err := b.catalog.Find(frame.ServiceID)
		if err != nil {
			b.state.Reset(chatID)
			return c.Send("😔 That service is no longer available. Hit /start to pick another.")
		}
		return c.Send(
			fmt.Sprintf("🔢 How many? (min %d, max %d)", svc.Min, svc.Max),
			b.quantityKeyboard(svc))
	case state.StepCustomQuantity:
		return c.Send("✏️ Type the exact amount you want:")
	case state.StepSummary:
		return b.sendSummary(c)
	case state.StepPhone:
		return c.Send("📱 Share your mobile number for the payment link (tap the button or type it):", phoneKeyboard())
	case state.StepPayment:
		return b.resendPayment(c, frame)
	default:
		return nil
	}
}

// staleFlow recovers from out-of-order taps on old messages.
func (b *Bot) staleFlow(c tele.Context) error {
	b.state.Reset(c.Chat().ID)
	return c.Send("That button belongs to an older conversation. Hit /start to begin fresh!")
}
