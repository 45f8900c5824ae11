package bot

import (
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v3"

	"boostbot/internal/models"
	"boostbot/internal/pricing"
)

// quantityPresets are the quick-pick amounts offered before custom input.
var quantityPresets = []int{100, 250, 500, 1000, 2500, 5000}

// platformKeyboard builds the platform picker.
func (b *Bot) platformKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	var rows []tele.Row
	for _, p := range b.catalog.Platforms() {
		btn := menu.Data(platformEmoji(p)+" "+p, "plat_"+p)
		rows = append(rows, menu.Row(btn))
	}
	menu.Inline(rows...)
	return menu
}

func platformEmoji(platform string) string {
	switch platform {
	case "Instagram":
		return "📷"
	case "YouTube":
		return "▶️"
	case "Telegram":
		return "✈️"
	case "Twitter":
		return "🐦"
	case "Facebook":
		return "📘"
	case "TikTok":
		return "🎵"
	default:
		return "🌐"
	}
}

// categoryKeyboard builds the category picker for a platform.
func (b *Bot) categoryKeyboard(platform string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	var rows []tele.Row
	for _, cat := range b.catalog.Categories(platform) {
		btn := menu.Data(cat, "cat_"+cat)
		rows = append(rows, menu.Row(btn))
	}
	rows = append(rows, menu.Row(menu.Data("🔙 Back", "back")))
	menu.Inline(rows...)
	return menu
}

// serviceKeyboard lists services with their marked-up per-1000 price.
func (b *Bot) serviceKeyboard(platform, category string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	margin, mode := b.currentMargin()

	var rows []tele.Row
	for _, svc := range b.catalog.Services(platform, category) {
		per1000 := pricing.Price(svc.Rate, 1000, margin, mode)
		label := fmt.Sprintf("%s — %s/1k", truncate(svc.Name, 40), pricing.FormatINR(per1000))
		btn := menu.Data(label, "svc_"+strconv.FormatInt(svc.ID, 10))
		rows = append(rows, menu.Row(btn))
	}
	rows = append(rows, menu.Row(menu.Data("🔙 Back", "back")))
	menu.Inline(rows...)
	return menu
}

// detailsKeyboard is shown under the service description.
func (b *Bot) detailsKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(menu.Data("🛒 Order this", "order")),
		menu.Row(menu.Data("🔙 Back", "back")),
	)
	return menu
}

// quantityKeyboard offers preset amounts clamped to the service bounds.
func (b *Bot) quantityKeyboard(svc *models.Service) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	margin, mode := b.currentMargin()

	var rows []tele.Row
	var row tele.Row
	for _, qty := range quantityPresets {
		if qty < svc.Min || qty > svc.Max {
			continue
		}
		price := pricing.Price(svc.Rate, qty, margin, mode)
		btn := menu.Data(fmt.Sprintf("%d — %s", qty, pricing.FormatINR(price)), "qty_"+strconv.Itoa(qty))
		row = append(row, btn)
		if len(row) == 2 {
			rows = append(rows, menu.Row(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, menu.Row(row...))
	}
	rows = append(rows,
		menu.Row(menu.Data("✏️ Custom amount", "qty_custom")),
		menu.Row(menu.Data("🔙 Back", "back")),
	)
	menu.Inline(rows...)
	return menu
}

// summaryKeyboard is the final confirm step.
func (b *Bot) summaryKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(menu.Data("✅ Confirm & pay", "confirm")),
		menu.Row(menu.Data("🔙 Back", "back"), menu.Data("❌ Cancel", "cancel")),
	)
	return menu
}

// approvalKeyboard goes to the admins under a payment proof.
func approvalKeyboard(userID, orderID string) map[string]interface{} {
	return map[string]interface{}{
		"inline_keyboard": [][]map[string]interface{}{
			{
				{"text": "✅ Approve", "callback_data": "approve_" + userID + "_" + orderID},
				{"text": "❌ Reject", "callback_data": "reject_" + userID + "_" + orderID},
			},
		},
	}
}

// adminKeyboard is the /admin control panel.
func (b *Bot) adminKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(
			menu.Data("💰 Agency balance", "admin_balance"),
			menu.Data("📊 Stats", "admin_stats"),
		),
		menu.Row(
			menu.Data("🧮 Set margin", "admin_margin"),
			menu.Data("🔄 Refresh catalog", "admin_refresh"),
		),
		menu.Row(
			menu.Data("📣 Broadcast", "admin_broadcast"),
			menu.Data("📥 Pending queue", "admin_queue"),
		),
	)
	return menu
}

// phoneKeyboard is the contact-sharing reply keyboard for the payment
// link flow.
func phoneKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	menu.Reply(menu.Row(menu.Contact("📱 Share my number")))
	return menu
}

// truncate shortens s to max runes. Service names carry emoji and
// non-ASCII scripts, so slicing by bytes would split a rune.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
