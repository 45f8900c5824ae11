package telegram

import (
	"bytes"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// BotAPI is a direct Telegram Bot API client for calls made outside a
// telebot handler context: fire-and-forget notifications with raw JSON
// keyboards and multipart photo uploads.
type BotAPI struct {
	client *resty.Client
}

// NewBotAPI creates a new direct Telegram Bot API client.
func NewBotAPI(token string) *BotAPI {
	return &BotAPI{
		client: resty.New().SetBaseURL("https://api.telegram.org/bot" + token),
	}
}

// Call makes a raw API call to the Telegram Bot API.
func (b *BotAPI) Call(method string, params map[string]interface{}) (string, error) {
	resp, err := b.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(params).
		Post("/" + method)
	if err != nil {
		return "", fmt.Errorf("telegram API call %s failed: %w", method, err)
	}
	return resp.String(), nil
}

// SendMessage sends a text message.
func (b *BotAPI) SendMessage(chatID string, text string, replyMarkup interface{}) (string, error) {
	params := map[string]interface{}{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	if replyMarkup != nil {
		params["reply_markup"] = replyMarkup
	}
	return b.Call("sendMessage", params)
}

// SendPhotoBytes uploads a photo from raw bytes via multipart form.
func (b *BotAPI) SendPhotoBytes(chatID string, data []byte, filename, caption string) (string, error) {
	resp, err := b.client.R().
		SetFileReader("photo", filename, bytes.NewReader(data)).
		SetFormData(map[string]string{
			"chat_id":    chatID,
			"caption":    caption,
			"parse_mode": "HTML",
		}).
		Post("/sendPhoto")
	if err != nil {
		return "", err
	}
	return resp.String(), nil
}
