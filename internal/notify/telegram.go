// Package notify delivers scan events to the operator's Telegram channel.
// Delivery is best-effort; failures are logged and never reach the scan
// pipeline.
package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/pkg/config"
	"github.com/taworn/setscan/pkg/httputil"
	"github.com/taworn/setscan/pkg/logger"
)

const telegramAPI = "https://api.telegram.org"

// Telegram sends messages through the Bot API
type Telegram struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	token      string
	chatID     string
}

// NewTelegram creates a Telegram notifier. With an empty token it becomes
// a no-op so the pipeline runs without a configured bot.
func NewTelegram(cfg config.TelegramConfig, httpClient *httputil.Client, log *logger.Logger) *Telegram {
	return &Telegram{
		httpClient: httpClient,
		logger:     log,
		baseURL:    telegramAPI,
		token:      cfg.BotToken,
		chatID:     cfg.ChatID,
	}
}

var _ contracts.Notifier = (*Telegram)(nil)

// Enabled reports whether a bot token and chat are configured
func (t *Telegram) Enabled() bool {
	return t.token != "" && t.chatID != ""
}

// Send delivers one HTML-formatted message
func (t *Telegram) Send(ctx context.Context, message string) error {
	if !t.Enabled() {
		return nil
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	payload := map[string]interface{}{
		"chat_id":    t.chatID,
		"text":       message,
		"parse_mode": "HTML",
	}

	resp, err := t.httpClient.PostJSON(ctx, url, payload)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}
