package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sjsage522/winedealworker/internal/deal"
	apperr "sjsage522/winedealworker/pkg/errors"
)

const (
	telegramAPIBase = "https://api.telegram.org"

	telegramAttempts  = 2
	telegramRetryWait = time.Second
)

// TelegramNotifier posts deal messages through the Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

var _ Notifier = (*TelegramNotifier)(nil)

// TelegramOption configures a TelegramNotifier.
type TelegramOption func(*TelegramNotifier)

// WithAPIBase overrides the Bot API base URL, for tests.
func WithAPIBase(base string) TelegramOption {
	return func(t *TelegramNotifier) { t.apiBase = base }
}

// NewTelegramNotifier creates a notifier for the given bot and chat.
func NewTelegramNotifier(botToken, chatID string, opts ...TelegramOption) *TelegramNotifier {
	t := &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  telegramAPIBase,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FormatMessage renders the Telegram markdown message for a deal.
func FormatMessage(d *deal.EnrichedDeal) string {
	parts := []string{fmt.Sprintf("🍷 *%s*", d.Title)}

	var details []string
	if d.Vintage != "" {
		details = append(details, "📅 "+d.Vintage)
	}
	if d.Region != "" {
		details = append(details, "📍 "+d.Region)
	}
	if d.BottleSizeML != deal.DefaultBottleSizeML {
		details = append(details, fmt.Sprintf("🍾 %dml", d.BottleSizeML))
	}
	if len(details) > 0 {
		parts = append(parts, strings.Join(details, " | "))
	}

	if d.Price != nil {
		priceInfo := fmt.Sprintf("💰 *$%s*", d.Price.StringFixed(2))
		if savings := d.Savings(); savings != nil {
			pct := savings.Div(*d.ListPrice).Mul(decimal.NewFromInt(100))
			priceInfo += fmt.Sprintf(" ~~$%s~~ (%s%% off)", d.ListPrice.StringFixed(2), pct.StringFixed(0))
		}
		parts = append(parts, priceInfo)
	}

	if summary := bestSummary(d); summary != nil {
		var ratingParts []string
		ratingParts = append(ratingParts, fmt.Sprintf("⭐ %.1f", summary.Rating))
		if summary.ReviewCount > 0 {
			ratingParts = append(ratingParts, fmt.Sprintf("(%d reviews)", summary.ReviewCount))
		}
		if summary.AvgPrice != nil {
			avgLine := fmt.Sprintf("📊 Avg: $%s", summary.AvgPrice.StringFixed(2))
			if d.Price != nil && summary.AvgPrice.GreaterThan(*d.Price) {
				diff := summary.AvgPrice.Sub(*d.Price)
				avgLine += fmt.Sprintf(" (*$%s below avg*)", diff.StringFixed(2))
			}
			ratingParts = append(ratingParts, avgLine)
		}
		parts = append(parts, strings.Join(ratingParts, " "))
	}

	if d.URL != "" {
		parts = append(parts, fmt.Sprintf("🔗 [View Deal](%s)", d.URL))
	}

	return strings.Join(parts, "\n\n")
}

func bestSummary(d *deal.EnrichedDeal) *deal.RatingSummary {
	if d.VintageRating != nil {
		return d.VintageRating
	}
	return d.OverallRating
}

// Notify sends the formatted message, retrying once on failure.
func (t *TelegramNotifier) Notify(ctx context.Context, d *deal.EnrichedDeal) error {
	message := FormatMessage(d)

	var lastErr error
	for attempt := 1; attempt <= telegramAttempts; attempt++ {
		if err := t.send(ctx, message); err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			if attempt < telegramAttempts {
				select {
				case <-time.After(telegramRetryWait):
				case <-ctx.Done():
				}
			}
			continue
		}
		return nil
	}
	return apperr.NewNotification("telegram", "message delivery failed", lastErr)
}

func (t *TelegramNotifier) send(ctx context.Context, message string) error {
	payload := map[string]any{
		"chat_id":                  t.chatID,
		"text":                     message,
		"parse_mode":               "Markdown",
		"disable_web_page_preview": false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("invalid response from Telegram: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}
	return nil
}

// Close implements Notifier; the HTTP client holds no connections worth
// closing.
func (t *TelegramNotifier) Close() error {
	return nil
}
