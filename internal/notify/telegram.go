package notify

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Notifier is the operational alert sink. Implementations must never fail the
// calling request; delivery problems are logged and swallowed.
type Notifier interface {
	NotifyInternal(ctx context.Context, message string)
	NotifySupport(ctx context.Context, message string)
}

var markdownEscaper = regexp.MustCompile(`([_*\[\]()~` + "`" + `>#+\-=|{}.!])`)

func escapeMarkdown(text string) string {
	return markdownEscaper.ReplaceAllString(text, `\$1`)
}

type telegramNotifier struct {
	botToken        string
	internalChannel string
	supportChannel  string
	http            *http.Client
}

// Channel ids per environment. The api channels receive request-level alerts,
// customer_queries receives support tickets.
var telegramChannels = map[string]string{
	"prod_api":         "-1002574866497",
	"dev_api":          "-1002552699144",
	"customer_queries": "-1002607200395",
}

func NewTelegramNotifier(botToken, environment string) Notifier {
	channelKey := "dev_api"
	if environment == "prod" {
		channelKey = "prod_api"
	}
	return &telegramNotifier{
		botToken:        botToken,
		internalChannel: telegramChannels[channelKey],
		supportChannel:  telegramChannels["customer_queries"],
		http:            &http.Client{Timeout: 5 * time.Second},
	}
}

func (t *telegramNotifier) NotifyInternal(ctx context.Context, message string) {
	t.send(ctx, t.internalChannel, message)
}

func (t *telegramNotifier) NotifySupport(ctx context.Context, message string) {
	t.send(ctx, t.supportChannel, message)
}

func (t *telegramNotifier) send(ctx context.Context, chatID, message string) {
	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)
	form := url.Values{
		"chat_id":    {chatID},
		"text":       {escapeMarkdown(message)},
		"parse_mode": {"Markdown"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		log.Printf("[Telegram Error] building request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.http.Do(req)
	if err != nil {
		log.Printf("[Telegram Error] failed to send message: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram Error] status %d", resp.StatusCode)
	}
}

// NopNotifier discards all messages. Used when no bot token is configured and
// in tests.
type NopNotifier struct{}

func (NopNotifier) NotifyInternal(ctx context.Context, message string) {}
func (NopNotifier) NotifySupport(ctx context.Context, message string)  {}
