package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"chopchop-order-service/internal/domain"
)

func postJSON(ctx context.Context, client *http.Client, url string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// itemLines renders one line per order item with its chosen options.
func itemLines(order *domain.Order) string {
	var b strings.Builder
	for _, item := range order.OrderItems {
		name := item.MenuItemID
		if item.MenuItem != nil {
			name = item.MenuItem.Name
		}
		var opts []string
		for _, sel := range item.OptionSelections {
			if sel.MenuOption != nil {
				opts = append(opts, sel.MenuOption.Name)
			}
		}
		optText := ""
		if len(opts) > 0 {
			optText = " (" + strings.Join(opts, ", ") + ")"
		}
		fmt.Fprintf(&b, "- %s%s x%d - %d KRW\n", name, optText, item.Quantity, item.UnitPrice)
	}
	return strings.TrimRight(b.String(), "\n")
}

type DiscordChannel struct {
	webhookURL string
	httpClient *http.Client
}

func NewDiscordChannel(webhookURL string) *DiscordChannel {
	return &DiscordChannel{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *DiscordChannel) Name() string { return "discord" }

func (c *DiscordChannel) Send(ctx context.Context, order *domain.Order) error {
	total := order.TotalAmount + order.DeliveryFee

	fields := []map[string]any{
		{
			"name":   "Order",
			"value":  fmt.Sprintf("ID: %s\nPayment: %s (%s)", order.ID, order.PaymentMethod, order.PaymentStatus),
			"inline": false,
		},
		{
			"name":   "Items",
			"value":  itemLines(order),
			"inline": false,
		},
		{
			"name":   "Amount",
			"value":  fmt.Sprintf("Order: %d KRW\nDelivery: %d KRW\nTotal: %d KRW", order.TotalAmount, order.DeliveryFee, total),
			"inline": true,
		},
	}
	if order.Accommodation != nil {
		fields = append(fields, map[string]any{
			"name":   "Accommodation",
			"value":  fmt.Sprintf("%s\n%s", order.Accommodation.Name, order.Accommodation.Address),
			"inline": false,
		})
	}
	if order.Notes != "" {
		fields = append(fields, map[string]any{
			"name":   "Notes",
			"value":  order.Notes,
			"inline": false,
		})
	}

	payload := map[string]any{
		"content": fmt.Sprintf("New order received, total %d KRW", total),
		"embeds": []map[string]any{{
			"title":     "New food order",
			"color":     0xFF6B35,
			"timestamp": order.CreatedAt.UTC().Format(time.RFC3339),
			"fields":    fields,
			"footer":    map[string]string{"text": "ChopChop order alert"},
		}},
	}
	return postJSON(ctx, c.httpClient, c.webhookURL, payload)
}

type SlackChannel struct {
	webhookURL string
	httpClient *http.Client
}

func NewSlackChannel(webhookURL string) *SlackChannel {
	return &SlackChannel{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *SlackChannel) Name() string { return "slack" }

func (c *SlackChannel) Send(ctx context.Context, order *domain.Order) error {
	total := order.TotalAmount + order.DeliveryFee
	text := fmt.Sprintf("*New order %s*\nPayment: %s (%s)\n%s\nTotal: %d KRW",
		order.ID, order.PaymentMethod, order.PaymentStatus, itemLines(order), total)
	return postJSON(ctx, c.httpClient, c.webhookURL, map[string]string{"text": text})
}

type TelegramChannel struct {
	botToken   string
	chatID     string
	httpClient *http.Client
}

func NewTelegramChannel(botToken, chatID string) *TelegramChannel {
	return &TelegramChannel{
		botToken:   botToken,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *TelegramChannel) Name() string { return "telegram" }

func (c *TelegramChannel) Send(ctx context.Context, order *domain.Order) error {
	total := order.TotalAmount + order.DeliveryFee
	text := fmt.Sprintf("New order %s\nPayment: %s (%s)\n%s\nTotal: %d KRW",
		order.ID, order.PaymentMethod, order.PaymentStatus, itemLines(order), total)
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", c.botToken)
	return postJSON(ctx, c.httpClient, url, map[string]string{
		"chat_id": c.chatID,
		"text":    text,
	})
}
