package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Kerry350/ember-deploy-s3-index/internal/config"
)

const defaultTimeout = 10 * time.Second

type DiscordNotifier struct {
	webhookURL string
	retry      *config.DiscordRetry
	events     map[string]struct{}
	host       string
	client     *http.Client
	now        func() time.Time
}

type discordEmbed struct {
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Color       int            `json:"color,omitempty"`
	Timestamp   string         `json:"timestamp,omitempty"`
	Fields      []discordField `json:"fields,omitempty"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

func NewDiscordNotifier(cfg *config.DiscordConfig) (*DiscordNotifier, error) {
	if cfg == nil || !cfg.Enabled || cfg.WebhookURL == "" {
		return nil, fmt.Errorf("discord notifier disabled or missing webhook_url")
	}
	host, _ := os.Hostname()
	if host == "" {
		host = "unknown"
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	events := make(map[string]struct{})
	for _, e := range cfg.Events {
		events[e] = struct{}{}
	}
	return &DiscordNotifier{
		webhookURL: cfg.WebhookURL,
		retry:      cfg.Retry,
		events:     events,
		host:       host,
		client:     &http.Client{Timeout: timeout},
		now:        time.Now,
	}, nil
}

// FromConfig returns a Discord notifier when one is configured and Nop otherwise.
func FromConfig(n *config.NotificationsConfig) (Notifier, error) {
	if !config.DiscordEnabled(n) {
		return Nop{}, nil
	}
	return NewDiscordNotifier(n.Discord)
}

// allowed reports whether event is subscribed; an empty list subscribes to all.
func (d *DiscordNotifier) allowed(event string) bool {
	if len(d.events) == 0 {
		return true
	}
	_, ok := d.events[event]
	return ok
}

func (d *DiscordNotifier) send(ctx context.Context, embed discordEmbed) error {
	embed.Timestamp = d.now().UTC().Format(time.RFC3339)
	body, err := json.Marshal(discordPayload{Embeds: []discordEmbed{embed}})
	if err != nil {
		return err
	}
	attempts := 1
	var delay time.Duration
	if d.retry != nil && d.retry.Attempts > 1 {
		attempts = d.retry.Attempts
		delay = time.Duration(d.retry.BackoffMs) * time.Millisecond
	}
	var lastStatus int
	for i := 0; i < attempts; i++ {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := d.client.Do(req)
		if err != nil {
			continue
		}
		_ = resp.Body.Close()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		lastStatus = resp.StatusCode
	}
	if lastStatus != 0 {
		return fmt.Errorf("discord webhook failed after %d attempts (last status %d)", attempts, lastStatus)
	}
	return fmt.Errorf("discord webhook failed after %d attempts", attempts)
}

func (d *DiscordNotifier) NotifyUpload(ctx context.Context, bucket, key string) error {
	if !d.allowed(EventUpload) {
		return nil
	}
	return d.send(ctx, discordEmbed{
		Title: "Revision uploaded",
		Color: 0x3498db,
		Fields: []discordField{
			{Name: "Host", Value: d.host, Inline: true},
			{Name: "Bucket", Value: bucket, Inline: true},
			{Name: "Revision", Value: key, Inline: true},
		},
	})
}

func (d *DiscordNotifier) NotifyActivate(ctx context.Context, bucket, key, mode string) error {
	if !d.allowed(EventActivate) {
		return nil
	}
	return d.send(ctx, discordEmbed{
		Title: "Revision activated",
		Color: 0x2ecc71,
		Fields: []discordField{
			{Name: "Host", Value: d.host, Inline: true},
			{Name: "Bucket", Value: bucket, Inline: true},
			{Name: "Revision", Value: key, Inline: true},
			{Name: "Mode", Value: mode, Inline: true},
		},
	})
}

func (d *DiscordNotifier) NotifyPrune(ctx context.Context, bucket string, retained, deleted int) error {
	if !d.allowed(EventPrune) {
		return nil
	}
	return d.send(ctx, discordEmbed{
		Title: "Manifest pruned",
		Color: 0x9b59b6,
		Fields: []discordField{
			{Name: "Host", Value: d.host, Inline: true},
			{Name: "Bucket", Value: bucket, Inline: true},
			{Name: "Retained", Value: fmt.Sprintf("%d", retained), Inline: true},
			{Name: "Deleted", Value: fmt.Sprintf("%d", deleted), Inline: true},
		},
	})
}

func (d *DiscordNotifier) NotifyError(ctx context.Context, bucket, op string, err error) error {
	if !d.allowed(EventError) {
		return nil
	}
	return d.send(ctx, discordEmbed{
		Title:       "Deploy failed",
		Description: err.Error(),
		Color:       0xe74c3c,
		Fields: []discordField{
			{Name: "Host", Value: d.host, Inline: true},
			{Name: "Bucket", Value: bucket, Inline: true},
			{Name: "Command", Value: op, Inline: true},
		},
	})
}
