// Package telegram mints chat invite links through the Telegram Bot API.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/PratikDhanave/invite-tracker/internal/models"
)

// maxLinkNameLen is the Bot API limit for an invite link name.
const maxLinkNameLen = 32

// Config configures an Inviter.
type Config struct {
	// Endpoint is a Bot API URL format with two %s verbs: token and method.
	Endpoint string
	TTL      time.Duration
	Client   tgbotapi.HTTPClient
	Now      func() time.Time
}

// Inviter creates single-use, time-bounded join-request links.
type Inviter struct {
	endpoint string
	ttl      time.Duration
	client   tgbotapi.HTTPClient
	now      func() time.Time
}

// NewInviter fills unset fields with Bot API defaults and a 24h TTL.
func NewInviter(cfg Config) *Inviter {
	if cfg.Endpoint == "" {
		cfg.Endpoint = tgbotapi.APIEndpoint
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Inviter{endpoint: cfg.Endpoint, ttl: cfg.TTL, client: cfg.Client, now: cfg.Now}
}

// CreateInvite asks Telegram for a join-request invite link to the bot's chat.
// The link is named after visitID so it can be matched to its click row.
func (i *Inviter) CreateInvite(ctx context.Context, bot models.Bot, visitID string) (string, error) {
	// BotAPI is built by hand: NewBotAPI calls getMe, which would add a round
	// trip per request and fail for every bot while Telegram is unreachable.
	api := &tgbotapi.BotAPI{
		Token:  bot.Token,
		Client: contextClient{ctx: ctx, next: i.client},
		Buffer: 100,
	}
	api.SetAPIEndpoint(i.endpoint)

	req := tgbotapi.CreateChatInviteLinkConfig{
		ChatConfig:         chatConfig(bot.ChatID),
		Name:               truncate(visitID, maxLinkNameLen),
		ExpireDate:         int(i.now().Add(i.ttl).Unix()),
		CreatesJoinRequest: true,
	}

	resp, err := api.Request(req)
	if err != nil {
		return "", fmt.Errorf("%w: create invite link for bot %s: %v", models.ErrIssuer, bot.Prefix, err)
	}

	var link tgbotapi.ChatInviteLink
	if err := json.Unmarshal(resp.Result, &link); err != nil {
		return "", fmt.Errorf("%w: decode invite link: %v", models.ErrIssuer, err)
	}
	if link.InviteLink == "" {
		return "", fmt.Errorf("%w: empty invite link for bot %s", models.ErrIssuer, bot.Prefix)
	}
	return link.InviteLink, nil
}

// InviteToken returns the part of an invite link after its last '+',
// or the whole link when it has none.
func InviteToken(link string) string {
	return link[strings.LastIndex(link, "+")+1:]
}

// chatConfig accepts a numeric chat id or a public @username.
func chatConfig(chatID string) tgbotapi.ChatConfig {
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		return tgbotapi.ChatConfig{ChatID: id}
	}
	return tgbotapi.ChatConfig{SuperGroupUsername: chatID}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// contextClient binds Bot API requests to the caller's context.
type contextClient struct {
	ctx  context.Context
	next tgbotapi.HTTPClient
}

func (c contextClient) Do(req *http.Request) (*http.Response, error) {
	return c.next.Do(req.WithContext(c.ctx))
}
