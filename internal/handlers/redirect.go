package handlers

import (
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PratikDhanave/invite-tracker/internal/metrics"
	"github.com/PratikDhanave/invite-tracker/internal/models"
	"github.com/PratikDhanave/invite-tracker/internal/telegram"
)

// RegisterRedirectRoutes registers the public click endpoint.
//
// GET /:identifier?pixel=&campaign_id=&...
// - The first four characters select the bot.
// - An unknown identifier answers 200 "Identifier not found", not 404.
// - A known one mints an invite link, records the click and redirects to tg://join.
func RegisterRedirectRoutes(r gin.IRoutes, d Deps) {
	r.GET("/:identifier", func(c *gin.Context) {
		ctx := c.Request.Context()
		value := c.Param("identifier")

		prefix := value
		if len(prefix) > models.PrefixLen {
			prefix = prefix[:models.PrefixLen]
		}

		bot, err := d.Bots.FindByPrefix(prefix)
		switch {
		case errors.Is(err, models.ErrBotNotFound):
			d.Metrics.Redirects.WithLabelValues("", metrics.OutcomeUnknownPrefix).Inc()
			c.String(http.StatusBadRequest, "Invalid bot_prefix")
			return
		case err != nil:
			d.Metrics.Redirects.WithLabelValues("", metrics.OutcomeError).Inc()
			internalError(c, d, "resolve bot by prefix", err)
			return
		}

		fields := []zap.Field{zap.String("bot_prefix", bot.Prefix), zap.String("identifier", value)}

		if _, err := d.Identifiers.GetIdentifier(ctx, bot, value); err != nil {
			if errors.Is(err, models.ErrIdentifierNotFound) {
				d.Metrics.Redirects.WithLabelValues(bot.Prefix, metrics.OutcomeNotFound).Inc()
				c.String(http.StatusOK, "Identifier not found")
				return
			}
			d.Metrics.Redirects.WithLabelValues(bot.Prefix, metrics.OutcomeError).Inc()
			internalError(c, d, "get identifier", err, fields...)
			return
		}

		var params models.CampaignParams
		if err := c.ShouldBindQuery(&params); err != nil {
			d.Metrics.Redirects.WithLabelValues(bot.Prefix, metrics.OutcomeError).Inc()
			internalError(c, d, "bind campaign params", err, fields...)
			return
		}

		visitID := visitIdentifier(d.now())

		link, err := d.Issuer.CreateInvite(ctx, bot, visitID)
		if err != nil {
			d.Metrics.InviteLinkErrors.WithLabelValues(bot.Prefix).Inc()
			d.Metrics.Redirects.WithLabelValues(bot.Prefix, metrics.OutcomeError).Inc()
			internalError(c, d, "create invite link", err, fields...)
			return
		}

		rec := models.Attribution{
			CampaignParams:   params,
			UniqueIdentifier: visitID,
			ChannelJoinLink:  link,
			SourceIdentifier: value,
			IPAddress:        clientIP(c),
			UserAgent:        c.Request.UserAgent(),
		}
		if err := d.Attributions.SaveAttribution(ctx, bot, rec); err != nil {
			// The invite link has already been minted and stays valid.
			d.Metrics.Redirects.WithLabelValues(bot.Prefix, metrics.OutcomeError).Inc()
			internalError(c, d, "save attribution", err, append(fields, zap.String("invite_link", link))...)
			return
		}

		d.Metrics.Redirects.WithLabelValues(bot.Prefix, metrics.OutcomeRedirected).Inc()
		c.Redirect(http.StatusFound, "tg://join?invite="+url.QueryEscape(telegram.InviteToken(link)))
	})
}

// visitIdentifier renders t as Unix seconds with a microsecond fraction.
func visitIdentifier(t time.Time) string {
	return strconv.FormatFloat(float64(t.UnixMicro())/1e6, 'f', 6, 64)
}

// clientIP prefers the first X-Forwarded-For hop and falls back to the socket peer.
// Later hops are proxies, not the visitor, and are dropped on purpose so the
// ip_address column holds a single address.
func clientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(strings.TrimSpace(c.Request.RemoteAddr)); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}
