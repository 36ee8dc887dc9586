package handlers

import (
	_ "embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.uber.org/zap"

	"github.com/PratikDhanave/invite-tracker/internal/auth"
	"github.com/PratikDhanave/invite-tracker/internal/identifier"
)

// maxGenerateAttempts bounds how many fresh identifiers are drawn when the
// previous one already exists for the bot.
const maxGenerateAttempts = 5

//go:embed identifiers.html
var identifiersHTML string

var identifiersTemplate = template.Must(template.New("identifiers.html").Parse(identifiersHTML))

// RegisterIdentifierRoutes registers the bot-token authenticated endpoints.
//
// GET /getlinks?bot_token=...    issues a new identifier (plain text)
// GET /identifiers?bot_token=... lists the bot's identifiers (HTML)
func RegisterIdentifierRoutes(r gin.IRoutes, d Deps) {
	requireBot := auth.BotTokenMiddleware(d.Bots, d.Logger)

	r.GET("/getlinks", requireBot, func(c *gin.Context) {
		bot, _ := auth.Bot(c)

		for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
			id, err := identifier.New(bot.Prefix)
			if err != nil {
				internalError(c, d, "generate identifier", err, zap.String("bot_prefix", bot.Prefix))
				return
			}

			inserted, err := d.Identifiers.InsertIdentifier(c.Request.Context(), bot, id)
			if err != nil {
				internalError(c, d, "insert identifier", err, zap.String("bot_prefix", bot.Prefix))
				return
			}
			if inserted {
				d.Metrics.IdentifiersGenerated.WithLabelValues(bot.Prefix).Inc()
				c.String(http.StatusOK, "Generated Identifier: %s", id)
				return
			}
		}

		internalError(c, d, "insert identifier",
			fmt.Errorf("%d consecutive identifier collisions", maxGenerateAttempts),
			zap.String("bot_prefix", bot.Prefix))
	})

	r.GET("/identifiers", requireBot, func(c *gin.Context) {
		bot, _ := auth.Bot(c)

		ids, err := d.Identifiers.ListIdentifiers(c.Request.Context(), bot)
		if err != nil {
			internalError(c, d, "list identifiers", err, zap.String("bot_prefix", bot.Prefix))
			return
		}

		c.Render(http.StatusOK, render.HTML{
			Template: identifiersTemplate,
			Name:     "identifiers.html",
			Data: gin.H{
				"Prefix":      bot.Prefix,
				"Identifiers": ids,
			},
		})
	})
}
