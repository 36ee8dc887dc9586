package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PratikDhanave/invite-tracker/internal/logging"
	"github.com/PratikDhanave/invite-tracker/internal/models"
)

// botCtxKey is the gin context key holding the resolved bot.
const botCtxKey = "bot"

// BotFinder resolves a bot from its Telegram token.
type BotFinder interface {
	FindByToken(token string) (models.Bot, error)
}

// BotTokenMiddleware maps the bot_token query parameter to a bot.
// Unknown tokens get 400 "Invalid bot_token"; a registry that failed to load gets 500.
func BotTokenMiddleware(bots BotFinder, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		bot, err := bots.FindByToken(c.Query("bot_token"))
		switch {
		case errors.Is(err, models.ErrBotNotFound):
			c.String(http.StatusBadRequest, "Invalid bot_token")
			c.Abort()
			return
		case err != nil:
			logging.FromContext(c, logger).Error("resolve bot by token", zap.Error(err))
			c.String(http.StatusInternalServerError, "Internal Server Error")
			c.Abort()
			return
		}
		c.Set(botCtxKey, bot)
		c.Next()
	}
}

// Bot returns the bot resolved by BotTokenMiddleware.
func Bot(c *gin.Context) (models.Bot, bool) {
	v, ok := c.Get(botCtxKey)
	if !ok {
		return models.Bot{}, false
	}
	bot, ok := v.(models.Bot)
	return bot, ok
}
