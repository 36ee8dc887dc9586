package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PratikDhanave/invite-tracker/internal/logging"
	"github.com/PratikDhanave/invite-tracker/internal/metrics"
	"github.com/PratikDhanave/invite-tracker/internal/models"
)

// BotDirectory resolves bots by token or identifier prefix.
type BotDirectory interface {
	FindByToken(token string) (models.Bot, error)
	FindByPrefix(prefix string) (models.Bot, error)
}

// IdentifierStore persists the identifiers issued per bot.
type IdentifierStore interface {
	InsertIdentifier(ctx context.Context, bot models.Bot, value string) (bool, error)
	GetIdentifier(ctx context.Context, bot models.Bot, value string) (models.Identifier, error)
	ListIdentifiers(ctx context.Context, bot models.Bot) ([]models.Identifier, error)
}

// AttributionStore persists one row per successful redirect.
type AttributionStore interface {
	SaveAttribution(ctx context.Context, bot models.Bot, rec models.Attribution) error
}

// InviteIssuer mints a Telegram invite link for a bot's chat.
type InviteIssuer interface {
	CreateInvite(ctx context.Context, bot models.Bot, visitID string) (string, error)
}

// Deps are the collaborators shared by all link handlers.
type Deps struct {
	Bots         BotDirectory
	Identifiers  IdentifierStore
	Attributions AttributionStore
	Issuer       InviteIssuer
	Metrics      *metrics.Metrics
	Logger       *zap.Logger
	Now          func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// internalError logs err on the request logger and answers a bare 500.
func internalError(c *gin.Context, d Deps, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	logging.FromContext(c, d.Logger).Error(msg, fields...)
	c.String(http.StatusInternalServerError, "Internal Server Error")
}
