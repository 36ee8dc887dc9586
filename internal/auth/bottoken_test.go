package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/PratikDhanave/invite-tracker/internal/models"
)

type finderFunc func(token string) (models.Bot, error)

func (f finderFunc) FindByToken(token string) (models.Bot, error) { return f(token) }

func newRouter(t *testing.T, bots BotFinder) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/protected", BotTokenMiddleware(bots, zaptest.NewLogger(t)), func(c *gin.Context) {
		bot, ok := Bot(c)
		if !ok {
			c.String(http.StatusTeapot, "no bot")
			return
		}
		c.String(http.StatusOK, bot.Prefix)
	})
	return r
}

func TestBotTokenMiddleware(t *testing.T) {
	bots := finderFunc(func(token string) (models.Bot, error) {
		switch token {
		case "tok123":
			return models.Bot{Token: token, Prefix: "ABCD"}, nil
		case "broken":
			return models.Bot{}, models.ErrRegistryUnavailable
		}
		return models.Bot{}, models.ErrBotNotFound
	})

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantBody string
	}{
		{name: "known token", target: "/protected?bot_token=tok123", wantCode: http.StatusOK, wantBody: "ABCD"},
		{name: "unknown token", target: "/protected?bot_token=nope", wantCode: http.StatusBadRequest, wantBody: "Invalid bot_token"},
		{name: "missing token", target: "/protected", wantCode: http.StatusBadRequest, wantBody: "Invalid bot_token"},
		{name: "registry unavailable", target: "/protected?bot_token=broken", wantCode: http.StatusInternalServerError, wantBody: "Internal Server Error"},
	}

	r := newRouter(t, bots)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.Equal(t, tt.wantCode, w.Code)
			require.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestBotWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := Bot(c)
	require.False(t, ok)
}
