package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/invite-tracker/internal/models"
)

type fakeBotAPI struct {
	mu       sync.Mutex
	calls    []url.Values
	paths    []string
	response string
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	f.mu.Lock()
	f.calls = append(f.calls, r.PostForm)
	f.paths = append(f.paths, r.URL.Path)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(f.response))
}

func newInviter(t *testing.T, fake *fakeBotAPI, now time.Time) *Inviter {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	return NewInviter(Config{
		Endpoint: srv.URL + "/bot%s/%s",
		Client:   srv.Client(),
		Now:      func() time.Time { return now },
	})
}

var testBot = models.Bot{Token: "tok123", ChatID: "-1001234567", Prefix: "ABCD"}

func TestCreateInvite(t *testing.T) {
	t.Parallel()

	fake := &fakeBotAPI{response: `{"ok":true,"result":{"invite_link":"https://t.me/+AbCdEf123","creator":{"id":1,"is_bot":true,"first_name":"bot"},"creates_join_request":true,"is_primary":false,"is_revoked":false}}`}
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	inv := newInviter(t, fake, now)

	link, err := inv.CreateInvite(context.Background(), testBot, "1792324800.5")
	require.NoError(t, err)
	require.Equal(t, "https://t.me/+AbCdEf123", link)

	require.Len(t, fake.calls, 1)
	require.Equal(t, "/bottok123/createChatInviteLink", fake.paths[0])

	form := fake.calls[0]
	require.Equal(t, "-1001234567", form.Get("chat_id"))
	require.Equal(t, "true", form.Get("creates_join_request"))
	require.Equal(t, strconv.FormatInt(now.Add(24*time.Hour).Unix(), 10), form.Get("expire_date"))
	require.Equal(t, "1792324800.5", form.Get("name"))
}

func TestCreateInviteUsernameChat(t *testing.T) {
	t.Parallel()

	fake := &fakeBotAPI{response: `{"ok":true,"result":{"invite_link":"https://t.me/+Zz"}}`}
	inv := newInviter(t, fake, time.Now())

	bot := testBot
	bot.ChatID = "@mychannel"
	_, err := inv.CreateInvite(context.Background(), bot, "v")
	require.NoError(t, err)
	require.Equal(t, "@mychannel", fake.calls[0].Get("chat_id"))
}

func TestCreateInviteAPIError(t *testing.T) {
	t.Parallel()

	fake := &fakeBotAPI{response: `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`}
	inv := newInviter(t, fake, time.Now())

	_, err := inv.CreateInvite(context.Background(), testBot, "v")
	require.ErrorIs(t, err, models.ErrIssuer)
	require.ErrorContains(t, err, "chat not found")
	require.Len(t, fake.calls, 1, "failures are not retried")
}

func TestCreateInviteEmptyLink(t *testing.T) {
	t.Parallel()

	fake := &fakeBotAPI{response: `{"ok":true,"result":{}}`}
	inv := newInviter(t, fake, time.Now())

	_, err := inv.CreateInvite(context.Background(), testBot, "v")
	require.ErrorIs(t, err, models.ErrIssuer)
}

func TestInviteToken(t *testing.T) {
	t.Parallel()

	require.Equal(t, "AbCdEf123", InviteToken("https://t.me/+AbCdEf123"))
	require.Equal(t, "c", InviteToken("a+b+c"))
	require.Equal(t, "https://t.me/joinchat/XYZ", InviteToken("https://t.me/joinchat/XYZ"))
	require.Equal(t, "", InviteToken("https://t.me/+"))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "abc", truncate("abc", 32))
	require.Equal(t, "ab", truncate("abc", 2))
}
