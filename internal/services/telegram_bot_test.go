package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type botServer struct {
	mu   sync.Mutex
	sent []map[string]string
}

func (b *botServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"visaflow","username":"visaflow_bot"}}`))
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		_ = r.ParseForm()
		b.mu.Lock()
		b.sent = append(b.sent, map[string]string{
			"chat_id":    r.FormValue("chat_id"),
			"text":       r.FormValue("text"),
			"parse_mode": r.FormValue("parse_mode"),
		})
		b.mu.Unlock()
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"group"}}}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
	}
}

func TestTelegramNotify(t *testing.T) {
	bot := &botServer{}
	srv := httptest.NewServer(bot)
	defer srv.Close()

	tg, err := NewTelegramServiceWithClient("TOKEN", srv.URL+"/bot%s/%s", srv.Client(), 42)
	require.NoError(t, err)

	require.NoError(t, tg.Notify(context.Background(), "New lead #1 <b>Karim</b>"))

	require.Len(t, bot.sent, 1)
	assert.Equal(t, "42", bot.sent[0]["chat_id"])
	assert.Equal(t, "New lead #1 <b>Karim</b>", bot.sent[0]["text"])
	assert.Equal(t, "HTML", bot.sent[0]["parse_mode"])
}

func TestTelegramSkipsWithoutChat(t *testing.T) {
	var tg *TelegramService
	assert.NoError(t, tg.SendMessage(42, "x"))

	bot := &botServer{}
	srv := httptest.NewServer(bot)
	defer srv.Close()
	tg, err := NewTelegramServiceWithClient("TOKEN", srv.URL+"/bot%s/%s", srv.Client(), 0)
	require.NoError(t, err)
	assert.NoError(t, tg.Notify(context.Background(), "x"))
	assert.Empty(t, bot.sent)
}

func TestTelegramBadToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	_, err := NewTelegramServiceWithClient("BAD", srv.URL+"/bot%s/%s", srv.Client(), 42)
	assert.Error(t, err)
}
