package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PierrickMartos/slub/config"
	"github.com/PierrickMartos/slub/internal/entities"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_ReplyInThread(t *testing.T) {
	var got postMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat.postMessage", r.URL.Path)
		require.Equal(t, "Bearer xoxb-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(zap.NewNop().Sugar(), config.SlackConfig{BaseURL: srv.URL, Token: "xoxb-token"})

	err := c.ReplyInThread(context.Background(), "squad-general@1234567890.001", ":white_check_mark: CI OK")
	require.NoError(t, err)
	require.Equal(t, "squad-general", got.Channel)
	require.Equal(t, "1234567890.001", got.ThreadTS)
	require.Equal(t, ":white_check_mark: CI OK", got.Text)
}

func TestClient_ReplyInThreadAPIRefusal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
	}))
	defer srv.Close()

	c := New(zap.NewNop().Sugar(), config.SlackConfig{BaseURL: srv.URL, Token: "t"})

	err := c.ReplyInThread(context.Background(), "squad-general@1234567890.001", "hello")
	require.ErrorContains(t, err, "channel_not_found")
}

func TestClient_ReplyInThreadRejectsMalformedMessageID(t *testing.T) {
	c := New(zap.NewNop().Sugar(), config.SlackConfig{BaseURL: "http://localhost", Token: "t"})

	err := c.ReplyInThread(context.Background(), entities.MessageIdentifier("no-separator"), "hello")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
}
