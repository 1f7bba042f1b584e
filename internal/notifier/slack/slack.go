// Package slack posts squad notifications to the Slack Web API.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PierrickMartos/slub/config"
	"github.com/PierrickMartos/slub/internal/entities"

	"go.uber.org/zap"
)

// Client talks to the Slack Web API with a bot token.
type Client struct {
	log        *zap.SugaredLogger
	httpClient *http.Client
	baseURL    string
	token      string
}

// New creates a Slack client from configuration.
func New(log *zap.SugaredLogger, cfg config.SlackConfig) *Client {
	return &Client{
		log:        log.Named("chat.slack"),
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
	}
}

type postMessageRequest struct {
	Channel  string `json:"channel"`
	ThreadTS string `json:"thread_ts"`
	Text     string `json:"text"`
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// ReplyInThread posts a reply in the thread of a review announcement. The
// message identifier carries the channel and the message timestamp as
// "channel@timestamp".
func (c *Client) ReplyInThread(ctx context.Context, message entities.MessageIdentifier, text string) error {
	channel, ts, ok := strings.Cut(message.String(), "@")
	if !ok || channel == "" || ts == "" {
		return fmt.Errorf("%w: message identifier %q must look like channel@timestamp", entities.ErrInvalidArgument, message)
	}

	body, err := json.Marshal(postMessageRequest{Channel: channel, ThreadTS: ts, Text: text})
	if err != nil {
		return fmt.Errorf("marshal chat.postMessage: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat.postMessage", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build chat.postMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post chat.postMessage: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chat.postMessage returned status %d", resp.StatusCode)
	}

	var out postMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode chat.postMessage response: %w", err)
	}
	if !out.OK {
		return fmt.Errorf("chat.postMessage refused: %s", out.Error)
	}

	c.log.Debugw("replied in thread", "channel", channel, "thread_ts", ts)
	return nil
}
