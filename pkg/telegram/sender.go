// pkg/telegram/sender.go

// Package telegram implements message delivery over the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	apiBase        = "https://api.telegram.org"
	sendRetryLimit = 5    // attempts per chunk when rate limited
	messageLimit   = 4096 // Telegram's maximum message length, in runes
)

// ErrNotConfigured is returned by Send when the token or chat ID is missing
var ErrNotConfigured = errors.New("telegram is not configured")

// Config configures a Sender.
type Config struct {
	Token      string
	ChatID     string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Sender sends messages to one Telegram chat.
type Sender struct {
	token  string
	chatID string
	httpc  *http.Client
	logger *slog.Logger
	api    string
	sleep  func(context.Context, time.Duration) bool
}

// New returns a Telegram sender for a specific chat.
func New(cfg Config) *Sender {
	s := &Sender{
		token:  cfg.Token,
		chatID: cfg.ChatID,
		httpc:  cfg.HTTPClient,
		logger: cfg.Logger,
		api:    apiBase,
		sleep:  sleep,
	}
	if s.httpc == nil {
		s.httpc = &http.Client{Timeout: 30 * time.Second}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Enabled reports whether both token and chat ID are set.
func (s *Sender) Enabled() bool {
	return s.token != "" && s.chatID != ""
}

// Send delivers text to the configured chat, splitting messages that exceed
// the API limit and retrying when rate limited.
func (s *Sender) Send(ctx context.Context, text string) error {
	if !s.Enabled() {
		return ErrNotConfigured
	}

	for _, chunk := range splitMessage(text) {
		var err error
		for range sendRetryLimit {
			err = s.sendMessage(ctx, chunk)
			if err == nil {
				break
			}

			retryable, wait := isRateLimited(err)
			if !retryable {
				break
			}

			s.logger.Warn("telegram rate limited, waiting", "wait", wait)
			if !s.sleep(ctx, wait) {
				return ctx.Err()
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// statusError carries a non-OK API response
type statusError struct {
	code int
	body []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("telegram API returned status %d: %s", e.code, e.body)
}

func (s *Sender) sendMessage(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id": s.chatID,
		"text":    text,
	})
	if err != nil {
		return err
	}

	url := s.api + "/bot" + s.token + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode, body: body}
	}
	return nil
}

// splitMessage cuts text into chunks under the API rune limit, preferring to
// break at newlines, then whitespace, only then mid-word.
func splitMessage(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= messageLimit {
		return []string{text}
	}

	var chunks []string
	for text != "" {
		if utf8.RuneCountInString(text) <= messageLimit {
			chunks = append(chunks, text)
			break
		}

		var (
			lastNewline    = -1
			lastWhitespace = -1
			byteCap        = len(text)
			runeCount      int
		)

		for i, r := range text {
			if runeCount == messageLimit {
				byteCap = i
				break
			}
			runeCount++

			if r == '\n' {
				lastNewline = i
				continue
			}
			if unicode.IsSpace(r) {
				lastWhitespace = i
			}
		}

		splitAt := byteCap
		switch {
		case lastNewline > 0:
			splitAt = lastNewline
		case lastWhitespace > 0:
			splitAt = lastWhitespace
		}

		chunk := strings.TrimSpace(text[:splitAt])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		text = strings.TrimSpace(text[splitAt:])
	}

	return chunks
}

// isRateLimited inspects an error for a 429 response and extracts the wait
// the API asked for.
func isRateLimited(err error) (bool, time.Duration) {
	var statusErr *statusError
	if !errors.As(err, &statusErr) || statusErr.code != http.StatusTooManyRequests {
		return false, 0
	}

	var errorResponse struct {
		Parameters struct {
			RetryAfter int `json:"retry_after"`
		} `json:"parameters"`
	}
	if err := json.Unmarshal(statusErr.body, &errorResponse); err != nil {
		return false, 0
	}

	return true, time.Duration(errorResponse.Parameters.RetryAfter) * time.Second
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
