package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func testSender(t *testing.T, handler http.HandlerFunc) *Sender {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := New(Config{
		Token:  "123:abc",
		ChatID: "777",
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	s.api = srv.URL
	return s
}

func TestEnabled(t *testing.T) {
	if New(Config{Token: "t", ChatID: "c"}).Enabled() != true {
		t.Error("sender with token and chat should be enabled")
	}
	if New(Config{Token: "t"}).Enabled() {
		t.Error("sender without chat ID should be disabled")
	}
	if New(Config{ChatID: "c"}).Enabled() {
		t.Error("sender without token should be disabled")
	}
}

func TestSendNotConfigured(t *testing.T) {
	err := New(Config{}).Send(context.Background(), "hola")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Send on unconfigured sender = %v, want ErrNotConfigured", err)
	}
}

func TestSend(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	s := testSender(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		io.WriteString(w, `{"ok":true}`)
	})

	if err := s.Send(context.Background(), "📄 Lluvia diaria"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotPath != "/bot123:abc/sendMessage" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotBody["chat_id"] != "777" {
		t.Errorf("chat_id = %q, want 777", gotBody["chat_id"])
	}
	if gotBody["text"] != "📄 Lluvia diaria" {
		t.Errorf("text = %q", gotBody["text"])
	}
}

func TestSendSplitsLongMessages(t *testing.T) {
	var texts []string

	s := testSender(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		texts = append(texts, body["text"])
		io.WriteString(w, `{"ok":true}`)
	})

	long := strings.TrimSpace(strings.Repeat("• Día (19/01): 5,2 mm\n", 400))
	if err := s.Send(context.Background(), long); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(texts) < 2 {
		t.Fatalf("long message sent in %d chunks, want at least 2", len(texts))
	}
	for i, text := range texts {
		if n := utf8.RuneCountInString(text); n > messageLimit {
			t.Errorf("chunk %d has %d runes, exceeds limit", i, n)
		}
		if strings.HasPrefix(text, "mm") {
			t.Errorf("chunk %d starts mid-line: %q", i, text[:20])
		}
	}
}

func TestSendRetriesWhenRateLimited(t *testing.T) {
	requests := 0
	var waited time.Duration

	s := testSender(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			io.WriteString(w, `{"ok":false,"error_code":429,"parameters":{"retry_after":1}}`)
			return
		}
		io.WriteString(w, `{"ok":true}`)
	})
	s.sleep = func(ctx context.Context, d time.Duration) bool {
		waited = d
		return true
	}

	if err := s.Send(context.Background(), "hola"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if requests != 2 {
		t.Errorf("server saw %d requests, want 2", requests)
	}
	if waited != time.Second {
		t.Errorf("waited %v, want 1s", waited)
	}
}

func TestSendStopsAfterRetryLimit(t *testing.T) {
	requests := 0

	s := testSender(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"ok":false,"error_code":429,"parameters":{"retry_after":0}}`)
	})
	s.sleep = func(ctx context.Context, d time.Duration) bool { return true }

	if err := s.Send(context.Background(), "hola"); err == nil {
		t.Error("Send succeeded despite permanent rate limiting")
	}
	if requests != sendRetryLimit {
		t.Errorf("server saw %d requests, want %d", requests, sendRetryLimit)
	}
}

func TestSendFailsOnServerError(t *testing.T) {
	s := testSender(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"ok":false,"description":"Bad Request: chat not found"}`)
	})

	err := s.Send(context.Background(), "hola")
	if err == nil {
		t.Fatal("Send succeeded despite 400 response")
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("error %q does not carry the API description", err)
	}
}

func TestSplitMessage(t *testing.T) {
	if got := splitMessage(""); got != nil {
		t.Errorf("splitMessage(\"\") = %v, want nil", got)
	}
	if got := splitMessage("corto"); len(got) != 1 || got[0] != "corto" {
		t.Errorf("splitMessage(short) = %v", got)
	}
}
