package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"WaveletDenoise/internal/model"

	"github.com/rs/zerolog"
)

func TestSend(t *testing.T) {
	var got map[string]string
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("tok", "42", "", zerolog.Nop())
	n.APIBase = srv.URL
	if err := n.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if path != "/bottok/sendMessage" {
		t.Errorf("unexpected path %q", path)
	}
	if got["chat_id"] != "42" || got["text"] != "hello" || got["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload %v", got)
	}
}

func TestSendWithRetry_StopsOnContext(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("tok", "42", "", zerolog.Nop())
	n.APIBase = srv.URL
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := n.SendWithRetry(ctx, "hello", 3)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected one attempt before the 1s backoff, got %d", calls)
	}
}

func TestSendWithRetry_ZeroRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("tok", "42", "", zerolog.Nop())
	n.APIBase = srv.URL
	err := n.SendWithRetry(context.Background(), "hello", 0)
	if err == nil || !strings.Contains(err.Error(), "all 1 retries exhausted") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestFormatSweepReport(t *testing.T) {
	start := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	s := &model.SweepSummary{
		Symbol:     "QQQ",
		Points:     752,
		StartedAt:  start,
		FinishedAt: start.Add(3 * time.Second),
		Results: []model.ResultSummary{
			{Wavelet: "haar", Scale: 0.1, Level: 9, Threshold: 50, OriginalStd: 10, DenoisedStd: 5},
		},
		Artifacts: []string{"a", "b"},
	}
	msg := FormatSweepReport(s)
	for _, want := range []string{"QQQ", "Points: 752", "haar", "ratio 0.500", "Artifacts written: 2"} {
		if !strings.Contains(msg, want) {
			t.Errorf("report missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatFailure_EscapesHTML(t *testing.T) {
	err := errors.New("yahoo API error: status 502, body: <html><body>Bad Gateway & more</body></html>")
	msg := FormatFailure("Q<Q>", err)

	if strings.Contains(msg, "<html>") || strings.Contains(msg, "<body>") {
		t.Errorf("raw tags leaked into message:\n%s", msg)
	}
	for _, want := range []string{"&lt;html&gt;", "Bad Gateway &amp; more", "Q&lt;Q&gt;", "<b>Wavelet denoise failed</b>"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatSweepReport_EscapesNames(t *testing.T) {
	s := &model.SweepSummary{
		Symbol:  "A&B",
		Results: []model.ResultSummary{{Wavelet: "<x>", Scale: 0.1}},
	}
	msg := FormatSweepReport(s)
	if !strings.Contains(msg, "A&amp;B") || !strings.Contains(msg, "&lt;x&gt;") {
		t.Errorf("names not escaped:\n%s", msg)
	}
	if strings.Contains(msg, "<x>") {
		t.Errorf("raw wavelet name leaked:\n%s", msg)
	}
}
