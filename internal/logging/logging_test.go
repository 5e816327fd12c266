package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newCaptureLogger(buf *bytes.Buffer) zerolog.Logger {
	return zerolog.New(buf).Level(zerolog.DebugLevel)
}

func TestLogSignal(t *testing.T) {
	var buf bytes.Buffer
	LogSignal(newCaptureLogger(&buf), "RELIANCE", "BUY", "05-01-2024")

	out := buf.String()
	for _, want := range []string{`"event":"signal"`, `"symbol":"RELIANCE"`, `"side":"BUY"`, `"date":"05-01-2024"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %s: %s", want, out)
		}
	}
}

func TestLogTradeMatched(t *testing.T) {
	var buf bytes.Buffer
	LogTradeMatched(newCaptureLogger(&buf), "TCS", "05-01-2024", "12-01-2024")

	out := buf.String()
	for _, want := range []string{`"event":"trade_matched"`, `"entry_date":"05-01-2024"`, `"exit_date":"12-01-2024"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %s: %s", want, out)
		}
	}
}

func TestLogOrder(t *testing.T) {
	var buf bytes.Buffer
	LogOrder(newCaptureLogger(&buf), "240105000111", "INFY", "SELL", "COMPLETE")

	out := buf.String()
	if !strings.Contains(out, `"level":"info"`) {
		t.Errorf("order events should log at info: %s", out)
	}
	for _, want := range []string{`"event":"order"`, `"order_id":"240105000111"`, `"status":"COMPLETE"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %s: %s", want, out)
		}
	}
}

func TestLogFetch(t *testing.T) {
	var buf bytes.Buffer
	LogFetch(newCaptureLogger(&buf), "HDFCBANK", 180, 250*time.Millisecond, nil)
	if out := buf.String(); !strings.Contains(out, "Price fetch completed") || !strings.Contains(out, `"points":180`) {
		t.Errorf("success line = %s", out)
	}

	buf.Reset()
	LogFetch(newCaptureLogger(&buf), "HDFCBANK", 0, time.Second, errors.New("token expired"))
	if out := buf.String(); !strings.Contains(out, "Price fetch failed") || !strings.Contains(out, "token expired") {
		t.Errorf("failure line = %s", out)
	}
}

func TestWithSymbolAndOperation(t *testing.T) {
	var buf bytes.Buffer
	log := WithOperation(WithSymbol(newCaptureLogger(&buf), "SBIN"), "analyze")
	log.Info().Msg("scoped")

	out := buf.String()
	if !strings.Contains(out, `"symbol":"SBIN"`) || !strings.Contains(out, `"operation":"analyze"`) {
		t.Errorf("scoped fields missing: %s", out)
	}
}
