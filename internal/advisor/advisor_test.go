package advisor

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type stubCompleter struct {
	reply      string
	err        error
	lastPrompt string
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	return s.reply, s.err
}

func TestRecommendParsesReply(t *testing.T) {
	cases := []struct {
		reply string
		want  Recommendation
	}{
		{"BUY", RecommendBuy},
		{"  buy \n", RecommendBuy},
		{"SELL", RecommendSell},
		{"I would SELL this stock", RecommendSell},
		{"HOLD", Undetermined},
		{"", Undetermined},
	}

	for _, tc := range cases {
		a := New(&stubCompleter{reply: tc.reply}, zerolog.Nop())
		if got := a.Recommend(context.Background(), "RELIANCE"); got != tc.want {
			t.Errorf("reply %q: got %s, want %s", tc.reply, got, tc.want)
		}
	}
}

func TestRecommendAPIErrorUndetermined(t *testing.T) {
	a := New(&stubCompleter{err: fmt.Errorf("rate limited")}, zerolog.Nop())
	if got := a.Recommend(context.Background(), "TCS"); got != Undetermined {
		t.Errorf("expected Undetermined on API error, got %s", got)
	}
}

func TestRecommendPromptIncludesSymbol(t *testing.T) {
	stub := &stubCompleter{reply: "BUY"}
	a := New(stub, zerolog.Nop())
	a.Recommend(context.Background(), "INFY")

	if !strings.Contains(stub.lastPrompt, "Stock: INFY") {
		t.Errorf("prompt missing symbol line:\n%s", stub.lastPrompt)
	}
	if !strings.Contains(stub.lastPrompt, "swing trading") {
		t.Error("prompt missing analysis instructions")
	}
}
