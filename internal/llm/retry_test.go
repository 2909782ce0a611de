package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	testingclock "k8s.io/utils/clock/testing"
)

func retryPolicy() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Second,
		MaxWait:     3 * time.Second,
		Multiplier:  2,
	}
}

// newRetrier wraps p with a fake clock that steps itself whenever the
// retrier is waiting, and no jitter.
func newRetrier(t *testing.T, p Provider, cfg RetryConfig) (Provider, *logtest.Hook) {
	t.Helper()
	log, hook := logtest.NewNullLogger()
	clk := testingclock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	done := make(chan struct{})
	t.Cleanup(func() { close(done) })
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(time.Millisecond):
				if clk.HasWaiters() {
					clk.Step(time.Minute)
				}
			}
		}
	}()

	r := WithRetry(p, cfg, clk, log).(*retrier)
	r.jitter = func() float64 { return 0.5 }
	return r, hook
}

func down() MockResponse {
	return MockResponse{Err: &Error{Kind: KindUnavailable, Provider: ProviderMock, Err: errors.New("connection reset")}}
}

func retryWaits(hook *logtest.Hook) []time.Duration {
	var out []time.Duration
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "retrying LLM request" {
			out = append(out, e.Data["wait"].(time.Duration))
		}
	}
	return out
}

func TestRetry_FirstReplyWins(t *testing.T) {
	mock := NewMockProvider(SentenceReply("我有一个哥哥。", "Wǒ yǒu yí gè gēge.", "I have an older brother."))
	p, hook := newRetrier(t, mock, retryPolicy())

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Model != ProviderMock || mock.CallCount() != 1 {
		t.Fatalf("model %q after %d calls", resp.Model, mock.CallCount())
	}
	if n := len(retryWaits(hook)); n != 0 {
		t.Fatalf("logged %d retries", n)
	}
}

func TestRetry_LogsEachAttemptWithBackoff(t *testing.T) {
	mock := NewMockProvider(down(), down(), SentenceReply("哥哥在家。", "Gēge zài jiā.", "Brother is at home."))
	p, hook := newRetrier(t, mock, retryPolicy())

	ctx := WithCall(context.Background(), Call{Purpose: "example", Subject: "哥哥"})
	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}

	waits := retryWaits(hook)
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(waits) != len(want) || waits[0] != want[0] || waits[1] != want[1] {
		t.Fatalf("waits = %v, want %v", waits, want)
	}
	entry := hook.AllEntries()[0]
	if entry.Data["subject"] != "哥哥" || entry.Data["purpose"] != "example" || entry.Data["attempt"] != 1 {
		t.Fatalf("unexpected fields: %v", entry.Data)
	}
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider(down(), down(), down(), down())
	p, hook := newRetrier(t, mock, retryPolicy())

	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
	if n := len(retryWaits(hook)); n != 2 {
		t.Fatalf("expected 2 logged retries, got %d", n)
	}
}

func TestRetry_BackoffCapped(t *testing.T) {
	cfg := retryPolicy()
	cfg.MaxAttempts = 4
	mock := NewMockProvider(down(), down(), down(), down())
	p, hook := newRetrier(t, mock, cfg)

	p.Generate(context.Background(), Request{})
	waits := retryWaits(hook)
	if len(waits) != 3 || waits[2] != 3*time.Second {
		t.Fatalf("waits = %v, want the third capped at 3s", waits)
	}
}

func TestRetry_NotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   error
	}{
		{"rejected", &Error{Kind: KindRejected, Err: errors.New("401")}, ErrRejected},
		{"truncated", &Error{Kind: KindTruncated}, ErrTruncated},
		{"cancelled", context.Canceled, context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(MockResponse{Err: tt.err}, SentenceReply("好", "hǎo", "good"))
			p, _ := newRetrier(t, mock, retryPolicy())

			_, err := p.Generate(context.Background(), Request{})
			if !errors.Is(err, tt.is) {
				t.Fatalf("err = %v, want %v", err, tt.is)
			}
			if mock.CallCount() != 1 {
				t.Fatalf("expected 1 call, got %d", mock.CallCount())
			}
		})
	}
}

func TestRetry_InvalidReplyRetriedOnce(t *testing.T) {
	bad := MockResponse{Content: []byte(`{"sentence":"我有一个哥哥。"}`)}
	mock := NewMockProvider(bad, bad, SentenceReply("我有一个哥哥。", "Wǒ yǒu yí gè gēge.", "I have an older brother."))
	p, _ := newRetrier(t, mock, retryPolicy())

	_, err := p.Generate(context.Background(), Request{Schema: sentenceSchema})
	if !errors.Is(err, ErrInvalidResponse) {
		t.Fatalf("expected invalid response, got %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_RateLimitUsesRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &Error{Kind: KindRateLimited, RetryAfter: 7 * time.Second}},
		SentenceReply("好", "hǎo", "good"),
	)
	p, hook := newRetrier(t, mock, retryPolicy())

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if waits := retryWaits(hook); len(waits) != 1 || waits[0] != 7*time.Second {
		t.Fatalf("waits = %v, want [7s]", waits)
	}
}

func TestRetry_ContextCancelledWhileWaiting(t *testing.T) {
	clk := testingclock.NewFakeClock(time.Now())
	mock := NewMockProvider(down(), down())
	p := WithRetry(mock, retryPolicy(), clk, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := p.Generate(ctx, Request{})
		errs <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !clk.HasWaiters() {
		if time.Now().After(deadline) {
			t.Fatal("retrier never waited")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-errs:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Generate did not return after cancel")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_JitterBounds(t *testing.T) {
	r := &retrier{cfg: retryPolicy()}
	r.jitter = func() float64 { return 0 }
	if got := r.backoff(1, errors.New("x")); got != 800*time.Millisecond {
		t.Fatalf("low jitter = %v", got)
	}
	r.jitter = func() float64 { return 0.999999 }
	if got := r.backoff(1, errors.New("x")); got < 1199*time.Millisecond || got > 1200*time.Millisecond {
		t.Fatalf("high jitter = %v", got)
	}
}
