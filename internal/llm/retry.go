package llm

import (
	"context"
	"errors"
	"io"
	"math"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// retrier re-issues requests that failed for a transient reason, backing
// off exponentially with jitter between attempts.
type retrier struct {
	inner Provider
	cfg   RetryConfig
	clk   clock.Clock
	log   logrus.FieldLogger

	// jitter returns a value in [0, 1); 0.5 means no jitter.
	jitter func() float64
}

// WithRetry wraps p so transient failures are retried per cfg. Waits run
// on clk. A nil clk uses the wall clock and a nil log discards.
func WithRetry(p Provider, cfg RetryConfig, clk clock.Clock, log logrus.FieldLogger) Provider {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &retrier{inner: p, cfg: cfg, clk: clk, log: log, jitter: rand.Float64}
}

func (r *retrier) ModelID() string { return r.inner.ModelID() }

func (r *retrier) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.cfg.MaxAttempts, 1)
	call := CallFrom(ctx)
	invalidSeen := false

	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if attempt >= attempts || !retryable(err, &invalidSeen) {
			return nil, err
		}

		wait := r.backoff(attempt, err)
		r.log.WithError(err).WithFields(logrus.Fields{
			"purpose": call.Purpose,
			"subject": call.Subject,
			"attempt": attempt,
			"wait":    wait,
		}).Warn("retrying LLM request")

		if wait <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-r.clk.After(wait):
		}
	}
}

// retryable reports whether err is worth another attempt. A reply that
// fails its schema gets one more try; later ones do not.
func retryable(err error, invalidSeen *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	kind, ok := KindOf(err)
	if !ok {
		return true
	}
	switch kind {
	case KindRejected, KindTruncated:
		return false
	case KindInvalidResponse:
		if *invalidSeen {
			return false
		}
		*invalidSeen = true
	}
	return true
}

// backoff is the wait after the given 1-based attempt. A rate limit with a
// server-supplied delay uses that delay as is.
func (r *retrier) backoff(attempt int, err error) time.Duration {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindRateLimited && e.RetryAfter > 0 {
		return e.RetryAfter
	}

	wait := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt-1))
	wait = min(wait, float64(r.cfg.MaxWait))
	// ±20%
	wait *= 0.8 + 0.4*r.jitter()
	return time.Duration(wait)
}
