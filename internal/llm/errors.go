package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorKind classifies a provider failure.
type ErrorKind int

const (
	// KindUnavailable covers network failures, 5xx replies and anything
	// the SDK did not classify.
	KindUnavailable ErrorKind = iota
	KindRateLimited
	// KindRejected is a 4xx other than 429: bad key, unknown model,
	// malformed request. Retrying does not help.
	KindRejected
	KindInvalidResponse
	KindTruncated
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindRejected:
		return "request rejected"
	case KindInvalidResponse:
		return "invalid response"
	case KindTruncated:
		return "response truncated at max tokens"
	default:
		return "provider unavailable"
	}
}

// Error is a classified provider failure. Match a kind with errors.Is
// against the Err* sentinels, or read the fields with errors.As.
type Error struct {
	Kind     ErrorKind
	Provider string

	// RetryAfter is the server's requested delay for rate limits, if any.
	RetryAfter time.Duration

	// Content is the raw reply for invalid and truncated responses.
	Content json.RawMessage

	Err error

	sentinel bool
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrUnavailable     = &Error{Kind: KindUnavailable, sentinel: true}
	ErrRateLimited     = &Error{Kind: KindRateLimited, sentinel: true}
	ErrRejected        = &Error{Kind: KindRejected, sentinel: true}
	ErrInvalidResponse = &Error{Kind: KindInvalidResponse, sentinel: true}
	ErrTruncated       = &Error{Kind: KindTruncated, sentinel: true}
)

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.sentinel && t.Kind == e.Kind
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// statusError classifies an SDK error by its HTTP status. A zero status
// means the request never got a reply.
func statusError(provider string, status int, err error) *Error {
	kind := KindUnavailable
	switch {
	case status == http.StatusTooManyRequests:
		kind = KindRateLimited
	case status >= 400 && status < 500:
		kind = KindRejected
	}
	return &Error{Kind: kind, Provider: provider, Err: err}
}
