package llm

import "context"

// Call describes why a request is made. It travels in the context so the
// logging and retry decorators can tag what they record.
type Call struct {
	// Purpose groups events, e.g. "example". It is stored with each event
	// and filters `llm list`.
	Purpose string

	// Subject is the word or exercise the request is about.
	Subject string
}

type callKey struct{}

// WithCall attaches c to ctx.
func WithCall(ctx context.Context, c Call) context.Context {
	return context.WithValue(ctx, callKey{}, c)
}

// CallFrom returns the Call attached to ctx. Purpose defaults to "unknown".
func CallFrom(ctx context.Context) Call {
	c, _ := ctx.Value(callKey{}).(Call)
	if c.Purpose == "" {
		c.Purpose = "unknown"
	}
	return c
}
