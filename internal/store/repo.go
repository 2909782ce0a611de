package store

import (
	"context"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// QueryOpts configures event queries with filtering and pagination.
// Results are returned newest first.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	Mode  string // play results only; empty matches all
	Level int    // play results only; 0 matches all
}

func (o QueryOpts) apply(sel *entsql.Selector) *entsql.Selector {
	var ps []*entsql.Predicate
	if o.After > 0 {
		ps = append(ps, entsql.GT("sequence", o.After))
	}
	if o.Before > 0 {
		ps = append(ps, entsql.LT("sequence", o.Before))
	}
	if !o.From.IsZero() {
		ps = append(ps, entsql.GTE("timestamp", o.From))
	}
	if !o.To.IsZero() {
		ps = append(ps, entsql.LTE("timestamp", o.To))
	}
	if o.Mode != "" {
		ps = append(ps, entsql.EQ("mode", o.Mode))
	}
	if o.Level > 0 {
		ps = append(ps, entsql.EQ("level", o.Level))
	}
	if len(ps) > 0 {
		sel.Where(entsql.And(ps...))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if o.Limit > 0 {
		sel.Limit(o.Limit)
	}
	return sel
}

// ResultData describes one finished play-through.
type ResultData struct {
	SessionID    string
	Mode         string
	Level        int
	Score        int
	Total        int
	Moves        int
	DurationSecs int
	Detail       string
}

// PlayResult is a stored play-through.
type PlayResult struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ResultData
}

// Percent returns the score as a rounded percentage of total.
func (r PlayResult) Percent() int {
	if r.Total <= 0 {
		return 0
	}
	return (200*r.Score + r.Total) / (2 * r.Total)
}

// ModeStat aggregates play-throughs for one mode and level.
type ModeStat struct {
	Mode        string
	Level       int
	Plays       int
	BestPercent int
	AvgPercent  int
	LastPlayed  time.Time
}

// ResultRepo persists play-through results.
type ResultRepo interface {
	// AppendResult records a finished play-through.
	AppendResult(ctx context.Context, data ResultData) error

	// QueryResults returns stored results matching opts, newest first.
	QueryResults(ctx context.Context, opts QueryOpts) ([]PlayResult, error)

	// ModeStats aggregates all results by mode and level.
	ModeStats(ctx context.Context) ([]ModeStat, error)

	// Reset deletes every stored result.
	Reset(ctx context.Context) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events matching opts, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns a single event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)
}

// ExampleData is a cached example sentence for one word.
type ExampleData struct {
	Hanzi       string
	Sentence    string
	Pinyin      string
	Translation string
	Model       string
	CreatedAt   time.Time
}

// ExampleRepo caches generated example sentences keyed by hanzi.
type ExampleRepo interface {
	// GetExample returns the cached example for hanzi, or nil.
	GetExample(ctx context.Context, hanzi string) (*ExampleData, error)

	// PutExample stores or replaces the example for data.Hanzi.
	PutExample(ctx context.Context, data ExampleData) error
}
