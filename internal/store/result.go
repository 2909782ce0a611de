package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var playResultSelectColumns = []string{
	"id", "sequence", "timestamp", "session_id", "mode", "level",
	"score", "total", "moves", "duration_secs", "detail",
}

// resultRepo implements ResultRepo with ent's SQL builder.
type resultRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *resultRepo) AppendResult(ctx context.Context, data ResultData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(playResultsTable.Name).
		Columns("sequence", "timestamp", "session_id", "mode", "level",
			"score", "total", "moves", "duration_secs", "detail").
		Values(seqNum, time.Now().UTC(), data.SessionID, data.Mode, data.Level,
			data.Score, data.Total, data.Moves, data.DurationSecs, data.Detail).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save play result: %w", err)
	}
	return nil
}

func (r *resultRepo) QueryResults(ctx context.Context, opts QueryOpts) ([]PlayResult, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(playResultSelectColumns...).
		From(entsql.Table(playResultsTable.Name))
	query, args := opts.apply(sel).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query play results: %w", err)
	}
	defer rows.Close()

	var out []PlayResult
	for rows.Next() {
		var p PlayResult
		if err := rows.Scan(&p.ID, &p.Sequence, &p.Timestamp, &p.SessionID, &p.Mode, &p.Level,
			&p.Score, &p.Total, &p.Moves, &p.DurationSecs, &p.Detail); err != nil {
			return nil, fmt.Errorf("scan play result: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *resultRepo) ModeStats(ctx context.Context) ([]ModeStat, error) {
	results, err := r.QueryResults(ctx, QueryOpts{})
	if err != nil {
		return nil, err
	}

	type key struct {
		mode  string
		level int
	}
	sums := map[key]int{}
	stats := map[key]*ModeStat{}
	for _, res := range results {
		k := key{res.Mode, res.Level}
		st := stats[k]
		if st == nil {
			st = &ModeStat{Mode: res.Mode, Level: res.Level}
			stats[k] = st
		}
		pct := res.Percent()
		st.Plays++
		sums[k] += pct
		st.BestPercent = max(st.BestPercent, pct)
		if res.Timestamp.After(st.LastPlayed) {
			st.LastPlayed = res.Timestamp
		}
	}

	out := make([]ModeStat, 0, len(stats))
	for k, st := range stats {
		st.AvgPercent = (2*sums[k] + st.Plays) / (2 * st.Plays)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mode != out[j].Mode {
			return out[i].Mode < out[j].Mode
		}
		return out[i].Level < out[j].Level
	})
	return out, nil
}

func (r *resultRepo) Reset(ctx context.Context) error {
	query, args := entsql.Dialect(dialect.SQLite).Delete(playResultsTable.Name).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reset play results: %w", err)
	}
	return nil
}
