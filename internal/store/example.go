package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// exampleRepo implements ExampleRepo as an upserting cache table.
type exampleRepo struct {
	db *sql.DB
}

func (r *exampleRepo) GetExample(ctx context.Context, hanzi string) (*ExampleData, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("hanzi", "sentence", "pinyin", "translation", "model", "created_at").
		From(entsql.Table(exampleSentencesTable.Name)).
		Where(entsql.EQ("hanzi", hanzi)).
		Query()

	var d ExampleData
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&d.Hanzi, &d.Sentence, &d.Pinyin, &d.Translation, &d.Model, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query example: %w", err)
	}
	return &d, nil
}

func (r *exampleRepo) PutExample(ctx context.Context, data ExampleData) error {
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now().UTC()
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(exampleSentencesTable.Name).
		Columns("hanzi", "sentence", "pinyin", "translation", "model", "created_at").
		Values(data.Hanzi, data.Sentence, data.Pinyin, data.Translation, data.Model, data.CreatedAt).
		OnConflict(
			entsql.ConflictColumns("hanzi"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save example: %w", err)
	}
	return nil
}
