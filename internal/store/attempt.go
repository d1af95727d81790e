package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const (
	tableAttempts = "attempts"
	tableAnswers  = "attempt_answers"
)

var attemptColumns = []string{
	"id", "bank", "started_at", "completed_at", "time_limit_secs",
	"question_count", "score", "timed_out",
}

var answerColumns = []string{
	"attempt_id", "position", "question", "your_answer",
	"correct_answer", "answer_link", "correct",
}

// schema creates the result tables. The column types are valid for both
// SQLite and Postgres.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS attempts (
  id TEXT PRIMARY KEY,
  bank TEXT NOT NULL DEFAULT '',
  started_at BIGINT NOT NULL,
  completed_at BIGINT NOT NULL,
  time_limit_secs INTEGER NOT NULL,
  question_count INTEGER NOT NULL,
  score INTEGER NOT NULL,
  timed_out BOOLEAN NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS attempt_answers (
  attempt_id TEXT NOT NULL REFERENCES attempts(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  question TEXT NOT NULL,
  your_answer TEXT NOT NULL,
  correct_answer TEXT NOT NULL,
  answer_link TEXT NOT NULL DEFAULT '',
  correct BOOLEAN NOT NULL,
  PRIMARY KEY (attempt_id, position)
)`,
}

// migrate creates the result tables if they are missing.
func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// resultRepo implements ResultRepo with the ent SQL builder.
type resultRepo struct {
	db      *sql.DB
	builder *entsql.DialectBuilder
}

func (r *resultRepo) SaveAttempt(ctx context.Context, data AttemptData) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query, args := r.builder.Insert(tableAttempts).
		Columns(attemptColumns...).
		Values(
			data.ID,
			data.Bank,
			data.StartedAt.Unix(),
			data.CompletedAt.Unix(),
			int64(data.TimeLimit/time.Second),
			len(data.Answers),
			data.Score,
			data.TimedOut,
		).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}

	if len(data.Answers) > 0 {
		ins := r.builder.Insert(tableAnswers).Columns(answerColumns...)
		for i, a := range data.Answers {
			ins.Values(data.ID, i, a.Question, a.YourAnswer, a.CorrectAnswer, a.AnswerLink, a.Correct)
		}
		query, args := ins.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save attempt answers: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attempt: %w", err)
	}
	return nil
}

func (r *resultRepo) ListAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error) {
	sel := r.builder.Select(attemptColumns...).
		From(r.builder.Table(tableAttempts)).
		OrderBy(entsql.Desc("started_at"), entsql.Desc("id"))
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("started_at", opts.From.Unix()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("started_at", opts.To.Unix()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptRecord
	for rows.Next() {
		var (
			rec                AttemptRecord
			started, completed int64
			limitSecs          int64
		)
		if err := rows.Scan(&rec.ID, &rec.Bank, &started, &completed, &limitSecs,
			&rec.QuestionCount, &rec.Score, &rec.TimedOut); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		rec.StartedAt = time.Unix(started, 0)
		rec.CompletedAt = time.Unix(completed, 0)
		rec.TimeLimit = time.Duration(limitSecs) * time.Second
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return out, nil
}

func (r *resultRepo) AttemptAnswers(ctx context.Context, attemptID string) ([]AnswerRecord, error) {
	query, args := r.builder.Select(answerColumns...).
		From(r.builder.Table(tableAnswers)).
		Where(entsql.EQ("attempt_id", attemptID)).
		OrderBy("position").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempt answers: %w", err)
	}
	defer rows.Close()

	var out []AnswerRecord
	for rows.Next() {
		var rec AnswerRecord
		if err := rows.Scan(&rec.AttemptID, &rec.Position, &rec.Question, &rec.YourAnswer,
			&rec.CorrectAnswer, &rec.AnswerLink, &rec.Correct); err != nil {
			return nil, fmt.Errorf("scan attempt answer: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempt answers: %w", err)
	}
	return out, nil
}

func (r *resultRepo) Clear(ctx context.Context) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Answers first; cascade is not relied on.
	query, args := r.builder.Delete(tableAnswers).Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("clear attempt answers: %w", err)
	}

	query, args = r.builder.Delete(tableAttempts).Query()
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear attempts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count cleared attempts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit clear: %w", err)
	}
	return n, nil
}
