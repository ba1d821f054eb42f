package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"leadsearch/internal/components/chrono"
	"leadsearch/internal/search"
	"leadsearch/internal/store/db"
	"leadsearch/lib/textutil"

	random "github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("leadsearch/internal/store")

var ErrRunNotFound = errors.New("search run not found")

// Run is one completed (or partially completed) search.
type Run struct {
	ID        string
	Query     string
	Provider  string
	CreatedAt time.Time
	// Failure is the reason pagination stopped early, empty on success.
	Failure string
	Records []search.Record
}

type RunSummary struct {
	ID        string
	Query     string
	Provider  string
	CreatedAt time.Time
	Failure   string
	Count     int
	// Similarity is only set by FindRuns.
	Similarity float64
}

type Store struct {
	db   *sql.DB
	time chrono.API
}

func NewStore(database *sql.DB, time chrono.API) Store {
	return Store{db: database, time: time}
}

// Migrate creates the tables if they do not exist yet.
func (s Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, db.Schema)
	return err
}

// SaveRun stores the run with its records in order and returns its id. A
// zero CreatedAt is set to the current time.
func (s Store) SaveRun(ctx context.Context, run Run) (string, error) {
	ctx, span := tracer.Start(ctx, "Store.SaveRun")
	defer span.End()

	id, err := random.String(8)
	if err != nil {
		span.SetStatus(codes.Error, "failed to generate run id")
		return "", err
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		"insert into search_run(id, query, provider, created_at, failure) values (?, ?, ?, ?, ?)",
		id, run.Query, run.Provider, run.CreatedAt.UnixMilli(), run.Failure,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert run")
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(
		ctx,
		"insert into search_record(run_id, idx, name, link, description, phone, social) values (?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, r := range run.Records {
		_, err := stmt.ExecContext(
			ctx,
			id, i, r.Name, r.PrimaryLink, r.Description, r.Phone, string(r.SocialPresence),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to insert record")
			return "", fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	return id, tx.Commit()
}

const summaryQuery = `
select r.id, r.query, r.provider, r.created_at, r.failure, count(rec.idx)
from search_run r
left join search_record rec on rec.run_id = r.id
group by r.id
order by r.created_at desc`

// ListRuns returns every stored run, newest first.
func (s Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, summaryQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var summary RunSummary
		var createdAt int64
		err := rows.Scan(
			&summary.ID,
			&summary.Query,
			&summary.Provider,
			&createdAt,
			&summary.Failure,
			&summary.Count,
		)
		if err != nil {
			return nil, err
		}
		summary.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, summary)
	}
	return out, rows.Err()
}

// FindRuns returns the runs whose query is at least threshold similar to
// query, most similar first.
func (s Store) FindRuns(ctx context.Context, query string, threshold float64) ([]RunSummary, error) {
	runs, err := s.ListRuns(ctx)
	if err != nil {
		return nil, err
	}

	var out []RunSummary
	for _, r := range runs {
		r.Similarity = textutil.QuerySimilarity(query, r.Query)
		if r.Similarity >= threshold {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b RunSummary) int {
		switch {
		case a.Similarity > b.Similarity:
			return -1
		case a.Similarity < b.Similarity:
			return 1
		}
		return 0
	})
	return out, nil
}

// GetRun loads a run with its records in their original order.
func (s Store) GetRun(ctx context.Context, id string) (Run, error) {
	ctx, span := tracer.Start(ctx, "Store.GetRun")
	defer span.End()

	var run Run
	var createdAt int64
	err := s.db.QueryRowContext(
		ctx,
		"select id, query, provider, created_at, failure from search_run where id = ?",
		id,
	).Scan(&run.ID, &run.Query, &run.Provider, &createdAt, &run.Failure)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, err
	}
	run.CreatedAt = time.UnixMilli(createdAt)

	rows, err := s.db.QueryContext(
		ctx,
		"select name, link, description, phone, social from search_record where run_id = ? order by idx",
		id,
	)
	if err != nil {
		return Run{}, err
	}
	defer rows.Close()

	run.Records = []search.Record{}
	for rows.Next() {
		var r search.Record
		var social string
		err := rows.Scan(&r.Name, &r.PrimaryLink, &r.Description, &r.Phone, &social)
		if err != nil {
			return Run{}, err
		}
		r.SocialPresence = search.Presence(social)
		run.Records = append(run.Records, r)
	}
	return run, rows.Err()
}

// DeleteRun removes a run and its records.
func (s Store) DeleteRun(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "delete from search_record where run_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "delete from search_run where id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return tx.Commit()
}
