package schedule

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// List returns all entries ordered by start date, which CheckIsClosed relies on for ties.
func (r *Repo) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, start_date, end_date, reason, created_at
		FROM store_schedules ORDER BY start_date, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.StartDate, &e.EndDate, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, e Entry) (Entry, error) {
	if err := Validate(e); err != nil {
		return Entry{}, err
	}
	e.ID = uuid.NewString()
	err := r.DB.QueryRow(ctx, `
		INSERT INTO store_schedules(id, start_date, end_date, reason)
		VALUES ($1,$2,$3,$4) RETURNING created_at`,
		e.ID, e.StartDate, e.EndDate, e.Reason,
	).Scan(&e.CreatedAt)
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM store_schedules WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
