package activity

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo is append-only; there is no update or delete.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Append(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO activity_logs(id, user_id, user_name, action, description)
		VALUES ($1,$2,$3,$4,$5)`, e.ID, e.UserID, e.UserName, e.Action, e.Description)
	return err
}

// List returns the newest entries first.
func (r *Repo) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, user_name, action, description, created_at
		FROM activity_logs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.UserName, &e.Action, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
