package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const orderColumns = `id, customer_name, items, total, created_at, COALESCE(order_date, ''), status, is_paid, payment_status, user_id, note`

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o         Order
		itemsJSON []byte
		status    string
		payment   string
	)
	err := row.Scan(&o.ID, &o.CustomerName, &itemsJSON, &o.Total, &o.CreatedAt, &o.OrderDate,
		&status, &o.IsPaid, &payment, &o.UserID, &o.Note)
	if err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return Order{}, fmt.Errorf("decode items of %s: %w", o.ID, err)
	}
	o.Status = Status(status)
	o.PaymentStatus = PaymentStatus(payment)
	return o, nil
}

func collect(rows pgx.Rows) ([]Order, error) {
	defer rows.Close()
	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Create assigns the id and takes created_at from the database clock.
func (r *Repo) Create(ctx context.Context, o *Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	o.ID = uuid.NewString()
	return r.DB.QueryRow(ctx, `
		INSERT INTO orders(id, customer_name, items, total, order_date, status, is_paid, payment_status, user_id, note)
		VALUES ($1,$2,$3,$4,NULLIF($5, ''),$6,$7,$8,$9,$10)
		RETURNING created_at`,
		o.ID, o.CustomerName, items, o.Total, o.OrderDate, string(o.Status), o.IsPaid,
		string(o.PaymentStatus), o.UserID, o.Note,
	).Scan(&o.CreatedAt)
}

func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

// List returns every order, newest first.
func (r *Repo) List(ctx context.Context) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListCreatedBetween returns orders with from <= created_at < to, oldest first.
func (r *Repo) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at`, from, to)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// UpdateStatus is a plain write; concurrent staff actions resolve last-write-wins.
func (r *Repo) UpdateStatus(ctx context.Context, id string, s Status) error {
	return r.exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, id, string(s))
}

func (r *Repo) SetPaid(ctx context.Context, id string, paid bool) error {
	return r.exec(ctx, `UPDATE orders SET is_paid=$2 WHERE id=$1`, id, paid)
}

func (r *Repo) SetPaymentStatus(ctx context.Context, id string, ps PaymentStatus) error {
	return r.exec(ctx, `UPDATE orders SET payment_status=$2 WHERE id=$1`, id, string(ps))
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
}

func (r *Repo) exec(ctx context.Context, sql string, args ...any) error {
	ct, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
