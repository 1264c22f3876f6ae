package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const productColumns = `id, name, category, price, stock, variants, available_days, is_available, image_url, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p            Product
		variantsJSON []byte
		daysJSON     []byte
	)
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &variantsJSON, &daysJSON,
		&p.IsAvailable, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	if err := json.Unmarshal(variantsJSON, &p.Variants); err != nil {
		return Product{}, fmt.Errorf("decode variants of %s: %w", p.ID, err)
	}
	if err := json.Unmarshal(daysJSON, &p.AvailableDays); err != nil {
		return Product{}, fmt.Errorf("decode available days of %s: %w", p.ID, err)
	}
	return p, nil
}

func (r *Repo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY category, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *Repo) Create(ctx context.Context, p Product) (Product, error) {
	if err := Validate(p); err != nil {
		return Product{}, err
	}
	p.ID = uuid.NewString()
	variants, days := encodeLists(p)
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products(id, name, category, price, stock, variants, available_days, is_available, image_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Category, p.Price, p.Stock, variants, days, p.IsAvailable, p.ImageURL,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) Update(ctx context.Context, p Product) (Product, error) {
	if err := Validate(p); err != nil {
		return Product{}, err
	}
	variants, days := encodeLists(p)
	err := r.DB.QueryRow(ctx, `
		UPDATE products
		SET name=$2, category=$3, price=$4, stock=$5, variants=$6, available_days=$7,
		    is_available=$8, image_url=$9, updated_at=now()
		WHERE id=$1
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Category, p.Price, p.Stock, variants, days, p.IsAvailable, p.ImageURL,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock subtracts qty in one statement, floored at zero.
// Unlimited products are left untouched.
func (r *Repo) DecrementStock(ctx context.Context, id string, qty int) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE products SET stock = GREATEST(stock - $2, 0), updated_at = now()
		WHERE id=$1 AND stock <> -1`, id, qty)
	return err
}

func encodeLists(p Product) (variants, days []byte) {
	if p.Variants == nil {
		p.Variants = []Variant{}
	}
	if p.AvailableDays == nil {
		p.AvailableDays = []int{}
	}
	variants, _ = json.Marshal(p.Variants)
	days, _ = json.Marshal(p.AvailableDays)
	return variants, days
}
