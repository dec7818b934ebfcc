package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	proddom "flipmart/internal/domain/product"
)

// ProductRepositoryPG is the PostgreSQL catalog implementation.
type ProductRepositoryPG struct {
	DB *sql.DB
}

func NewProductRepositoryPG(db *sql.DB) *ProductRepositoryPG {
	return &ProductRepositoryPG{DB: db}
}

const productColumns = `
  id::text,
  name,
  company,
  category,
  price,
  original_price,
  discount_percent,
  rating,
  num_reviews,
  image_url,
  is_new
`

func (r *ProductRepositoryPG) List(ctx context.Context, filter proddom.Filter, limit, offset int) ([]proddom.Product, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("product_repository_pg: db is nil")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := ""
	args := []any{}
	if cat := strings.TrimSpace(filter.Category); cat != "" {
		where = "WHERE category = $1"
		args = append(args, cat)
	}

	q := fmt.Sprintf(`
SELECT %s
FROM products
%s
ORDER BY created_at DESC
LIMIT $%d OFFSET $%d
`, productColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []proddom.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepositoryPG) GetByID(ctx context.Context, id string) (*proddom.Product, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("product_repository_pg: db is nil")
	}
	pid := strings.TrimSpace(id)
	if pid == "" {
		return nil, errors.New("product_repository_pg: id is empty")
	}

	q := fmt.Sprintf(`SELECT %s FROM products WHERE id::text = $1`, productColumns)
	row := r.DB.QueryRowContext(ctx, q, pid)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, proddom.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (proddom.Product, error) {
	var p proddom.Product
	var company, category, imageURL sql.NullString
	err := row.Scan(
		&p.ID,
		&p.Name,
		&company,
		&category,
		&p.Price,
		&p.OriginalPrice,
		&p.DiscountPercent,
		&p.Rating,
		&p.NumReviews,
		&imageURL,
		&p.IsNew,
	)
	if err != nil {
		return proddom.Product{}, err
	}
	p.Company = company.String
	p.Category = category.String
	p.ImageURL = imageURL.String
	return p, nil
}
