// internal/assessment/products/postgres.go
package products

import (
	"context"
	"database/sql"
	"fmt"

	"financial-clinic-workers/internal/models"
)

const activeProductsQuery = `SELECT id, name, category, status_level, description,
	nationality_filter, gender_filter, children_filter, priority, active, created_at, updated_at
	FROM products
	WHERE category = $1 AND status_level = $2 AND active = true
	ORDER BY priority ASC, id ASC`

// PostgresStore reads products from the products table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ActiveProducts(ctx context.Context, category models.Category, status string) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, activeProductsQuery, string(category), status)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		var (
			p                         models.Product
			nationality, gender, kids sql.NullString
			description               sql.NullString
		)
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Category, &p.StatusLevel, &description,
			&nationality, &gender, &kids, &p.Priority, &p.Active, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Description = description.String
		p.NationalityFilter = nullable(nationality)
		p.GenderFilter = nullable(gender)
		p.ChildrenFilter = nullable(kids)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	s := ns.String
	return &s
}
