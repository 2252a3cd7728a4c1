// internal/models/product.go
package models

import "time"

// Children filter buckets on products.
const (
	ChildrenFilterNone       = "0"
	ChildrenFilterAtLeastOne = "1+"
)

// Product is an administrator-maintained financial product. Nil filters
// apply to everyone.
type Product struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Category          Category  `json:"category"`
	StatusLevel       string    `json:"status_level"`
	Description       string    `json:"description"`
	NationalityFilter *string   `json:"nationality_filter,omitempty"`
	GenderFilter      *string   `json:"gender_filter,omitempty"`
	ChildrenFilter    *string   `json:"children_filter,omitempty"`
	Priority          int       `json:"priority"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"created_at,omitempty"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
}

type Recommendation struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	StatusLevel string   `json:"status_level"`
	Description string   `json:"description"`
	Priority    int      `json:"priority"`
}

func (p Product) Recommendation() Recommendation {
	return Recommendation{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		StatusLevel: p.StatusLevel,
		Description: p.Description,
		Priority:    p.Priority,
	}
}
