// internal/assessment/products/recommender.go
package products

import (
	"context"
	"fmt"
	"sort"

	"financial-clinic-workers/internal/models"
)

const DefaultMaxRecommendations = 3

// Store returns the active products configured for one category and status
// level. An empty slice is not an error.
type Store interface {
	ActiveProducts(ctx context.Context, category models.Category, status string) ([]models.Product, error)
}

type Option func(*Recommender)

func WithMax(n int) Option {
	return func(r *Recommender) {
		if n > 0 {
			r.max = n
		}
	}
}

type Recommender struct {
	store Store
	max   int
}

func NewRecommender(store Store, opts ...Option) *Recommender {
	r := &Recommender{store: store, max: DefaultMaxRecommendations}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recommender) Max() int { return r.max }

// Recommend picks products for the weakest categories first. scores must be
// in catalog category order; equal scores keep that order.
func (r *Recommender) Recommend(ctx context.Context, scores []models.CategoryScore, nationality, gender string, children int) ([]models.Recommendation, error) {
	ranked := make([]models.CategoryScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score < ranked[j].Score })

	out := make([]models.Recommendation, 0, r.max)
	seen := make(map[int64]bool)

	for _, cs := range ranked {
		if len(out) >= r.max {
			break
		}

		candidates, err := r.store.ActiveProducts(ctx, cs.Category, cs.StatusLevel)
		if err != nil {
			return nil, fmt.Errorf("load products for %s/%s: %w", cs.Category, cs.StatusLevel, err)
		}

		eligible := make([]models.Product, 0, len(candidates))
		for _, p := range candidates {
			if Eligible(p, nationality, gender, children) {
				eligible = append(eligible, p)
			}
		}
		sort.SliceStable(eligible, func(i, j int) bool { return eligible[i].Priority < eligible[j].Priority })

		for _, p := range eligible {
			if len(out) >= r.max {
				break
			}
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			out = append(out, p.Recommendation())
		}
	}

	return out, nil
}
