// internal/assessment/products/search.go
package products

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"financial-clinic-workers/internal/models"
)

const (
	DefaultIndex   = "products"
	searchPageSize = 100
)

// IndexMapping is the products index mapping. Filter fields are keywords so
// term queries match exactly.
const IndexMapping = `{
  "mappings": {
    "properties": {
      "id":                 {"type": "long"},
      "name":               {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "category":           {"type": "keyword"},
      "status_level":       {"type": "keyword"},
      "description":        {"type": "text"},
      "nationality_filter": {"type": "keyword"},
      "gender_filter":      {"type": "keyword"},
      "children_filter":    {"type": "keyword"},
      "priority":           {"type": "integer"},
      "active":             {"type": "boolean"},
      "created_at":         {"type": "date"},
      "updated_at":         {"type": "date"}
    }
  }
}`

// SearchStore reads products from an Elasticsearch index whose documents
// use the Product JSON shape.
type SearchStore struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchStore(client *elasticsearch.Client, index string) *SearchStore {
	if index == "" {
		index = DefaultIndex
	}
	return &SearchStore{client: client, index: index}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.Product `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func buildProductQuery(category models.Category, status string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"category": string(category)}},
					map[string]interface{}{"term": map[string]interface{}{"status_level": status}},
					map[string]interface{}{"term": map[string]interface{}{"active": true}},
				},
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"priority": map[string]interface{}{"order": "asc"}},
			map[string]interface{}{"id": map[string]interface{}{"order": "asc"}},
		},
	}
}

func (s *SearchStore) ActiveProducts(ctx context.Context, category models.Category, status string) ([]models.Product, error) {
	body, err := json.Marshal(buildProductQuery(category, status))
	if err != nil {
		return nil, fmt.Errorf("encode product query: %w", err)
	}

	size := searchPageSize
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search products: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode product hits: %w", err)
	}

	out := make([]models.Product, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		out = append(out, hit.Source)
	}
	return out, nil
}
