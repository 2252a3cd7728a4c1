package scoring

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"financial-clinic-workers/internal/models"
)

// ExtractCategoryScores reads stored category score blobs, where each value
// is either an object with a score field or a bare number. Malformed entries
// are kept with a zero score and reported in problems.
func ExtractCategoryScores(raw map[string]interface{}) (map[models.Category]models.CategoryScore, []string) {
	out := make(map[models.Category]models.CategoryScore, len(raw))
	var problems []string

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		category := models.Category(key)
		cs, err := extractOne(category, raw[key])
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", key, err))
		}
		out[category] = cs
	}
	return out, problems
}

func extractOne(category models.Category, v interface{}) (models.CategoryScore, error) {
	cs := models.CategoryScore{Category: category}

	if n, ok := toFloat(v); ok {
		cs.Score = n
		return cs, nil
	}

	fields, ok := v.(map[string]interface{})
	if !ok {
		return cs, fmt.Errorf("unsupported score value of type %T", v)
	}

	if s, ok := fields["status_level"].(string); ok {
		cs.StatusLevel = s
	}
	if n, ok := toFloat(fields["max_possible"]); ok {
		cs.MaxPossible = n
	}
	if n, ok := toFloat(fields["percentage"]); ok {
		cs.Percentage = n
	}

	score, present := fields["score"]
	if !present {
		return cs, fmt.Errorf("missing score")
	}
	n, ok := toFloat(score)
	if !ok {
		return cs, fmt.Errorf("non-numeric score %v", score)
	}
	cs.Score = n
	return cs, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// FillStatus classifies entries that were stored without a status level,
// using the percentage or, failing that, score over max possible.
func FillStatus(scores map[models.Category]models.CategoryScore, scheme Scheme) {
	for category, cs := range scores {
		if cs.StatusLevel != "" {
			continue
		}
		pct := cs.Percentage
		if pct == 0 && cs.MaxPossible > 0 {
			pct = Round2(cs.Score / cs.MaxPossible * 100)
		}
		cs.StatusLevel = scheme.Classify(pct)
		scores[category] = cs
	}
}

// Order lists scores in the given category order. Categories not in order
// follow, sorted by name.
func Order(scores map[models.Category]models.CategoryScore, order []models.Category) []models.CategoryScore {
	r := models.ScoreResult{CategoryScores: scores, CategoryOrder: order}
	return r.Ordered()
}
