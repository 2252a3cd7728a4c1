package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"financial-clinic-workers/internal/models"
)

type matchFunc func(data []byte, ctx Context) bool

func matchJSON(data []byte, ctx Context) bool {
	r, err := ParseJSON(data)
	if err != nil {
		return false
	}
	return Evaluate(r, ctx)
}

// SelectVariation returns the first variation whose rule holds for ctx.
// A variation without a rule always holds. When nothing matches, the first
// variation is returned with matched set to false. ok is false only for an
// empty list.
func SelectVariation(variations []models.QuestionVariation, ctx Context) (v models.QuestionVariation, matched, ok bool) {
	return selectVariation(variations, ctx, matchJSON)
}

// SelectVariation is the cached form of the package-level SelectVariation.
func (c *Compiler) SelectVariation(variations []models.QuestionVariation, ctx Context) (v models.QuestionVariation, matched, ok bool) {
	return selectVariation(variations, ctx, c.MatchesJSON)
}

func selectVariation(variations []models.QuestionVariation, ctx Context, match matchFunc) (models.QuestionVariation, bool, bool) {
	if len(variations) == 0 {
		return models.QuestionVariation{}, false, false
	}
	for _, v := range variations {
		if match(v.Rule, ctx) {
			return v, true, true
		}
	}
	return variations[0], false, true
}

// AppliedRule records a demographic rule that matched.
type AppliedRule struct {
	ID       int64              `json:"id"`
	Name     string             `json:"name"`
	Priority int                `json:"priority"`
	Actions  models.RuleActions `json:"actions"`
}

// Selection is the outcome of applying demographic rules to a question set.
type Selection struct {
	Selected     []string      `json:"selected_questions"`
	Excluded     []string      `json:"excluded_questions"`
	Added        []string      `json:"added_questions"`
	Included     []string      `json:"included_variations,omitempty"`
	AppliedRules []AppliedRule `json:"applied_rules"`
	ProfileHash  string        `json:"profile_hash"`
}

// SelectQuestions applies active rules in ascending priority order.
// exclude_questions drops ids, add_questions appends ids, and
// include_questions only names variations for the caller to resolve.
func SelectQuestions(demographicRules []models.DemographicRule, ctx Context, baseIDs []string) Selection {
	return selectQuestions(demographicRules, ctx, baseIDs, matchJSON)
}

// SelectQuestions is the cached form of the package-level SelectQuestions.
func (c *Compiler) SelectQuestions(demographicRules []models.DemographicRule, ctx Context, baseIDs []string) Selection {
	return selectQuestions(demographicRules, ctx, baseIDs, c.MatchesJSON)
}

func selectQuestions(demographicRules []models.DemographicRule, ctx Context, baseIDs []string, match matchFunc) Selection {
	ordered := make([]models.DemographicRule, 0, len(demographicRules))
	for _, r := range demographicRules {
		if r.Active {
			ordered = append(ordered, r)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })

	selected := make([]string, len(baseIDs))
	copy(selected, baseIDs)
	present := make(map[string]bool, len(baseIDs))
	for _, id := range baseIDs {
		present[id] = true
	}

	sel := Selection{
		Excluded:     []string{},
		Added:        []string{},
		AppliedRules: []AppliedRule{},
	}

	for _, r := range ordered {
		if !match(r.Conditions, ctx) {
			continue
		}
		sel.AppliedRules = append(sel.AppliedRules, AppliedRule{
			ID:       r.ID,
			Name:     r.Name,
			Priority: r.Priority,
			Actions:  r.Actions,
		})
		sel.Included = append(sel.Included, r.Actions.IncludeQuestions...)

		for _, id := range r.Actions.ExcludeQuestions {
			if present[id] {
				present[id] = false
				sel.Excluded = append(sel.Excluded, id)
			}
		}
		for _, id := range r.Actions.AddQuestions {
			if !present[id] {
				present[id] = true
				selected = append(selected, id)
				sel.Added = append(sel.Added, id)
			}
		}
	}

	sel.Selected = make([]string, 0, len(selected))
	seen := make(map[string]bool, len(selected))
	for _, id := range selected {
		if present[id] && !seen[id] {
			sel.Selected = append(sel.Selected, id)
			seen[id] = true
		}
	}
	sel.ProfileHash = ProfileHash(ctx)
	return sel
}

// ProfileHash is a stable digest of the allowed rule fields in ctx, used as
// a cache key component for resolved question sets.
func ProfileHash(ctx Context) string {
	fields := make(map[string]string)
	for k, v := range ctx {
		if AllowedFields[k] && v != nil {
			fields[k] = stringify(v)
		}
	}
	// encoding/json writes map keys in sorted order.
	data, _ := json.Marshal(fields)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
