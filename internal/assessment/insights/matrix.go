// internal/assessment/insights/matrix.go
package insights

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"financial-clinic-workers/internal/assessment/rules"
	"financial-clinic-workers/internal/assessment/scoring"
	"financial-clinic-workers/internal/models"
)

//go:embed data/matrix.yaml
var defaultMatrix []byte

// UnknownPriority ranks categories that have no configured priority.
const UnknownPriority = 99

type matrixDocument struct {
	Priorities map[models.Category]int             `yaml:"priorities"`
	Aliases    map[models.Category]models.Category `yaml:"aliases"`
	Entries    []entryDocument                     `yaml:"entries"`
}

type entryDocument struct {
	Category models.Category      `yaml:"category"`
	Status   string               `yaml:"status"`
	When     interface{}          `yaml:"when"`
	Text     models.LocalizedText `yaml:"text"`
}

type entry struct {
	when rules.Rule
	text models.LocalizedText
}

type matrixKey struct {
	category models.Category
	status   string
}

// Matrix holds insight texts per category and status level. Several entries
// may share a key; the first whose condition holds is used.
type Matrix struct {
	entries    map[matrixKey][]entry
	priorities map[models.Category]int
	aliases    map[models.Category]models.Category
}

// DefaultMatrix parses the built-in insight texts.
func DefaultMatrix() (*Matrix, error) {
	return ParseMatrix(defaultMatrix)
}

func ParseMatrix(data []byte) (*Matrix, error) {
	var doc matrixDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse insight matrix: %w", err)
	}

	m := &Matrix{
		entries:    make(map[matrixKey][]entry),
		priorities: doc.Priorities,
		aliases:    doc.Aliases,
	}
	if m.priorities == nil {
		m.priorities = map[models.Category]int{}
	}
	if m.aliases == nil {
		m.aliases = map[models.Category]models.Category{}
	}

	for i, e := range doc.Entries {
		if e.Text.EN == "" {
			return nil, fmt.Errorf("insight entry %d (%s/%s) has no English text", i, e.Category, e.Status)
		}
		when, err := rules.Parse(e.When)
		if err != nil {
			return nil, fmt.Errorf("insight entry %d (%s/%s): %w", i, e.Category, e.Status, err)
		}
		k := matrixKey{category: e.Category, status: e.Status}
		m.entries[k] = append(m.entries[k], entry{when: when, text: e.Text})
	}
	return m, nil
}

// Priority returns the tie-break rank for category; lower ranks first.
func (m *Matrix) Priority(category models.Category) int {
	if p, ok := m.priorities[category]; ok {
		return p
	}
	return UnknownPriority
}

// Text returns the insight text for a category and status. A
// needs_improvement status without its own text uses the good text.
func (m *Matrix) Text(category models.Category, status string, ctx rules.Context, lang models.Language) (string, bool) {
	candidates := []models.Category{category}
	if alias, ok := m.aliases[category]; ok {
		candidates = append(candidates, alias)
	}
	statuses := []string{status}
	if status == scoring.StatusNeedsImprovement {
		statuses = append(statuses, scoring.StatusGood)
	}

	for _, s := range statuses {
		for _, c := range candidates {
			for _, e := range m.entries[matrixKey{category: c, status: s}] {
				if rules.Evaluate(e.when, ctx) {
					return e.text.In(lang), true
				}
			}
		}
	}
	return "", false
}
