// internal/assessment/catalog/catalog.go
package catalog

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"financial-clinic-workers/internal/models"
)

//go:embed data/*.yaml
var embedded embed.FS

var embeddedFiles = map[models.Variant]string{
	models.VariantFinancialClinic: "data/financial_clinic.yaml",
	models.VariantLegacy:          "data/legacy.yaml",
}

// Error lists every problem found while loading a catalog. A catalog that
// fails to load must stop the process.
type Error struct {
	Source   string
	Problems []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid question catalog %s: %s", e.Source, strings.Join(e.Problems, "; "))
}

type document struct {
	Variant    models.Variant    `yaml:"variant"`
	Categories []models.Category `yaml:"categories"`
	Questions  []models.Question `yaml:"questions"`
}

// Catalog is the immutable, ordered set of survey questions for one variant.
type Catalog struct {
	variant    models.Variant
	categories []models.Category
	questions  []models.Question
	byID       map[string]int
}

// Variants returns the built-in catalog variants.
func Variants() []models.Variant {
	return []models.Variant{models.VariantFinancialClinic, models.VariantLegacy}
}

// Load parses the built-in catalog for variant.
func Load(variant models.Variant) (*Catalog, error) {
	path, ok := embeddedFiles[variant]
	if !ok {
		return nil, fmt.Errorf("unknown catalog variant %q", variant)
	}
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded catalog: %w", err)
	}
	return Parse(path, data)
}

// MustLoad is Load for built-in variants known to be valid.
func MustLoad(variant models.Variant) *Catalog {
	c, err := Load(variant)
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFile parses a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(source string, data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &Error{Source: source, Problems: []string{err.Error()}}
	}
	return New(doc.Variant, doc.Categories, doc.Questions, source)
}

// New builds a catalog from in-memory definitions. Questions are ordered by
// number regardless of input order.
func New(variant models.Variant, categories []models.Category, questions []models.Question, source string) (*Catalog, error) {
	if source == "" {
		source = string(variant)
	}
	if problems := check(categories, questions); len(problems) > 0 {
		return nil, &Error{Source: source, Problems: problems}
	}

	qs := make([]models.Question, len(questions))
	copy(qs, questions)
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].Number < qs[j].Number })

	byID := make(map[string]int, len(qs))
	for i, q := range qs {
		byID[q.ID] = i
	}

	cats := make([]models.Category, len(categories))
	copy(cats, categories)

	return &Catalog{
		variant:    variant,
		categories: cats,
		questions:  qs,
		byID:       byID,
	}, nil
}

func check(categories []models.Category, questions []models.Question) []string {
	var problems []string
	if len(categories) == 0 {
		problems = append(problems, "no categories declared")
	}
	if len(questions) == 0 {
		problems = append(problems, "no questions declared")
	}

	known := make(map[models.Category]bool, len(categories))
	for _, c := range categories {
		if known[c] {
			problems = append(problems, fmt.Sprintf("duplicate category %q", c))
		}
		known[c] = true
	}

	ids := make(map[string]bool, len(questions))
	numbers := make(map[int]bool, len(questions))
	for _, q := range questions {
		if q.ID == "" {
			problems = append(problems, fmt.Sprintf("question %d has no id", q.Number))
			continue
		}
		if ids[q.ID] {
			problems = append(problems, fmt.Sprintf("duplicate question id %q", q.ID))
		}
		ids[q.ID] = true
		if numbers[q.Number] {
			problems = append(problems, fmt.Sprintf("duplicate question number %d", q.Number))
		}
		numbers[q.Number] = true

		if !known[q.Category] {
			problems = append(problems, fmt.Sprintf("question %s references unknown category %q", q.ID, q.Category))
		}
		if q.Weight <= 0 {
			problems = append(problems, fmt.Sprintf("question %s has non-positive weight %d", q.ID, q.Weight))
		}
		if q.Text.EN == "" {
			problems = append(problems, fmt.Sprintf("question %s has no English text", q.ID))
		}
		if len(q.Options) < 2 {
			problems = append(problems, fmt.Sprintf("question %s has %d options, need at least 2", q.ID, len(q.Options)))
		}
		values := make(map[int]bool, len(q.Options))
		for _, o := range q.Options {
			if o.Value < models.MinOptionValue || o.Value > models.MaxOptionValue {
				problems = append(problems, fmt.Sprintf("question %s option value %d out of range", q.ID, o.Value))
			}
			if values[o.Value] {
				problems = append(problems, fmt.Sprintf("question %s has duplicate option value %d", q.ID, o.Value))
			}
			values[o.Value] = true
		}
		if q.Conditional {
			if q.Condition == nil {
				problems = append(problems, fmt.Sprintf("conditional question %s has no condition", q.ID))
			} else if q.Condition.Field != models.ConditionFieldChildren {
				problems = append(problems, fmt.Sprintf("question %s uses unsupported condition field %q", q.ID, q.Condition.Field))
			}
		}
	}
	return problems
}

func (c *Catalog) Variant() models.Variant {
	return c.variant
}

// Categories returns categories in declaration order.
func (c *Catalog) Categories() []models.Category {
	out := make([]models.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Questions returns every question, conditional ones included.
func (c *Catalog) Questions() []models.Question {
	out := make([]models.Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// QuestionsForProfile returns the applicable questions for a respondent
// with the given number of children, ordered by number.
func (c *Catalog) QuestionsForProfile(children int) []models.Question {
	out := make([]models.Question, 0, len(c.questions))
	for _, q := range c.questions {
		if q.Applies(children) {
			out = append(out, q)
		}
	}
	return out
}

func (c *Catalog) Question(id string) (models.Question, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Question{}, false
	}
	return c.questions[i], true
}

// QuestionsByCategory groups the applicable questions by category.
func (c *Catalog) QuestionsByCategory(children int) map[models.Category][]models.Question {
	out := make(map[models.Category][]models.Question, len(c.categories))
	for _, q := range c.QuestionsForProfile(children) {
		out[q.Category] = append(out[q.Category], q)
	}
	return out
}

// TotalWeight sums the weights of the applicable questions.
func (c *Catalog) TotalWeight(children int) int {
	total := 0
	for _, q := range c.QuestionsForProfile(children) {
		total += q.Weight
	}
	return total
}

// Localized returns the applicable questions rendered in lang.
func (c *Catalog) Localized(children int, lang models.Language) []models.LocalizedQuestion {
	qs := c.QuestionsForProfile(children)
	out := make([]models.LocalizedQuestion, len(qs))
	for i, q := range qs {
		out[i] = q.Localized(lang)
	}
	return out
}

// Set holds one loaded catalog per variant.
type Set map[models.Variant]*Catalog

// LoadAll loads every built-in variant.
func LoadAll() (Set, error) {
	set := make(Set, len(embeddedFiles))
	for _, v := range Variants() {
		c, err := Load(v)
		if err != nil {
			return nil, err
		}
		set[v] = c
	}
	return set, nil
}

// Get resolves variant, using fallback when variant is empty.
func (s Set) Get(variant, fallback models.Variant) (*Catalog, error) {
	if variant == "" {
		variant = fallback
	}
	c, ok := s[variant]
	if !ok {
		return nil, fmt.Errorf("unknown catalog variant %q", variant)
	}
	return c, nil
}
