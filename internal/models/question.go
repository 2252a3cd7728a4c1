// internal/models/question.go
package models

// Variant identifies a question catalog and the band schemes that go with it.
type Variant string

const (
	VariantFinancialClinic Variant = "financial_clinic"
	VariantLegacy          Variant = "legacy"
)

type Category string

// Financial Clinic categories.
const (
	CategoryIncomeStream       Category = "Income Stream"
	CategorySavingsHabit       Category = "Savings Habit"
	CategoryEmergencySavings   Category = "Emergency Savings"
	CategoryDebtManagement     Category = "Debt Management"
	CategoryRetirementPlanning Category = "Retirement Planning"
	CategoryProtectingFamily   Category = "Protecting Your Family"
)

// Legacy seven-pillar categories not shared with the Financial Clinic set.
const (
	CategoryMonthlyExpenses Category = "Monthly Expenses Management"
	CategoryProtection      Category = "Protection"
	CategoryFuturePlanning  Category = "Future Planning"
)

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// MaxOptionValue is the best answer value on every scored question.
const MaxOptionValue = 5

// MinOptionValue is the worst answer value on every scored question.
const MinOptionValue = 1

type LocalizedText struct {
	EN string `json:"en" yaml:"en"`
	AR string `json:"ar,omitempty" yaml:"ar"`
}

// In returns the text for lang, falling back to English.
func (t LocalizedText) In(lang Language) string {
	if lang == LanguageArabic && t.AR != "" {
		return t.AR
	}
	return t.EN
}

type Option struct {
	Value int           `json:"value" yaml:"value"`
	Label LocalizedText `json:"label" yaml:"label"`
}

// Condition gates a conditional question on a profile attribute.
// Only the "children" field is supported: the question applies when the
// respondent's children count is at least Value.
type Condition struct {
	Field string `json:"field" yaml:"field"`
	Value int    `json:"value" yaml:"value"`
}

const ConditionFieldChildren = "children"

type Question struct {
	ID          string        `json:"id" yaml:"id"`
	Number      int           `json:"number" yaml:"number"`
	Category    Category      `json:"category" yaml:"category"`
	Weight      int           `json:"weight" yaml:"weight"`
	Text        LocalizedText `json:"text" yaml:"text"`
	Options     []Option      `json:"options" yaml:"options"`
	Conditional bool          `json:"conditional" yaml:"conditional"`
	Condition   *Condition    `json:"condition,omitempty" yaml:"condition"`
}

// Applies reports whether the question belongs to the applicable set for a
// respondent with the given number of children.
func (q Question) Applies(children int) bool {
	if !q.Conditional {
		return true
	}
	if q.Condition == nil || q.Condition.Field != ConditionFieldChildren {
		return false
	}
	threshold := q.Condition.Value
	if threshold < 1 {
		threshold = 1
	}
	return children >= threshold
}

// HasOption reports whether value is one of the question's option values.
func (q Question) HasOption(value int) bool {
	for _, opt := range q.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// Localized returns a copy with text and option labels collapsed to lang.
func (q Question) Localized(lang Language) LocalizedQuestion {
	opts := make([]LocalizedOption, len(q.Options))
	for i, o := range q.Options {
		opts[i] = LocalizedOption{Value: o.Value, Label: o.Label.In(lang)}
	}
	return LocalizedQuestion{
		ID:          q.ID,
		Number:      q.Number,
		Category:    q.Category,
		Weight:      q.Weight,
		Text:        q.Text.In(lang),
		Options:     opts,
		Conditional: q.Conditional,
	}
}

type LocalizedOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

type LocalizedQuestion struct {
	ID          string            `json:"id"`
	Number      int               `json:"number"`
	Category    Category          `json:"category"`
	Weight      int               `json:"weight"`
	Text        string            `json:"text"`
	Options     []LocalizedOption `json:"options"`
	Conditional bool              `json:"conditional"`
	VariationID int64             `json:"variation_id,omitempty"`
}
