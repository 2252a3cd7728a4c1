package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-clinic-workers/internal/models"
)

func variation(id int64, rule string) models.QuestionVariation {
	v := models.QuestionVariation{ID: id, BaseQuestionID: "fc_q1", Name: "v", Active: true}
	if rule != "" {
		v.Rule = json.RawMessage(rule)
	}
	return v
}

func TestSelectVariation(t *testing.T) {
	variations := []models.QuestionVariation{
		variation(1, `{"nationality": "UAE"}`),
		variation(2, `{"age": {"gte": 30}}`),
		variation(3, ""),
	}

	tests := []struct {
		name            string
		ctx             Context
		expectedID      int64
		expectedMatched bool
	}{
		{"first rule matches", Context{"nationality": "UAE", "age": 40}, 1, true},
		{"second rule matches", Context{"nationality": "India", "age": 40}, 2, true},
		{"ruleless variation matches", Context{"nationality": "India", "age": 20}, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, matched, ok := SelectVariation(variations, tt.ctx)
			require.True(t, ok)
			assert.Equal(t, tt.expectedMatched, matched)
			assert.Equal(t, tt.expectedID, v.ID)
		})
	}
}

func TestSelectVariation_FallsBackToFirst(t *testing.T) {
	variations := []models.QuestionVariation{
		variation(7, `{"nationality": "UAE"}`),
		variation(8, `{"or": "broken"}`),
	}

	v, matched, ok := SelectVariation(variations, Context{"nationality": "UK"})
	assert.True(t, ok)
	assert.False(t, matched)
	assert.Equal(t, int64(7), v.ID)

	_, _, ok = SelectVariation(nil, Context{})
	assert.False(t, ok)
}

func TestCompiler_SelectVariation(t *testing.T) {
	c, err := NewCompiler(4)
	require.NoError(t, err)

	variations := []models.QuestionVariation{
		variation(1, `{"children": {"gte": 1}}`),
		variation(2, `{"children": 0}`),
	}
	v, matched, ok := c.SelectVariation(variations, Context{"children": 0})
	assert.True(t, ok)
	assert.True(t, matched)
	assert.Equal(t, int64(2), v.ID)
	assert.Equal(t, 2, c.Len())
}

func TestSelectQuestions(t *testing.T) {
	demographicRules := []models.DemographicRule{
		{
			ID: 2, Name: "no children", Priority: 20, Active: true,
			Conditions: json.RawMessage(`{"children": {"lt": 1}}`),
			Actions:    models.RuleActions{ExcludeQuestions: []string{"fc_q15", "fc_q99"}},
		},
		{
			ID: 1, Name: "expat extras", Priority: 10, Active: true,
			Conditions: json.RawMessage(`{"nationality": {"ne": "UAE"}}`),
			Actions: models.RuleActions{
				AddQuestions:     []string{"x_remittance"},
				IncludeQuestions: []string{"fc_q1_expat"},
			},
		},
		{
			ID: 3, Name: "inactive", Priority: 1, Active: false,
			Conditions: json.RawMessage(`{}`),
			Actions:    models.RuleActions{ExcludeQuestions: []string{"fc_q1"}},
		},
		{
			ID: 4, Name: "broken", Priority: 5, Active: true,
			Conditions: json.RawMessage(`{"and": "x"}`),
			Actions:    models.RuleActions{ExcludeQuestions: []string{"fc_q2"}},
		},
	}

	ctx := Context{"nationality": "India", "children": 0}
	sel := SelectQuestions(demographicRules, ctx, []string{"fc_q1", "fc_q2", "fc_q15"})

	assert.Equal(t, []string{"fc_q1", "fc_q2", "x_remittance"}, sel.Selected)
	assert.Equal(t, []string{"fc_q15"}, sel.Excluded)
	assert.Equal(t, []string{"x_remittance"}, sel.Added)
	assert.Equal(t, []string{"fc_q1_expat"}, sel.Included)
	require.Len(t, sel.AppliedRules, 2)
	assert.Equal(t, int64(1), sel.AppliedRules[0].ID)
	assert.Equal(t, int64(2), sel.AppliedRules[1].ID)
	assert.Len(t, sel.ProfileHash, 64)
}

func TestProfileHash(t *testing.T) {
	a := ProfileHash(Context{"nationality": "UAE", "age": 30, "favourite_colour": "blue"})
	b := ProfileHash(Context{"age": 30.0, "nationality": "UAE"})
	c := ProfileHash(Context{"age": 31, "nationality": "UAE"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
