package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-clinic-workers/internal/assessment/catalog"
	"financial-clinic-workers/internal/models"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func answersJSON(t *testing.T, value int) string {
	answers := models.AnswerSet{}
	for _, q := range catalog.MustLoad(models.VariantFinancialClinic).QuestionsForProfile(0) {
		answers[q.ID] = value
	}
	data, err := json.Marshal(submission{Answers: answers})
	require.NoError(t, err)
	return string(data)
}

func TestScoreCommand(t *testing.T) {
	out, err := run(t, answersJSON(t, 5), "score", "-")
	require.NoError(t, err)

	var report scoreReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 100.0, report.TotalScore)
	assert.Equal(t, 14, report.QuestionsAnswered)
	assert.NotEmpty(t, report.Insights)
}

func TestScoreCommand_InvalidAnswers(t *testing.T) {
	_, err := run(t, `{"answers": {"fc_q1": 9}}`, "score", "-")
	assert.ErrorIs(t, err, errInvalid)
}

func TestQuestionsCommand(t *testing.T) {
	out, err := run(t, "", "questions", "--children", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "fc_q15")
	assert.Contains(t, out, "15 questions, total weight 100")

	out, err = run(t, "", "questions", "--variant", "legacy", "--json", "--lang", "ar")
	require.NoError(t, err)
	var qs []models.LocalizedQuestion
	require.NoError(t, json.Unmarshal([]byte(out), &qs))
	assert.Len(t, qs, 15)
}

func TestQuestionsCommand_ByCategory(t *testing.T) {
	tests := []struct {
		name     string
		children string
		expected []string
	}{
		{
			name:     "without children",
			children: "0",
			expected: []string{
				"Income Stream (2 questions, weight 15)",
				"Protecting Your Family (1 questions, weight 5)",
				"total weight 95",
			},
		},
		{
			name:     "with children",
			children: "2",
			expected: []string{
				"Protecting Your Family (2 questions, weight 10)",
				"[fc_q15]",
				"total weight 100",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "", "questions", "--by-category", "--children", tt.children)
			require.NoError(t, err)
			for _, want := range tt.expected {
				assert.Contains(t, out, want)
			}
			assert.Less(t, strings.Index(out, "Income Stream"), strings.Index(out, "Savings Habit"))
		})
	}
}

func TestLintCommand(t *testing.T) {
	out, err := run(t, `{"conditions": {"age": {"gte": 30}}, "actions": {"exclude_questions": ["fc_q15"]}}`, "lint", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"valid": true`)

	_, err = run(t, `{"conditions": {"religion": "x"}}`, "lint", "-")
	assert.ErrorIs(t, err, errInvalid)
}

func TestCatalogCheckCommand(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("variant: pilot\ncategories: []\nquestions: []\n"), 0o600))

	_, err := run(t, "", "catalog", "check", bad)
	var catErr *catalog.Error
	assert.ErrorAs(t, err, &catErr)
}
