package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"get-assessment-questions",
		"validate-assessment-answers",
		"calculate-assessment-score",
		"generate-assessment-insights",
		"recommend-products",
		"calculate-assessment-result",
		"lint-demographic-rule",
		"publish-assessment-result",
	}, reg.TaskTypes())

	a, ok := reg.Find("calculate-assessment-result")
	require.True(t, ok)
	assert.Equal(t, "assessment.result.calculate", a.ID)
	assert.Contains(t, a.ErrorCodes, "RESULT_SCHEMA_VIOLATION")
	assert.Equal(t, "object", a.OutputSchema["type"])

	_, ok = reg.Find("send-notification")
	assert.False(t, ok)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"bad id", `{"activities":[{"id":"Assessment-Score","taskType":"x"}]}`, "domain.subdomain.action"},
		{"missing task type", `{"activities":[{"id":"a.b.c"}]}`, "taskType is required"},
		{"duplicate", `{"activities":[{"id":"a.b.c","taskType":"x"},{"id":"a.b.d","taskType":"x"}]}`, "duplicate taskType"},
		{"not json", `{`, "parse activity registry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"2","activities":[{"id":"a.b.c","taskType":"x"}]}`), 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2", reg.Version)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestActivity_TimeoutAndStatus(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	for _, a := range reg.Activities {
		d, err := a.TimeoutDuration()
		require.NoError(t, err, a.ID)
		assert.Greater(t, int64(d), int64(0), a.ID)
		assert.True(t, a.Implemented(), a.ID)
	}

	d, err := Activity{}.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, d)

	_, err = Activity{Timeout: "soon"}.TimeoutDuration()
	assert.Error(t, err)
	assert.False(t, Activity{ImplementationStatus: StatusPlanned}.Implemented())
}
