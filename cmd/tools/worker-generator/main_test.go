package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-clinic-workers/pkg/registry"
)

func TestGoName(t *testing.T) {
	tests := map[string]string{
		"assessmentId":    "AssessmentID",
		"status_band":     "StatusBand",
		"total-questions": "TotalQuestions",
		"variant":         "Variant",
	}
	for in, want := range tests {
		assert.Equal(t, want, goName(in), in)
	}
}

func TestGoType(t *testing.T) {
	tests := []struct {
		details map[string]interface{}
		want    string
	}{
		{map[string]interface{}{"type": "string"}, "string"},
		{map[string]interface{}{"type": "string", "format": "date-time"}, "time.Time"},
		{map[string]interface{}{"type": "integer"}, "int"},
		{map[string]interface{}{"type": "number"}, "float64"},
		{map[string]interface{}{"type": "boolean"}, "bool"},
		{map[string]interface{}{"type": "object"}, "map[string]interface{}"},
		{map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}}, "[]string"},
		{map[string]interface{}{"type": "array"}, "[]interface{}"},
		{map[string]interface{}{}, "interface{}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, goType(tt.details))
	}
}

func TestSchemaFields_SortedWithRequired(t *testing.T) {
	fields := schemaFields(map[string]interface{}{
		"properties": map[string]interface{}{
			"variant":      map[string]interface{}{"type": "string"},
			"assessmentId": map[string]interface{}{"type": "string"},
		},
		"required": []interface{}{"assessmentId"},
	})

	require.Len(t, fields, 2)
	assert.Equal(t, "AssessmentID", fields[0].GoName)
	assert.True(t, fields[0].Required)
	assert.Equal(t, "`json:\"assessmentId\"`", fields[0].Tag())
	assert.Equal(t, "`json:\"variant,omitempty\"`", fields[1].Tag())
}

func TestFindActivity(t *testing.T) {
	reg, err := registry.Default()
	require.NoError(t, err)

	byID, ok := findActivity(reg, "assessment.result.publish")
	require.True(t, ok)
	byTask, ok := findActivity(reg, "publish-assessment-result")
	require.True(t, ok)
	assert.Equal(t, byID.ID, byTask.ID)

	_, ok = findActivity(reg, "assessment.unknown.task")
	assert.False(t, ok)
}

func TestGenerate(t *testing.T) {
	reg, err := registry.Default()
	require.NoError(t, err)
	act, ok := findActivity(reg, "assessment.result.publish")
	require.True(t, ok)

	out := t.TempDir()
	data := newWorkerData(act, "publish-result")
	assert.Equal(t, "publishresult", data.PackageName)

	files, err := generate(data, out, false)
	require.NoError(t, err)
	assert.Len(t, files, len(templates))

	dir := filepath.Join(out, "assessment", "publish-result")
	handler, err := os.ReadFile(filepath.Join(dir, "handler.go"))
	require.NoError(t, err)
	assert.Contains(t, string(handler), `TaskType = "publish-assessment-result"`)
	assert.Contains(t, string(handler), `apperrors "financial-clinic-workers/internal/common/errors"`)

	models, err := os.ReadFile(filepath.Join(dir, "models.go"))
	require.NoError(t, err)
	assert.Contains(t, string(models), "AssessmentID")

	_, err = generate(data, out, false)
	assert.ErrorIs(t, err, errExists)

	_, err = generate(data, out, true)
	assert.NoError(t, err)
}
