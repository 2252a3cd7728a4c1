// cmd/tools/worker-generator/main.go
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"financial-clinic-workers/pkg/registry"
)

const modulePath = "financial-clinic-workers"

// WorkerData holds data for templates
type WorkerData struct {
	Module       string
	Name         string
	PackageName  string
	Directory    string
	TaskType     string
	Category     string
	Description  string
	Timeout      string
	Retries      int
	ErrorCodes   []string
	InputFields  []Field
	OutputFields []Field
}

// Field is one generated struct field.
type Field struct {
	GoName   string
	GoType   string
	JSONName string
	Required bool
}

func (f Field) Tag() string {
	if f.Required {
		return fmt.Sprintf("`json:\"%s\"`", f.JSONName)
	}
	return fmt.Sprintf("`json:\"%s,omitempty\"`", f.JSONName)
}

var errExists = errors.New("worker directory already exists")

// schemaFields turns the top-level properties of a JSON schema into fields,
// sorted by name.
func schemaFields(schema map[string]interface{}) []Field {
	props, _ := schema["properties"].(map[string]interface{})
	required := map[string]bool{}
	if req, ok := schema["required"].([]interface{}); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		details, _ := props[name].(map[string]interface{})
		fields = append(fields, Field{
			GoName:   goName(name),
			GoType:   goType(details),
			JSONName: name,
			Required: required[name],
		})
	}
	return fields
}

// goType maps a JSON schema property to a Go type.
func goType(details map[string]interface{}) string {
	t, _ := details["type"].(string)
	switch t {
	case "string":
		if f, _ := details["format"].(string); f == "date-time" {
			return "time.Time"
		}
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		if items, ok := details["items"].(map[string]interface{}); ok {
			if it := goType(items); it != "interface{}" {
				return "[]" + it
			}
		}
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

// goName converts a camelCase or snake_case property to an exported name.
func goName(prop string) string {
	parts := strings.FieldsFunc(prop, func(r rune) bool { return r == '_' || r == '-' })
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	name := b.String()
	if strings.HasSuffix(name, "Id") {
		name = strings.TrimSuffix(name, "Id") + "ID"
	}
	return name
}

func packageName(dir string) string {
	return strings.ReplaceAll(dir, "-", "")
}

func newWorkerData(act registry.Activity, dir string) WorkerData {
	if dir == "" {
		dir = act.TaskType
	}
	d, err := act.TimeoutDuration()
	if err != nil {
		d = registry.DefaultTimeout
	}
	timeout := d.String()
	return WorkerData{
		Module:       modulePath,
		Name:         act.DisplayName,
		PackageName:  packageName(dir),
		Directory:    dir,
		TaskType:     act.TaskType,
		Category:     act.Category,
		Description:  act.Description,
		Timeout:      timeout,
		Retries:      act.Retries,
		ErrorCodes:   act.ErrorCodes,
		InputFields:  schemaFields(act.InputSchema),
		OutputFields: schemaFields(act.OutputSchema),
	}
}

func usesTime(fields []Field) bool {
	for _, f := range fields {
		if f.GoType == "time.Time" {
			return true
		}
	}
	return false
}

const handlerTemplate = `// internal/workers/{{ .Category }}/{{ .Directory }}/handler.go
package {{ .PackageName }}

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "{{ .Module }}/internal/common/errors"
	"{{ .Module }}/internal/common/logger"
)

const (
	TaskType = "{{ .TaskType }}"
)

// Handler runs the {{ .Name }} activity.
type Handler struct {
	config     *Config
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		logger:     l,
		errHandler: apperrors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errHandler.HandleJobError(ctx, client, job, apperrors.NewParseError(err))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Output{}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
`

const configTemplate = `// internal/workers/{{ .Category }}/{{ .Directory }}/config.go
package {{ .PackageName }}

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	timeout, _ := time.ParseDuration("{{ .Timeout }}")
	return &Config{
		Timeout: timeout,
	}
}
`

const modelsTemplate = `// internal/workers/{{ .Category }}/{{ .Directory }}/models.go
package {{ .PackageName }}
{{ if .UsesTime }}
import "time"
{{ end }}
type Input struct {
{{- range .InputFields }}
	{{ .GoName }} {{ .GoType }} {{ .Tag }}
{{- end }}
}

type Output struct {
{{- range .OutputFields }}
	{{ .GoName }} {{ .GoType }} {{ .Tag }}
{{- end }}
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "{{ .Module }}/internal/common/errors"
	"{{ .Module }}/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(createTestConfig(), logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	h := createTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.NotNil(t, out)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Cancelled(t *testing.T) {
	h := createTestHandler(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Execute(ctx, &Input{})
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeInternal, stdErr.Code)
}
`

const readmeTemplate = `# {{ .Name }}

{{ .Description }}

- Task type: ` + "`{{ .TaskType }}`" + `
- Timeout: {{ .Timeout }}
- Retries: {{ .Retries }}

## Input
{{ range .InputFields }}
- ` + "`{{ .JSONName }}`" + ` ({{ .GoType }}){{ if .Required }}, required{{ end }}
{{- else }}
No input variables.
{{- end }}

## Output
{{ range .OutputFields }}
- ` + "`{{ .JSONName }}`" + ` ({{ .GoType }})
{{- else }}
No output variables.
{{- end }}

## Error codes
{{ range .ErrorCodes }}
- {{ . }}
{{- else }}
None declared.
{{- end }}

## Registration

Add the worker to ` + "`registerWorkers`" + ` in cmd/worker-manager/workers.go and a
` + "`{{ .TaskType }}`" + ` entry under ` + "`workers`" + ` in configs/config.yaml.
`

type templateData struct {
	WorkerData
	UsesTime bool
}

var templates = map[string]string{
	"handler.go":      handlerTemplate,
	"config.go":       configTemplate,
	"models.go":       modelsTemplate,
	"handler_test.go": testTemplate,
	"README.md":       readmeTemplate,
}

// generate renders the scaffold for data under outputDir and returns the
// files written, in name order.
func generate(data WorkerData, outputDir string, force bool) ([]string, error) {
	workerDir := filepath.Join(outputDir, data.Category, data.Directory)
	if _, err := os.Stat(workerDir); err == nil && !force {
		return nil, fmt.Errorf("%w: %s", errExists, workerDir)
	}
	if err := os.MkdirAll(workerDir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	td := templateData{
		WorkerData: data,
		UsesTime:   usesTime(data.InputFields) || usesTime(data.OutputFields),
	}

	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	written := make([]string, 0, len(names))
	for _, name := range names {
		tmpl, err := template.New(name).Parse(templates[name])
		if err != nil {
			return written, fmt.Errorf("parse template %s: %w", name, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, td); err != nil {
			return written, fmt.Errorf("render %s: %w", name, err)
		}

		content := buf.Bytes()
		if strings.HasSuffix(name, ".go") {
			formatted, err := format.Source(content)
			if err != nil {
				return written, fmt.Errorf("format %s: %w", name, err)
			}
			content = formatted
		}

		path := filepath.Join(workerDir, name)
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func loadRegistry(path string) (*registry.ActivityRegistry, error) {
	if path == "" {
		return registry.Default()
	}
	return registry.LoadRegistry(path)
}

// findActivity matches either the activity id or its task type.
func findActivity(reg *registry.ActivityRegistry, key string) (registry.Activity, bool) {
	for _, a := range reg.Activities {
		if a.ID == key {
			return a, true
		}
	}
	return reg.Find(key)
}

func main() {
	activity := flag.String("activity", "", "Activity id or task type (e.g. assessment.result.publish)")
	outputDir := flag.String("output", "./internal/workers", "Root directory for generated workers")
	registryPath := flag.String("registry", "", "Activity registry JSON file (defaults to the built-in registry)")
	dir := flag.String("dir", "", "Worker directory name (defaults to the task type)")
	force := flag.Bool("force", false, "Overwrite an existing worker directory")
	flag.Parse()

	if *activity == "" {
		fmt.Println("Usage: worker-generator -activity <id|taskType> [-output dir] [-registry path] [-dir name] [-force]")
		os.Exit(1)
	}

	reg, err := loadRegistry(*registryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading registry: %v\n", err)
		os.Exit(1)
	}

	act, ok := findActivity(reg, *activity)
	if !ok {
		fmt.Fprintf(os.Stderr, "Activity %q not found in registry\n", *activity)
		os.Exit(1)
	}

	files, err := generate(newWorkerData(act, *dir), *outputDir, *force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, f := range files {
		fmt.Printf("✓ Generated %s\n", f)
	}
}
