// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"financial-clinic-workers/pkg/registry"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateDocument checks doc against a JSON schema held as a Go map.
// Structs are validated through their json encoding.
func ValidateDocument(schema map[string]interface{}, doc interface{}) *ValidationResult {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{
			Field:   "(schema)",
			Message: err.Error(),
			Code:    "INVALID_SCHEMA",
		}}}
	}
	return validateWith(compiled, doc)
}

func validateWith(schema *gojsonschema.Schema, doc interface{}) *ValidationResult {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{
			Field:   "(root)",
			Message: fmt.Sprintf("document could not be loaded: %v", err),
			Code:    "INVALID_DOCUMENT",
		}}}
	}
	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	errs := make([]ValidationError, len(result.Errors()))
	for i, desc := range result.Errors() {
		errs[i] = ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		}
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
	return &ValidationResult{Errors: errs}
}

// SchemaSet holds the compiled input and output schemas of every registered
// activity, keyed by task type.
type SchemaSet struct {
	inputs  map[string]*gojsonschema.Schema
	outputs map[string]*gojsonschema.Schema
}

func NewSchemaSet(reg *registry.ActivityRegistry) (*SchemaSet, error) {
	set := &SchemaSet{
		inputs:  make(map[string]*gojsonschema.Schema, len(reg.Activities)),
		outputs: make(map[string]*gojsonschema.Schema, len(reg.Activities)),
	}
	for _, a := range reg.Activities {
		if len(a.InputSchema) > 0 {
			s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.InputSchema))
			if err != nil {
				return nil, fmt.Errorf("compile input schema for %s: %w", a.TaskType, err)
			}
			set.inputs[a.TaskType] = s
		}
		if len(a.OutputSchema) > 0 {
			s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.OutputSchema))
			if err != nil {
				return nil, fmt.Errorf("compile output schema for %s: %w", a.TaskType, err)
			}
			set.outputs[a.TaskType] = s
		}
	}
	return set, nil
}

// DefaultSchemaSet compiles the schemas of the built-in registry.
func DefaultSchemaSet() (*SchemaSet, error) {
	reg, err := registry.Default()
	if err != nil {
		return nil, err
	}
	return NewSchemaSet(reg)
}

// ValidateInput returns a valid result for task types without an input schema.
func (s *SchemaSet) ValidateInput(taskType string, doc interface{}) *ValidationResult {
	schema, ok := s.inputs[taskType]
	if !ok {
		return &ValidationResult{Valid: true}
	}
	return validateWith(schema, doc)
}

func (s *SchemaSet) ValidateOutput(taskType string, doc interface{}) *ValidationResult {
	schema, ok := s.outputs[taskType]
	if !ok {
		return &ValidationResult{Valid: true}
	}
	return validateWith(schema, doc)
}

func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField includes errors on nested properties of field.
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}
