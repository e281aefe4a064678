package validation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema is the root of an object schema. AdditionalProperties is always
// serialized so that false survives encoding.
type JSONSchema struct {
	Type                 string              `json:"type"`
	Description          string              `json:"description,omitempty"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

type Property struct {
	Type                 string              `json:"type"`
	Description          string              `json:"description,omitempty"`
	Minimum              *float64            `json:"minimum,omitempty"`
	Maximum              *float64            `json:"maximum,omitempty"`
	MinLength            *int                `json:"minLength,omitempty"`
	MaxLength            *int                `json:"maxLength,omitempty"`
	MaxItems             *int                `json:"maxItems,omitempty"`
	Items                *Property           `json:"items,omitempty"`      // For array validation
	Properties           map[string]Property `json:"properties,omitempty"` // For nested objects
	Required             []string            `json:"required,omitempty"`   // For nested objects
	AdditionalProperties *bool               `json:"additionalProperties,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ToMap converts the schema to the generic form expected by API clients.
func (s JSONSchema) ToMap() (map[string]interface{}, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	return out, nil
}

// Validate checks a decoded Go value against the schema.
func Validate(document interface{}, schema JSONSchema) (*ValidationResult, error) {
	return validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(document))
}

func validate(schemaLoader, documentLoader gojsonschema.JSONLoader) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

// CheckStrict verifies the constraints structured-output strict mode imposes:
// every object lists all of its properties as required and forbids extras.
func CheckStrict(schema JSONSchema) error {
	if schema.Type != "object" {
		return fmt.Errorf("root: type must be object, got %q", schema.Type)
	}
	if schema.AdditionalProperties {
		return fmt.Errorf("root: additionalProperties must be false")
	}
	if err := checkAllRequired("root", schema.Properties, schema.Required); err != nil {
		return err
	}
	for _, name := range sortedKeys(schema.Properties) {
		if err := checkStrictProperty(name, schema.Properties[name]); err != nil {
			return err
		}
	}
	return nil
}

func checkStrictProperty(path string, prop Property) error {
	switch prop.Type {
	case "object":
		if prop.AdditionalProperties == nil || *prop.AdditionalProperties {
			return fmt.Errorf("%s: additionalProperties must be false", path)
		}
		if err := checkAllRequired(path, prop.Properties, prop.Required); err != nil {
			return err
		}
		for _, name := range sortedKeys(prop.Properties) {
			if err := checkStrictProperty(path+"."+name, prop.Properties[name]); err != nil {
				return err
			}
		}
	case "array":
		if prop.Items == nil {
			return fmt.Errorf("%s: array must declare items", path)
		}
		return checkStrictProperty(path+"[]", *prop.Items)
	}
	return nil
}

func checkAllRequired(path string, props map[string]Property, required []string) error {
	listed := make(map[string]bool, len(required))
	for _, r := range required {
		listed[r] = true
	}
	for _, name := range sortedKeys(props) {
		if !listed[name] {
			return fmt.Errorf("%s: property %q must be required", path, name)
		}
	}
	return nil
}

func sortedKeys(props map[string]Property) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	return len(vr.GetErrorsForField(field)) > 0
}

// GetErrorsForField returns errors for a field and anything nested under it.
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

func IntPtr(i int) *int {
	return &i
}

func FloatPtr(f float64) *float64 {
	return &f
}

func BoolPtr(b bool) *bool {
	return &b
}
