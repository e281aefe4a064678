// internal/handlers/committee-match/validation.go
package committeematch

import (
	"committee-matcher/internal/common/validation"
)

// MaxMatches caps top_matches.
const MaxMatches = 3

// OutputSchema is the strict structured-output schema for match replies.
// Every field is required and extras are rejected at both levels.
func OutputSchema() validation.JSONSchema {
	match := validation.Property{
		Type: "object",
		Properties: map[string]validation.Property{
			"committee_name": {Type: "string"},
			"score": {
				Type:        "number",
				Description: "Composite of fit, availability, interests and skills",
				Minimum:     validation.FloatPtr(0),
				Maximum:     validation.FloatPtr(100),
			},
			"rationale":          {Type: "string"},
			"call_to_action":     {Type: "string"},
			"chair_contact_hint": {Type: "string"},
		},
		Required:             []string{"committee_name", "score", "rationale", "call_to_action", "chair_contact_hint"},
		AdditionalProperties: validation.BoolPtr(false),
	}

	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"top_matches": {
				Type:     "array",
				MaxItems: validation.IntPtr(MaxMatches),
				Items:    &match,
			},
			"summary_for_member": {Type: "string"},
		},
		Required:             []string{"top_matches", "summary_for_member"},
		AdditionalProperties: false,
	}
}

// ValidateReply checks a decoded completion reply against OutputSchema.
func ValidateReply(doc interface{}) (*validation.ValidationResult, error) {
	return validation.Validate(doc, OutputSchema())
}
