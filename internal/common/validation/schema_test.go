package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSchema() JSONSchema {
	return JSONSchema{
		Type: "object",
		Properties: map[string]Property{
			"items": {
				Type:     "array",
				MaxItems: IntPtr(2),
				Items: &Property{
					Type: "object",
					Properties: map[string]Property{
						"name":  {Type: "string"},
						"score": {Type: "number", Minimum: FloatPtr(0), Maximum: FloatPtr(100)},
					},
					Required:             []string{"name", "score"},
					AdditionalProperties: BoolPtr(false),
				},
			},
			"summary": {Type: "string"},
		},
		Required:             []string{"items", "summary"},
		AdditionalProperties: false,
	}
}

func TestToMap_KeepsAdditionalPropertiesFalse(t *testing.T) {
	m, err := sampleSchema().ToMap()
	require.NoError(t, err)

	assert.Equal(t, false, m["additionalProperties"])
	items := m["properties"].(map[string]interface{})["items"].(map[string]interface{})
	assert.EqualValues(t, 2, items["maxItems"])
	item := items["items"].(map[string]interface{})
	assert.Equal(t, false, item["additionalProperties"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		valid     bool
		errorPath string
	}{
		{"valid", `{"items":[{"name":"a","score":10}],"summary":"ok"}`, true, ""},
		{"empty items", `{"items":[],"summary":"ok"}`, true, ""},
		{"missing summary", `{"items":[]}`, false, "(root)"},
		{"extra root field", `{"items":[],"summary":"ok","x":1}`, false, "(root)"},
		{"score above max", `{"items":[{"name":"a","score":101}],"summary":"ok"}`, false, "items.0.score"},
		{"too many items", `{"items":[{"name":"a","score":1},{"name":"b","score":2},{"name":"c","score":3}],"summary":"ok"}`, false, "items"},
		{"extra item field", `{"items":[{"name":"a","score":1,"x":true}],"summary":"ok"}`, false, "items.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc interface{}
			require.NoError(t, json.Unmarshal([]byte(tt.doc), &doc))
			res, err := Validate(doc, sampleSchema())
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid, res.GetErrorMessages())
			if tt.errorPath != "" {
				assert.True(t, res.HasErrors(tt.errorPath), res.GetErrorMessages())
			}
		})
	}
}

func TestValidate_GoValue(t *testing.T) {
	doc := map[string]interface{}{
		"items":   []interface{}{map[string]interface{}{"name": "a", "score": 50}},
		"summary": "fine",
	}
	res, err := Validate(doc, sampleSchema())
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.GetErrorMessages())
}

func TestCheckStrict(t *testing.T) {
	require.NoError(t, CheckStrict(sampleSchema()))

	loose := sampleSchema()
	loose.AdditionalProperties = true
	assert.ErrorContains(t, CheckStrict(loose), "root")

	optional := sampleSchema()
	optional.Required = []string{"items"}
	assert.ErrorContains(t, CheckStrict(optional), `"summary"`)

	nested := sampleSchema()
	items := nested.Properties["items"]
	inner := *items.Items
	inner.Required = []string{"name"}
	items.Items = &inner
	nested.Properties["items"] = items
	assert.ErrorContains(t, CheckStrict(nested), "items[]")
}
