package committeematch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"committee-matcher/internal/common/completion"
	apperrors "committee-matcher/internal/common/errors"
	"committee-matcher/internal/common/logger"
	"committee-matcher/internal/common/validation"
)

// ==========================
// Mock Completer
// ==========================

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) CompleteWithSchema(ctx context.Context, req completion.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

const twoMatchReply = `{
  "top_matches": [
    {
      "committee_name": "Outreach",
      "score": 92,
      "rationale": "Your food drive experience fits well.",
      "call_to_action": "Reach out to the Outreach chair to get started.",
      "chair_contact_hint": "Ask the front desk for the Outreach chair."
    },
    {
      "committee_name": "Events",
      "score": 78.5,
      "rationale": "You enjoy bringing people together.",
      "call_to_action": "Visit the Events committee page.",
      "chair_contact_hint": "The chair is listed on the Events page."
    }
  ],
  "summary_for_member": "You would thrive in hands-on community roles."
}`

func testRequest(t *testing.T) *MatchRequest {
	t.Helper()
	req, err := DecodeMatchRequest([]byte(`{
		"member": {"name": "Ana", "interests": "food, outreach"},
		"committees": [{"name": "Outreach"}, {"name": "Events"}]
	}`))
	require.NoError(t, err)
	return req
}

func newTestService(t *testing.T, completer Completer) *Service {
	t.Helper()
	cfg := DefaultConfig()
	cfg.APIKey = "sk-test"
	svc, err := NewService(ServiceDependencies{
		Completer: completer,
		Logger:    logger.NewTestLogger(t),
	}, cfg)
	require.NoError(t, err)
	return svc
}

func TestOutputSchema_IsStrict(t *testing.T) {
	schema := OutputSchema()
	require.NoError(t, validation.CheckStrict(schema))

	m, err := schema.ToMap()
	require.NoError(t, err)
	assert.Equal(t, false, m["additionalProperties"])

	props := m["properties"].(map[string]interface{})
	matches := props["top_matches"].(map[string]interface{})
	assert.EqualValues(t, MaxMatches, matches["maxItems"])

	items := matches["items"].(map[string]interface{})
	assert.Equal(t, false, items["additionalProperties"])
	assert.ElementsMatch(t,
		[]interface{}{"committee_name", "score", "rationale", "call_to_action", "chair_contact_hint"},
		items["required"])
}

func TestValidateReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		valid bool
	}{
		{name: "two matches", reply: twoMatchReply, valid: true},
		{name: "no matches", reply: `{"top_matches":[],"summary_for_member":"None fit yet."}`, valid: true},
		{name: "missing summary", reply: `{"top_matches":[]}`, valid: false},
		{name: "extra top-level field", reply: `{"top_matches":[],"summary_for_member":"x","extra":1}`, valid: false},
		{
			name:  "missing chair hint",
			reply: `{"top_matches":[{"committee_name":"A","score":1,"rationale":"r","call_to_action":"c"}],"summary_for_member":"x"}`,
			valid: false,
		},
		{
			name:  "score above range",
			reply: `{"top_matches":[{"committee_name":"A","score":101,"rationale":"r","call_to_action":"c","chair_contact_hint":"h"}],"summary_for_member":"x"}`,
			valid: false,
		},
		{
			name: "four matches",
			reply: `{"top_matches":[` +
				`{"committee_name":"A","score":1,"rationale":"r","call_to_action":"c","chair_contact_hint":"h"},` +
				`{"committee_name":"B","score":1,"rationale":"r","call_to_action":"c","chair_contact_hint":"h"},` +
				`{"committee_name":"C","score":1,"rationale":"r","call_to_action":"c","chair_contact_hint":"h"},` +
				`{"committee_name":"D","score":1,"rationale":"r","call_to_action":"c","chair_contact_hint":"h"}` +
				`],"summary_for_member":"x"}`,
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc interface{}
			require.NoError(t, json.Unmarshal([]byte(tt.reply), &doc))
			result, err := ValidateReply(doc)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid, result.GetErrorMessages())
		})
	}
}

func TestRelayBody(t *testing.T) {
	assert.Equal(t, `{"a":1,"b":[1,2]}`, string(RelayBody("{\n  \"a\": 1,\n  \"b\": [1, 2]\n}")))
	assert.Equal(t, "not json at all", string(RelayBody("not json at all")))
	assert.Equal(t, "", string(RelayBody("")))
}

func TestService_Execute_BuildsCompletionRequest(t *testing.T) {
	completer := new(MockCompleter)
	completer.On("CompleteWithSchema", mock.Anything, mock.Anything).Return(twoMatchReply, nil)

	svc := newTestService(t, completer)
	body, err := svc.Execute(context.Background(), testRequest(t))
	require.NoError(t, err)

	var result MatchResult
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Len(t, result.TopMatches, 2)
	assert.Equal(t, "Outreach", result.TopMatches[0].CommitteeName)

	completer.AssertNumberOfCalls(t, "CompleteWithSchema", 1)
	sent := completer.Calls[0].Arguments.Get(1).(completion.Request)
	assert.Equal(t, Instructions, sent.Instructions)
	assert.Equal(t, "committee_matches", sent.SchemaName)
	assert.InDelta(t, 0.2, sent.Temperature, 1e-9)
	assert.Equal(t, false, sent.Schema["additionalProperties"])
	assert.JSONEq(t, `{
		"member": {"name": "Ana", "interests": ["food", "outreach"]},
		"committees": [{"name": "Outreach"}, {"name": "Events"}]
	}`, sent.Input)
}

func TestService_Execute_SchemaViolationStillRelayed(t *testing.T) {
	reply := `{"top_matches":[{"committee_name":"A"}],"summary_for_member":"x","bonus":true}`
	completer := new(MockCompleter)
	completer.On("CompleteWithSchema", mock.Anything, mock.Anything).Return(reply, nil)

	svc := newTestService(t, completer)
	body, err := svc.Execute(context.Background(), testRequest(t))
	require.NoError(t, err)
	assert.JSONEq(t, reply, string(body))
}

func TestService_Execute_CompletionErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		detail string
	}{
		{name: "api error message", err: &openai.Error{Message: "Incorrect API key provided"}, detail: "Incorrect API key provided"},
		{name: "plain error", err: errors.New("dial tcp: connection refused"), detail: "dial tcp: connection refused"},
		{name: "empty message", err: errors.New(""), detail: apperrors.MsgUnknownUpstream},
		{name: "deadline", err: context.DeadlineExceeded, detail: "context deadline exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := new(MockCompleter)
			completer.On("CompleteWithSchema", mock.Anything, mock.Anything).Return("", tt.err)

			svc := newTestService(t, completer)
			body, err := svc.Execute(context.Background(), testRequest(t))
			require.Error(t, err)
			assert.Nil(t, body)

			stdErr := apperrors.Normalize(err)
			assert.Equal(t, apperrors.ErrCodeAIMatchFailed, stdErr.Code)
			assert.Equal(t, map[string]string{"error": "AI match failed", "detail": tt.detail}, stdErr.ToResponseBody())
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(ServiceDependencies{}, DefaultConfig())
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.Temperature = 3
	_, err = NewService(ServiceDependencies{Completer: new(MockCompleter)}, cfg)
	assert.Error(t, err)

	svc, err := NewService(ServiceDependencies{Completer: new(MockCompleter)}, DefaultConfig())
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
