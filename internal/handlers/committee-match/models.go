// internal/handlers/committee-match/models.go
package committeematch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/mapstructure"

	apperrors "committee-matcher/internal/common/errors"
)

// Member is the member profile exactly as the caller sent it. Only a string
// "interests" value is rewritten, by Normalize.
type Member map[string]interface{}

// Committee is one committee description, relayed verbatim.
type Committee map[string]interface{}

// Interests is the canonical form of a comma-separated interests string.
type Interests []string

// MatchRequest is the inbound body after the shape check.
type MatchRequest struct {
	Member     Member      `json:"member"`
	Committees []Committee `json:"committees"`
}

// TopMatch and MatchResult describe the reply shape the output schema enforces.
type TopMatch struct {
	CommitteeName    string  `json:"committee_name"`
	Score            float64 `json:"score"`
	Rationale        string  `json:"rationale"`
	CallToAction     string  `json:"call_to_action"`
	ChairContactHint string  `json:"chair_contact_hint"`
}

type MatchResult struct {
	TopMatches       []TopMatch `json:"top_matches"`
	SummaryForMember string     `json:"summary_for_member"`
}

// NormalizeInterests splits a comma-separated string, trims each piece and
// drops empty pieces. The result is never nil.
func NormalizeInterests(s string) Interests {
	out := Interests{}
	for _, piece := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(piece); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Normalize replaces a string "interests" with its split form. Any other
// shape, including a sequence, null or a missing key, is left untouched.
func (m Member) Normalize() {
	if s, ok := m["interests"].(string); ok {
		m["interests"] = NormalizeInterests(s)
	}
}

// DecodeMatchRequest parses and shape-checks a request body. It returns an
// INVALID_JSON or MISSING_MEMBER_OR_COMMITTEES StandardError on failure.
func DecodeMatchRequest(body []byte) (*MatchRequest, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, apperrors.NewInvalidJSONError(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, apperrors.NewInvalidJSONError(fmt.Errorf("unexpected data after JSON value"))
	}

	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, apperrors.NewMissingMemberOrCommitteesError("body must be a JSON object")
	}

	member, ok := obj["member"].(map[string]interface{})
	if !ok {
		return nil, apperrors.NewMissingMemberOrCommitteesError("member must be an object")
	}
	committeesRaw, ok := obj["committees"].([]interface{})
	if !ok {
		return nil, apperrors.NewMissingMemberOrCommitteesError("committees must be an array")
	}

	req := &MatchRequest{
		Member:     Member(member),
		Committees: make([]Committee, 0, len(committeesRaw)),
	}
	for i, item := range committeesRaw {
		c, ok := item.(map[string]interface{})
		if !ok {
			return nil, apperrors.NewMissingMemberOrCommitteesError(fmt.Sprintf("committees[%d] must be an object", i))
		}
		req.Committees = append(req.Committees, Committee(c))
	}

	req.Member.Normalize()
	return req, nil
}

// DecodeResult maps an already schema-validated reply document onto MatchResult.
func DecodeResult(doc interface{}) (*MatchResult, error) {
	var out MatchResult
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &out,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("decode match result: %w", err)
	}
	return &out, nil
}
