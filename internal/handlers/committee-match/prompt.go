// internal/handlers/committee-match/prompt.go
package committeematch

import (
	"encoding/json"
	"fmt"
)

// Instructions is sent as the system message on every completion call.
const Instructions = `You are a committee-matching assistant for a volunteer organization.
Given one member profile and a list of committees, choose the best 3 committees for this member.
For each match, give a score from 0 to 100 that combines fit, availability, interests and skills.
Keep each rationale concise and encouraging.
Phrase each call_to_action as an invitation to contact the committee chair or to visit the committee's page.
Address the member directly in the second person.
When information is missing, infer conservatively and use only the member and committee data provided.`

// BuildInput serializes the member and committees as the single user payload.
func BuildInput(req *MatchRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal match payload: %w", err)
	}
	return string(payload), nil
}
