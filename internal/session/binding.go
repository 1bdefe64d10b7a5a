package session

import (
	"encoding/json"
	"fmt"
)

// bindingPayload is what the relay world serializes into the capture
// binding call.
type bindingPayload struct {
	Selector string `json:"selector"`
	Origin   string `json:"origin"`
}

// decodeBindingPayload parses and validates a relay binding payload. The
// origin check mirrors the relay's own same-origin guard: a payload claiming
// any other origin never starts a capture.
func decodeBindingPayload(raw, expectedOrigin string) (*bindingPayload, error) {
	var p bindingPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("malformed capture request payload: %w", err)
	}
	if p.Origin == "" {
		return nil, fmt.Errorf("capture request carries no origin")
	}
	if expectedOrigin != "" && p.Origin != expectedOrigin {
		return nil, fmt.Errorf("capture request origin %q does not match session origin %q", p.Origin, expectedOrigin)
	}
	return &p, nil
}
