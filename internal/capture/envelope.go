package capture

import (
	"encoding/json"
	"fmt"
)

// evalEnvelope is the JSON envelope every wrapped evaluation returns.
type evalEnvelope struct {
	OK           bool            `json:"ok"`
	Data         json.RawMessage `json:"data"`
	ErrorCode    string          `json:"error_code"`
	ErrorMessage string          `json:"error_message"`
}

// DecodeEnvelope unmarshals the stringified envelope produced by a wrapped
// evaluation. A not-ok envelope becomes a CodedError; otherwise the data
// payload is unmarshaled into out (out may be nil to discard it).
func DecodeEnvelope(raw string, out any) error {
	var env evalEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return NewError(CodeEvalFailure, fmt.Sprintf("malformed eval envelope: %q", truncateForLog(raw)), err)
	}
	if !env.OK {
		code := env.ErrorCode
		if code == "" {
			code = CodeEvalFailure
		}
		return NewError(code, env.ErrorMessage, nil)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return NewError(CodeEvalFailure, "unexpected eval result shape", err)
	}
	return nil
}

func truncateForLog(s string) string {
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
