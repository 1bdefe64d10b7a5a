package capture

import "fmt"

const (
	CodeValidation     = "VALIDATION"
	CodeNavFailure     = "NAV_FAILURE"
	CodeCanvasNotFound = "CANVAS_NOT_FOUND"
	CodeExportFailure  = "EXPORT_FAILURE"
	CodeEvalFailure    = "EVAL_FAILURE"
	CodeEvalTimeout    = "EVAL_TIMEOUT"
	CodeCaptureTimeout = "CAPTURE_TIMEOUT"
	CodeCDPUnavailable = "CDP_UNAVAILABLE"
)

// CodedError is a typed error used for stable failure classification.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *CodedError) Unwrap() error { return e.Cause }

// NewError builds a CodedError. Message is the user-facing failure text.
func NewError(code, msg string, cause error) error {
	return &CodedError{Code: code, Message: msg, Cause: cause}
}

// Result describes a successful canvas export.
type Result struct {
	DataURL  string
	Width    int
	Height   int
	Location string
	Attempts int
}
