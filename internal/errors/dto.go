package errors

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code          string         `json:"code,omitempty"`
	Display       string         `json:"message"`
	InternalError string         `json:"internal_error,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
}

// CodeFromErr returns the code of the first sentinel the error is marked with.
func CodeFromErr(err error) string {
	if code := RecordErrorCode(err); code != "" {
		return code
	}
	for ref := range statusCodeMap {
		if Is(err, ref) {
			return ref.(*InternalError).Code
		}
	}
	return ErrCodeSystemError
}
