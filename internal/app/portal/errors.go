package portal

import "net/http"

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	// Details holds per-field messages, e.g. {"amount": "must be positive"}.
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeFlowExpired        = "SELF_SERVICE_FLOW_EXPIRED"
	CodeWalletNotVerified  = "WALLET_NOT_VERIFIED"
	CodeLimitExceeded      = "LIMIT_EXCEEDED"
	CodeWalletExists       = "WALLET_EXISTS"
)

func validationError(message string, details map[string]any) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Message: message, Details: details}
}

func notFound(what string) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Message: what + " not found"}
}
