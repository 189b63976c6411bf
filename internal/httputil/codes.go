package httputil

// Machine-readable error codes returned in the "error" field.
const (
	CodeInvalidBody          = "INVALID_BODY"
	CodeEmailAlreadyInUse    = "EMAIL_ALREADY_IN_USE"
	CodeUsernameAlreadyInUse = "USERNAME_ALREADY_IN_USE"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeAuthRequired         = "AUTH_REQUIRED"
	CodeInvalidAuthHeader    = "INVALID_AUTH_HEADER"
	CodeInvalidToken         = "INVALID_TOKEN"
	CodeTokenExpired         = "TOKEN_EXPIRED"
	CodeTaskNotFound         = "TASK_NOT_FOUND"
	CodeTooManyRequests      = "RATE_LIMITED"
	CodeInternalError        = "INTERNAL_ERROR"
)
