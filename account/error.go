package account

import "fmt"

type ErrorReason string

const (
	REASON_INVALID_EMAIL                   ErrorReason = "INVALID_EMAIL"
	REASON_INVALID_PHONE                   ErrorReason = "INVALID_PHONE"
	REASON_MISSING_FIELD                   ErrorReason = "MISSING_FIELD"
	REASON_ACCOUNT_DOES_NOT_EXIST          ErrorReason = "ACCOUNT_DOES_NOT_EXIST"
	REASON_EMAIL_ALREADY_EXISTS            ErrorReason = "EMAIL_ALREADY_EXISTS"
	REASON_PHONE_ALREADY_EXISTS            ErrorReason = "PHONE_ALREADY_EXISTS"
	REASON_FAILED_TO_TRANSLATE_TO_DB_MODEL ErrorReason = "FAILED_TO_TRANSLATE_TO_DB_MODEL"
	REASON_FAILED_TO_WRITE                 ErrorReason = "FAILED_TO_WRITE"
	REASON_FAILED_TO_FETCH                 ErrorReason = "FAILED_TO_FETCH"
	REASON_INVALID_CURSOR                  ErrorReason = "INVALID_CURSOR"
	REASON_TIMEOUT                         ErrorReason = "TIMEOUT"
)

type Error struct {
	Reason  ErrorReason
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s. Cause: %s", e.Reason, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newAccountError(reason ErrorReason, message string, cause error) *Error {
	return &Error{
		Reason:  reason,
		Message: message,
		Cause:   cause,
	}
}

func NewInvalidEmailError(message string, cause error) *Error {
	return newAccountError(REASON_INVALID_EMAIL, message, cause)
}

func NewInvalidPhoneError(message string) *Error {
	return newAccountError(REASON_INVALID_PHONE, message, nil)
}

func NewMissingFieldError(field string) *Error {
	return newAccountError(REASON_MISSING_FIELD, fmt.Sprintf("Field %q is required", field), nil)
}

func NewAccountDoesNotExistError(message string, cause error) *Error {
	return newAccountError(REASON_ACCOUNT_DOES_NOT_EXIST, message, cause)
}

func NewEmailAlreadyExistsError(message string, cause error) *Error {
	return newAccountError(REASON_EMAIL_ALREADY_EXISTS, message, cause)
}

func NewPhoneAlreadyExistsError(message string, cause error) *Error {
	return newAccountError(REASON_PHONE_ALREADY_EXISTS, message, cause)
}

func NewFailedToTranslateToDBModelError(message string, cause error) *Error {
	return newAccountError(REASON_FAILED_TO_TRANSLATE_TO_DB_MODEL, message, cause)
}

func NewFailedToWriteError(message string, cause error) *Error {
	return newAccountError(REASON_FAILED_TO_WRITE, message, cause)
}

func NewFailedToFetchError(message string, cause error) *Error {
	return newAccountError(REASON_FAILED_TO_FETCH, message, cause)
}

func NewInvalidCursorError(message string, cause error) *Error {
	return newAccountError(REASON_INVALID_CURSOR, message, cause)
}

func NewTimeoutError(message string) *Error {
	return newAccountError(REASON_TIMEOUT, message, nil)
}
