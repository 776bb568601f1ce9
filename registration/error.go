package registration

import "fmt"

type ErrorReason string

const (
	REASON_INVALID_SUBMISSION              ErrorReason = "INVALID_SUBMISSION"
	REASON_ACCOUNT_DOES_NOT_EXIST          ErrorReason = "ACCOUNT_DOES_NOT_EXIST"
	REASON_TRANSACTION_ID_IN_USE           ErrorReason = "TRANSACTION_ID_IN_USE"
	REASON_NOT_FINALIZED                   ErrorReason = "NOT_FINALIZED"
	REASON_FAILED_TO_TRANSLATE_TO_DB_MODEL ErrorReason = "FAILED_TO_TRANSLATE_TO_DB_MODEL"
	REASON_FAILED_TO_WRITE                 ErrorReason = "FAILED_TO_WRITE"
	REASON_FAILED_TO_FETCH                 ErrorReason = "FAILED_TO_FETCH"
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

func newRegistrationError(reason ErrorReason, message string, cause error) *Error {
	return &Error{
		Reason:  reason,
		Message: message,
		Cause:   cause,
	}
}

func NewInvalidSubmissionError(message string) *Error {
	return newRegistrationError(REASON_INVALID_SUBMISSION, message, nil)
}

func NewAccountDoesNotExistError(message string, cause error) *Error {
	return newRegistrationError(REASON_ACCOUNT_DOES_NOT_EXIST, message, cause)
}

func NewTransactionIDInUseError(transactionID string) *Error {
	return newRegistrationError(REASON_TRANSACTION_ID_IN_USE, fmt.Sprintf("Transaction ID %q already belongs to another account", transactionID), nil)
}

func NewNotFinalizedError(message string) *Error {
	return newRegistrationError(REASON_NOT_FINALIZED, message, nil)
}

func NewFailedToTranslateToDBModelError(message string, cause error) *Error {
	return newRegistrationError(REASON_FAILED_TO_TRANSLATE_TO_DB_MODEL, message, cause)
}

func NewFailedToWriteError(message string, cause error) *Error {
	return newRegistrationError(REASON_FAILED_TO_WRITE, message, cause)
}

func NewFailedToFetchError(message string, cause error) *Error {
	return newRegistrationError(REASON_FAILED_TO_FETCH, message, cause)
}

func NewTimeoutError(message string) *Error {
	return newRegistrationError(REASON_TIMEOUT, message, nil)
}
