package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

type ErrorCode string

const (
	InternalError    ErrorCode = "InternalError"
	AuthError        ErrorCode = "AuthError"
	Forbidden        ErrorCode = "Forbidden"
	NotFound         ErrorCode = "NotFound"
	NotFinalized     ErrorCode = "NotFinalized"
	LimitOutOfBounds ErrorCode = "LimitOutOfBounds"
	InvalidCursor    ErrorCode = "InvalidCursor"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (a *API) writeJSON(w http.ResponseWriter, statusCode int, body any) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		a.logger.Error("failed to marshal response body", "error", err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"code": "InternalError", "message": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(jsonBody)
}

func (a *API) writeError(w http.ResponseWriter, statusCode int, code ErrorCode, message string) {
	a.writeJSON(w, statusCode, Error{Code: code, Message: message})
}

// redirectWithError sends the browser back to the form page with an error code
// in the query string, so the page can render the matching message.
func redirectWithError(w http.ResponseWriter, r *http.Request, path string, errorCode string) {
	http.Redirect(w, r, fmt.Sprintf("%s?error=%s", path, url.QueryEscape(errorCode)), http.StatusSeeOther)
}
