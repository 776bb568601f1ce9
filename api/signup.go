package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Vtdarling/student-sympo/account"
)

func (a *API) postSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.requestLogger(ctx)

	if err := r.ParseForm(); err != nil {
		logger.Warn("Malformed signup form", "error", err)

		redirectWithError(w, r, "/signup", "invalid_form")
		return
	}

	if err := a.validateCaptcha(ctx, r); err != nil {
		logger.Warn("Captcha validation failed", "error", err)

		redirectWithError(w, r, "/signup", "captcha_invalid")
		return
	}

	acct, err := account.NewAccount(
		r.PostFormValue("email"),
		strings.TrimSpace(r.PostFormValue("phone")),
		r.PostFormValue("name"),
		time.Now().UTC(),
	)
	if err != nil {
		logger.Warn("Invalid signup input", "error", err)

		redirectWithError(w, r, "/signup", signupErrorCode(err))
		return
	}

	err = a.db.CreateAccount(ctx, acct)
	if err != nil {
		var acctErr *account.Error
		if errors.As(err, &acctErr) {
			switch acctErr.Reason {
			case account.REASON_EMAIL_ALREADY_EXISTS:
				redirectWithError(w, r, "/signup", "email_in_use")
				return
			case account.REASON_PHONE_ALREADY_EXISTS:
				redirectWithError(w, r, "/signup", "phone_in_use")
				return
			}
		}

		logger.Error("Failed to create account", "error", err)

		redirectWithError(w, r, "/signup", "server_error")
		return
	}

	if err := a.issueSession(w, acct.Email); err != nil {
		logger.Error("Failed to issue session token", "error", err)

		// The account exists, send them through the login form instead
		redirectWithError(w, r, "/login", "server_error")
		return
	}

	logger.Info("account created", slog.String("email", acct.Email))

	http.Redirect(w, r, "/register", http.StatusSeeOther)
}

func signupErrorCode(err error) string {
	var acctErr *account.Error
	if errors.As(err, &acctErr) {
		switch acctErr.Reason {
		case account.REASON_INVALID_EMAIL:
			return "invalid_email"
		case account.REASON_INVALID_PHONE:
			return "invalid_phone"
		case account.REASON_MISSING_FIELD:
			return "missing_field"
		}
	}
	return "server_error"
}
