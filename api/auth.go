package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Vtdarling/student-sympo/account"
	"github.com/google/uuid"
)

const captchaTokenField = "cf-turnstile-response"

func (a *API) postLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.requestLogger(ctx)

	if err := r.ParseForm(); err != nil {
		logger.Warn("Malformed login form", "error", err)

		redirectWithError(w, r, "/login", "invalid_form")
		return
	}

	if err := a.validateCaptcha(ctx, r); err != nil {
		logger.Warn("Captcha validation failed", "error", err)

		redirectWithError(w, r, "/login", "captcha_invalid")
		return
	}

	email := account.NormalizeEmail(r.PostFormValue("email"))
	phone := strings.TrimSpace(r.PostFormValue("phone"))

	acct, err := account.Authenticate(ctx, a.db, email, phone)
	if err != nil {
		var acctErr *account.Error
		if errors.As(err, &acctErr) {
			switch acctErr.Reason {
			case account.REASON_INVALID_EMAIL:
				redirectWithError(w, r, "/login", "invalid_email")
				return
			case account.REASON_INVALID_PHONE:
				redirectWithError(w, r, "/login", "invalid_phone")
				return
			case account.REASON_ACCOUNT_DOES_NOT_EXIST:
				redirectWithError(w, r, "/login", "account_not_found")
				return
			}
		}

		logger.Error("Failed to authenticate", "error", err)

		redirectWithError(w, r, "/login", "server_error")
		return
	}

	// The audit trail is best effort, a failed write must not block the login
	err = a.db.AppendLoginEvent(ctx, account.LoginEvent{
		ID:         uuid.New(),
		Email:      acct.Email,
		Phone:      acct.Phone,
		LoggedInAt: time.Now().UTC(),
	})
	if err != nil {
		logger.Error("Failed to record login event", "error", err)
	}

	if err := a.issueSession(w, acct.Email); err != nil {
		logger.Error("Failed to issue session token", "error", err)

		redirectWithError(w, r, "/login", "server_error")
		return
	}

	logger.Info("successful login", slog.String("email", acct.Email))

	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (a *API) postLogout(w http.ResponseWriter, r *http.Request) {
	a.clearSessionCookie(w)

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (a *API) issueSession(w http.ResponseWriter, email string) error {
	now := time.Now()

	token, err := a.sessions.Issue(email, now)
	if err != nil {
		return err
	}

	a.setSessionCookie(w, token, now.Add(a.sessions.TTL()))
	return nil
}

func (a *API) validateCaptcha(ctx context.Context, r *http.Request) error {
	if a.captchaValidator == nil {
		return nil
	}

	_, err := a.captchaValidator.Validate(ctx, r.PostFormValue(captchaTokenField), r.RemoteAddr)
	return err
}
