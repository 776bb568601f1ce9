package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Vtdarling/student-sympo/registration"
)

func (a *API) postRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.requestLogger(ctx)
	session := getSessionFromCtx(ctx)

	if err := r.ParseForm(); err != nil {
		logger.Warn("Malformed registration form", "error", err)

		redirectWithError(w, r, "/register", "invalid_form")
		return
	}

	sub := registration.Submission{
		Email:             session.Email,
		College:           strings.TrimSpace(r.PostFormValue("college")),
		TechnicalEvent:    strings.TrimSpace(r.PostFormValue("technicalEvent")),
		NonTechnicalEvent: strings.TrimSpace(r.PostFormValue("nonTechnicalEvent")),
		TransactionID:     strings.TrimSpace(r.PostFormValue("transactionId")),
	}

	acct, err := registration.AttemptSubmission(ctx, sub, a.db, a.db)
	if err != nil {
		var regErr *registration.Error
		if errors.As(err, &regErr) {
			switch regErr.Reason {
			case registration.REASON_INVALID_SUBMISSION:
				logger.Warn("Invalid registration submission", "error", err)

				redirectWithError(w, r, "/register", "missing_field")
				return
			case registration.REASON_TRANSACTION_ID_IN_USE:
				logger.Warn("Transaction ID already claimed", "error", err)

				redirectWithError(w, r, "/register", "transaction_id_in_use")
				return
			case registration.REASON_ACCOUNT_DOES_NOT_EXIST:
				// Session outlived the account, make them log in again
				a.clearSessionCookie(w)
				redirectWithError(w, r, "/login", "account_not_found")
				return
			}
		}

		logger.Error("Error trying to register", "error", err)

		redirectWithError(w, r, "/register", "server_error")
		return
	}

	// The pass is already assigned, a failed email must not fail the request
	err = registration.SendTicketEmail(ctx, a.emailSender, a.fromEmail, acct)
	if err != nil {
		logger.Error("Failed to send ticket email", "error", err, "email", acct.Email)
	}

	logger.Info("registration submitted",
		slog.String("email", acct.Email),
		slog.String("event-id", acct.EventID),
	)

	http.Redirect(w, r, "/confirmation", http.StatusSeeOther)
}
