package api

import (
	"errors"
	"net/http"

	"github.com/Vtdarling/student-sympo/registration"
)

type Ticket struct {
	EventID           string `json:"eventId"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	College           string `json:"college"`
	TechnicalEvent    string `json:"technicalEvent"`
	NonTechnicalEvent string `json:"nonTechnicalEvent"`
	TransactionID     string `json:"transactionId"`
}

func (a *API) getConfirmation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := getSessionFromCtx(ctx)

	acct, err := registration.FetchConfirmation(ctx, a.db, session.Email)
	if err != nil {
		var regErr *registration.Error
		if errors.As(err, &regErr) {
			switch regErr.Reason {
			case registration.REASON_NOT_FINALIZED:
				a.writeError(w, http.StatusConflict, NotFinalized, "Registration has not been submitted yet")
				return
			case registration.REASON_ACCOUNT_DOES_NOT_EXIST:
				a.writeError(w, http.StatusNotFound, NotFound, "Account does not exist")
				return
			}
		}

		a.requestLogger(ctx).Error("Failed to fetch confirmation", "error", err)

		a.writeError(w, http.StatusInternalServerError, InternalError, "Internal server error")
		return
	}

	a.writeJSON(w, http.StatusOK, Ticket{
		EventID:           acct.EventID,
		Name:              acct.Name,
		Email:             acct.Email,
		Phone:             acct.Phone,
		College:           acct.College,
		TechnicalEvent:    acct.TechnicalEvent,
		NonTechnicalEvent: acct.NonTechnicalEvent,
		TransactionID:     acct.TransactionID,
	})
}
