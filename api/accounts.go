package api

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/Vtdarling/student-sympo/account"
	sliceutil "github.com/Vtdarling/student-sympo/slices"
)

type AccountView struct {
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Name              string    `json:"name"`
	College           string    `json:"college,omitempty"`
	TechnicalEvent    string    `json:"technicalEvent,omitempty"`
	NonTechnicalEvent string    `json:"nonTechnicalEvent,omitempty"`
	EventID           string    `json:"eventId,omitempty"`
	TransactionID     string    `json:"transactionId,omitempty"`
	RegisteredAt      time.Time `json:"registeredAt"`
}

type AccountsResponse struct {
	Data        []AccountView `json:"data"`
	Cursor      *string       `json:"cursor,omitempty"`
	HasNextPage bool          `json:"hasNextPage"`
}

func (a *API) getAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := getSessionFromCtx(ctx)

	if !slices.Contains(a.adminEmails, session.Email) {
		a.writeError(w, http.StatusForbidden, Forbidden, "Not an admin")
		return
	}

	limit := 10
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		userLimit, err := strconv.Atoi(limitParam)
		if err != nil || userLimit < 1 || userLimit > 50 {
			a.writeError(w, http.StatusBadRequest, LimitOutOfBounds, "Limit must be between 1 and 50")
			return
		}
		limit = userLimit
	}

	var cursor *string
	if cursorParam := r.URL.Query().Get("cursor"); cursorParam != "" {
		cursor = &cursorParam
	}

	result, err := a.db.GetAccounts(ctx, int32(limit), cursor)
	if err != nil {
		a.requestLogger(ctx).Error("Failed to get accounts from the DB", "error", err)

		var acctErr *account.Error
		if errors.As(err, &acctErr) {
			switch acctErr.Reason {
			case account.REASON_INVALID_CURSOR:
				a.writeError(w, http.StatusBadRequest, InvalidCursor, "Passed in cursor is invalid")
				return
			}
		}

		a.writeError(w, http.StatusInternalServerError, InternalError, "Internal server error")
		return
	}

	a.writeJSON(w, http.StatusOK, AccountsResponse{
		Data: sliceutil.Map(result.Data, func(v account.Account) AccountView {
			return accountToView(v)
		}),
		Cursor:      result.Cursor,
		HasNextPage: result.HasNextPage,
	})
}

func accountToView(acct account.Account) AccountView {
	view := AccountView{
		Email:        acct.Email,
		Phone:        acct.Phone,
		Name:         acct.Name,
		RegisteredAt: acct.RegisteredAt,
	}

	// Placeholders are internal bookkeeping, do not show them to admins
	if !account.IsPlaceholderEventID(acct.EventID) {
		view.EventID = acct.EventID
		view.College = acct.College
		view.TechnicalEvent = acct.TechnicalEvent
		view.NonTechnicalEvent = acct.NonTechnicalEvent
		view.TransactionID = acct.TransactionID
	}

	return view
}
