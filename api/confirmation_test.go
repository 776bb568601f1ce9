package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Vtdarling/student-sympo/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfirmation(t *testing.T) {
	finalized := storedAccount()
	finalized.College = "NIT Trichy"
	finalized.TechnicalEvent = "Coding"
	finalized.NonTechnicalEvent = "Quiz"
	finalized.EventID = "SYMPO07"
	finalized.TransactionID = "UPI-1234567890"
	finalized.Version = 2

	db := &mockDB{
		GetAccountByEmailFunc: func(ctx context.Context, email string) (account.Account, error) {
			return finalized, nil
		},
	}

	a := newTestAPI(db, nil)
	w := authedGet(a, "/confirmation", "priya@example.com")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var ticket Ticket
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ticket))
	assert.Equal(t, Ticket{
		EventID:           "SYMPO07",
		Name:              finalized.Name,
		Email:             finalized.Email,
		Phone:             finalized.Phone,
		College:           "NIT Trichy",
		TechnicalEvent:    "Coding",
		NonTechnicalEvent: "Quiz",
		TransactionID:     "UPI-1234567890",
	}, ticket)
}

func TestGetConfirmationNotFinalized(t *testing.T) {
	db := &mockDB{
		GetAccountByEmailFunc: func(ctx context.Context, email string) (account.Account, error) {
			return storedAccount(), nil
		},
	}

	a := newTestAPI(db, nil)
	w := authedGet(a, "/confirmation", "priya@example.com")

	require.Equal(t, http.StatusConflict, w.Code)

	var errResp Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, NotFinalized, errResp.Code)
}

func TestGetConfirmationAccountGone(t *testing.T) {
	db := &mockDB{
		GetAccountByEmailFunc: func(ctx context.Context, email string) (account.Account, error) {
			return account.Account{}, account.NewAccountDoesNotExistError("no account", nil)
		},
	}

	a := newTestAPI(db, nil)
	w := authedGet(a, "/confirmation", "gone@example.com")

	require.Equal(t, http.StatusNotFound, w.Code)

	var errResp Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, NotFound, errResp.Code)
}

func TestGetConfirmationWithoutSession(t *testing.T) {
	a := newTestAPI(&mockDB{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/confirmation", nil)
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?error=session_expired", w.Header().Get("Location"))
}
