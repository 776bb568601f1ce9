package api

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/Vtdarling/student-sympo/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signupForm() url.Values {
	return url.Values{
		"email": {"Arjun.K@Example.com"},
		"phone": {"9123456780"},
		"name":  {"Arjun K"},
	}
}

func TestPostSignup(t *testing.T) {
	var created account.Account
	db := &mockDB{
		CreateAccountFunc: func(ctx context.Context, acct account.Account) error {
			created = acct
			return nil
		},
	}

	a := newTestAPI(db, nil)
	w := postForm(a.Handler(), "/signup", signupForm())

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/register", w.Header().Get("Location"))

	assert.Equal(t, "arjun.k@example.com", created.Email)
	assert.Equal(t, "9123456780", created.Phone)
	assert.Equal(t, "Arjun K", created.Name)
	assert.True(t, account.IsPlaceholderEventID(created.EventID))
	assert.True(t, account.IsPlaceholderTransactionID(created.TransactionID))

	// Signup starts a session directly, no separate login needed
	cookie := sessionCookie(t, w.Result())
	require.NotNil(t, cookie)
	session, err := a.sessions.Validate(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "arjun.k@example.com", session.Email)
}

func TestPostSignupConflicts(t *testing.T) {
	t.Run("email in use", func(t *testing.T) {
		db := &mockDB{
			CreateAccountFunc: func(ctx context.Context, acct account.Account) error {
				return account.NewEmailAlreadyExistsError("email taken", nil)
			},
		}

		w := postForm(newTestAPI(db, nil).Handler(), "/signup", signupForm())

		assert.Equal(t, "/signup?error=email_in_use", w.Header().Get("Location"))
		assert.Nil(t, sessionCookie(t, w.Result()))
	})

	t.Run("phone in use", func(t *testing.T) {
		db := &mockDB{
			CreateAccountFunc: func(ctx context.Context, acct account.Account) error {
				return account.NewPhoneAlreadyExistsError("phone taken", nil)
			},
		}

		w := postForm(newTestAPI(db, nil).Handler(), "/signup", signupForm())

		assert.Equal(t, "/signup?error=phone_in_use", w.Header().Get("Location"))
	})
}

func TestPostSignupValidation(t *testing.T) {
	db := &mockDB{
		CreateAccountFunc: func(ctx context.Context, acct account.Account) error {
			t.Fatal("should not write invalid input")
			return nil
		},
	}
	a := newTestAPI(db, nil)

	tests := []struct {
		name      string
		mutate    func(form url.Values)
		errorCode string
	}{
		{
			name:      "bad email",
			mutate:    func(form url.Values) { form.Set("email", "arjun at example") },
			errorCode: "invalid_email",
		},
		{
			name:      "bad phone",
			mutate:    func(form url.Values) { form.Set("phone", "91234") },
			errorCode: "invalid_phone",
		},
		{
			name:      "blank name",
			mutate:    func(form url.Values) { form.Set("name", "   ") },
			errorCode: "missing_field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := signupForm()
			tt.mutate(form)
			w := postForm(a.Handler(), "/signup", form)

			assert.Equal(t, "/signup?error="+tt.errorCode, w.Header().Get("Location"))
		})
	}
}

func TestPostSignupDBFailure(t *testing.T) {
	db := &mockDB{
		CreateAccountFunc: func(ctx context.Context, acct account.Account) error {
			return account.NewFailedToWriteError("dynamo is down", nil)
		},
	}

	w := postForm(newTestAPI(db, nil).Handler(), "/signup", signupForm())

	assert.Equal(t, "/signup?error=server_error", w.Header().Get("Location"))
}
