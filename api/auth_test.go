package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/International-Combat-Archery-Alliance/captcha"
	"github.com/Vtdarling/student-sympo/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedAccount() account.Account {
	return account.Account{
		Email:         "priya@example.com",
		Phone:         "9876543210",
		Name:          "Priya S",
		EventID:       account.NewPlaceholderEventID(),
		TransactionID: account.NewPlaceholderTransactionID(),
		Version:       1,
		RegisteredAt:  time.Now().UTC(),
	}
}

func loginForm() url.Values {
	return url.Values{
		"email": {"priya@example.com"},
		"phone": {"9876543210"},
	}
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	return nil
}

func TestPostLogin(t *testing.T) {
	loginEvents := 0
	db := &mockDB{
		GetAccountByEmailFunc: func(ctx context.Context, email string) (account.Account, error) {
			assert.Equal(t, "priya@example.com", email)
			return storedAccount(), nil
		},
		AppendLoginEventFunc: func(ctx context.Context, login account.LoginEvent) error {
			loginEvents++
			assert.Equal(t, "priya@example.com", login.Email)
			return nil
		},
	}

	a := newTestAPI(db, nil)
	w := postForm(a.Handler(), "/login", loginForm())

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/home", w.Header().Get("Location"))
	assert.Equal(t, 1, loginEvents)

	cookie := sessionCookie(t, w.Result())
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	session, err := a.sessions.Validate(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "priya@example.com", session.Email)
}

func TestPostLoginWrongPhone(t *testing.T) {
	db := &mockDB{
		GetAccountByEmailFunc: func(ctx context.Context, email string) (account.Account, error) {
			return storedAccount(), nil
		},
	}

	a := newTestAPI(db, nil)
	form := loginForm()
	form.Set("phone", "9876543211")
	w := postForm(a.Handler(), "/login", form)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?error=account_not_found", w.Header().Get("Location"))
	assert.Nil(t, sessionCookie(t, w.Result()))
}

func TestPostLoginUnknownEmail(t *testing.T) {
	db := &mockDB{
		GetAccountByEmailFunc: func(ctx context.Context, email string) (account.Account, error) {
			return account.Account{}, account.NewAccountDoesNotExistError("no account for email", nil)
		},
	}

	a := newTestAPI(db, nil)
	w := postForm(a.Handler(), "/login", loginForm())

	assert.Equal(t, "/login?error=account_not_found", w.Header().Get("Location"))
}

func TestPostLoginValidation(t *testing.T) {
	// Fetching must never happen on bad input
	db := &mockDB{
		GetAccountByEmailFunc: func(ctx context.Context, email string) (account.Account, error) {
			t.Fatal("should not fetch for invalid input")
			return account.Account{}, nil
		},
	}
	a := newTestAPI(db, nil)

	t.Run("bad email", func(t *testing.T) {
		form := loginForm()
		form.Set("email", "not-an-email")
		w := postForm(a.Handler(), "/login", form)

		assert.Equal(t, "/login?error=invalid_email", w.Header().Get("Location"))
	})

	t.Run("bad phone", func(t *testing.T) {
		form := loginForm()
		form.Set("phone", "12345")
		w := postForm(a.Handler(), "/login", form)

		assert.Equal(t, "/login?error=invalid_phone", w.Header().Get("Location"))
	})
}

func TestPostLoginCaptchaRejected(t *testing.T) {
	db := &mockDB{
		GetAccountByEmailFunc: func(ctx context.Context, email string) (account.Account, error) {
			t.Fatal("should not fetch when the captcha fails")
			return account.Account{}, nil
		},
	}

	a := newTestAPI(db, nil)
	a.captchaValidator = &mockCaptchaValidator{
		ValidateFunc: func(ctx context.Context, token string, remoteIP string) (captcha.ValidatedData, error) {
			return nil, errors.New("bad token")
		},
	}

	w := postForm(a.Handler(), "/login", loginForm())

	assert.Equal(t, "/login?error=captcha_invalid", w.Header().Get("Location"))
}

func TestPostLoginAuditFailureStillLogsIn(t *testing.T) {
	db := &mockDB{
		GetAccountByEmailFunc: func(ctx context.Context, email string) (account.Account, error) {
			return storedAccount(), nil
		},
		AppendLoginEventFunc: func(ctx context.Context, login account.LoginEvent) error {
			return account.NewFailedToWriteError("boom", nil)
		},
	}

	a := newTestAPI(db, nil)
	w := postForm(a.Handler(), "/login", loginForm())

	assert.Equal(t, "/home", w.Header().Get("Location"))
	assert.NotNil(t, sessionCookie(t, w.Result()))
}

func TestPostLogout(t *testing.T) {
	a := newTestAPI(&mockDB{}, nil)
	w := postForm(a.Handler(), "/logout", url.Values{})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	cookie := sessionCookie(t, w.Result())
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
