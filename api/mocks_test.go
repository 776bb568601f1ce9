package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/International-Combat-Archery-Alliance/captcha"
	"github.com/International-Combat-Archery-Alliance/email"
	"github.com/Vtdarling/student-sympo/account"
)

var noopLogger = slog.New(slog.DiscardHandler)

const (
	testFromEmail  = "passes@studentsympo.in"
	testAdminEmail = "admin@studentsympo.in"
)

type mockCaptchaValidator struct {
	ValidateFunc func(ctx context.Context, token string, remoteIP string) (captcha.ValidatedData, error)
}

type mockCaptchaValidatedData struct{}

func (m *mockCaptchaValidatedData) Hostname() string       { return "studentsympo.in" }
func (m *mockCaptchaValidatedData) Action() string         { return "" }
func (m *mockCaptchaValidatedData) ChallengeTS() time.Time { return time.Now() }

func (m *mockCaptchaValidator) Validate(ctx context.Context, token string, remoteIP string) (captcha.ValidatedData, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, token, remoteIP)
	}
	return &mockCaptchaValidatedData{}, nil
}

type mockEmailSender struct {
	SendEmailFunc func(ctx context.Context, e email.Email) error
	sent          []email.Email
}

func (m *mockEmailSender) SendEmail(ctx context.Context, e email.Email) error {
	m.sent = append(m.sent, e)
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, e)
	}
	return nil
}

var _ DB = &mockDB{}

type mockDB struct {
	CreateAccountFunc                func(ctx context.Context, acct account.Account) error
	GetAccountByEmailFunc            func(ctx context.Context, email string) (account.Account, error)
	GetAccountsFunc                  func(ctx context.Context, limit int32, cursor *string) (account.GetAccountsResponse, error)
	AppendLoginEventFunc             func(ctx context.Context, login account.LoginEvent) error
	AccountEmailForTransactionIDFunc func(ctx context.Context, transactionID string) (string, error)
	NextEventSequenceFunc            func(ctx context.Context) (int, error)
	SaveSubmissionFunc               func(ctx context.Context, acct account.Account, previousTransactionID string) error
}

func (m *mockDB) CreateAccount(ctx context.Context, acct account.Account) error {
	return m.CreateAccountFunc(ctx, acct)
}

func (m *mockDB) GetAccountByEmail(ctx context.Context, email string) (account.Account, error) {
	return m.GetAccountByEmailFunc(ctx, email)
}

func (m *mockDB) GetAccounts(ctx context.Context, limit int32, cursor *string) (account.GetAccountsResponse, error) {
	return m.GetAccountsFunc(ctx, limit, cursor)
}

func (m *mockDB) AppendLoginEvent(ctx context.Context, login account.LoginEvent) error {
	if m.AppendLoginEventFunc != nil {
		return m.AppendLoginEventFunc(ctx, login)
	}
	return nil
}

func (m *mockDB) AccountEmailForTransactionID(ctx context.Context, transactionID string) (string, error) {
	if m.AccountEmailForTransactionIDFunc != nil {
		return m.AccountEmailForTransactionIDFunc(ctx, transactionID)
	}
	return "", nil
}

func (m *mockDB) NextEventSequence(ctx context.Context) (int, error) {
	if m.NextEventSequenceFunc != nil {
		return m.NextEventSequenceFunc(ctx)
	}
	return 1, nil
}

func (m *mockDB) SaveSubmission(ctx context.Context, acct account.Account, previousTransactionID string) error {
	if m.SaveSubmissionFunc != nil {
		return m.SaveSubmissionFunc(ctx, acct, previousTransactionID)
	}
	return nil
}

func newTestAPI(db *mockDB, emailSender *mockEmailSender) *API {
	if emailSender == nil {
		emailSender = &mockEmailSender{}
	}

	return NewAPI(
		db,
		noopLogger,
		LOCAL,
		NewSessionManager([]byte("test-secret"), time.Hour),
		&mockCaptchaValidator{},
		emailSender,
		testFromEmail,
		[]string{testAdminEmail},
	)
}

func postForm(handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func authedPostForm(a *API, path string, form url.Values, email string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(sessionCookieFor(a, email))

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	return w
}

func authedGet(a *API, path string, email string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(sessionCookieFor(a, email))

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	return w
}

func sessionCookieFor(a *API, email string) *http.Cookie {
	token, err := a.sessions.Issue(email, time.Now())
	if err != nil {
		panic(err)
	}
	return &http.Cookie{Name: sessionCookieName, Value: token}
}
