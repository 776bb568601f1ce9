package api

import (
	"log/slog"
	"net/http"

	"github.com/International-Combat-Archery-Alliance/captcha"
	"github.com/International-Combat-Archery-Alliance/email"
	"github.com/Vtdarling/student-sympo/account"
	"github.com/Vtdarling/student-sympo/registration"
)

type Environment string

const (
	LOCAL Environment = "LOCAL"
	PROD  Environment = "PROD"
)

type DB interface {
	account.Repository
	registration.Repository
}

type API struct {
	db               DB
	logger           *slog.Logger
	env              Environment
	sessions         *SessionManager
	captchaValidator captcha.Validator
	emailSender      email.Sender
	fromEmail        string
	adminEmails      []string
}

func NewAPI(
	db DB,
	logger *slog.Logger,
	env Environment,
	sessions *SessionManager,
	captchaValidator captcha.Validator,
	emailSender email.Sender,
	fromEmail string,
	adminEmails []string,
) *API {
	return &API{
		db:               db,
		logger:           logger,
		env:              env,
		sessions:         sessions,
		captchaValidator: captchaValidator,
		emailSender:      emailSender,
		fromEmail:        fromEmail,
		adminEmails:      adminEmails,
	}
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /login", a.postLogin)
	mux.HandleFunc("POST /signup", a.postSignup)
	mux.HandleFunc("POST /logout", a.postLogout)

	mux.Handle("POST /register", a.requireSession(http.HandlerFunc(a.postRegister)))
	mux.Handle("GET /confirmation", a.requireSession(http.HandlerFunc(a.getConfirmation)))
	mux.Handle("GET /accounts", a.requireSession(http.HandlerFunc(a.getAccounts)))

	return useMiddlewares(mux,
		a.loggingMiddleware(),
		a.requestContextMiddleware(),
		a.corsMiddleware(),
	)
}
