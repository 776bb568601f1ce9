package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	eventIDPlaceholderPrefix       = "TEMP_"
	transactionIDPlaceholderPrefix = "PENDING_"
)

// Account is one participant record. Email and phone are the natural keys
// used for login. EventID and TransactionID start as placeholders and are
// finalized by the registration flow.
type Account struct {
	Email             string
	Phone             string
	Name              string
	College           string
	TechnicalEvent    string
	NonTechnicalEvent string
	EventID           string
	TransactionID     string
	Version           int
	RegisteredAt      time.Time
}

// LoginEvent is an append-only audit record. Never updated or deleted.
type LoginEvent struct {
	ID         uuid.UUID
	Email      string
	Phone      string
	LoggedInAt time.Time
}

type GetAccountsResponse struct {
	Data        []Account
	Cursor      *string
	HasNextPage bool
}

type Repository interface {
	CreateAccount(ctx context.Context, acct Account) error
	GetAccountByEmail(ctx context.Context, email string) (Account, error)
	GetAccounts(ctx context.Context, limit int32, cursor *string) (GetAccountsResponse, error)
	AppendLoginEvent(ctx context.Context, login LoginEvent) error
}

// NewAccount validates the signup fields and builds an Account with
// placeholder event and transaction IDs.
func NewAccount(email string, phone string, name string, now time.Time) (Account, error) {
	if err := ValidateEmail(email); err != nil {
		return Account{}, err
	}
	if err := ValidatePhone(phone); err != nil {
		return Account{}, err
	}
	if strings.TrimSpace(name) == "" {
		return Account{}, NewMissingFieldError("name")
	}

	return Account{
		Email:         NormalizeEmail(email),
		Phone:         phone,
		Name:          strings.TrimSpace(name),
		EventID:       NewPlaceholderEventID(),
		TransactionID: NewPlaceholderTransactionID(),
		Version:       1,
		RegisteredAt:  now,
	}, nil
}

// Authenticate looks up an account by exact match on both identity fields.
// It performs no writes.
func Authenticate(ctx context.Context, repo Repository, email string, phone string) (Account, error) {
	if err := ValidateEmail(email); err != nil {
		return Account{}, err
	}
	if err := ValidatePhone(phone); err != nil {
		return Account{}, err
	}

	acct, err := repo.GetAccountByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return Account{}, err
	}

	if acct.Phone != phone {
		return Account{}, NewAccountDoesNotExistError(fmt.Sprintf("No account matches email %q with that phone", email), nil)
	}

	return acct, nil
}

func NewPlaceholderEventID() string {
	return eventIDPlaceholderPrefix + uuid.NewString()
}

func NewPlaceholderTransactionID() string {
	return transactionIDPlaceholderPrefix + uuid.NewString()
}

// IsPlaceholderEventID reports whether the event ID has not been finalized
// yet. An empty value counts as a placeholder so records written before
// placeholders existed are still treated as unfinalized.
func IsPlaceholderEventID(id string) bool {
	return id == "" || strings.HasPrefix(id, eventIDPlaceholderPrefix)
}

func IsPlaceholderTransactionID(id string) bool {
	return id == "" || strings.HasPrefix(id, transactionIDPlaceholderPrefix)
}
