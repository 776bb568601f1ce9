package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Vtdarling/student-sympo/account"
)

// Submission carries one registration form post for an already
// authenticated account.
type Submission struct {
	Email             string
	College           string
	TechnicalEvent    string
	NonTechnicalEvent string
	TransactionID     string
}

type Repository interface {
	// AccountEmailForTransactionID returns the email of the account holding
	// the transaction ID, or "" when it is unclaimed.
	AccountEmailForTransactionID(ctx context.Context, transactionID string) (string, error)
	NextEventSequence(ctx context.Context) (int, error)
	// SaveSubmission persists the updated account atomically together with
	// the transaction-ID uniqueness marker. previousTransactionID is the
	// value the account held before this submission.
	SaveSubmission(ctx context.Context, acct account.Account, previousTransactionID string) error
}

// AttemptSubmission resolves the account, rejects transaction IDs held by a
// different account, finalizes the event ID exactly once, and persists all
// mutable fields in a single write. Resubmission with the account's own
// transaction ID is allowed and never changes a finalized event ID.
func AttemptSubmission(ctx context.Context, sub Submission, accountRepo account.Repository, repo Repository) (account.Account, error) {
	if err := validateSubmission(sub); err != nil {
		return account.Account{}, err
	}

	acct, err := accountRepo.GetAccountByEmail(ctx, account.NormalizeEmail(sub.Email))
	if err != nil {
		var acctErr *account.Error
		if errors.As(err, &acctErr) {
			switch acctErr.Reason {
			case account.REASON_ACCOUNT_DOES_NOT_EXIST:
				return account.Account{}, NewAccountDoesNotExistError(fmt.Sprintf("No account with email %q to submit for", sub.Email), err)
			}
		}

		return account.Account{}, NewFailedToFetchError(fmt.Sprintf("Failed to fetch account with email %q", sub.Email), err)
	}

	// Application-level duplicate check. The storage-level condition inside
	// SaveSubmission backs this up against concurrent submissions.
	owner, err := repo.AccountEmailForTransactionID(ctx, sub.TransactionID)
	if err != nil {
		return account.Account{}, err
	}
	if owner != "" && owner != acct.Email {
		return account.Account{}, NewTransactionIDInUseError(sub.TransactionID)
	}

	previousTransactionID := acct.TransactionID

	if account.IsPlaceholderEventID(acct.EventID) {
		seq, err := repo.NextEventSequence(ctx)
		if err != nil {
			return account.Account{}, err
		}
		acct.EventID = FormatEventID(seq)
	}

	acct.College = strings.TrimSpace(sub.College)
	acct.TechnicalEvent = sub.TechnicalEvent
	acct.NonTechnicalEvent = sub.NonTechnicalEvent
	acct.TransactionID = sub.TransactionID
	acct.Version++

	if err := repo.SaveSubmission(ctx, acct, previousTransactionID); err != nil {
		return account.Account{}, err
	}

	return acct, nil
}

// FetchConfirmation returns the finalized account for ticket display.
// Identity always comes from the caller's session, never from "most recent
// write".
func FetchConfirmation(ctx context.Context, accountRepo account.Repository, email string) (account.Account, error) {
	acct, err := accountRepo.GetAccountByEmail(ctx, account.NormalizeEmail(email))
	if err != nil {
		var acctErr *account.Error
		if errors.As(err, &acctErr) {
			switch acctErr.Reason {
			case account.REASON_ACCOUNT_DOES_NOT_EXIST:
				return account.Account{}, NewAccountDoesNotExistError(fmt.Sprintf("No account with email %q", email), err)
			}
		}

		return account.Account{}, NewFailedToFetchError(fmt.Sprintf("Failed to fetch account with email %q", email), err)
	}

	if account.IsPlaceholderEventID(acct.EventID) {
		return account.Account{}, NewNotFinalizedError(fmt.Sprintf("Account %q has not completed registration", email))
	}

	return acct, nil
}

func validateSubmission(sub Submission) error {
	for field, value := range map[string]string{
		"email":             sub.Email,
		"college":           sub.College,
		"technicalEvent":    sub.TechnicalEvent,
		"nonTechnicalEvent": sub.NonTechnicalEvent,
		"transactionId":     sub.TransactionID,
	} {
		if strings.TrimSpace(value) == "" {
			return NewInvalidSubmissionError(fmt.Sprintf("Field %q is required", field))
		}
	}

	// A user-supplied reference must never look like an unfinalized sentinel.
	if account.IsPlaceholderTransactionID(sub.TransactionID) {
		return NewInvalidSubmissionError("Transaction ID uses a reserved prefix")
	}

	return nil
}
