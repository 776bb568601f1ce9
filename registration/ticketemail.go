package registration

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/International-Combat-Archery-Alliance/email"
	"github.com/Vtdarling/student-sympo/account"
)

//go:embed templates
var templates embed.FS

// SendTicketEmail mails the finalized pass to the participant. Callers treat
// failures as non-fatal; the registration itself has already been persisted.
func SendTicketEmail(ctx context.Context, emailSender email.Sender, fromAddress string, acct account.Account) error {
	htmlBody, err := makeTicketBody("ticket.tmpl", acct)
	if err != nil {
		return err
	}

	textOnlyBody, err := makeTicketBody("ticket-textonly.tmpl", acct)
	if err != nil {
		return err
	}

	return emailSender.SendEmail(ctx, email.Email{
		FromAddress: fromAddress,
		ToAddresses: []string{acct.Email},
		Subject:     fmt.Sprintf("Symposium pass confirmed - %s", acct.EventID),
		HTMLBody:    htmlBody,
		TextBody:    textOnlyBody,
	})
}

func makeTicketBody(name string, acct account.Account) (string, error) {
	tmpl, err := template.New(name).ParseFS(templates, "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse email template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]any{
		"Account": acct,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}

	return buf.String(), nil
}
