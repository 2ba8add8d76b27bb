package share

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	brevo "github.com/getbrevo/brevo-go/lib"
	"github.com/sirupsen/logrus"
)

type transactionalSender interface {
	SendTransacEmail(ctx context.Context, body brevo.SendSmtpEmail) (brevo.CreateSmtpEmail, *http.Response, error)
}

// EmailSharer mails the document as an attachment through Brevo
type EmailSharer struct {
	fromName  string
	fromEmail string
	sender    transactionalSender
	logger    *logrus.Logger
}

// NewEmailSharer builds the Brevo client and checks the key against the account
func NewEmailSharer(ctx context.Context, apiKey, fromName, fromEmail string, logger *logrus.Logger) (*EmailSharer, error) {
	cfg := brevo.NewConfiguration()
	cfg.AddDefaultHeader("api-key", apiKey)
	cfg.AddDefaultHeader("partner-key", apiKey)
	br := brevo.NewAPIClient(cfg)

	if _, _, err := br.AccountApi.GetAccount(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach brevo account: %w", err)
	}

	return &EmailSharer{
		fromName:  fromName,
		fromEmail: fromEmail,
		sender:    br.TransactionalEmailsApi,
		logger:    logger,
	}, nil
}

func (e *EmailSharer) Share(ctx context.Context, doc Document) error {
	if err := doc.validate(); err != nil {
		return err
	}

	recipient := strings.TrimSpace(doc.Recipient)
	if recipient == "" {
		return ErrNoRecipient
	}
	addr, err := mail.ParseAddress(recipient)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrBadRecipient, recipient, err)
	}

	_, _, err = e.sender.SendTransacEmail(ctx, brevo.SendSmtpEmail{
		Sender: &brevo.SendSmtpEmailSender{
			Name:  e.fromName,
			Email: e.fromEmail,
		},
		To: []brevo.SendSmtpEmailTo{
			{
				Email: addr.Address,
				Name:  addr.Name,
			},
		},
		Subject:     doc.Title,
		TextContent: fmt.Sprintf("%s\n\nYour strategy is attached as %s.", doc.Title, doc.Filename),
		Attachment: []brevo.SendSmtpEmailAttachment{
			{
				Name:    doc.Filename,
				Content: base64.StdEncoding.EncodeToString(doc.Body),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	e.logger.WithField("recipient", addr.Address).Infof("Shared %s by email", doc.Filename)
	return nil
}
