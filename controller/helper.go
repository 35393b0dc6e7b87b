package controller

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/billingcat/clinvoice/model"
	"github.com/mailjet/mailjet-apiv3-go"
	"github.com/urfave/cli/v2"
)

// invoiceMail is one outgoing invoice message.
type invoiceMail struct {
	To         string
	ToName     string
	From       string
	FromName   string
	Subject    string
	Body       string
	Attachment string
}

func (ctrl *controller) invoiceSend(c *cli.Context) error {
	id, err := invoiceIDArg(c)
	if err != nil {
		return ctrl.exitError(err)
	}
	inv, err := ctrl.model.LoadInvoice(id)
	if err != nil {
		return ctrl.exitError(err)
	}
	if inv.Client.Email == "" {
		return ctrl.exitError(&model.ValidationError{Err: model.ErrValidation, Input: inv.Client.Name, Details: "client has no email address"})
	}
	if inv.PDFPath == "" {
		return ctrl.exitError(fmt.Errorf("invoice %s has no PDF: %w", inv.Number(), model.ErrNotFound))
	}
	from := ctrl.cfg.MailFrom
	if from == "" {
		from = inv.Company.Email
	}
	msg := invoiceMail{
		To:         inv.Client.Email,
		ToName:     inv.Client.Name,
		From:       from,
		FromName:   inv.Company.Name,
		Subject:    fmt.Sprintf("Invoice %s from %s", inv.Number(), inv.Company.Name),
		Body:       fmt.Sprintf("Dear %s,\n\nplease find attached invoice %s dated %s.\n\n%s", inv.Client.Name, inv.Number(), inv.Date, inv.Company.Name),
		Attachment: inv.PDFPath,
	}
	if err = ctrl.sendEmail(msg); err != nil {
		return ctrl.exitError(err)
	}
	ctrl.logger.Info("invoice sent", "invoice", inv.Number(), "to", msg.To)
	return nil
}

func (ctrl *controller) sendEmail(msg invoiceMail) error {
	// without credentials, only show what would be sent
	if ctrl.cfg.MailAPIKey != "" && ctrl.cfg.MailSecret != "" {
		return ctrl.sendRealEmail(msg)
	}
	fmt.Fprintln(ctrl.out, "Sending email to", msg.To, "with subject", msg.Subject, "and attachment", msg.Attachment)
	return nil
}

func (ctrl *controller) sendRealEmail(msg invoiceMail) error {
	if msg.From == "" {
		return &model.ValidationError{Err: model.ErrValidation, Details: "mail_from is not configured and the company has no email"}
	}
	pdf, err := os.ReadFile(msg.Attachment)
	if err != nil {
		return fmt.Errorf("%w: read invoice pdf: %w", model.ErrIO, err)
	}
	mj := mailjet.NewMailjetClient(ctrl.cfg.MailAPIKey, ctrl.cfg.MailSecret)

	messagesInfo := []mailjet.InfoMessagesV31{
		{
			From: &mailjet.RecipientV31{
				Email: msg.From,
				Name:  msg.FromName,
			},
			To: &mailjet.RecipientsV31{
				mailjet.RecipientV31{
					Email: msg.To,
					Name:  msg.ToName,
				},
			},
			Subject:  msg.Subject,
			TextPart: msg.Body,
			Attachments: &mailjet.AttachmentsV31{
				mailjet.AttachmentV31{
					ContentType:   "application/pdf",
					Filename:      filepath.Base(msg.Attachment),
					Base64Content: base64.StdEncoding.EncodeToString(pdf),
				},
			},
		},
	}

	messages := mailjet.MessagesV31{Info: messagesInfo}
	if _, err := mj.SendMailV31(&messages); err != nil {
		return fmt.Errorf("cannot send email to %s: %w", msg.To, err)
	}
	fmt.Fprintf(ctrl.out, "Invoice sent to %s\n", msg.To)
	return nil
}
