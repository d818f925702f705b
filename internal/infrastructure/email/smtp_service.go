package email

import (
	"context"
	"fmt"
	"net/smtp"

	"mamareykjavik-backend/pkg/logger"
)

// Service sends transactional emails.
//
// Reconciliation treats every send as best-effort: errors are logged by
// the caller and never fail the payment acknowledgment.
type Service interface {
	SendPaymentConfirmation(ctx context.Context, data PaymentConfirmationData) error
	SendInternalOrderNotice(ctx context.Context, data InternalOrderNoticeData) error
}

type smtpEmailService struct {
	smtpAddr   string
	smtpFrom   string
	internalTo string
}

func NewSMTPService(smtpHost, smtpPort, from, internalTo string) Service {
	return &smtpEmailService{
		smtpAddr:   smtpHost + ":" + smtpPort,
		smtpFrom:   from,
		internalTo: internalTo,
	}
}

func (s *smtpEmailService) SendPaymentConfirmation(ctx context.Context, data PaymentConfirmationData) error {
	subject := fmt.Sprintf("Payment confirmed - order %s", data.OrderRef)
	body := fmt.Sprintf(`Hi %s,

Thank you! Your payment of %s %s has been received.

Order reference: %s

We look forward to seeing you at Mama Reykjavik.`,
		data.Name, data.Amount.String(), data.Currency, data.OrderRef)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, data.Email, subject, body))

	err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{data.Email}, msg)
	if err != nil {
		logger.Info("Failed to send confirmation email", map[string]interface{}{
			"error":     err.Error(),
			"to":        data.Email,
			"order_ref": data.OrderRef,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *smtpEmailService) SendInternalOrderNotice(ctx context.Context, data InternalOrderNoticeData) error {
	subject := fmt.Sprintf("New paid shop order %s", data.OrderRef)
	body := fmt.Sprintf(`A shop order was just paid.

Order reference: %s
Buyer: %s
Amount: %s %s`,
		data.OrderRef, data.BuyerEmail, data.Amount.String(), data.Currency)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, s.internalTo, subject, body))

	err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{s.internalTo}, msg)
	if err != nil {
		return fmt.Errorf("failed to send internal notice: %w", err)
	}

	return nil
}
