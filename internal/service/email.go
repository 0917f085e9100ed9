package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendGridEmailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) send(to, toName, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *sendGridEmailService) SendRequestSubmitted(ctx context.Context, to, toName, renterName, listingTitle string) error {
	subject := fmt.Sprintf("New rental request for %s", listingTitle)
	body := fmt.Sprintf("Hello %s,\n\n%s wants to rent your %s. Log in to approve or deny the request.\n\nThe GearShare Team", toName, renterName, listingTitle)
	return s.send(to, toName, subject, body)
}

func (s *sendGridEmailService) SendRequestDecided(ctx context.Context, to, toName, listingTitle string, approved bool, denialReason string) error {
	if approved {
		subject := fmt.Sprintf("Your request for %s was approved", listingTitle)
		body := fmt.Sprintf("Hello %s,\n\nGood news, your rental request for %s was approved. Complete the payment to lock in your rental.\n\nThe GearShare Team", toName, listingTitle)
		return s.send(to, toName, subject, body)
	}
	subject := fmt.Sprintf("Your request for %s was denied", listingTitle)
	body := fmt.Sprintf("Hello %s,\n\nUnfortunately your rental request for %s was denied.\n\nReason: %s\n\nThe GearShare Team", toName, listingTitle, denialReason)
	return s.send(to, toName, subject, body)
}

func (s *sendGridEmailService) SendPaymentReceived(ctx context.Context, to, toName, listingTitle string, amount float64) error {
	subject := fmt.Sprintf("Payment received for %s", listingTitle)
	body := fmt.Sprintf("Hello %s,\n\nThe renter has paid ₹%.2f for %s. The rental is now active.\n\nThe GearShare Team", toName, amount, listingTitle)
	return s.send(to, toName, subject, body)
}

func (s *sendGridEmailService) SendReturnInitiated(ctx context.Context, to, toName, listingTitle string, lateFee float64) error {
	subject := fmt.Sprintf("Return initiated for %s", listingTitle)
	body := fmt.Sprintf("Hello %s,\n\nThe renter has started the return of your %s.", toName, listingTitle)
	if lateFee > 0 {
		body += fmt.Sprintf(" A late fee of ₹%.2f has accrued.", lateFee)
	}
	body += "\n\nThe GearShare Team"
	return s.send(to, toName, subject, body)
}

func (s *sendGridEmailService) SendRentalCompleted(ctx context.Context, to, toName, listingTitle string) error {
	subject := fmt.Sprintf("Rental of %s completed", listingTitle)
	body := fmt.Sprintf("Hello %s,\n\nThe rental of %s is complete. Don't forget to rate your counterparty.\n\nThe GearShare Team", toName, listingTitle)
	return s.send(to, toName, subject, body)
}
