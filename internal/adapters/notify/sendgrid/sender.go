// Package sendgrid implementa el port de notificaciones sobre la API de
// SendGrid. El mail de confirmación es best-effort: el que llama ignora
// el error salvo para loguearlo.
package sendgrid

import (
	"context"
	"fmt"
	"strings"

	"vet-appointments/internal/platform/logger"
	"vet-appointments/internal/ports/notify"

	sg "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Config struct {
	APIKey    string
	FromEmail string
	FromName  string
}

type Sender struct {
	client *sg.Client
	from   *mail.Email
	log    logger.Logger
}

// NewSender devuelve nil si no hay API key (dev): el service lo
// interpreta como "sin mails".
func NewSender(cfg Config, log logger.Logger) *Sender {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}
	name := cfg.FromName
	if strings.TrimSpace(name) == "" {
		name = "Urban Animal Clinic"
	}
	return &Sender{
		client: sg.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(name, cfg.FromEmail),
		log:    log,
	}
}

func (s *Sender) AppointmentCreated(ctx context.Context, n notify.AppointmentNotice) error {
	toName := n.ToName
	if strings.TrimSpace(toName) == "" {
		toName = n.ToEmail
	}
	to := mail.NewEmail(toName, n.ToEmail)

	subject := "Appointment Confirmed - Urban Animal Clinic"
	plain := plainBody(n)
	msg := mail.NewSingleEmail(s.from, subject, to, plain, htmlBody(n))

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}

	if s.log != nil {
		s.log.Info("confirmation email sent", map[string]any{"to": n.ToEmail})
	}
	return nil
}

func plainBody(n notify.AppointmentNotice) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "Dear %s,\n\nYour appointment has been scheduled.\n\n", n.ToName)
	fmt.Fprintf(b, "Date: %s\n", n.Date.Format("Monday, January 2, 2006"))
	fmt.Fprintf(b, "Time: %s\n", n.TimeSlot)
	fmt.Fprintf(b, "Pet: %s (%s)\n", n.PetName, n.PetSpecies)
	fmt.Fprintf(b, "Veterinarian: Dr. %s\n", n.VetName)
	if n.Reason != "" {
		fmt.Fprintf(b, "Reason: %s\n", n.Reason)
	}
	fmt.Fprintf(b, "Payment: %s\n", paymentLabel(n.PaymentMethod))
	b.WriteString("\nPlease arrive 10 minutes before your scheduled time.\n")
	b.WriteString("If you need to reschedule or cancel, contact us as soon as possible.\n")
	return b.String()
}

func htmlBody(n notify.AppointmentNotice) string {
	b := &strings.Builder{}
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h2 style="color: #3B82F6;">Appointment Confirmed!</h2>`)
	fmt.Fprintf(b, "<p>Dear %s,</p><p>Your appointment has been scheduled.</p>", n.ToName)
	b.WriteString(`<div style="background: #F3F4F6; padding: 20px; border-radius: 8px;">`)
	fmt.Fprintf(b, "<p><strong>Date:</strong> %s</p>", n.Date.Format("Monday, January 2, 2006"))
	fmt.Fprintf(b, "<p><strong>Time:</strong> %s</p>", n.TimeSlot)
	fmt.Fprintf(b, "<p><strong>Pet:</strong> %s (%s)</p>", n.PetName, n.PetSpecies)
	fmt.Fprintf(b, "<p><strong>Veterinarian:</strong> Dr. %s</p>", n.VetName)
	if n.Reason != "" {
		fmt.Fprintf(b, "<p><strong>Reason:</strong> %s</p>", n.Reason)
	}
	fmt.Fprintf(b, "<p><strong>Payment:</strong> %s</p>", paymentLabel(n.PaymentMethod))
	b.WriteString("</div>")
	b.WriteString("<p>Please arrive 10 minutes before your scheduled time.</p>")
	b.WriteString("</div>")
	return b.String()
}

func paymentLabel(method string) string {
	if method == "pay_now" {
		return "Paid online"
	}
	return "Pay at the clinic"
}
