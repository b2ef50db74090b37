// Package services содержит отправку писем о скором окончании абонемента.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/smtp"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// NotifierService отправляет письма по сообщениям из очереди уведомлений.
type NotifierService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewNotifierService создает новый экземпляр NotifierService.
func NewNotifierService(transport smtp.TransportInterface, log *slog.Logger) *NotifierService {
	return &NotifierService{
		transport: transport,
		log:       log,
	}
}

// HandleExpiring обрабатывает сообщение models.ExpiryNotice.
// Нечитаемые сообщения и сообщения без адреса отбрасываются: повторная доставка их не исправит.
func (s *NotifierService) HandleExpiring(body []byte) error {
	var notice models.ExpiryNotice
	if err := json.Unmarshal(body, &notice); err != nil {
		s.log.Error("failed to unmarshal message body, dropping", sl.Err(err))
		return nil
	}
	if notice.Email == "" {
		s.log.Warn("expiry notice without email, dropping", slog.String("username", notice.Username))
		return nil
	}

	subject := "Your gym membership expires soon"
	bodyText := fmt.Sprintf("Hello, %s!\r\n\r\nYour gym membership expires on %s.\r\nPlease renew it to keep training without interruption.",
		notice.Username, notice.ExpiryDate.Format(time.DateOnly))

	return s.sendEmail([]string{notice.Email}, subject, bodyText)
}

func (s *NotifierService) sendEmail(to []string, subject, bodyText string) error {
	const op = "services.notifier.sendEmail"

	from := s.transport.Sender()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer client.Close()

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("%s: mail from %s: %w", op, from, err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("%s: rcpt to %s: %w", op, addr, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("expiry email sent", slog.Any("to", to))
	return nil
}
