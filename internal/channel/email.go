package channel

import (
	"context"
	"fmt"
	"strings"

	"github.com/admitpath/admissions-api/internal/domain"
	mail "gopkg.in/mail.v2"
)

// EmailSender delivers notifications over SMTP. The recipient address is
// resolved through a student-identity lookup supplied by the caller.
type EmailSender struct {
	dialer        *mail.Dialer
	from          string
	resolveMailTo func(ctx context.Context, studentID int64) (string, error)
}

func NewEmailSender(
	host string,
	port int,
	username, password, from string,
	resolveMailTo func(ctx context.Context, studentID int64) (string, error),
) (*EmailSender, error) {
	if strings.TrimSpace(host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}
	if resolveMailTo == nil {
		return nil, fmt.Errorf("recipient resolver is required")
	}

	return &EmailSender{
		dialer:        mail.NewDialer(host, port, username, password),
		from:          from,
		resolveMailTo: resolveMailTo,
	}, nil
}

func (s *EmailSender) Send(ctx context.Context, n domain.Notification) error {
	if s == nil || s.dialer == nil {
		return fmt.Errorf("email sender is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	to, err := s.resolveMailTo(ctx, n.StudentID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient for student %d: %w", n.StudentID, err)
	}

	message := mail.NewMessage()
	message.SetHeader("From", s.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", n.Title)
	message.SetBody("text/plain", n.Message)

	if err := s.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
