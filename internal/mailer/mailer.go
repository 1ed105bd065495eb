// Package mailer defines the outbound email collaborator. Actual
// delivery is an external concern; the service layer only depends on
// this interface.
package mailer

import (
	"context"
	"log/slog"
)

// Mailer delivers transactional email to members.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer writes would-be emails to the log instead of sending them.
// Used in development and tests.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendPasswordReset logs the reset token delivery.
func (m *LogMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	m.logger.InfoContext(ctx, "password reset email (not sent: log mailer)",
		slog.String("email", email),
		slog.String("token", token),
	)
	return nil
}
