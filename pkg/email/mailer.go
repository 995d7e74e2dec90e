// Package email is the delivery seam for password-reset mail. Actual
// provider integration lives outside this service; the default mailer
// records the reset link in the log so development flows stay usable.
package email

import (
	"context"

	"go.uber.org/zap"
)

type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

// LogMailer logs reset links instead of sending them.
type LogMailer struct {
	Logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{Logger: logger}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	m.Logger.Info("password reset requested",
		zap.String("to", to),
		zap.String("reset_url", resetURL))
	return nil
}
