package notify

import (
	"context"
	"log/slog"
)

// Purpose identifies what a notification is for.
type Purpose string

const (
	// PurposeEmailVerification carries a verification link token.
	PurposeEmailVerification Purpose = "email_verification"

	// PurposeLoginCode carries a one-time login code.
	PurposeLoginCode Purpose = "login_code"
)

// Message is an outbound notification to an account holder. Exactly one of
// Token or Code is set, depending on Purpose.
type Message struct {
	// To is the recipient email address.
	To string

	Purpose Purpose

	// Token is the opaque verification token, for building a link.
	Token string

	// Code is the 6-digit one-time login code.
	Code string
}

// Notifier delivers messages to account holders. Delivery failures are
// returned so the caller can decide whether the operation should fail.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// LogNotifier writes notifications to the service log instead of sending
// them anywhere. Suitable for development and for deployments where a mail
// relay tails the log stream.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) Notify(_ context.Context, msg Message) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch msg.Purpose {
	case PurposeEmailVerification:
		logger.Info("notification: email verification",
			"to", msg.To,
			"token", msg.Token,
		)
	case PurposeLoginCode:
		logger.Info("notification: login code",
			"to", msg.To,
			"code", msg.Code,
		)
	default:
		logger.Info("notification",
			"to", msg.To,
			"purpose", string(msg.Purpose),
		)
	}
	return nil
}
