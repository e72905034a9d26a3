package notification

import (
	"ilimi/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConsoleBackend is the development transport. It writes messages to the
// log instead of sending them, so OTP codes and invite credentials stay
// visible while developing without a gateway account.
type ConsoleBackend struct{}

// NewConsoleBackend creates a console backend.
func NewConsoleBackend() *ConsoleBackend { return &ConsoleBackend{} }

func (b *ConsoleBackend) Send(recipient, message, senderID string) (*SendResult, error) {
	if senderID == "" {
		senderID = "Ilimi"
	}
	id := "console-" + uuid.NewString()
	logger.Get().Info("SMS (console backend)",
		zap.String("to", recipient),
		zap.String("from", senderID),
		zap.String("message", message),
		zap.String("message_id", id),
	)
	return &SendResult{Status: "success", MessageID: id, Recipient: recipient}, nil
}
