package notification

import (
	"fmt"

	"ilimi/internal/config"
	"ilimi/internal/logger"

	"go.uber.org/zap"
)

// Service sends domain SMS messages through the configured backend.
type Service struct {
	backend Backend
}

// NewService creates a notification service with an explicit backend.
func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// NewServiceFromEnv picks the backend from configuration: Arkesel when an
// API key is configured in production mode, console otherwise.
func NewServiceFromEnv() *Service {
	apiKey := config.GetEnv("ARKESEL_API_KEY", "")
	if config.IsProduction() && apiKey != "" {
		return NewService(NewArkeselBackend(apiKey, config.GetEnv("SMS_SENDER_ID", "Ilimi")))
	}
	return NewService(NewConsoleBackend())
}

// SendSMS sends a raw message. Callers on transactional paths treat the
// returned error as best-effort and log it rather than failing.
func (s *Service) SendSMS(recipient, message string) error {
	_, err := s.backend.Send(recipient, message, "")
	return err
}

// SendOTPSMS delivers a phone verification code.
func (s *Service) SendOTPSMS(recipient, code string) error {
	message := fmt.Sprintf(
		"Your Ilimi verification code is: %s\nThis code expires in 10 minutes. Do not share it with anyone.",
		code,
	)
	return s.SendSMS(recipient, message)
}

// SendWelcomeSMS delivers the post-onboarding welcome message.
func (s *Service) SendWelcomeSMS(recipient, schoolName string) error {
	message := fmt.Sprintf(
		"Welcome to Ilimi! Your school '%s' has been successfully set up. "+
			"Your 30-day free trial has started. Visit ilimi.app to get started.",
		schoolName,
	)
	return s.SendSMS(recipient, message)
}

// LogDeliveryFailure records a best-effort delivery failure so operators
// can spot patterns without the failure gating the primary operation.
func LogDeliveryFailure(kind, recipient string, err error) {
	logger.Get().Warn("sms delivery failed",
		zap.String("kind", kind),
		zap.String("to", recipient),
		zap.Error(err),
	)
}
