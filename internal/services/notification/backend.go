// Package notification dispatches SMS messages through a pluggable backend.
// Dispatch is best-effort everywhere it is used: delivery failure is logged
// for operators but never unwinds the transactional work that preceded it.
package notification

// SendResult reports the outcome of a single send.
type SendResult struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id,omitempty"`
	Recipient string `json:"recipient"`
}

// Backend is a swappable SMS transport. The console backend logs messages
// in development; the Arkesel backend posts to the gateway in production.
type Backend interface {
	Send(recipient, message, senderID string) (*SendResult, error)
}
