package notification

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"local zero prefix", "0241234567", "+233241234567"},
		{"country code no plus", "233241234567", "+233241234567"},
		{"already international", "+233241234567", "+233241234567"},
		{"spaces and dashes stripped", "024 123-4567", "+233241234567"},
		{"foreign number untouched", "+447911123456", "+447911123456"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePhone(tt.in))
		})
	}
}

func TestConsoleBackendSend(t *testing.T) {
	backend := NewConsoleBackend()

	result, err := backend.Send("+233241234567", "hello", "")

	assert.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, "+233241234567", result.Recipient)
	assert.Contains(t, result.MessageID, "console-")
}

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Send(recipient, message, senderID string) (*SendResult, error) {
	args := m.Called(recipient, message, senderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SendResult), args.Error(1)
}

func TestSendOTPSMS_MessageTemplate(t *testing.T) {
	backend := new(MockBackend)
	var sent string
	backend.On("Send", "+233241234567", mock.Anything, "").
		Run(func(args mock.Arguments) {
			sent = args.String(1)
		}).Return(&SendResult{Status: "success"}, nil)

	err := NewService(backend).SendOTPSMS("+233241234567", "482913")

	assert.NoError(t, err)
	assert.Contains(t, sent, "482913")
	assert.Contains(t, sent, "expires in 10 minutes")
	assert.Contains(t, sent, "Do not share")
}

func TestSendWelcomeSMS_MessageTemplate(t *testing.T) {
	backend := new(MockBackend)
	var sent string
	backend.On("Send", "+233241234567", mock.Anything, "").
		Run(func(args mock.Arguments) {
			sent = args.String(1)
		}).Return(&SendResult{Status: "success"}, nil)

	err := NewService(backend).SendWelcomeSMS("+233241234567", "Sunrise Academy")

	assert.NoError(t, err)
	assert.Contains(t, sent, "Sunrise Academy")
	assert.Contains(t, sent, "30-day free trial")
}

func TestSendSMS_BackendErrorPropagates(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("gateway down"))

	err := NewService(backend).SendSMS("+233241234567", "hello")

	assert.Error(t, err)
}
