package notification

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ilimi/internal/logger"

	"go.uber.org/zap"
)

// Default endpoint for the Arkesel SMS API v2.
// https://developers.arkesel.com
const arkeselAPIURL = "https://sms.arkesel.com/api/v2/sms/send"

// ArkeselBackend is the production transport. Outbound calls carry a
// bounded timeout; a slow gateway blocks the calling request for at most
// that long and the failure surfaces as a soft error to the dispatcher.
type ArkeselBackend struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	senderID   string
}

// NewArkeselBackend creates an Arkesel backend with a 10 second timeout.
func NewArkeselBackend(apiKey, senderID string) *ArkeselBackend {
	return &ArkeselBackend{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     arkeselAPIURL,
		apiKey:     apiKey,
		senderID:   senderID,
	}
}

type arkeselPayload struct {
	Sender     string   `json:"sender"`
	Message    string   `json:"message"`
	Recipients []string `json:"recipients"`
}

func (b *ArkeselBackend) Send(recipient, message, senderID string) (*SendResult, error) {
	sender := senderID
	if sender == "" {
		sender = b.senderID
	}
	phone := normalizePhone(recipient)

	body, err := json.Marshal(arkeselPayload{
		Sender:     sender,
		Message:    message,
		Recipients: []string{phone},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, b.apiURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("api-key", b.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		logger.Get().Error("sms gateway request failed",
			zap.String("to", phone), zap.Error(err))
		return nil, fmt.Errorf("sms gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Get().Error("sms gateway returned non-OK status",
			zap.String("to", phone), zap.String("status", resp.Status))
		return nil, errors.New("sms gateway returned non-OK status: " + resp.Status)
	}

	var data map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	logger.Get().Info("sms sent", zap.String("to", phone))
	return &SendResult{Status: "success", Recipient: phone}, nil
}

// normalizePhone converts Ghana numbers to international format.
func normalizePhone(phone string) string {
	phone = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
	if strings.HasPrefix(phone, "0") {
		return "+233" + phone[1:]
	}
	if strings.HasPrefix(phone, "233") {
		return "+" + phone
	}
	return phone
}
