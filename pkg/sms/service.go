// Package sms provides the SMS gateway client used for client notifications.
package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/reflexops/fleetadmin/pkg/config"
	"github.com/reflexops/fleetadmin/pkg/metrics"
)

const (
	// RequestTimeout for gateway requests
	RequestTimeout = 10 * time.Second
)

// Response represents the gateway response for a single message
type Response struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// Service sends SMS messages through a Twilio-compatible REST gateway
type Service struct {
	cfg    config.SMSConfig
	client *http.Client
	logger *slog.Logger
}

// NewService creates a new SMS service
func NewService(cfg config.SMSConfig, logger *slog.Logger) *Service {
	return &Service{
		cfg: cfg,
		client: &http.Client{
			Timeout: RequestTimeout,
		},
		logger: logger,
	}
}

// Send delivers a single message and returns the gateway message SID.
// Numbers without a leading + are promoted to E.164 form first.
func (s *Service) Send(ctx context.Context, to, message string) (string, error) {
	if to == "" {
		return "", errors.New("recipient phone number is required")
	}
	if message == "" {
		return "", errors.New("message body is required")
	}

	if !strings.HasPrefix(to, "+") {
		to = "+" + to
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.cfg.FromNumber)
	form.Set("Body", message)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.cfg.BaseURL, s.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.SMSSentTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("SMS request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.SMSSentTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to read SMS response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.SMSSentTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("SMS gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		metrics.SMSSentTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to decode SMS response: %w", err)
	}

	if result.ErrorCode != nil {
		metrics.SMSSentTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("SMS gateway error %d: %s", *result.ErrorCode, result.ErrorMessage)
	}

	metrics.SMSSentTotal.WithLabelValues("ok").Inc()
	s.logger.Debug("SMS sent",
		slog.String("sid", result.SID),
		slog.String("status", result.Status),
	)

	return result.SID, nil
}
