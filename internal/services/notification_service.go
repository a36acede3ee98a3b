package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// NotificationService is the outbound email boundary. Delivery is
// best-effort: callers treat a failure as reportable but never roll back
// state that was already persisted.
type NotificationService interface {
	SendOtpEmail(ctx context.Context, email, code string) error
}

type notificationService struct {
	providerURL string
	providerKey string
	httpClient  *http.Client
}

// NewNotificationService creates an email notifier. When providerURL is
// empty the notifier logs instead of calling out, which keeps development
// environments mail-free.
func NewNotificationService(providerURL, providerKey string) NotificationService {
	return &notificationService{
		providerURL: providerURL,
		providerKey: providerKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *notificationService) SendOtpEmail(ctx context.Context, email, code string) error {
	subject := "Your verification code"
	body := fmt.Sprintf("Your one-time verification code is %s. It expires in 10 minutes.", code)

	if s.providerURL == "" {
		log.Printf("[EMAIL] To=%s, Subject=%s", email, subject)
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"to":      email,
		"subject": subject,
		"body":    body,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.providerURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.providerKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.providerKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}
	return nil
}
