package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/example/orderdesk/pkg/config"
	"go.uber.org/zap"
)

// Sender delivers a message to a customer's WhatsApp number.
type Sender interface {
	SendOrderReceived(ctx context.Context, phoneNumber string, messageBody []string) error
	SendOrderArriving(ctx context.Context, phoneNumber, customerName, deliveryWindow string) error
}

// WhatsappSender talks to an external WhatsApp gateway over HTTP.
type WhatsappSender struct {
	gatewayURL string
	apiToken   string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewWhatsappSender(cfg *config.NotifierConfig, logger *zap.Logger) *WhatsappSender {
	return &WhatsappSender{
		gatewayURL: cfg.GatewayURL,
		apiToken:   cfg.APIToken,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

func (s *WhatsappSender) SendOrderReceived(ctx context.Context, phoneNumber string, messageBody []string) error {
	if err := ValidateBody(messageBody); err != nil {
		return err
	}
	text := "Thanks for your order!\n" + strings.Join(messageBody, "\n")
	return s.send(ctx, phoneNumber, text)
}

func (s *WhatsappSender) SendOrderArriving(ctx context.Context, phoneNumber, customerName, deliveryWindow string) error {
	text := fmt.Sprintf("Hi %s! Your order is out for delivery and should arrive %s.",
		customerName, deliveryWindow)
	return s.send(ctx, phoneNumber, text)
}

func (s *WhatsappSender) send(ctx context.Context, phoneNumber, text string) error {
	payload, err := json.Marshal(map[string]string{
		"phone":   phoneNumber,
		"message": text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiToken)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("whatsapp gateway returned status %d", resp.StatusCode)
	}

	s.logger.Info("WhatsApp message sent", zap.String("phone_number", phoneNumber))
	return nil
}
