package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/example/orderdesk/pkg/discovery"
	"go.uber.org/zap"
)

// Client is the dashboard-side handle on the notification service. The
// service address is resolved through etcd on every send, so a
// restarted notifier is picked up without reconfiguration.
type Client struct {
	discovery   *discovery.ServiceDiscovery
	serviceName string
	httpClient  *http.Client
	logger      *zap.Logger
}

func NewClient(disc *discovery.ServiceDiscovery, serviceName string, logger *zap.Logger) *Client {
	return &Client{
		discovery:   disc,
		serviceName: serviceName,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) OrderReceived(ctx context.Context, phoneNumber string, messageBody []string) error {
	if err := ValidateBody(messageBody); err != nil {
		return err
	}
	return c.post(ctx, "/api/order-received", SendRequest{
		PhoneNumber: phoneNumber,
		MessageBody: messageBody,
	})
}

func (c *Client) OrderOutForDelivery(ctx context.Context, phoneNumber, customerName, deliveryWindow string) error {
	return c.post(ctx, "/api/order-out-delivery", DeliveryRequest{
		PhoneNumber:    phoneNumber,
		CustomerName:   customerName,
		DeliveryWindow: deliveryWindow,
	})
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	instance, err := c.discovery.Resolve(ctx, c.serviceName)
	if err != nil {
		return fmt.Errorf("failed to resolve notifier: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://%s%s", instance.Addr(), path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notifier request failed: %w", err)
	}
	defer resp.Body.Close()

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode notifier response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("notifier rejected message: %s", result.Message)
	}

	c.logger.Info("Notification delivered", zap.String("path", path))
	return nil
}
