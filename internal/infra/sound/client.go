package sound

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/KasumiMercury/primind-alarm-session/internal/observability/logging"
	"github.com/KasumiMercury/primind-alarm-session/internal/observability/tracing"
)

// Client talks to the primind device push relay, which delivers the
// stop-ringing signal to the user's devices.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type stopRequest struct {
	UserID       string   `json:"user_id"`
	DeviceTokens []string `json:"device_tokens,omitempty"`
}

func (c *Client) Stop(ctx context.Context, userID string, deviceTokens []string) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path = "/api/v1/devices/sound/stop"

	body, err := json.Marshal(stopRequest{
		UserID:       userID,
		DeviceTokens: deviceTokens,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	slog.Debug("stopping alarm sound via push relay",
		slog.String("user_id", userID),
		slog.Int("device_count", len(deviceTokens)),
		slog.String("url", u.String()),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	requestID := logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx))
	req.Header.Set("x-request-id", requestID)
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("failed to send sound stop request",
			slog.String("user_id", userID),
			slog.String("url", u.String()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// The relay answers 404 when no device is ringing; stop is idempotent.
	if resp.StatusCode == http.StatusNotFound {
		slog.Debug("no ringing device registered for user",
			slog.String("user_id", userID),
		)
		return nil
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		slog.Error("unexpected status code from push relay",
			slog.String("user_id", userID),
			slog.String("url", u.String()),
			slog.Int("status_code", resp.StatusCode),
		)
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	slog.Debug("alarm sound stopped",
		slog.String("user_id", userID),
	)

	return nil
}
