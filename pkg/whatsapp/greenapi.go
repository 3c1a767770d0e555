package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	pkgerrors "github.com/sumopedidos/sumo-backend/pkg/errors"
)

const defaultGreenAPIBaseURL = "https://api.green-api.com"

// GreenAPIClient sends text messages through a Green-API instance.
type GreenAPIClient struct {
	opts       clientOptions
	instanceID string
	token      string
}

// NewGreenAPIClient builds a client for the given instance credentials.
func NewGreenAPIClient(instanceID, token string, opts ...Option) (*GreenAPIClient, error) {
	instanceID = strings.TrimSpace(instanceID)
	token = strings.TrimSpace(token)
	if instanceID == "" || token == "" {
		return nil, ErrNotConfigured
	}
	return &GreenAPIClient{
		opts:       buildOptions(defaultGreenAPIBaseURL, opts),
		instanceID: instanceID,
		token:      token,
	}, nil
}

// SendText posts the message to <digits>@c.us.
func (c *GreenAPIClient) SendText(ctx context.Context, phone, message string) error {
	digits := NormalizePhone(phone, c.opts.countryCode)
	if digits == "" {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, errInvalidPhone, "normalize phone")
	}

	payload, err := json.Marshal(map[string]string{
		"chatId":  digits + "@c.us",
		"message": message,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal green-api message")
	}

	url := fmt.Sprintf("%s/waInstance%s/SendMessage/%s", c.opts.baseURL, c.instanceID, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build green-api request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.opts.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute green-api request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "green-api request failed")
	}
	return nil
}
