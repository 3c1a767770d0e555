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

const (
	defaultMetaBaseURL  = "https://graph.facebook.com"
	defaultGraphVersion = "v20.0"
)

// MetaClient sends text messages through the WhatsApp Cloud API.
type MetaClient struct {
	opts          clientOptions
	graphVersion  string
	phoneNumberID string
	accessToken   string
}

// NewMetaClient builds a Cloud API client for the given sender phone id.
func NewMetaClient(graphVersion, phoneNumberID, accessToken string, opts ...Option) (*MetaClient, error) {
	phoneNumberID = strings.TrimSpace(phoneNumberID)
	accessToken = strings.TrimSpace(accessToken)
	if phoneNumberID == "" || accessToken == "" {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(graphVersion) == "" {
		graphVersion = defaultGraphVersion
	}
	return &MetaClient{
		opts:          buildOptions(defaultMetaBaseURL, opts),
		graphVersion:  strings.TrimSpace(graphVersion),
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
	}, nil
}

type metaTextRequest struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

// SendText posts a text message to the normalized phone number.
func (c *MetaClient) SendText(ctx context.Context, phone, message string) error {
	to := NormalizePhone(phone, c.opts.countryCode)
	if to == "" {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, errInvalidPhone, "normalize phone")
	}

	body := metaTextRequest{MessagingProduct: "whatsapp", To: to, Type: "text"}
	body.Text.Body = message
	payload, err := json.Marshal(body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal whatsapp message")
	}

	url := fmt.Sprintf("%s/%s/%s/messages", c.opts.baseURL, c.graphVersion, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build whatsapp request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.opts.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute whatsapp request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, metaError(resp), "whatsapp request failed")
	}
	return nil
}

func metaError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	var apiErr struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}
	return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}
