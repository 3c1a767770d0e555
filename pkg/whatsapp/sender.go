package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sumopedidos/sumo-backend/pkg/config"
)

const (
	defaultTimeout              = 10 * time.Second
	responseBodyReadLimit int64 = 1024
)

var (
	// ErrNotConfigured is returned by senders that have no credentials.
	// Callers record it as a skipped delivery rather than a failure.
	ErrNotConfigured = errors.New("whatsapp sender not configured")

	errInvalidPhone = errors.New("phone number has no digits")
)

// Sender delivers a plain text message to a phone number.
type Sender interface {
	SendText(ctx context.Context, phone, message string) error
}

// Option configures optional client behavior shared by the provider clients.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient  *http.Client
	baseURL     string
	countryCode string
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithBaseURL overrides the provider base URL.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			o.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// WithCountryCode sets the code substituted for a local leading zero.
func WithCountryCode(code string) Option {
	return func(o *clientOptions) {
		if trimmed := strings.TrimSpace(code); trimmed != "" {
			o.countryCode = trimmed
		}
	}
}

func buildOptions(defaultBaseURL string, opts []Option) clientOptions {
	o := clientOptions{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		baseURL:     defaultBaseURL,
		countryCode: DefaultCountryCode,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Disabled drops every message. It is used when no provider is configured.
type Disabled struct{}

func (Disabled) SendText(context.Context, string, string) error {
	return ErrNotConfigured
}

// NewFromConfig picks the provider client described by cfg. A provider with
// missing credentials falls back to Disabled so the app still boots.
func NewFromConfig(cfg config.WhatsAppConfig, opts ...Option) (Sender, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := []Option{
		WithHTTPClient(&http.Client{Timeout: timeout}),
		WithCountryCode(cfg.DefaultCountryCode),
	}
	opts = append(base, opts...)

	switch cfg.NormalizedProvider() {
	case config.WhatsAppProviderMeta:
		client, err := NewMetaClient(cfg.GraphVersion, cfg.PhoneNumberID, cfg.AccessToken, opts...)
		if errors.Is(err, ErrNotConfigured) {
			return Disabled{}, nil
		}
		return client, err
	case config.WhatsAppProviderGreenAPI:
		greenOpts := append([]Option{WithBaseURL(cfg.GreenBaseURL)}, opts...)
		client, err := NewGreenAPIClient(cfg.GreenInstanceID, cfg.GreenToken, greenOpts...)
		if errors.Is(err, ErrNotConfigured) {
			return Disabled{}, nil
		}
		return client, err
	case config.WhatsAppProviderDisabled:
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown whatsapp provider %q", cfg.Provider)
	}
}
