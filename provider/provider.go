package provider

import "context"

// ConfigField describes one configuration entry a gateway integration expects.
type ConfigField struct {
	Key         string `json:"key"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // "string", "url", "boolean"
	Description string `json:"description"`
	Example     string `json:"example"`
	Pattern     string `json:"pattern,omitempty"`
	MinLength   int    `json:"minLength,omitempty"`
	MaxLength   int    `json:"maxLength,omitempty"`
}

// CreatePaymentMethodRequest carries the card data needed to register a card
// with the gateway. The sensitive fields are encrypted by the integration
// before they leave the process.
type CreatePaymentMethodRequest struct {
	CardNumber      string
	CVV             string
	ExpirationMonth string
	ExpirationYear  string
	Username        string
	UserID          string
}

// AuthorizeRequest places a hold on a registered card.
// Amount is in integer minor units (cents).
type AuthorizeRequest struct {
	CardToken   string
	Amount      int64
	Description string
}

// PayRequest charges a registered card without a prior authorization.
type PayRequest struct {
	CardToken   string
	Amount      int64
	Description string
}

// CaptureRequest settles a previously placed authorization.
type CaptureRequest struct {
	CardToken           string
	AuthorizeIdentifier string
	Amount              int64
	Description         string
}

// RefundRequest returns funds for a completed charge.
type RefundRequest struct {
	CardToken     string
	PayIdentifier string
	Amount        int64
	Description   string
}

// PaymentMethodResult holds the opaque card token issued by the gateway.
type PaymentMethodResult struct {
	CardToken string
}

// AuthorizeResult holds the identifier of a placed authorization hold.
type AuthorizeResult struct {
	AuthorizeIdentifier string
}

// PayResult holds the identifier of a completed charge.
type PayResult struct {
	PayIdentifier string
}

// CaptureResult holds the identifier of a settled authorization.
type CaptureResult struct {
	CaptureIdentifier string
}

// RefundResult holds the gateway-confirmed refunded amount in minor units.
type RefundResult struct {
	Amount int64
}

// GatewayProvider defines the interface that card-payment gateway
// integrations implement. The concrete HTTP integration and test doubles are
// interchangeable behind it.
type GatewayProvider interface {
	// Initialize sets up the integration with credentials and configuration.
	Initialize(config map[string]string) error

	// GetRequiredConfig returns the configuration fields required for this integration.
	GetRequiredConfig(environment string) []ConfigField

	// ValidateConfig validates the provided configuration against the requirements.
	ValidateConfig(config map[string]string) error

	// CreatePaymentMethod registers a card and returns its token.
	CreatePaymentMethod(ctx context.Context, request CreatePaymentMethodRequest) (*PaymentMethodResult, error)

	// Authorize places a hold on a card without moving funds.
	Authorize(ctx context.Context, request AuthorizeRequest) (*AuthorizeResult, error)

	// Pay charges a card directly, without a prior authorization.
	Pay(ctx context.Context, request PayRequest) (*PayResult, error)

	// Capture settles a previously placed authorization.
	Capture(ctx context.Context, request CaptureRequest) (*CaptureResult, error)

	// Refund returns funds for a completed charge.
	Refund(ctx context.Context, request RefundRequest) (*RefundResult, error)
}

// ProviderFactory is a function type that creates a new GatewayProvider
type ProviderFactory func() GatewayProvider
