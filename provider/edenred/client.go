package edenred

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/gomexpay/edenred/infra/config"
	"github.com/gomexpay/edenred/provider"
)

// Config holds everything needed to build a client against one Edenred
// account.
type Config struct {
	ClientID      string
	ClientSecret  string
	PublicKeyPath string
	BaseURL       string
	// Testing bypasses card-data encryption so tests can run without key
	// fixtures.
	Testing bool
}

// Client is the entry point of the payment lifecycle. It is a thin facade
// over a GatewayProvider: register or retrieve a Card, then walk the chain
// Card -> Authorization -> Charge -> Refund. Every stage object is immutable
// and carries the provider forward; all validation and error translation
// happens in the provider layer and passes through verbatim.
type Client struct {
	provider provider.GatewayProvider
}

// NewClient builds the concrete HTTP provider from cfg and wraps it.
func NewClient(cfg Config) (*Client, error) {
	prov := NewProvider()
	err := prov.Initialize(map[string]string{
		"clientId":      cfg.ClientID,
		"clientSecret":  cfg.ClientSecret,
		"publicKeyPath": cfg.PublicKeyPath,
		"baseUrl":       cfg.BaseURL,
		"testing":       strconv.FormatBool(cfg.Testing),
	})
	if err != nil {
		return nil, err
	}
	return NewClientWithProvider(prov), nil
}

// NewClientFromEnv reads the client configuration from EDENRED_CLIENT_ID,
// EDENRED_CLIENT_SECRET, EDENRED_PUBLIC_KEY_PATH, EDENRED_BASE_URL and
// EDENRED_TESTING, then delegates to NewClient. It is a boundary adapter;
// the core never touches the process environment.
func NewClientFromEnv() (*Client, error) {
	return NewClient(Config{
		ClientID:      config.GetEnv("EDENRED_CLIENT_ID", ""),
		ClientSecret:  config.GetEnv("EDENRED_CLIENT_SECRET", ""),
		PublicKeyPath: config.GetEnv("EDENRED_PUBLIC_KEY_PATH", ""),
		BaseURL:       config.GetEnv("EDENRED_BASE_URL", ""),
		Testing:       config.GetBoolEnv("EDENRED_TESTING", false),
	})
}

// NewClientWithProvider wraps an already-built provider. Test doubles
// implementing provider.GatewayProvider plug in here.
func NewClientWithProvider(prov provider.GatewayProvider) *Client {
	return &Client{provider: prov}
}

// RegisterCard registers card data with the gateway and returns the Card
// holding the issued token.
func (c *Client) RegisterCard(ctx context.Context, cardNumber, cvv, expirationMonth, expirationYear, username, userID string) (*Card, error) {
	result, err := c.provider.CreatePaymentMethod(ctx, provider.CreatePaymentMethodRequest{
		CardNumber:      cardNumber,
		CVV:             cvv,
		ExpirationMonth: expirationMonth,
		ExpirationYear:  expirationYear,
		Username:        username,
		UserID:          userID,
	})
	if err != nil {
		return nil, err
	}
	return &Card{provider: c.provider, CardToken: result.CardToken}, nil
}

// RetrieveCard rebuilds a Card from a previously issued token without a
// gateway round trip.
func (c *Client) RetrieveCard(cardToken string) *Card {
	return &Card{provider: c.provider, CardToken: cardToken}
}

// Equal reports structural equality (same provider).
func (c *Client) Equal(other *Client) bool {
	return other != nil && c.provider == other.provider
}

// Card represents a card registered with the gateway, identified by its
// opaque token.
type Card struct {
	provider  provider.GatewayProvider
	CardToken string
}

// Authorize places a hold for amount on the card. The decimal amount is
// converted to integer minor units on the way out.
func (c *Card) Authorize(ctx context.Context, amount decimal.Decimal, description string) (*Authorization, error) {
	result, err := c.provider.Authorize(ctx, provider.AuthorizeRequest{
		CardToken:   c.CardToken,
		Amount:      provider.ToMinorUnits(amount),
		Description: description,
	})
	if err != nil {
		return nil, err
	}
	return &Authorization{provider: c.provider, ChargeID: result.AuthorizeIdentifier, Card: c}, nil
}

// Capture charges the card directly, without a prior authorization.
func (c *Card) Capture(ctx context.Context, amount decimal.Decimal, description string) (*Charge, error) {
	result, err := c.provider.Pay(ctx, provider.PayRequest{
		CardToken:   c.CardToken,
		Amount:      provider.ToMinorUnits(amount),
		Description: description,
	})
	if err != nil {
		return nil, err
	}
	return &Charge{provider: c.provider, ChargeID: result.PayIdentifier, Card: c}, nil
}

// RetrieveAuthorization rebuilds an Authorization from a previously issued
// identifier without a gateway round trip.
func (c *Card) RetrieveAuthorization(chargeID string) *Authorization {
	return &Authorization{provider: c.provider, ChargeID: chargeID, Card: c}
}

// Equal reports structural equality (same provider and token).
func (c *Card) Equal(other *Card) bool {
	return other != nil && c.provider == other.provider && c.CardToken == other.CardToken
}

// Authorization represents a placed, not yet captured, hold on a card.
type Authorization struct {
	provider provider.GatewayProvider
	ChargeID string
	Card     *Card
}

// Capture settles the authorization for amount and returns the resulting
// Charge, which keeps the originating Card.
func (a *Authorization) Capture(ctx context.Context, amount decimal.Decimal, description string) (*Charge, error) {
	result, err := a.provider.Capture(ctx, provider.CaptureRequest{
		CardToken:           a.Card.CardToken,
		AuthorizeIdentifier: a.ChargeID,
		Amount:              provider.ToMinorUnits(amount),
		Description:         description,
	})
	if err != nil {
		return nil, err
	}
	return &Charge{provider: a.provider, ChargeID: result.CaptureIdentifier, Card: a.Card}, nil
}

// Equal reports structural equality (same provider, identifier and card).
func (a *Authorization) Equal(other *Authorization) bool {
	return other != nil && a.provider == other.provider && a.ChargeID == other.ChargeID && a.Card.Equal(other.Card)
}

// Charge represents a completed charge on a card.
type Charge struct {
	provider provider.GatewayProvider
	ChargeID string
	Card     *Card
}

// Refund returns amount to the cardholder. The confirmed amount comes back
// from the gateway in minor units and is converted to an exact decimal.
func (ch *Charge) Refund(ctx context.Context, amount decimal.Decimal, description string) (*Refund, error) {
	result, err := ch.provider.Refund(ctx, provider.RefundRequest{
		CardToken:     ch.Card.CardToken,
		PayIdentifier: ch.ChargeID,
		Amount:        provider.ToMinorUnits(amount),
		Description:   description,
	})
	if err != nil {
		return nil, err
	}
	return &Refund{provider: ch.provider, Charge: ch, Amount: provider.FromMinorUnits(result.Amount)}, nil
}

// Equal reports structural equality (same provider, identifier and card).
func (ch *Charge) Equal(other *Charge) bool {
	return other != nil && ch.provider == other.provider && ch.ChargeID == other.ChargeID && ch.Card.Equal(other.Card)
}

// Refund is the terminal stage: funds returned for a charge, with the
// gateway-confirmed decimal amount.
type Refund struct {
	provider provider.GatewayProvider
	Charge   *Charge
	Amount   decimal.Decimal
}

// Equal reports structural equality (same provider, charge and amount).
func (r *Refund) Equal(other *Refund) bool {
	return other != nil && r.provider == other.provider && r.Charge.Equal(other.Charge) && r.Amount.Equal(other.Amount)
}
