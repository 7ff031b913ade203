package edenred

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gomexpay/edenred/provider"
)

const (
	// API Endpoints
	endpointLogin               = "/Login"
	endpointCreatePaymentMethod = "/PaymentMethod/Create"
	endpointAuthorize           = "/Payment/Authorize"
	endpointPay                 = "/Payment/Pay"
	endpointCapture             = "/Payment/Capture"
	endpointRefund              = "/Payment/%s/Refund" // %s will be replaced with payIdentifier

	// The gateway expects the session token in this header on every
	// resource call except login.
	headerAccessToken = "access_token"

	defaultTimeout = 30 * time.Second
)

// EdenredProvider implements the provider.GatewayProvider interface for the
// Edenred card-payment gateway.
type EdenredProvider struct {
	clientID     string
	clientSecret string
	baseURL      string
	isProduction bool
	publicKey    *PublicKey
	client       *provider.ProviderHTTPClient

	// mu guards the read-check-refresh of the cached session token so that
	// concurrent callers cannot lose an update.
	mu          sync.Mutex
	accessToken string
}

// NewProvider creates a new Edenred gateway provider
func NewProvider() provider.GatewayProvider {
	return &EdenredProvider{}
}

// gatewayEnvelope is the wrapper the gateway puts around every response body.
type gatewayEnvelope struct {
	Success   bool                    `json:"Success"`
	ErrorList []provider.GatewayError `json:"ErrorList"`
}

// GetRequiredConfig returns the configuration fields required for Edenred
func (p *EdenredProvider) GetRequiredConfig(environment string) []provider.ConfigField {
	return []provider.ConfigField{
		{
			Key:         "clientId",
			Required:    true,
			Type:        "string",
			Description: "Edenred client identifier",
			Example:     "my-client-id",
			MinLength:   1,
			MaxLength:   128,
		},
		{
			Key:         "clientSecret",
			Required:    true,
			Type:        "string",
			Description: "Edenred client secret",
			Example:     "my-client-secret",
			MinLength:   1,
			MaxLength:   256,
		},
		{
			Key:         "baseUrl",
			Required:    true,
			Type:        "url",
			Description: "Edenred API base URL",
			Example:     "https://api.edenred.example",
		},
		{
			Key:         "publicKeyPath",
			Required:    false,
			Type:        "string",
			Description: "Path to the gateway-issued RSA public key (required unless testing=true)",
			Example:     "/etc/edenred/public.pem",
		},
		{
			Key:         "testing",
			Required:    false,
			Type:        "boolean",
			Description: "Bypass card-data encryption for deterministic fixtures",
			Example:     "false",
		},
		{
			Key:         "environment",
			Required:    false,
			Type:        "string",
			Description: "Environment setting (sandbox or production)",
			Example:     "sandbox",
			Pattern:     "^(sandbox|production)$",
		},
	}
}

// ValidateConfig validates the provided configuration against Edenred requirements
func (p *EdenredProvider) ValidateConfig(config map[string]string) error {
	requiredFields := p.GetRequiredConfig(config["environment"])
	return provider.ValidateConfigFields("edenred", config, requiredFields)
}

// Initialize sets up the Edenred provider with credentials and loads the
// public key. Key loading failures are fatal here, never retried.
func (p *EdenredProvider) Initialize(conf map[string]string) error {
	p.clientID = conf["clientId"]
	p.clientSecret = conf["clientSecret"]
	p.baseURL = strings.TrimSuffix(conf["baseUrl"], "/")

	if p.clientID == "" || p.clientSecret == "" || p.baseURL == "" {
		return errors.New("edenred: clientId, clientSecret and baseUrl are required")
	}

	testing := conf["testing"] == "true"
	if !testing && conf["publicKeyPath"] == "" {
		return errors.New("edenred: publicKeyPath is required unless testing=true")
	}

	key, err := LoadPublicKey(conf["publicKeyPath"], testing)
	if err != nil {
		return err
	}
	p.publicKey = key

	p.isProduction = conf["environment"] == "production"
	p.client = provider.NewProviderHTTPClient(provider.CreateHTTPClientConfig(p.baseURL, p.isProduction, defaultTimeout))

	return nil
}

// CreatePaymentMethod registers a card with the gateway and returns its
// token. Card number, CVV and expiration are encrypted individually with the
// gateway public key; username and user id pass through unencrypted.
func (p *EdenredProvider) CreatePaymentMethod(ctx context.Context, req provider.CreatePaymentMethodRequest) (*provider.PaymentMethodResult, error) {
	cardNumber, err := p.publicKey.Encrypt(req.CardNumber)
	if err != nil {
		return nil, fmt.Errorf("edenred: %w", err)
	}
	cvv, err := p.publicKey.Encrypt(req.CVV)
	if err != nil {
		return nil, fmt.Errorf("edenred: %w", err)
	}
	expMonth, err := p.publicKey.Encrypt(req.ExpirationMonth)
	if err != nil {
		return nil, fmt.Errorf("edenred: %w", err)
	}
	expYear, err := p.publicKey.Encrypt(req.ExpirationYear)
	if err != nil {
		return nil, fmt.Errorf("edenred: %w", err)
	}

	payload := map[string]any{
		"PaymentMethod": map[string]any{
			"CardNumber":          cardNumber,
			"CardCVV":             cvv,
			"CardExpirationMonth": expMonth,
			"CardExpirationYear":  expYear,
			"UserLogin":           req.Username,
			"UserIdentifier":      req.UserID,
			"CardToken":           "",
		},
	}

	body, err := p.requestResource(ctx, endpointCreatePaymentMethod, payload)
	if err != nil {
		return nil, err
	}

	var resp struct {
		PaymentMethod struct {
			CardToken string `json:"CardToken"`
		} `json:"PaymentMethod"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("edenred: parse payment method response: %w", err)
	}

	return &provider.PaymentMethodResult{CardToken: resp.PaymentMethod.CardToken}, nil
}

// Authorize places a hold on a registered card
func (p *EdenredProvider) Authorize(ctx context.Context, req provider.AuthorizeRequest) (*provider.AuthorizeResult, error) {
	payload := map[string]any{
		"Authorize": map[string]any{
			"CardToken":           req.CardToken,
			"Amount":              req.Amount,
			"Description":         req.Description,
			"AuthorizeIdentifier": nil,
		},
	}

	body, err := p.requestResource(ctx, endpointAuthorize, payload)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Authorize struct {
			AuthorizeIdentifier string `json:"AuthorizeIdentifier"`
		} `json:"Authorize"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("edenred: parse authorize response: %w", err)
	}

	return &provider.AuthorizeResult{AuthorizeIdentifier: resp.Authorize.AuthorizeIdentifier}, nil
}

// Pay charges a registered card without a prior authorization
func (p *EdenredProvider) Pay(ctx context.Context, req provider.PayRequest) (*provider.PayResult, error) {
	payload := map[string]any{
		"Pay": map[string]any{
			"CardToken":     req.CardToken,
			"Amount":        req.Amount,
			"Description":   req.Description,
			"PayIdentifier": nil,
		},
	}

	body, err := p.requestResource(ctx, endpointPay, payload)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Pay struct {
			PayIdentifier string `json:"PayIdentifier"`
		} `json:"Pay"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("edenred: parse pay response: %w", err)
	}

	return &provider.PayResult{PayIdentifier: resp.Pay.PayIdentifier}, nil
}

// Capture settles a previously placed authorization
func (p *EdenredProvider) Capture(ctx context.Context, req provider.CaptureRequest) (*provider.CaptureResult, error) {
	payload := map[string]any{
		"Capture": map[string]any{
			"CardToken":           req.CardToken,
			"Amount":              req.Amount,
			"Description":         req.Description,
			"AuthorizeIdentifier": req.AuthorizeIdentifier,
			"CaptureIdentifier":   nil,
		},
	}

	body, err := p.requestResource(ctx, endpointCapture, payload)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Capture struct {
			CaptureIdentifier string `json:"CaptureIdentifier"`
		} `json:"Capture"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("edenred: parse capture response: %w", err)
	}

	return &provider.CaptureResult{CaptureIdentifier: resp.Capture.CaptureIdentifier}, nil
}

// Refund returns funds for a completed charge. The result carries the
// gateway-confirmed refunded amount in minor units.
func (p *EdenredProvider) Refund(ctx context.Context, req provider.RefundRequest) (*provider.RefundResult, error) {
	if req.PayIdentifier == "" {
		return nil, errors.New("edenred: payIdentifier is required")
	}

	payload := map[string]any{
		"Pay": map[string]any{
			"CardToken":     req.CardToken,
			"Amount":        req.Amount,
			"Description":   req.Description,
			"PayIdentifier": req.PayIdentifier,
		},
	}

	body, err := p.requestResource(ctx, fmt.Sprintf(endpointRefund, req.PayIdentifier), payload)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Pay struct {
			Amount int64 `json:"Amount"`
		} `json:"Pay"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("edenred: parse refund response: %w", err)
	}

	return &provider.RefundResult{Amount: resp.Pay.Amount}, nil
}

// requestResource dispatches one gateway call with the current session token.
// Stale token is the only expected transient 401 cause, so on 401 the token
// is refreshed once and the identical request replayed once; a second 401
// propagates unchanged. Every other failure propagates immediately.
func (p *EdenredProvider) requestResource(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	token, err := p.currentToken(ctx)
	if err != nil {
		return nil, err
	}

	body, err := p.post(ctx, endpoint, payload, token)
	if provider.IsUnauthorized(err) {
		token, err = p.refreshToken(ctx)
		if err != nil {
			return nil, err
		}
		body, err = p.post(ctx, endpoint, payload, token)
	}
	if err != nil {
		return nil, err
	}

	return validateEnvelope(body)
}

func (p *EdenredProvider) post(ctx context.Context, endpoint string, payload any, token string) ([]byte, error) {
	resp, err := p.client.SendJSON(ctx, &provider.HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: endpoint,
		Headers:  map[string]string{headerAccessToken: token},
		Body:     payload,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// currentToken returns the cached session token, acquiring one on first use.
func (p *EdenredProvider) currentToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.accessToken != "" {
		return p.accessToken, nil
	}
	return p.acquireTokenLocked(ctx)
}

// refreshToken discards the cached token and acquires a fresh one.
func (p *EdenredProvider) refreshToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.acquireTokenLocked(ctx)
}

// acquireTokenLocked posts the client credentials to the login endpoint and
// caches the returned token. Callers must hold p.mu.
func (p *EdenredProvider) acquireTokenLocked(ctx context.Context) (string, error) {
	payload := map[string]any{
		"Security": map[string]any{
			"ClientIdentifier": p.clientID,
			"ClientSecret":     p.clientSecret,
		},
	}

	resp, err := p.client.SendJSON(ctx, &provider.HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: endpointLogin,
		Body:     payload,
	})
	if err != nil {
		return "", err
	}

	body, err := validateEnvelope(resp.Body)
	if err != nil {
		return "", err
	}

	var login struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &login); err != nil {
		return "", fmt.Errorf("edenred: parse login response: %w", err)
	}
	if login.AccessToken == "" {
		return "", errors.New("edenred: login response missing access_token")
	}

	p.accessToken = login.AccessToken
	return p.accessToken, nil
}

// validateEnvelope checks the {Success, ErrorList} wrapper present on every
// gateway response and returns the body for action-specific decoding.
func validateEnvelope(body []byte) ([]byte, error) {
	var env gatewayEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("edenred: parse response envelope: %w", err)
	}
	if !env.Success {
		return nil, &provider.TransactionError{Errors: env.ErrorList}
	}
	return body, nil
}
