package provider

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// OperationLog is one gateway round trip as recorded by the service.
type OperationLog struct {
	ID           string    `json:"id"`
	Provider     string    `json:"provider"`
	Operation    string    `json:"operation"`
	CardToken    string    `json:"cardToken,omitempty"`
	Identifier   string    `json:"identifier,omitempty"`
	Amount       int64     `json:"amount,omitempty"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	DurationMs   int64     `json:"durationMs"`
	CreatedAt    time.Time `json:"createdAt"`
}

// OperationStore persists operation logs. Implementations must tolerate
// concurrent calls; failures are logged by the service, never surfaced to
// the payment caller.
type OperationStore interface {
	SaveOperation(ctx context.Context, entry OperationLog) error
}

// PaymentService manages payment operations through registered gateway providers
type PaymentService struct {
	mu              sync.RWMutex
	providers       map[string]GatewayProvider
	defaultProvider string
	stores          []OperationStore
}

// NewPaymentService creates a new payment service. Every configured store
// receives a record of each gateway operation.
func NewPaymentService(stores ...OperationStore) *PaymentService {
	return &PaymentService{
		providers: make(map[string]GatewayProvider),
		stores:    stores,
	}
}

// AddProvider creates, initializes and registers a provider instance by name
func (s *PaymentService) AddProvider(name string, config map[string]string) error {
	prov, err := CreateProvider(name)
	if err != nil {
		return err
	}
	if err := prov.ValidateConfig(config); err != nil {
		return err
	}
	if err := prov.Initialize(config); err != nil {
		return fmt.Errorf("failed to initialize provider '%s': %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers[name] = prov
	if s.defaultProvider == "" {
		s.defaultProvider = name
	}
	return nil
}

// SetDefaultProvider sets the provider used when no name is given
func (s *PaymentService) SetDefaultProvider(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.providers[name]; !exists {
		return fmt.Errorf("payment provider '%s' is not configured", name)
	}
	s.defaultProvider = name
	return nil
}

// GetProvider resolves a configured provider; empty name means the default
func (s *PaymentService) GetProvider(name string) (GatewayProvider, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if name == "" {
		name = s.defaultProvider
	}
	prov, exists := s.providers[name]
	if !exists {
		return nil, name, fmt.Errorf("payment provider '%s' is not configured", name)
	}
	return prov, name, nil
}

// RegisterCard registers a card with the gateway and returns its token
func (s *PaymentService) RegisterCard(ctx context.Context, providerName string, request CreatePaymentMethodRequest) (*PaymentMethodResult, error) {
	prov, name, err := s.GetProvider(providerName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := prov.CreatePaymentMethod(ctx, request)
	entry := OperationLog{Provider: name, Operation: "create_payment_method", DurationMs: time.Since(start).Milliseconds()}
	if result != nil {
		entry.Identifier = result.CardToken
	}
	s.record(ctx, entry, err)
	return result, err
}

// Authorize places a hold on a registered card
func (s *PaymentService) Authorize(ctx context.Context, providerName string, request AuthorizeRequest) (*AuthorizeResult, error) {
	prov, name, err := s.GetProvider(providerName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := prov.Authorize(ctx, request)
	entry := OperationLog{
		Provider:   name,
		Operation:  "authorize",
		CardToken:  request.CardToken,
		Amount:     request.Amount,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if result != nil {
		entry.Identifier = result.AuthorizeIdentifier
	}
	s.record(ctx, entry, err)
	return result, err
}

// Pay charges a registered card without a prior authorization
func (s *PaymentService) Pay(ctx context.Context, providerName string, request PayRequest) (*PayResult, error) {
	prov, name, err := s.GetProvider(providerName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := prov.Pay(ctx, request)
	entry := OperationLog{
		Provider:   name,
		Operation:  "pay",
		CardToken:  request.CardToken,
		Amount:     request.Amount,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if result != nil {
		entry.Identifier = result.PayIdentifier
	}
	s.record(ctx, entry, err)
	return result, err
}

// Capture settles a previously placed authorization
func (s *PaymentService) Capture(ctx context.Context, providerName string, request CaptureRequest) (*CaptureResult, error) {
	prov, name, err := s.GetProvider(providerName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := prov.Capture(ctx, request)
	entry := OperationLog{
		Provider:   name,
		Operation:  "capture",
		CardToken:  request.CardToken,
		Amount:     request.Amount,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if result != nil {
		entry.Identifier = result.CaptureIdentifier
	}
	s.record(ctx, entry, err)
	return result, err
}

// Refund returns funds for a completed charge
func (s *PaymentService) Refund(ctx context.Context, providerName string, request RefundRequest) (*RefundResult, error) {
	prov, name, err := s.GetProvider(providerName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := prov.Refund(ctx, request)
	entry := OperationLog{
		Provider:   name,
		Operation:  "refund",
		CardToken:  request.CardToken,
		Identifier: request.PayIdentifier,
		Amount:     request.Amount,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if result != nil {
		entry.Amount = result.Amount
	}
	s.record(ctx, entry, err)
	return result, err
}

// record writes the operation to every configured store. Store failures do
// not fail the payment operation.
func (s *PaymentService) record(ctx context.Context, entry OperationLog, opErr error) {
	if len(s.stores) == 0 {
		return
	}

	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now().UTC()
	entry.Success = opErr == nil
	if opErr != nil {
		entry.ErrorMessage = opErr.Error()
	}

	for _, st := range s.stores {
		if err := st.SaveOperation(ctx, entry); err != nil {
			log.Printf("failed to record %s operation: %v", entry.Operation, err)
		}
	}
}
