package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/gomexpay/edenred/handler"
	"github.com/gomexpay/edenred/provider"
)

type routedService struct {
	lastOperation string
	lastProvider  string
}

func (s *routedService) RegisterCard(ctx context.Context, providerName string, req provider.CreatePaymentMethodRequest) (*provider.PaymentMethodResult, error) {
	s.lastOperation, s.lastProvider = "register", providerName
	return &provider.PaymentMethodResult{CardToken: "tok_1"}, nil
}
func (s *routedService) Authorize(ctx context.Context, providerName string, req provider.AuthorizeRequest) (*provider.AuthorizeResult, error) {
	s.lastOperation, s.lastProvider = "authorize", providerName
	return &provider.AuthorizeResult{AuthorizeIdentifier: "auth_1"}, nil
}
func (s *routedService) Pay(ctx context.Context, providerName string, req provider.PayRequest) (*provider.PayResult, error) {
	s.lastOperation, s.lastProvider = "pay", providerName
	return &provider.PayResult{PayIdentifier: "pay_1"}, nil
}
func (s *routedService) Capture(ctx context.Context, providerName string, req provider.CaptureRequest) (*provider.CaptureResult, error) {
	s.lastOperation, s.lastProvider = "capture", providerName
	return &provider.CaptureResult{CaptureIdentifier: "cap_1"}, nil
}
func (s *routedService) Refund(ctx context.Context, providerName string, req provider.RefundRequest) (*provider.RefundResult, error) {
	s.lastOperation, s.lastProvider = "refund", providerName
	return &provider.RefundResult{Amount: req.Amount}, nil
}

func TestRouteDispatch(t *testing.T) {
	svc := &routedService{}
	r := chi.NewRouter()
	Routes(r, handler.NewPaymentHandler(svc, validator.New()), handler.NewOperationsHandler(nil))

	srv := httptest.NewServer(r)
	defer srv.Close()

	cardBody := `{"cardNumber":"4111111111111111","cvv":"123","expirationMonth":"12","expirationYear":"2030","username":"jdoe","userId":"u"}`
	payBody := `{"cardToken":"tok_1","amount":"10.00"}`
	captureBody := `{"cardToken":"tok_1","authorizeIdentifier":"auth_1","amount":"10.00"}`

	tests := []struct {
		name          string
		path          string
		body          string
		wantStatus    int
		wantOperation string
		wantProvider  string
	}{
		{name: "register default provider", path: "/v1/cards", body: cardBody, wantStatus: http.StatusCreated, wantOperation: "register"},
		{name: "register named provider", path: "/v1/cards/edenred", body: cardBody, wantStatus: http.StatusCreated, wantOperation: "register", wantProvider: "edenred"},
		{name: "direct pay", path: "/v1/payments", body: payBody, wantStatus: http.StatusOK, wantOperation: "pay"},
		{name: "authorize", path: "/v1/payments/authorize", body: payBody, wantStatus: http.StatusOK, wantOperation: "authorize"},
		{name: "capture", path: "/v1/payments/capture", body: captureBody, wantStatus: http.StatusOK, wantOperation: "capture"},
		{name: "refund", path: "/v1/payments/pay_1/refund", body: payBody, wantStatus: http.StatusOK, wantOperation: "refund"},
		{name: "provider pay", path: "/v1/payments/edenred/pay", body: payBody, wantStatus: http.StatusOK, wantOperation: "pay", wantProvider: "edenred"},
		{name: "provider refund", path: "/v1/payments/edenred/pay_1/refund", body: payBody, wantStatus: http.StatusOK, wantOperation: "refund", wantProvider: "edenred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*svc = routedService{}
			resp, err := http.Post(srv.URL+tt.path, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantOperation, svc.lastOperation)
			assert.Equal(t, tt.wantProvider, svc.lastProvider)
		})
	}
}

func TestEdenredProviderRegisteredOnImport(t *testing.T) {
	assert.Contains(t, provider.GetAvailableProviders(), "edenred")
}
