package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/gomexpay/edenred/infra/response"
	"github.com/gomexpay/edenred/provider"
)

// PaymentServiceInterface defines the interface for payment operations
type PaymentServiceInterface interface {
	RegisterCard(ctx context.Context, providerName string, request provider.CreatePaymentMethodRequest) (*provider.PaymentMethodResult, error)
	Authorize(ctx context.Context, providerName string, request provider.AuthorizeRequest) (*provider.AuthorizeResult, error)
	Pay(ctx context.Context, providerName string, request provider.PayRequest) (*provider.PayResult, error)
	Capture(ctx context.Context, providerName string, request provider.CaptureRequest) (*provider.CaptureResult, error)
	Refund(ctx context.Context, providerName string, request provider.RefundRequest) (*provider.RefundResult, error)
}

// PaymentHandler handles payment related HTTP requests
type PaymentHandler struct {
	paymentService PaymentServiceInterface
	validate       *validator.Validate
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService PaymentServiceInterface, validate *validator.Validate) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		validate:       validate,
	}
}

type registerCardRequest struct {
	CardNumber      string `json:"cardNumber" validate:"required,credit_card"`
	CVV             string `json:"cvv" validate:"required,min=3,max=4"`
	ExpirationMonth string `json:"expirationMonth" validate:"required,len=2"`
	ExpirationYear  string `json:"expirationYear" validate:"required,min=2,max=4"`
	Username        string `json:"username" validate:"required"`
	UserID          string `json:"userId" validate:"required"`
}

type authorizeRequest struct {
	CardToken   string `json:"cardToken" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description"`
}

type captureRequest struct {
	CardToken           string `json:"cardToken" validate:"required"`
	AuthorizeIdentifier string `json:"authorizeIdentifier" validate:"required"`
	Amount              string `json:"amount" validate:"required"`
	Description         string `json:"description"`
}

type refundRequest struct {
	CardToken   string `json:"cardToken" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description"`
}

// RegisterCard handles card registration requests
func (h *PaymentHandler) RegisterCard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req registerCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation error", err)
		return
	}

	result, err := h.paymentService.RegisterCard(ctx, chi.URLParam(r, "provider"), provider.CreatePaymentMethodRequest{
		CardNumber:      req.CardNumber,
		CVV:             req.CVV,
		ExpirationMonth: req.ExpirationMonth,
		ExpirationYear:  req.ExpirationYear,
		Username:        req.Username,
		UserID:          req.UserID,
	})
	if err != nil {
		writeGatewayError(w, "Card registration failed", err)
		return
	}

	response.Success(w, http.StatusCreated, "Card registered", map[string]string{
		"cardToken": result.CardToken,
	})
}

// Authorize handles authorization requests
func (h *PaymentHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req authorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation error", err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	result, err := h.paymentService.Authorize(ctx, chi.URLParam(r, "provider"), provider.AuthorizeRequest{
		CardToken:   req.CardToken,
		Amount:      provider.ToMinorUnits(amount),
		Description: req.Description,
	})
	if err != nil {
		writeGatewayError(w, "Authorization failed", err)
		return
	}

	response.Success(w, http.StatusOK, "Authorization placed", map[string]string{
		"authorizeIdentifier": result.AuthorizeIdentifier,
	})
}

// Pay handles direct charge requests (capture without prior authorization)
func (h *PaymentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req authorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation error", err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	result, err := h.paymentService.Pay(ctx, chi.URLParam(r, "provider"), provider.PayRequest{
		CardToken:   req.CardToken,
		Amount:      provider.ToMinorUnits(amount),
		Description: req.Description,
	})
	if err != nil {
		writeGatewayError(w, "Payment failed", err)
		return
	}

	response.Success(w, http.StatusOK, "Payment processed", map[string]string{
		"payIdentifier": result.PayIdentifier,
	})
}

// Capture handles post-authorization capture requests
func (h *PaymentHandler) Capture(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation error", err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	result, err := h.paymentService.Capture(ctx, chi.URLParam(r, "provider"), provider.CaptureRequest{
		CardToken:           req.CardToken,
		AuthorizeIdentifier: req.AuthorizeIdentifier,
		Amount:              provider.ToMinorUnits(amount),
		Description:         req.Description,
	})
	if err != nil {
		writeGatewayError(w, "Capture failed", err)
		return
	}

	response.Success(w, http.StatusOK, "Authorization captured", map[string]string{
		"captureIdentifier": result.CaptureIdentifier,
	})
}

// Refund handles refund requests for a completed charge
func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	payIdentifier := chi.URLParam(r, "paymentID")
	if payIdentifier == "" {
		response.Error(w, http.StatusBadRequest, "Missing payment ID", nil)
		return
	}

	var req refundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation error", err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	result, err := h.paymentService.Refund(ctx, chi.URLParam(r, "provider"), provider.RefundRequest{
		CardToken:     req.CardToken,
		PayIdentifier: payIdentifier,
		Amount:        provider.ToMinorUnits(amount),
		Description:   req.Description,
	})
	if err != nil {
		writeGatewayError(w, "Refund failed", err)
		return
	}

	response.Success(w, http.StatusOK, "Refund processed", map[string]string{
		"payIdentifier": payIdentifier,
		"amount":        provider.FromMinorUnits(result.Amount).StringFixed(2),
	})
}

func parseAmount(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(raw)
}

// writeGatewayError maps the provider error taxonomy onto HTTP statuses:
// business rejections become 422 with the raw gateway codes attached,
// transport failures become 502.
func writeGatewayError(w http.ResponseWriter, message string, err error) {
	var txErr *provider.TransactionError
	if errors.As(err, &txErr) {
		_ = response.WriteJSON(w, http.StatusUnprocessableEntity, response.Response{
			Code:    http.StatusUnprocessableEntity,
			Success: false,
			Message: message,
			Error:   txErr.Error(),
			Data:    map[string]any{"errorList": txErr.Errors},
		})
		return
	}

	var httpErr *provider.HTTPError
	if errors.As(err, &httpErr) {
		response.Error(w, http.StatusBadGateway, message, err)
		return
	}

	response.Error(w, http.StatusInternalServerError, message, err)
}
