package handlers

import (
	"errors"
	"log"
	"net/http"

	request "payment_gateway/internal/adapter/http/dto/request"
	response "payment_gateway/internal/adapter/http/dto/response"
	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/usecase"
	"payment_gateway/pkg"

	"github.com/gin-gonic/gin"
)

var errInvalidPaymentPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)

// PaymentHandler handles HTTP requests for payment creation and lookup.

type PaymentHandler struct {
	usecase usecase.IPaymentUseCase
}

func NewPaymentHandler(uc usecase.IPaymentUseCase) *PaymentHandler {
	return &PaymentHandler{usecase: uc}
}

// CreatePayment creates a provider session and returns the redirect URL.
// @Summary      Create payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        payload  body      request.PaymentCreateRequest  true  "Payment"
// @Success      201      {object}  response.PaymentResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      404      {object}  pkg.HTTPError
// @Failure      502      {object}  pkg.HTTPError
// @Failure      503      {object}  pkg.HTTPError
// @Router       /payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var payload request.PaymentCreateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[payment][handler] invalid payload err=%v", err)
		c.JSON(errInvalidPaymentPayload.HTTPStatus, errInvalidPaymentPayload.ToHTTPError())
		return
	}

	req, err := payload.ToEntity()
	if err != nil {
		log.Printf("[payment][handler] invalid payload external_id=%s err=%v", payload.ExternalID, err)
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[payment][handler] create start provider=%s external_id=%s", req.Provider, req.ExternalID)

	res, err := h.usecase.CreatePayment(c.Request.Context(), req)
	if err != nil {
		log.Printf("[payment][handler] create failed provider=%s external_id=%s err=%v", req.Provider, req.ExternalID, err)
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[payment][handler] create success provider=%s external_id=%s payment_id=%s status=%s", req.Provider, req.ExternalID, res.PaymentID, res.Status)

	c.JSON(http.StatusCreated, response.FromPaymentResult(req.ExternalID, res))
}

// GetPayment returns the stored payment record.
// @Summary      Get payment
// @Tags         payments
// @Produce      json
// @Param        id   path      string  true  "Provider payment id"
// @Success      200  {object}  response.PaymentResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id := c.Param("id")

	p, err := h.usecase.GetPayment(c.Request.Context(), id)
	if err != nil {
		log.Printf("[payment][handler] get failed payment_id=%s err=%v", id, err)
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromPaymentRecord(p))
}

// mapPaymentError tells "fix your input" from "try again later" from "we are down".
func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, entities.ErrValidation):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, entities.ErrUnsupportedProvider):
		return pkg.NewDomainErrorSimple("UNSUPPORTED_PROVIDER", "Payment provider not supported", http.StatusNotFound)
	case errors.Is(err, entities.ErrPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrProviderConfiguration):
		return pkg.NewDomainError("PAYMENT_PROVIDER_UNAVAILABLE", "Payment provider is not available", err, http.StatusServiceUnavailable)
	case errors.Is(err, entities.ErrProviderRequest):
		return pkg.NewDomainError("PAYMENT_PROVIDER_ERROR", "Payment provider failed, try again later", err, http.StatusBadGateway)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
