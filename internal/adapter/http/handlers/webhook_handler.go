package handlers

import (
	"errors"
	"log"
	"net/http"

	response "payment_gateway/internal/adapter/http/dto/response"
	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/usecase"
	"payment_gateway/pkg"

	"github.com/gin-gonic/gin"
)

// Rejections never say why; the reason is only logged.
var errInvalidWebhook = pkg.NewDomainErrorSimple("INVALID_WEBHOOK", "Invalid webhook", http.StatusBadRequest)

type WebhookHandler struct {
	usecase usecase.IWebhookUseCase
}

func NewWebhookHandler(uc usecase.IWebhookUseCase) *WebhookHandler {
	return &WebhookHandler{usecase: uc}
}

// HandleWebhook ingests a provider notification. The body is read raw, before any
// binding, so signatures are checked against the exact bytes sent.
// @Summary      Provider webhook
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        provider  path      string  true  "card_checkout | pix_billing | wallet_billing"
// @Success      200       {object}  response.WebhookResponse
// @Failure      400       {object}  pkg.HTTPError
// @Failure      404       {object}  pkg.HTTPError
// @Failure      503       {object}  pkg.HTTPError
// @Router       /webhooks/{provider} [post]
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	provider, err := entities.ParseProvider(c.Param("provider"))
	if err != nil {
		appErr := mapWebhookError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		log.Printf("[webhook][handler] read body failed provider=%s err=%v", provider, err)
		c.JSON(errInvalidWebhook.HTTPStatus, errInvalidWebhook.ToHTTPError())
		return
	}

	out, err := h.usecase.HandleWebhook(c.Request.Context(), provider, raw, c.Request.Header)
	if err != nil {
		log.Printf("[webhook][handler] failed provider=%s state=%s err=%v", provider, out.State, err)
		appErr := mapWebhookError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.WebhookResponse{Received: true, Status: string(out.State), EventID: out.EventID})
}

// Non-4xx answers make the provider redeliver.
func mapWebhookError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, entities.ErrInvalidSignature), errors.Is(err, entities.ErrMalformedPayload):
		return errInvalidWebhook
	case errors.Is(err, entities.ErrUnsupportedProvider):
		return pkg.NewDomainErrorSimple("UNSUPPORTED_PROVIDER", "Payment provider not supported", http.StatusNotFound)
	case errors.Is(err, entities.ErrProviderConfiguration):
		return pkg.NewDomainError("WEBHOOK_NOT_CONFIGURED", "Webhook not configured", err, http.StatusServiceUnavailable)
	case errors.Is(err, entities.ErrProviderRequest):
		return pkg.NewDomainError("PAYMENT_PROVIDER_ERROR", "Payment provider failed, try again later", err, http.StatusBadGateway)
	case errors.Is(err, entities.ErrPaymentNotFound):
		return pkg.NewDomainError("PAYMENT_NOT_YET_KNOWN", "Payment not known yet, redeliver later", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
