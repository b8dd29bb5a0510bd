package handlers

import (
	"net/http"

	"payment_gateway/internal/adapter/http/dto/response"
	"payment_gateway/internal/usecase"

	"github.com/gin-gonic/gin"
)

type SystemCheckHandler struct {
	usecase usecase.ISystemCheckUseCase
}

func NewSystemCheckHandler(uc usecase.ISystemCheckUseCase) *SystemCheckHandler {
	return &SystemCheckHandler{usecase: uc}
}

// SystemCheck reports storage and email reachability. A failed dependency is part
// of the body, the endpoint itself answers 200.
// @Summary  System check
// @Tags     ops
// @Produce  json
// @Success  200  {object}  response.SystemCheckResponse
// @Router   /system-check [get]
func (h *SystemCheckHandler) SystemCheck(c *gin.Context) {
	c.JSON(http.StatusOK, response.FromSystemCheck(h.usecase.Run(c.Request.Context())))
}
