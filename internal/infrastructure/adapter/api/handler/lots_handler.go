package handler

import (
	"net/http"

	domainerr "github.com/cryptofolio/gains-processor/internal/domain/error"
	coreport "github.com/cryptofolio/gains-processor/internal/domain/port/core"
	"github.com/cryptofolio/gains-processor/internal/domain/port/usecase"
	"github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// LotsHandler handles open-lot view HTTP requests
type LotsHandler struct {
	transactions usecase.TransactionUseCase
	logger       coreport.Logger
}

// NewLotsHandler creates a new lots handler instance
func NewLotsHandler(transactions usecase.TransactionUseCase, logger coreport.Logger) *LotsHandler {
	return &LotsHandler{
		transactions: transactions,
		logger:       logger,
	}
}

// OpenLots handles the GET /lots endpoint
func (h *LotsHandler) OpenLots(c *gin.Context) {
	lots, err := h.transactions.OpenLots(c.Request.Context())
	if err != nil {
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	responses := make([]dto.LotResponse, 0, len(lots))
	for _, lot := range lots {
		responses = append(responses, dto.FromLot(lot))
	}
	c.JSON(http.StatusOK, responses)
}

// Holdings handles the GET /lots/collapsed endpoint
func (h *LotsHandler) Holdings(c *gin.Context) {
	holdings, err := h.transactions.Holdings(c.Request.Context())
	if err != nil {
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	responses := make([]dto.HoldingResponse, 0, len(holdings))
	for _, holding := range holdings {
		responses = append(responses, dto.FromHolding(holding))
	}
	c.JSON(http.StatusOK, responses)
}
