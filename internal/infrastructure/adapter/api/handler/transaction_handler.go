package handler

import (
	"net/http"
	"strconv"

	domainerr "github.com/cryptofolio/gains-processor/internal/domain/error"
	coreport "github.com/cryptofolio/gains-processor/internal/domain/port/core"
	"github.com/cryptofolio/gains-processor/internal/domain/port/persistence"
	"github.com/cryptofolio/gains-processor/internal/domain/port/usecase"
	"github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactions usecase.TransactionUseCase
	logger       coreport.Logger
}

// NewTransactionHandler creates a new transaction handler instance
func NewTransactionHandler(transactions usecase.TransactionUseCase, logger coreport.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		logger:       logger,
	}
}

// Create handles the POST /transactions endpoint
func (h *TransactionHandler) Create(c *gin.Context) {
	var req dto.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid transaction request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	tx, err := req.ToEntity()
	if err != nil {
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	if err := h.transactions.Create(c.Request.Context(), tx); err != nil {
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, dto.FromEntity(tx))
}

// Update handles the PUT /transactions/:id endpoint
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	tx, err := req.ToEntity()
	if err != nil {
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}
	tx.ID = id

	if err := h.transactions.Update(c.Request.Context(), tx); err != nil {
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.FromEntity(tx))
}

// Delete handles the DELETE /transactions/:id endpoint
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.transactions.Delete(c.Request.Context(), id); err != nil {
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// Get handles the GET /transactions/:id endpoint
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	tx, err := h.transactions.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.FromEntity(tx))
}

// List handles the GET /transactions endpoint with optional asset and chain
// query filters
func (h *TransactionHandler) List(c *gin.Context) {
	filter := persistence.TransactionFilter{
		Asset: c.Query("asset"),
		Chain: c.Query("chain"),
	}

	views, err := h.transactions.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	responses := make([]dto.TransactionResponse, 0, len(views))
	for _, view := range views {
		responses = append(responses, dto.FromView(view))
	}
	c.JSON(http.StatusOK, responses)
}

// BackfillPrices handles the POST /transactions/:id/prices endpoint
func (h *TransactionHandler) BackfillPrices(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	tx, err := h.transactions.BackfillPrices(c.Request.Context(), id)
	if err != nil {
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.FromEntity(tx))
}

// parseID extracts the numeric transaction ID path parameter, replying with
// a 400 when it is malformed
func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidTransactionID),
			Message: "Invalid transaction ID format",
		})
		return 0, false
	}
	return id, true
}
