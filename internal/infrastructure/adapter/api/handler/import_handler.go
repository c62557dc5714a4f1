package handler

import (
	"net/http"

	domainerr "github.com/cryptofolio/gains-processor/internal/domain/error"
	coreport "github.com/cryptofolio/gains-processor/internal/domain/port/core"
	"github.com/cryptofolio/gains-processor/internal/domain/port/usecase"
	"github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/api/dto"
	"github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/importer"
	"github.com/gin-gonic/gin"
)

// ImportHandler handles exchange-export and block-explorer import requests
type ImportHandler struct {
	transactions usecase.TransactionUseCase
	kraken       *importer.KrakenImporter
	ethScan      *importer.ChainScanClient
	baseScan     *importer.ChainScanClient
	logger       coreport.Logger
}

// NewImportHandler creates a new import handler instance
func NewImportHandler(
	transactions usecase.TransactionUseCase,
	kraken *importer.KrakenImporter,
	ethScan *importer.ChainScanClient,
	baseScan *importer.ChainScanClient,
	logger coreport.Logger,
) *ImportHandler {
	return &ImportHandler{
		transactions: transactions,
		kraken:       kraken,
		ethScan:      ethScan,
		baseScan:     baseScan,
		logger:       logger,
	}
}

// ImportKraken handles the POST /import/kraken endpoint. The trade-history
// CSV travels as the multipart form file "file".
func (h *ImportHandler) ImportKraken(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Missing CSV upload: " + err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Could not open upload: " + err.Error(),
		})
		return
	}
	defer func() { _ = file.Close() }()

	transactions, err := h.kraken.Parse(c.Request.Context(), file)
	if err != nil {
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	imported, err := h.transactions.CreateMany(c.Request.Context(), transactions)
	if err != nil {
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.ImportResponse{Imported: imported})
}

// SyncChains handles the POST /sync endpoint, pulling wallet activity from
// the configured block explorers
func (h *ImportHandler) SyncChains(c *gin.Context) {
	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	if req.EthAddress == "" && req.BaseAddress == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "At least one wallet address is required",
		})
		return
	}

	total := 0
	if req.EthAddress != "" {
		transactions, err := h.ethScan.FetchTransactions(c.Request.Context(), req.EthAddress)
		if err != nil {
			c.JSON(httpStatus(err), dto.ErrorResponse{
				Code:    domainerr.ErrorCode(err),
				Message: err.Error(),
			})
			return
		}
		imported, err := h.transactions.CreateMany(c.Request.Context(), transactions)
		if err != nil {
			c.JSON(httpStatus(err), dto.ErrorResponse{
				Code:    domainerr.ErrorCode(err),
				Message: err.Error(),
			})
			return
		}
		total += imported
	}

	if req.BaseAddress != "" {
		transactions, err := h.baseScan.FetchTransactions(c.Request.Context(), req.BaseAddress)
		if err != nil {
			c.JSON(httpStatus(err), dto.ErrorResponse{
				Code:    domainerr.ErrorCode(err),
				Message: err.Error(),
			})
			return
		}
		imported, err := h.transactions.CreateMany(c.Request.Context(), transactions)
		if err != nil {
			c.JSON(httpStatus(err), dto.ErrorResponse{
				Code:    domainerr.ErrorCode(err),
				Message: err.Error(),
			})
			return
		}
		total += imported
	}

	c.JSON(http.StatusOK, dto.ImportResponse{Imported: total})
}
