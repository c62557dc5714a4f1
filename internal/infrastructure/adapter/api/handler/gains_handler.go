package handler

import (
	"fmt"
	"net/http"
	"strconv"

	domainerr "github.com/cryptofolio/gains-processor/internal/domain/error"
	coreport "github.com/cryptofolio/gains-processor/internal/domain/port/core"
	"github.com/cryptofolio/gains-processor/internal/domain/port/usecase"
	"github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// GainsHandler handles recalculation, report and summary HTTP requests
type GainsHandler struct {
	gains  usecase.GainsUseCase
	logger coreport.Logger
}

// NewGainsHandler creates a new gains handler instance
func NewGainsHandler(gains usecase.GainsUseCase, logger coreport.Logger) *GainsHandler {
	return &GainsHandler{
		gains:  gains,
		logger: logger,
	}
}

// Recalculate handles the POST /gains/recalculate endpoint. With a tax year
// in the body it responds with the tax-filing CSV as a download; without one
// it responds with the pass statistics.
func (h *GainsHandler) Recalculate(c *gin.Context) {
	var req dto.RecalculateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
				Message: "Invalid request format: " + err.Error(),
			})
			return
		}
	}

	result, err := h.gains.Recalculate(c.Request.Context(), req.TaxYear)
	if err != nil {
		h.logger.Error("Recalculation failed", map[string]any{
			"tax_year": req.TaxYear,
			"error":    err.Error(),
		})
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	if req.TaxYear > 0 {
		csvDoc, err := h.gains.BuildReportCSV(result.ReportLines)
		if err != nil {
			c.JSON(httpStatus(err), dto.ErrorResponse{
				Code:    domainerr.ErrorCode(err),
				Message: err.Error(),
			})
			return
		}

		filename := fmt.Sprintf("capgains_%d.csv", req.TaxYear)
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "text/csv", []byte(csvDoc))
		return
	}

	c.JSON(http.StatusOK, dto.FromRecalculationResult(result))
}

// UpdateSummary handles the POST /summary/:year endpoint
func (h *GainsHandler) UpdateSummary(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidTaxYear),
			Message: "Invalid tax year format",
		})
		return
	}

	summary, err := h.gains.UpdateSummary(c.Request.Context(), year)
	if err != nil {
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.FromSummary(summary))
}

// Summaries handles the GET /summary endpoint
func (h *GainsHandler) Summaries(c *gin.Context) {
	summaries, err := h.gains.Summaries(c.Request.Context())
	if err != nil {
		c.JSON(httpStatus(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	responses := make([]dto.SummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		responses = append(responses, dto.FromSummary(summary))
	}
	c.JSON(http.StatusOK, responses)
}
