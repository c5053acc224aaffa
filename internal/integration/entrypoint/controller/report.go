package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/application/usecase/report"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
	"github.com/boi-gordo/backend/internal/domain/valueobject"
)

// ReportController handles reporting endpoints.
type ReportController struct {
	cashFlowUseCase      *report.CashFlowCalendarUseCase
	profitabilityUseCase *report.LotProfitabilityUseCase
	occupancyUseCase     *report.PenOccupancyUseCase
}

// NewReportController creates a new report controller instance.
func NewReportController(
	cashFlowUseCase *report.CashFlowCalendarUseCase,
	profitabilityUseCase *report.LotProfitabilityUseCase,
	occupancyUseCase *report.PenOccupancyUseCase,
) *ReportController {
	return &ReportController{
		cashFlowUseCase:      cashFlowUseCase,
		profitabilityUseCase: profitabilityUseCase,
		occupancyUseCase:     occupancyUseCase,
	}
}

// CashFlow handles GET /reports/cash-flow requests.
func (c *ReportController) CashFlow(ctx *gin.Context) {
	var input report.CashFlowCalendarInput

	if raw := ctx.Query("start_date"); raw != "" {
		startDate, err := valueobject.ParseDate(raw)
		if err != nil {
			badRequest(ctx, "Invalid start_date format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidDateFormat))
			return
		}
		input.StartDate = startDate
	}
	if raw := ctx.Query("end_date"); raw != "" {
		endDate, err := valueobject.ParseDate(raw)
		if err != nil {
			badRequest(ctx, "Invalid end_date format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidDateFormat))
			return
		}
		input.EndDate = endDate
	}
	if raw := ctx.Query("opening_balance"); raw != "" {
		balance, err := decimal.NewFromString(raw)
		if err != nil {
			badRequest(ctx, "Invalid opening_balance", string(domainerror.ErrCodeInvalidOpeningBalance))
			return
		}
		input.OpeningBalance = balance
	}

	output, err := c.cashFlowUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, output)
}

// LotProfitability handles GET /reports/lot-profitability requests.
func (c *ReportController) LotProfitability(ctx *gin.Context) {
	var input report.LotProfitabilityInput
	if raw := ctx.Query("lot_id"); raw != "" {
		lotID, err := uuid.Parse(raw)
		if err != nil {
			badRequest(ctx, "Invalid lot ID format", string(domainerror.ErrCodeInvalidLotID))
			return
		}
		input.LotID = &lotID
	}

	output, err := c.profitabilityUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, output)
}

// PenOccupancy handles GET /reports/pen-occupancy requests.
func (c *ReportController) PenOccupancy(ctx *gin.Context) {
	output, err := c.occupancyUseCase.Execute(ctx.Request.Context())
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, output)
}
