package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/boi-gordo/backend/internal/application/usecase/reconciliation"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
	"github.com/boi-gordo/backend/internal/integration/entrypoint/dto"
)

// ReconciliationController handles monthly reconciliation endpoints.
type ReconciliationController struct {
	reconcileUseCase *reconciliation.ReconcilePeriodUseCase
	getUseCase       *reconciliation.GetAnalysisUseCase
	listUseCase      *reconciliation.ListAnalysesByYearUseCase
}

// NewReconciliationController creates a new reconciliation controller instance.
func NewReconciliationController(
	reconcileUseCase *reconciliation.ReconcilePeriodUseCase,
	getUseCase *reconciliation.GetAnalysisUseCase,
	listUseCase *reconciliation.ListAnalysesByYearUseCase,
) *ReconciliationController {
	return &ReconciliationController{
		reconcileUseCase: reconcileUseCase,
		getUseCase:       getUseCase,
		listUseCase:      listUseCase,
	}
}

// Reconcile handles POST /reconciliation/periods/:month requests.
// It ingests the month and stores a fresh analysis.
func (c *ReconciliationController) Reconcile(ctx *gin.Context) {
	output, err := c.reconcileUseCase.Execute(ctx.Request.Context(), reconciliation.ReconcilePeriodInput{
		Month: ctx.Param("month"),
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToReconcileResponse(output))
}

// Get handles GET /reconciliation/periods/:month requests.
func (c *ReconciliationController) Get(ctx *gin.Context) {
	output, err := c.getUseCase.Execute(ctx.Request.Context(), reconciliation.GetAnalysisInput{
		Month: ctx.Param("month"),
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAnalysisResponse(output))
}

// ListByYear handles GET /reconciliation/periods requests. The year defaults to the current one.
func (c *ReconciliationController) ListByYear(ctx *gin.Context) {
	year := time.Now().UTC().Year()
	if raw := ctx.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(ctx, "Invalid year", string(domainerror.ErrCodeInvalidYear))
			return
		}
		year = parsed
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), reconciliation.ListAnalysesInput{Year: year})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAnalysisListResponse(output))
}
