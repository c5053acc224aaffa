package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/boi-gordo/backend/internal/application/usecase/ledger"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
	"github.com/boi-gordo/backend/internal/domain/valueobject"
	"github.com/boi-gordo/backend/internal/integration/entrypoint/dto"
)

// LedgerController handles ledger ingestion and source record endpoints.
type LedgerController struct {
	ingestUseCase       *ledger.IngestMonthUseCase
	listUseCase         *ledger.ListTransactionsUseCase
	expenseUseCase      *ledger.RegisterExpenseUseCase
	revenueUseCase      *ledger.RegisterRevenueUseCase
	contributionUseCase *ledger.RegisterContributionUseCase
}

// NewLedgerController creates a new ledger controller instance.
func NewLedgerController(
	ingestUseCase *ledger.IngestMonthUseCase,
	listUseCase *ledger.ListTransactionsUseCase,
	expenseUseCase *ledger.RegisterExpenseUseCase,
	revenueUseCase *ledger.RegisterRevenueUseCase,
	contributionUseCase *ledger.RegisterContributionUseCase,
) *LedgerController {
	return &LedgerController{
		ingestUseCase:       ingestUseCase,
		listUseCase:         listUseCase,
		expenseUseCase:      expenseUseCase,
		revenueUseCase:      revenueUseCase,
		contributionUseCase: contributionUseCase,
	}
}

// Ingest handles POST /ledger/ingest requests.
func (c *LedgerController) Ingest(ctx *gin.Context) {
	month, err := valueobject.ParseMonth(ctx.Query("month"))
	if err != nil {
		badRequest(ctx, "Invalid month format. Use YYYY-MM", string(domainerror.ErrCodeInvalidMonth))
		return
	}

	output, err := c.ingestUseCase.Execute(ctx.Request.Context(), ledger.IngestMonthInput{Month: month})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToIngestMonthResponse(output))
}

// ListTransactions handles GET /ledger/transactions requests.
func (c *LedgerController) ListTransactions(ctx *gin.Context) {
	var input ledger.ListTransactionsInput

	if raw := ctx.Query("start_date"); raw != "" {
		startDate, err := valueobject.ParseDate(raw)
		if err != nil {
			badRequest(ctx, "Invalid start_date format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidLedgerFilter))
			return
		}
		input.StartDate = &startDate
	}
	if raw := ctx.Query("end_date"); raw != "" {
		endDate, err := valueobject.ParseDate(raw)
		if err != nil {
			badRequest(ctx, "Invalid end_date format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidLedgerFilter))
			return
		}
		input.EndDate = &endDate
	}
	if raw := ctx.Query("category"); raw != "" {
		input.Category = &raw
	}
	if raw := ctx.Query("impacts_cash"); raw != "" {
		impactsCash, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(ctx, "impacts_cash must be true or false", string(domainerror.ErrCodeInvalidLedgerFilter))
			return
		}
		input.ImpactsCash = &impactsCash
	}
	if raw := ctx.Query("lot_id"); raw != "" {
		input.LotID = &raw
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(output))
}

// CreateExpense handles POST /expenses requests.
func (c *LedgerController) CreateExpense(ctx *gin.Context) {
	var req dto.CreateExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeInvalidExpenseInput))
		return
	}

	dueDate, err := valueobject.ParseDate(req.DueDate)
	if err != nil {
		badRequest(ctx, "Invalid due_date format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidExpenseInput))
		return
	}
	paymentDate, err := parseOptionalDatePtr(req.PaymentDate)
	if err != nil {
		badRequest(ctx, "Invalid payment_date format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidExpenseInput))
		return
	}
	lotID, err := parseOptionalID(req.LotID)
	if err != nil {
		badRequest(ctx, "Invalid lot ID format", string(domainerror.ErrCodeInvalidExpenseInput))
		return
	}

	impactsCash := true
	if req.ImpactsCash != nil {
		impactsCash = *req.ImpactsCash
	}

	expense, err := c.expenseUseCase.Execute(ctx.Request.Context(), ledger.RegisterExpenseInput{
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
		DueDate:     dueDate,
		PaymentDate: paymentDate,
		ImpactsCash: impactsCash,
		LotID:       lotID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// CreateRevenue handles POST /revenues requests.
func (c *LedgerController) CreateRevenue(ctx *gin.Context) {
	var req dto.CreateRevenueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeInvalidExpenseInput))
		return
	}

	dueDate, err := valueobject.ParseDate(req.DueDate)
	if err != nil {
		badRequest(ctx, "Invalid due_date format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidExpenseInput))
		return
	}
	receiptDate, err := parseOptionalDatePtr(req.ReceiptDate)
	if err != nil {
		badRequest(ctx, "Invalid receipt_date format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidExpenseInput))
		return
	}
	lotID, err := parseOptionalID(req.LotID)
	if err != nil {
		badRequest(ctx, "Invalid lot ID format", string(domainerror.ErrCodeInvalidExpenseInput))
		return
	}

	revenue, err := c.revenueUseCase.Execute(ctx.Request.Context(), ledger.RegisterRevenueInput{
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     dueDate,
		ReceiptDate: receiptDate,
		LotID:       lotID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToRevenueResponse(revenue))
}

// CreateContribution handles POST /contributions requests.
func (c *LedgerController) CreateContribution(ctx *gin.Context) {
	var req dto.CreateContributionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeInvalidExpenseInput))
		return
	}

	date, err := valueobject.ParseDate(req.Date)
	if err != nil {
		badRequest(ctx, "Invalid date format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidExpenseInput))
		return
	}

	contribution, err := c.contributionUseCase.Execute(ctx.Request.Context(), ledger.RegisterContributionInput{
		PartnerName: req.PartnerName,
		Amount:      req.Amount,
		Date:        date,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToContributionResponse(contribution))
}
