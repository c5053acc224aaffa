package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/boi-gordo/backend/internal/application/usecase/allocation"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
	"github.com/boi-gordo/backend/internal/domain/valueobject"
	"github.com/boi-gordo/backend/internal/integration/entrypoint/dto"
)

// LotController handles lot and pen registration and lot lifecycle endpoints.
type LotController struct {
	registerLotUseCase  *allocation.RegisterLotUseCase
	registerPenUseCase  *allocation.RegisterPenUseCase
	penStatusUseCase    *allocation.SetPenStatusUseCase
	statusUseCase       *allocation.ChangeLotStatusUseCase
	mortalityUseCase    *allocation.RecordMortalityUseCase
	saleUseCase         *allocation.RecordSaleUseCase
	weighingUseCase     *allocation.RecordWeighingUseCase
	interventionUseCase *allocation.RegisterHealthInterventionUseCase
}

// NewLotController creates a new lot controller instance.
func NewLotController(
	registerLotUseCase *allocation.RegisterLotUseCase,
	registerPenUseCase *allocation.RegisterPenUseCase,
	penStatusUseCase *allocation.SetPenStatusUseCase,
	statusUseCase *allocation.ChangeLotStatusUseCase,
	mortalityUseCase *allocation.RecordMortalityUseCase,
	saleUseCase *allocation.RecordSaleUseCase,
	weighingUseCase *allocation.RecordWeighingUseCase,
	interventionUseCase *allocation.RegisterHealthInterventionUseCase,
) *LotController {
	return &LotController{
		registerLotUseCase:  registerLotUseCase,
		registerPenUseCase:  registerPenUseCase,
		penStatusUseCase:    penStatusUseCase,
		statusUseCase:       statusUseCase,
		mortalityUseCase:    mortalityUseCase,
		saleUseCase:         saleUseCase,
		weighingUseCase:     weighingUseCase,
		interventionUseCase: interventionUseCase,
	}
}

// CreateLot handles POST /lots requests.
func (c *LotController) CreateLot(ctx *gin.Context) {
	var req dto.CreateLotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeInvalidAllocationInput))
		return
	}
	purchaseDate, err := parseOptionalDatePtr(req.PurchaseDate)
	if err != nil {
		badRequest(ctx, "Invalid purchase_date format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidAllocationDate))
		return
	}

	lot, err := c.registerLotUseCase.Execute(ctx.Request.Context(), allocation.RegisterLotInput{
		Code:            req.Code,
		Quantity:        req.Quantity,
		EntryWeight:     req.EntryWeight,
		AcquisitionCost: req.AcquisitionCost,
		PurchaseDate:    purchaseDate,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToLotResponse(lot))
}

// CreatePen handles POST /pens requests.
func (c *LotController) CreatePen(ctx *gin.Context) {
	var req dto.CreatePenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeInvalidPenCapacity))
		return
	}

	pen, err := c.registerPenUseCase.Execute(ctx.Request.Context(), allocation.RegisterPenInput{
		Number:   req.Number,
		Capacity: req.Capacity,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToPenResponse(pen))
}

// SetPenStatus handles POST /pens/:id/status requests.
func (c *LotController) SetPenStatus(ctx *gin.Context) {
	penID, ok := idParam(ctx, "Invalid pen ID format")
	if !ok {
		return
	}

	var req dto.SetPenStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeInvalidAllocationInput))
		return
	}

	pen, err := c.penStatusUseCase.Execute(ctx.Request.Context(), allocation.SetPenStatusInput{
		PenID:  penID,
		Active: *req.Active,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPenResponse(pen))
}

// ChangeStatus handles POST /lots/:id/status requests.
func (c *LotController) ChangeStatus(ctx *gin.Context) {
	lotID, ok := idParam(ctx, "Invalid lot ID format")
	if !ok {
		return
	}

	var req dto.ChangeLotStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeInvalidLotTransition))
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		badRequest(ctx, "Invalid date format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidAllocationDate))
		return
	}

	lot, err := c.statusUseCase.Execute(ctx.Request.Context(), allocation.ChangeLotStatusInput{
		LotID:  lotID,
		Status: req.Status,
		Date:   date,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToLotResponse(lot))
}

// RecordMortality handles POST /lots/:id/mortality requests.
func (c *LotController) RecordMortality(ctx *gin.Context) {
	lotID, ok := idParam(ctx, "Invalid lot ID format")
	if !ok {
		return
	}

	var req dto.RecordMortalityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeInvalidQuantity))
		return
	}
	date, err := parseEventDate(req.Date)
	if err != nil {
		badRequest(ctx, "Invalid date format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidAllocationDate))
		return
	}
	penID, err := parseOptionalID(req.PenID)
	if err != nil {
		badRequest(ctx, "Invalid pen ID format", string(domainerror.ErrCodeInvalidAllocationInput))
		return
	}

	record, err := c.mortalityUseCase.Execute(ctx.Request.Context(), allocation.RecordMortalityInput{
		LotID:    lotID,
		PenID:    penID,
		Quantity: req.Quantity,
		Cause:    req.Cause,
		Date:     date,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToMortalityResponse(record))
}

// RecordSale handles POST /lots/:id/sales requests.
func (c *LotController) RecordSale(ctx *gin.Context) {
	lotID, ok := idParam(ctx, "Invalid lot ID format")
	if !ok {
		return
	}

	var req dto.RecordSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeInvalidQuantity))
		return
	}
	date, err := parseEventDate(req.Date)
	if err != nil {
		badRequest(ctx, "Invalid date format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidAllocationDate))
		return
	}
	receivedOn, err := parseOptionalDatePtr(req.ReceivedOn)
	if err != nil {
		badRequest(ctx, "Invalid received_on format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidAllocationDate))
		return
	}

	output, err := c.saleUseCase.Execute(ctx.Request.Context(), allocation.RecordSaleInput{
		LotID:      lotID,
		Quantity:   req.Quantity,
		Amount:     req.Amount,
		Date:       date,
		ReceivedOn: receivedOn,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToSaleResponse(output))
}

// RecordWeighing handles POST /lots/:id/weighings requests.
func (c *LotController) RecordWeighing(ctx *gin.Context) {
	lotID, ok := idParam(ctx, "Invalid lot ID format")
	if !ok {
		return
	}

	var req dto.RecordWeighingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeInvalidAllocationInput))
		return
	}

	lot, err := c.weighingUseCase.Execute(ctx.Request.Context(), allocation.RecordWeighingInput{
		LotID:       lotID,
		TotalWeight: req.TotalWeight,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToLotResponse(lot))
}

// CreateHealthIntervention handles POST /lots/:id/health-interventions requests.
func (c *LotController) CreateHealthIntervention(ctx *gin.Context) {
	lotID, ok := idParam(ctx, "Invalid lot ID format")
	if !ok {
		return
	}

	var req dto.CreateHealthInterventionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeInvalidAllocationInput))
		return
	}
	appliedOn, err := valueobject.ParseDate(req.AppliedOn)
	if err != nil {
		badRequest(ctx, "Invalid applied_on format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidAllocationDate))
		return
	}

	intervention, err := c.interventionUseCase.Execute(ctx.Request.Context(), allocation.RegisterHealthInterventionInput{
		LotID:       lotID,
		Description: req.Description,
		Cost:        req.Cost,
		AppliedOn:   appliedOn,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToHealthInterventionResponse(intervention))
}
