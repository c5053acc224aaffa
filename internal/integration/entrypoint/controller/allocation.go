package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/boi-gordo/backend/internal/application/usecase/allocation"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
	"github.com/boi-gordo/backend/internal/domain/valueobject"
	"github.com/boi-gordo/backend/internal/integration/entrypoint/dto"
)

// AllocationController handles daily cost allocation and pen placement endpoints.
type AllocationController struct {
	allocateUseCase  *allocation.AllocateDailyCostsUseCase
	getDailyUseCase  *allocation.GetDailyAllocationsUseCase
	placeUseCase     *allocation.AllocateToPenUseCase
	removeUseCase    *allocation.RemoveAllocationUseCase
	transferUseCase  *allocation.TransferAllocationUseCase
	feedPriceUseCase *allocation.SetFeedPriceUseCase
}

// NewAllocationController creates a new allocation controller instance.
func NewAllocationController(
	allocateUseCase *allocation.AllocateDailyCostsUseCase,
	getDailyUseCase *allocation.GetDailyAllocationsUseCase,
	placeUseCase *allocation.AllocateToPenUseCase,
	removeUseCase *allocation.RemoveAllocationUseCase,
	transferUseCase *allocation.TransferAllocationUseCase,
	feedPriceUseCase *allocation.SetFeedPriceUseCase,
) *AllocationController {
	return &AllocationController{
		allocateUseCase:  allocateUseCase,
		getDailyUseCase:  getDailyUseCase,
		placeUseCase:     placeUseCase,
		removeUseCase:    removeUseCase,
		transferUseCase:  transferUseCase,
		feedPriceUseCase: feedPriceUseCase,
	}
}

// AllocateDaily handles POST /allocation/daily requests.
// The body is optional and may override the basis and the configured rates.
func (c *AllocationController) AllocateDaily(ctx *gin.Context) {
	date, ok := dateQuery(ctx)
	if !ok {
		return
	}

	var req dto.AllocateDailyCostsRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeInvalidAllocationInput))
			return
		}
	}

	output, err := c.allocateUseCase.Execute(ctx.Request.Context(), allocation.AllocateDailyCostsInput{
		Date:  date,
		Basis: entity.AllocationBasis(req.Basis),
		Rates: req.Rates.MergeRates(c.allocateUseCase.DefaultRates()),
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAllocateDailyCostsResponse(output))
}

// GetDaily handles GET /allocation/daily requests.
func (c *AllocationController) GetDaily(ctx *gin.Context) {
	date, ok := dateQuery(ctx)
	if !ok {
		return
	}
	if date.IsZero() {
		date = valueobject.TruncateDay(time.Now())
	}

	rows, err := c.getDailyUseCase.Execute(ctx.Request.Context(), allocation.GetDailyAllocationsInput{Date: date})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDailyAllocationListResponse(valueobject.FormatDate(date), rows))
}

// SetFeedPrice handles PUT /allocation/feed-prices requests.
func (c *AllocationController) SetFeedPrice(ctx *gin.Context) {
	var req dto.SetFeedPriceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeInvalidAllocationInput))
		return
	}
	effectiveFrom, err := valueobject.ParseDate(req.EffectiveFrom)
	if err != nil {
		badRequest(ctx, "Invalid effective_from format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidAllocationDate))
		return
	}

	err = c.feedPriceUseCase.Execute(ctx.Request.Context(), allocation.SetFeedPriceInput{
		EffectiveFrom: effectiveFrom,
		PricePerKg:    req.PricePerKg,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.FeedPriceResponse{
		EffectiveFrom: valueobject.FormatDate(effectiveFrom),
		PricePerKg:    req.PricePerKg.String(),
	})
}

// Place handles POST /lots/:id/allocations requests.
func (c *AllocationController) Place(ctx *gin.Context) {
	lotID, ok := idParam(ctx, "Invalid lot ID format")
	if !ok {
		return
	}

	var req dto.AllocateToPenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeInvalidAllocationInput))
		return
	}
	penID, err := uuid.Parse(req.PenID)
	if err != nil {
		badRequest(ctx, "Invalid pen ID format", string(domainerror.ErrCodeInvalidAllocationInput))
		return
	}
	date, err := parseEventDate(req.Date)
	if err != nil {
		badRequest(ctx, "Invalid date format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidAllocationDate))
		return
	}

	output, err := c.placeUseCase.Execute(ctx.Request.Context(), allocation.AllocateToPenInput{
		LotID:    lotID,
		PenID:    penID,
		Quantity: req.Quantity,
		Date:     date,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToPlacementResponse(output))
}

// Remove handles POST /allocations/:id/remove requests.
func (c *AllocationController) Remove(ctx *gin.Context) {
	allocationID, ok := idParam(ctx, "Invalid allocation ID format")
	if !ok {
		return
	}

	var req dto.RemoveAllocationRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeInvalidAllocationInput))
			return
		}
	}
	date, err := parseEventDate(req.Date)
	if err != nil {
		badRequest(ctx, "Invalid date format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidAllocationDate))
		return
	}

	removed, err := c.removeUseCase.Execute(ctx.Request.Context(), allocation.RemoveAllocationInput{
		AllocationID: allocationID,
		Date:         date,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPenAllocationResponse(removed))
}

// Transfer handles POST /allocations/:id/transfer requests.
func (c *AllocationController) Transfer(ctx *gin.Context) {
	allocationID, ok := idParam(ctx, "Invalid allocation ID format")
	if !ok {
		return
	}

	var req dto.TransferAllocationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeInvalidAllocationInput))
		return
	}
	toPenID, err := uuid.Parse(req.ToPenID)
	if err != nil {
		badRequest(ctx, "Invalid pen ID format", string(domainerror.ErrCodeInvalidAllocationInput))
		return
	}
	date, err := parseEventDate(req.Date)
	if err != nil {
		badRequest(ctx, "Invalid date format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidAllocationDate))
		return
	}

	output, err := c.transferUseCase.Execute(ctx.Request.Context(), allocation.TransferAllocationInput{
		AllocationID: allocationID,
		ToPenID:      toPenID,
		Quantity:     req.Quantity,
		Date:         date,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransferResponse(output))
}

// dateQuery reads the optional date query parameter, writing a 400 when it is malformed.
func dateQuery(ctx *gin.Context) (time.Time, bool) {
	raw := ctx.Query("date")
	date, err := parseOptionalDate(&raw)
	if err != nil {
		badRequest(ctx, "Invalid date format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidAllocationDate))
		return time.Time{}, false
	}
	return date, true
}

// idParam reads the :id path parameter, writing a 400 when it is not a UUID.
func idParam(ctx *gin.Context, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, message, string(domainerror.ErrCodeInvalidAllocationInput))
		return uuid.Nil, false
	}
	return id, true
}
