package dto

import (
	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/application/usecase/allocation"
	"github.com/boi-gordo/backend/internal/domain/entity"
	"github.com/boi-gordo/backend/internal/domain/valueobject"
)

// DailyRatesRequest overrides the configured daily rates. Omitted fields keep the configured value.
type DailyRatesRequest struct {
	Labor          *decimal.Decimal `json:"labor,omitempty"`
	Infrastructure *decimal.Decimal `json:"infrastructure,omitempty"`
	Veterinary     *decimal.Decimal `json:"veterinary,omitempty"`
	FeedPricePerKg *decimal.Decimal `json:"feed_price_per_kg,omitempty"`
}

// AllocateDailyCostsRequest represents the optional body of a daily allocation run.
type AllocateDailyCostsRequest struct {
	Basis string             `json:"basis,omitempty" binding:"omitempty,oneof=weight head_count days"`
	Rates *DailyRatesRequest `json:"rates,omitempty"`
}

// DailyAllocationResponse represents one lot's share of a day's costs.
type DailyAllocationResponse struct {
	ID                 string `json:"id"`
	LotID              string `json:"lot_id"`
	Date               string `json:"date"`
	Basis              string `json:"basis"`
	BasisValue         string `json:"basis_value"`
	Percentage         string `json:"percentage"`
	FeedCost           string `json:"feed_cost"`
	LaborCost          string `json:"labor_cost"`
	InfrastructureCost string `json:"infrastructure_cost"`
	VeterinaryCost     string `json:"veterinary_cost"`
	DirectHealthCost   string `json:"direct_health_cost"`
	TotalCost          string `json:"total_cost"`
}

// AllocateDailyCostsResponse represents the result of a daily allocation run.
type AllocateDailyCostsResponse struct {
	Date             string                    `json:"date"`
	Basis            string                    `json:"basis"`
	Skipped          bool                      `json:"skipped"`
	SkipReason       string                    `json:"skip_reason,omitempty"`
	FarmTotal        string                    `json:"farm_total"`
	FeedPricePerKg   *string                   `json:"feed_price_per_kg,omitempty"`
	TotalAllocated   string                    `json:"total_allocated"`
	ReplacedPrevious bool                      `json:"replaced_previous"`
	Allocations      []DailyAllocationResponse `json:"allocations"`
}

// DailyAllocationListResponse represents the stored allocations of a day.
type DailyAllocationListResponse struct {
	Date        string                    `json:"date"`
	TotalCost   string                    `json:"total_cost"`
	Allocations []DailyAllocationResponse `json:"allocations"`
}

// SetFeedPriceRequest represents the request body for recording a feed price.
type SetFeedPriceRequest struct {
	EffectiveFrom string          `json:"effective_from" binding:"required"`
	PricePerKg    decimal.Decimal `json:"price_per_kg"`
}

// FeedPriceResponse echoes a stored feed price.
type FeedPriceResponse struct {
	EffectiveFrom string `json:"effective_from"`
	PricePerKg    string `json:"price_per_kg"`
}

// CreateLotRequest represents the request body for registering a lot.
type CreateLotRequest struct {
	Code            string          `json:"code" binding:"required,min=1,max=50"`
	Quantity        int             `json:"quantity" binding:"required,min=1"`
	EntryWeight     decimal.Decimal `json:"entry_weight"`
	AcquisitionCost decimal.Decimal `json:"acquisition_cost"`
	PurchaseDate    *string         `json:"purchase_date,omitempty"`
}

// LotResponse represents a lot in API responses.
type LotResponse struct {
	ID              string  `json:"id"`
	Code            string  `json:"code"`
	Status          string  `json:"status"`
	InitialQuantity int     `json:"initial_quantity"`
	CurrentQuantity int     `json:"current_quantity"`
	EntryWeight     string  `json:"entry_weight"`
	CurrentWeight   string  `json:"current_weight"`
	AcquisitionCost string  `json:"acquisition_cost"`
	PurchaseDate    *string `json:"purchase_date,omitempty"`
	ReceivedAt      *string `json:"received_at,omitempty"`
	ConfinedAt      *string `json:"confined_at,omitempty"`
	ClosedAt        *string `json:"closed_at,omitempty"`
}

// CreatePenRequest represents the request body for registering a pen.
type CreatePenRequest struct {
	Number   string `json:"number" binding:"required,min=1,max=20"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
}

// PenResponse represents a pen in API responses.
type PenResponse struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Capacity int    `json:"capacity"`
	IsActive bool   `json:"is_active"`
}

// SetPenStatusRequest represents the request body for opening or closing a pen.
type SetPenStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// ChangeLotStatusRequest represents the request body for a lot status transition.
type ChangeLotStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Date   *string `json:"date,omitempty"`
}

// RecordMortalityRequest represents the request body for recording deaths in a lot.
type RecordMortalityRequest struct {
	Quantity int     `json:"quantity" binding:"required,min=1"`
	Cause    string  `json:"cause,omitempty" binding:"omitempty,max=255"`
	Date     *string `json:"date,omitempty"`
	PenID    *string `json:"pen_id,omitempty"`
}

// MortalityResponse represents a recorded mortality.
type MortalityResponse struct {
	ID        string  `json:"id"`
	LotID     string  `json:"lot_id"`
	PenID     *string `json:"pen_id,omitempty"`
	Quantity  int     `json:"quantity"`
	DeathDate string  `json:"death_date"`
	Cause     string  `json:"cause,omitempty"`
	UnitCost  *string `json:"unit_cost,omitempty"`
}

// RecordSaleRequest represents the request body for selling head from a lot.
type RecordSaleRequest struct {
	Quantity   int             `json:"quantity" binding:"required,min=1"`
	Amount     decimal.Decimal `json:"amount"`
	Date       *string         `json:"date,omitempty"`
	ReceivedOn *string         `json:"received_on,omitempty"`
}

// SaleResponse represents a recorded sale with its linked revenue and the updated lot.
type SaleResponse struct {
	ID       string          `json:"id"`
	LotID    string          `json:"lot_id"`
	Quantity int             `json:"quantity"`
	Amount   string          `json:"amount"`
	SaleDate string          `json:"sale_date"`
	Status   string          `json:"status"`
	Revenue  RevenueResponse `json:"revenue"`
	Lot      LotResponse     `json:"lot"`
}

// RecordWeighingRequest represents the request body for a lot weighing.
type RecordWeighingRequest struct {
	TotalWeight decimal.Decimal `json:"total_weight"`
}

// CreateHealthInterventionRequest represents the request body for a lot health intervention.
type CreateHealthInterventionRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=255"`
	Cost        decimal.Decimal `json:"cost"`
	AppliedOn   string          `json:"applied_on" binding:"required"`
}

// HealthInterventionResponse represents a registered health intervention.
type HealthInterventionResponse struct {
	ID          string `json:"id"`
	LotID       string `json:"lot_id"`
	Description string `json:"description"`
	Cost        string `json:"cost"`
	AppliedOn   string `json:"applied_on"`
}

// AllocateToPenRequest represents the request body for placing head of a lot in a pen.
type AllocateToPenRequest struct {
	PenID    string  `json:"pen_id" binding:"required"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
	Date     *string `json:"date,omitempty"`
}

// RemoveAllocationRequest represents the optional body for closing an allocation.
type RemoveAllocationRequest struct {
	Date *string `json:"date,omitempty"`
}

// TransferAllocationRequest represents the request body for moving head between pens.
// A zero quantity moves the whole allocation.
type TransferAllocationRequest struct {
	ToPenID  string  `json:"to_pen_id" binding:"required"`
	Quantity int     `json:"quantity,omitempty" binding:"min=0"`
	Date     *string `json:"date,omitempty"`
}

// PenAllocationResponse represents a pen allocation.
type PenAllocationResponse struct {
	ID          string  `json:"id"`
	LotID       string  `json:"lot_id"`
	PenID       string  `json:"pen_id"`
	Quantity    int     `json:"quantity"`
	EntryDate   string  `json:"entry_date"`
	RemovalDate *string `json:"removal_date,omitempty"`
	Status      string  `json:"status"`
}

// PlacementResponse represents a new allocation with its occupancy figures.
type PlacementResponse struct {
	Allocation       PenAllocationResponse `json:"allocation"`
	PercentageOfLot  string                `json:"percentage_of_lot"`
	PercentageOfPen  string                `json:"percentage_of_pen"`
	PenOccupied      int                   `json:"pen_occupied"`
	PenCapacity      int                   `json:"pen_capacity"`
	LotStatusChanged bool                  `json:"lot_status_changed"`
}

// TransferResponse represents the allocations touched by a transfer.
type TransferResponse struct {
	Closed    PenAllocationResponse  `json:"closed"`
	Remaining *PenAllocationResponse `json:"remaining,omitempty"`
	Created   PlacementResponse      `json:"created"`
}

// MergeRates applies the request overrides on top of the configured rates.
func (r *DailyRatesRequest) MergeRates(defaults entity.DailyRates) *entity.DailyRates {
	if r == nil {
		return nil
	}
	rates := defaults
	if r.Labor != nil {
		rates.Labor = *r.Labor
	}
	if r.Infrastructure != nil {
		rates.Infrastructure = *r.Infrastructure
	}
	if r.Veterinary != nil {
		rates.Veterinary = *r.Veterinary
	}
	if r.FeedPricePerKg != nil {
		price := *r.FeedPricePerKg
		rates.FeedPricePerKg = &price
	}
	return &rates
}

// ToDailyAllocationResponse converts a daily allocation row to its DTO.
func ToDailyAllocationResponse(a *entity.DailyCostAllocation) DailyAllocationResponse {
	return DailyAllocationResponse{
		ID:                 a.ID.String(),
		LotID:              a.LotID.String(),
		Date:               valueobject.FormatDate(a.Date),
		Basis:              string(a.Basis),
		BasisValue:         a.BasisValue.String(),
		Percentage:         a.Percentage.StringFixed(6),
		FeedCost:           formatMoney(a.FeedCost),
		LaborCost:          formatMoney(a.LaborCost),
		InfrastructureCost: formatMoney(a.InfrastructureCost),
		VeterinaryCost:     formatMoney(a.VeterinaryCost),
		DirectHealthCost:   formatMoney(a.DirectHealthCost),
		TotalCost:          formatMoney(a.TotalCost),
	}
}

func toDailyAllocationResponses(rows []*entity.DailyCostAllocation) []DailyAllocationResponse {
	responses := make([]DailyAllocationResponse, len(rows))
	for i, row := range rows {
		responses[i] = ToDailyAllocationResponse(row)
	}
	return responses
}

// ToAllocateDailyCostsResponse converts an allocation run to its DTO.
func ToAllocateDailyCostsResponse(output *allocation.AllocateDailyCostsOutput) AllocateDailyCostsResponse {
	response := AllocateDailyCostsResponse{
		Date:             valueobject.FormatDate(output.Date),
		Basis:            string(output.Basis),
		Skipped:          output.Skipped,
		SkipReason:       output.SkipReason,
		FarmTotal:        formatMoney(output.FarmTotal),
		TotalAllocated:   formatMoney(output.TotalAllocated),
		ReplacedPrevious: output.ReplacedPrevious,
		Allocations:      toDailyAllocationResponses(output.Allocations),
	}
	if output.FeedPricePerKg != nil {
		price := output.FeedPricePerKg.String()
		response.FeedPricePerKg = &price
	}
	return response
}

// ToDailyAllocationListResponse converts the stored rows of a day to their DTO.
func ToDailyAllocationListResponse(date string, rows []*entity.DailyCostAllocation) DailyAllocationListResponse {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.TotalCost)
	}
	return DailyAllocationListResponse{
		Date:        date,
		TotalCost:   formatMoney(total),
		Allocations: toDailyAllocationResponses(rows),
	}
}

// ToLotResponse converts a lot to its DTO.
func ToLotResponse(l *entity.Lot) LotResponse {
	return LotResponse{
		ID:              l.ID.String(),
		Code:            l.Code,
		Status:          string(l.Status),
		InitialQuantity: l.InitialQuantity,
		CurrentQuantity: l.CurrentQuantity,
		EntryWeight:     l.EntryWeight.String(),
		CurrentWeight:   l.CurrentWeight.String(),
		AcquisitionCost: formatMoney(l.AcquisitionCost),
		PurchaseDate:    formatOptionalDate(l.PurchaseDate),
		ReceivedAt:      formatOptionalDate(l.ReceivedAt),
		ConfinedAt:      formatOptionalDate(l.ConfinedAt),
		ClosedAt:        formatOptionalDate(l.ClosedAt),
	}
}

// ToPenResponse converts a pen to its DTO.
func ToPenResponse(p *entity.Pen) PenResponse {
	return PenResponse{
		ID:       p.ID.String(),
		Number:   p.Number,
		Capacity: p.Capacity,
		IsActive: p.IsActive,
	}
}

// ToMortalityResponse converts a mortality record to its DTO.
func ToMortalityResponse(m *entity.MortalityRecord) MortalityResponse {
	response := MortalityResponse{
		ID:        m.ID.String(),
		LotID:     m.LotID.String(),
		PenID:     formatOptionalID(m.PenID),
		Quantity:  m.Quantity,
		DeathDate: valueobject.FormatDate(m.DeathDate),
		Cause:     m.Cause,
	}
	if m.UnitCost != nil {
		cost := formatMoney(*m.UnitCost)
		response.UnitCost = &cost
	}
	return response
}

// ToSaleResponse converts a recorded sale to its DTO.
func ToSaleResponse(output *allocation.RecordSaleOutput) SaleResponse {
	return SaleResponse{
		ID:       output.Sale.ID.String(),
		LotID:    output.Sale.LotID.String(),
		Quantity: output.Sale.Quantity,
		Amount:   formatMoney(output.Sale.TotalAmount),
		SaleDate: valueobject.FormatDate(output.Sale.SaleDate),
		Status:   string(output.Sale.Status),
		Revenue:  ToRevenueResponse(output.Revenue),
		Lot:      ToLotResponse(output.Lot),
	}
}

// ToHealthInterventionResponse converts a health intervention to its DTO.
func ToHealthInterventionResponse(h *entity.HealthIntervention) HealthInterventionResponse {
	return HealthInterventionResponse{
		ID:          h.ID.String(),
		LotID:       h.LotID.String(),
		Description: h.Description,
		Cost:        formatMoney(h.Cost),
		AppliedOn:   valueobject.FormatDate(h.AppliedOn),
	}
}

// ToPenAllocationResponse converts a pen allocation to its DTO.
func ToPenAllocationResponse(a *entity.PenAllocation) PenAllocationResponse {
	return PenAllocationResponse{
		ID:          a.ID.String(),
		LotID:       a.LotID.String(),
		PenID:       a.PenID.String(),
		Quantity:    a.Quantity,
		EntryDate:   valueobject.FormatDate(a.EntryDate),
		RemovalDate: formatOptionalDate(a.RemovalDate),
		Status:      string(a.Status),
	}
}

// ToPlacementResponse converts a placement output to its DTO.
func ToPlacementResponse(output *allocation.PenAllocationOutput) PlacementResponse {
	return PlacementResponse{
		Allocation:       ToPenAllocationResponse(output.Allocation),
		PercentageOfLot:  output.PercentageOfLot,
		PercentageOfPen:  output.PercentageOfPen,
		PenOccupied:      output.PenOccupied,
		PenCapacity:      output.PenCapacity,
		LotStatusChanged: output.LotStatusChanged,
	}
}

// ToTransferResponse converts a transfer output to its DTO.
func ToTransferResponse(output *allocation.TransferAllocationOutput) TransferResponse {
	response := TransferResponse{
		Closed:  ToPenAllocationResponse(output.Closed),
		Created: ToPlacementResponse(output.Created),
	}
	if output.Remaining != nil {
		remaining := ToPenAllocationResponse(output.Remaining)
		response.Remaining = &remaining
	}
	return response
}
