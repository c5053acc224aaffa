// Package allocation contains cost allocation, pen placement and lot lifecycle use cases.
package allocation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
)

// toAllocationError maps repository errors to coded allocation errors.
// Errors that are already coded pass through untouched.
func toAllocationError(err error, message string) error {
	var allocErr *domainerror.AllocationError
	if errors.As(err, &allocErr) {
		return err
	}

	switch {
	case errors.Is(err, domainerror.ErrLotNotFound):
		return domainerror.NewAllocationError(domainerror.ErrCodeLotNotFound, "lot not found", err)
	case errors.Is(err, domainerror.ErrPenNotFound):
		return domainerror.NewAllocationError(domainerror.ErrCodePenNotFound, "pen not found", err)
	case errors.Is(err, domainerror.ErrAllocationNotFound):
		return domainerror.NewAllocationError(domainerror.ErrCodeAllocationNotFound, "allocation not found", err)
	}
	return domainerror.NewAllocationError(domainerror.ErrCodeAllocationInternalError, message, err)
}

func invalidQuantity() error {
	return domainerror.NewAllocationError(
		domainerror.ErrCodeInvalidQuantity,
		"quantity must be greater than zero",
		domainerror.ErrInvalidQuantity,
	)
}

func invalidInput(message string) error {
	return domainerror.NewAllocationError(domainerror.ErrCodeInvalidAllocationInput, message, nil)
}

func invalidDate() error {
	return domainerror.NewAllocationError(
		domainerror.ErrCodeInvalidAllocationDate,
		"date is required",
		domainerror.ErrInvalidAllocationDate,
	)
}

// shrinkAllocations reduces the lot's active allocations until they hold at most
// remaining head. The preferred pen is reduced first, then the oldest placements.
// Allocations that would drop to zero are closed on date instead.
func shrinkAllocations(
	ctx context.Context,
	repo adapter.PenAllocationRepository,
	lotID uuid.UUID,
	remaining int,
	preferredPen *uuid.UUID,
	date time.Time,
) error {
	active, err := repo.FindActiveByLot(ctx, lotID)
	if err != nil {
		return err
	}

	placed := 0
	for _, a := range active {
		placed += a.Quantity
	}
	excess := placed - remaining
	if excess <= 0 {
		return nil
	}

	ordered := make([]*entity.PenAllocation, 0, len(active))
	if preferredPen != nil {
		for _, a := range active {
			if a.PenID == *preferredPen {
				ordered = append(ordered, a)
			}
		}
	}
	for _, a := range active {
		if preferredPen == nil || a.PenID != *preferredPen {
			ordered = append(ordered, a)
		}
	}

	for _, a := range ordered {
		if excess == 0 {
			break
		}
		take := min(a.Quantity, excess)
		excess -= take
		if take == a.Quantity {
			a.Close(date)
		} else {
			a.Quantity -= take
			a.UpdatedAt = time.Now().UTC()
		}
		if err := repo.Update(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
