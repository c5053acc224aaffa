package error

import "errors"

// Allocation and lot lifecycle domain errors.
var (
	// ErrLotNotFound is returned when a lot is not found.
	ErrLotNotFound = errors.New("lot not found")

	// ErrPenNotFound is returned when a pen is not found.
	ErrPenNotFound = errors.New("pen not found")

	// ErrAllocationNotFound is returned when a pen allocation is not found.
	ErrAllocationNotFound = errors.New("allocation not found")

	// ErrPenCapacityExceeded is returned when an allocation would exceed pen capacity.
	ErrPenCapacityExceeded = errors.New("pen capacity exceeded")

	// ErrLotOverAllocated is returned when active allocations would exceed the lot's head count.
	ErrLotOverAllocated = errors.New("lot allocations exceed current quantity")

	// ErrInvalidQuantity is returned when a head count is not positive.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrQuantityExceedsLot is returned when mortality or sale exceeds the lot's current quantity.
	ErrQuantityExceedsLot = errors.New("quantity exceeds lot current quantity")

	// ErrInvalidLotTransition is returned when a status change is not allowed.
	ErrInvalidLotTransition = errors.New("invalid lot status transition")

	// ErrLotNotPlaceable is returned when a lot is not in a status that allows pen placement.
	ErrLotNotPlaceable = errors.New("lot must be received or confined to be placed in a pen")

	// ErrLotNotSellable is returned when head are sold out of a lot that is not confined.
	ErrLotNotSellable = errors.New("lot must be confined to record a sale")

	// ErrPenInactive is returned when head are placed into a deactivated pen.
	ErrPenInactive = errors.New("pen is inactive")

	// ErrPenOccupied is returned when a pen holding head is deactivated.
	ErrPenOccupied = errors.New("pen still holds head")

	// ErrAllocationInactive is returned when an operation targets a removed allocation.
	ErrAllocationInactive = errors.New("allocation is not active")

	// ErrInvalidAllocationDate is returned when the allocation date is missing or malformed.
	ErrInvalidAllocationDate = errors.New("invalid date, expected YYYY-MM-DD")

	// ErrInvalidAllocationBasis is returned when the allocation basis is unknown.
	ErrInvalidAllocationBasis = errors.New("basis must be: weight, head_count, or days")

	// ErrNegativeRate is returned when a daily rate is negative.
	ErrNegativeRate = errors.New("daily rates must not be negative")

	// ErrInvalidPenCapacity is returned when a pen capacity is not positive.
	ErrInvalidPenCapacity = errors.New("pen capacity must be greater than zero")
)

// AllocationErrorCode defines error codes for allocation errors.
// Format: ALC-XXYYYY where XX is category and YYYY is specific error.
type AllocationErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidQuantity        AllocationErrorCode = "ALC-010001"
	ErrCodeQuantityExceedsLot     AllocationErrorCode = "ALC-010002"
	ErrCodeInvalidLotTransition   AllocationErrorCode = "ALC-010003"
	ErrCodeLotNotPlaceable        AllocationErrorCode = "ALC-010004"
	ErrCodeAllocationInactive     AllocationErrorCode = "ALC-010005"
	ErrCodeInvalidAllocationDate  AllocationErrorCode = "ALC-010006"
	ErrCodeInvalidAllocationBasis AllocationErrorCode = "ALC-010007"
	ErrCodeNegativeRate           AllocationErrorCode = "ALC-010008"
	ErrCodeInvalidPenCapacity     AllocationErrorCode = "ALC-010009"
	ErrCodeInvalidAllocationInput AllocationErrorCode = "ALC-010010"
	ErrCodeLotNotSellable         AllocationErrorCode = "ALC-010011"

	// Not found errors (02XXXX)
	ErrCodeLotNotFound        AllocationErrorCode = "ALC-020001"
	ErrCodePenNotFound        AllocationErrorCode = "ALC-020002"
	ErrCodeAllocationNotFound AllocationErrorCode = "ALC-020003"

	// Conflict errors (03XXXX)
	ErrCodePenCapacityExceeded AllocationErrorCode = "ALC-030001"
	ErrCodeLotOverAllocated    AllocationErrorCode = "ALC-030002"
	ErrCodePenInactive         AllocationErrorCode = "ALC-030003"
	ErrCodePenOccupied         AllocationErrorCode = "ALC-030004"

	// Internal errors (99XXXX)
	ErrCodeAllocationInternalError AllocationErrorCode = "ALC-990001"
)

// AllocationError represents an allocation error with code and message.
type AllocationError struct {
	Code    AllocationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AllocationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AllocationError) Unwrap() error {
	return e.Err
}

// NewAllocationError creates a new AllocationError with the given code and message.
func NewAllocationError(code AllocationErrorCode, message string, err error) *AllocationError {
	return &AllocationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
