package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/boi-gordo/backend/internal/domain/error"
	"github.com/boi-gordo/backend/internal/domain/valueobject"
	"github.com/boi-gordo/backend/internal/integration/entrypoint/dto"
)

// handleError writes the response for an error returned by a use case.
func handleError(ctx *gin.Context, err error) {
	var (
		ledgerErr     *domainerror.LedgerError
		allocationErr *domainerror.AllocationError
		reportErr     *domainerror.ReportError
		status        int
		code          string
		message       string
	)

	switch {
	case errors.As(err, &ledgerErr):
		status, code, message = getStatusCodeForLedgerError(ledgerErr.Code), string(ledgerErr.Code), ledgerErr.Message
	case errors.As(err, &allocationErr):
		status, code, message = getStatusCodeForAllocationError(allocationErr.Code), string(allocationErr.Code), allocationErr.Message
	case errors.As(err, &reportErr):
		status, code, message = getStatusCodeForReportError(reportErr.Code), string(reportErr.Code), reportErr.Message
	default:
		status, message = http.StatusInternalServerError, "An internal error occurred"
	}

	if status == http.StatusInternalServerError {
		slog.Error("Request failed",
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"code", code,
			"error", err,
		)
	}

	ctx.JSON(status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// getStatusCodeForLedgerError maps ledger error codes to HTTP status codes.
func getStatusCodeForLedgerError(code domainerror.LedgerErrorCode) int {
	switch code {
	case domainerror.ErrCodePeriodAnalysisNotFound,
		domainerror.ErrCodeLedgerLotNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidMonth,
		domainerror.ErrCodeInvalidYear,
		domainerror.ErrCodeInvalidLedgerFilter,
		domainerror.ErrCodeInvalidExpenseInput,
		domainerror.ErrCodeInvalidExpenseCategory:
		return http.StatusBadRequest
	case domainerror.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForAllocationError maps allocation error codes to HTTP status codes.
func getStatusCodeForAllocationError(code domainerror.AllocationErrorCode) int {
	switch code {
	case domainerror.ErrCodeLotNotFound,
		domainerror.ErrCodePenNotFound,
		domainerror.ErrCodeAllocationNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodePenCapacityExceeded,
		domainerror.ErrCodeLotOverAllocated,
		domainerror.ErrCodePenInactive,
		domainerror.ErrCodePenOccupied:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidQuantity,
		domainerror.ErrCodeQuantityExceedsLot,
		domainerror.ErrCodeInvalidLotTransition,
		domainerror.ErrCodeLotNotPlaceable,
		domainerror.ErrCodeLotNotSellable,
		domainerror.ErrCodeAllocationInactive,
		domainerror.ErrCodeInvalidAllocationDate,
		domainerror.ErrCodeInvalidAllocationBasis,
		domainerror.ErrCodeNegativeRate,
		domainerror.ErrCodeInvalidPenCapacity,
		domainerror.ErrCodeInvalidAllocationInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForReportError maps report error codes to HTTP status codes.
func getStatusCodeForReportError(code domainerror.ReportErrorCode) int {
	switch code {
	case domainerror.ErrCodeReportLotNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeMissingStartDate,
		domainerror.ErrCodeMissingEndDate,
		domainerror.ErrCodeInvalidDateRange,
		domainerror.ErrCodeDateRangeTooLong,
		domainerror.ErrCodeInvalidDateFormat,
		domainerror.ErrCodeInvalidOpeningBalance,
		domainerror.ErrCodeInvalidLotID:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// badRequest writes a 400 response for input rejected before reaching a use case.
func badRequest(ctx *gin.Context, message, code string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// parseOptionalDate parses a YYYY-MM-DD value. Missing values yield the zero time.
func parseOptionalDate(raw *string) (time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return time.Time{}, nil
	}
	return valueobject.ParseDate(strings.TrimSpace(*raw))
}

// parseEventDate parses the date of a herd event, defaulting to today.
func parseEventDate(raw *string) (time.Time, error) {
	date, err := parseOptionalDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	if date.IsZero() {
		return valueobject.TruncateDay(time.Now()), nil
	}
	return date, nil
}

// parseOptionalDatePtr parses a YYYY-MM-DD value into a pointer, nil when missing.
func parseOptionalDatePtr(raw *string) (*time.Time, error) {
	date, err := parseOptionalDate(raw)
	if err != nil || date.IsZero() {
		return nil, err
	}
	return &date, nil
}

// parseOptionalID parses an optional UUID, nil when missing.
func parseOptionalID(raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	return &id, nil
}
