package dto

import (
	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/application/usecase/ledger"
	"github.com/boi-gordo/backend/internal/domain/entity"
	"github.com/boi-gordo/backend/internal/domain/valueobject"
)

// IngestMonthResponse represents the result of a ledger ingestion run.
type IngestMonthResponse struct {
	Month    string   `json:"month"`
	Created  int      `json:"created"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings"`
}

// TransactionResponse represents a single ledger transaction in API responses.
type TransactionResponse struct {
	ID            string  `json:"id"`
	ReferenceDate string  `json:"reference_date"`
	Description   string  `json:"description"`
	Amount        string  `json:"amount"`
	Category      string  `json:"category"`
	ImpactsCash   bool    `json:"impacts_cash"`
	CashFlowDate  *string `json:"cash_flow_date,omitempty"`
	CashFlowClass *string `json:"cash_flow_class,omitempty"`
	SourceType    string  `json:"source_type"`
	SourceID      *string `json:"source_id,omitempty"`
	LotID         *string `json:"lot_id,omitempty"`
	PenID         *string `json:"pen_id,omitempty"`
}

// TransactionListResponse represents a ledger listing.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Count        int                   `json:"count"`
}

// CreateExpenseRequest represents the request body for registering an expense.
// A negative amount is only accepted for biological adjustments.
type CreateExpenseRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=255"`
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date" binding:"required"`
	PaymentDate *string         `json:"payment_date,omitempty"`
	ImpactsCash *bool           `json:"impacts_cash,omitempty"`
	LotID       *string         `json:"lot_id,omitempty"`
}

// ExpenseResponse represents a registered expense.
type ExpenseResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      string  `json:"amount"`
	DueDate     string  `json:"due_date"`
	PaymentDate *string `json:"payment_date,omitempty"`
	IsPaid      bool    `json:"is_paid"`
	ImpactsCash bool    `json:"impacts_cash"`
	LotID       *string `json:"lot_id,omitempty"`
}

// CreateRevenueRequest represents the request body for registering a revenue.
type CreateRevenueRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=255"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date" binding:"required"`
	ReceiptDate *string         `json:"receipt_date,omitempty"`
	LotID       *string         `json:"lot_id,omitempty"`
}

// RevenueResponse represents a registered revenue.
type RevenueResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	DueDate     string  `json:"due_date"`
	ReceiptDate *string `json:"receipt_date,omitempty"`
	IsReceived  bool    `json:"is_received"`
	LotID       *string `json:"lot_id,omitempty"`
	SaleID      *string `json:"sale_id,omitempty"`
}

// CreateContributionRequest represents the request body for a partner contribution.
type CreateContributionRequest struct {
	PartnerName string          `json:"partner_name" binding:"required,min=1,max=255"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date" binding:"required"`
}

// ContributionResponse represents a registered partner contribution.
type ContributionResponse struct {
	ID          string `json:"id"`
	PartnerName string `json:"partner_name"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
}

// ToIngestMonthResponse converts an ingestion output to its DTO.
func ToIngestMonthResponse(output *ledger.IngestMonthOutput) *IngestMonthResponse {
	if output == nil {
		return nil
	}
	warnings := output.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return &IngestMonthResponse{
		Month:    output.Month,
		Created:  output.Created,
		Updated:  output.Updated,
		Skipped:  output.Skipped,
		Warnings: warnings,
	}
}

// ToTransactionResponse converts a ledger transaction to its DTO.
func ToTransactionResponse(tx *entity.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:            tx.ID.String(),
		ReferenceDate: valueobject.FormatDate(tx.ReferenceDate),
		Description:   tx.Description,
		Amount:        formatMoney(tx.Amount),
		Category:      string(tx.Category),
		ImpactsCash:   tx.ImpactsCash,
		CashFlowDate:  formatOptionalDate(tx.CashFlowDate),
		SourceType:    string(tx.SourceType),
		SourceID:      formatOptionalID(tx.SourceID),
		LotID:         formatOptionalID(tx.LotID),
		PenID:         formatOptionalID(tx.PenID),
	}
	if tx.CashFlowClass != nil {
		class := string(*tx.CashFlowClass)
		response.CashFlowClass = &class
	}
	return response
}

// ToTransactionListResponse converts a listing output to its DTO.
func ToTransactionListResponse(output *ledger.ListTransactionsOutput) TransactionListResponse {
	transactions := make([]TransactionResponse, len(output.Transactions))
	for i, tx := range output.Transactions {
		transactions[i] = ToTransactionResponse(tx)
	}
	return TransactionListResponse{
		Transactions: transactions,
		Count:        output.Count,
	}
}

// ToExpenseResponse converts an expense to its DTO.
func ToExpenseResponse(e *entity.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID.String(),
		Description: e.Description,
		Category:    string(e.Category),
		Amount:      formatMoney(e.TotalAmount),
		DueDate:     valueobject.FormatDate(e.DueDate),
		PaymentDate: formatOptionalDate(e.PaymentDate),
		IsPaid:      e.IsPaid,
		ImpactsCash: e.ImpactsCash,
		LotID:       formatOptionalID(e.LotID),
	}
}

// ToRevenueResponse converts a revenue to its DTO.
func ToRevenueResponse(r *entity.Revenue) RevenueResponse {
	return RevenueResponse{
		ID:          r.ID.String(),
		Description: r.Description,
		Amount:      formatMoney(r.TotalAmount),
		DueDate:     valueobject.FormatDate(r.DueDate),
		ReceiptDate: formatOptionalDate(r.ReceiptDate),
		IsReceived:  r.IsReceived,
		LotID:       formatOptionalID(r.LotID),
		SaleID:      formatOptionalID(r.SaleID),
	}
}

// ToContributionResponse converts a partner contribution to its DTO.
func ToContributionResponse(c *entity.Contribution) ContributionResponse {
	return ContributionResponse{
		ID:          c.ID.String(),
		PartnerName: c.PartnerName,
		Amount:      formatMoney(c.Amount),
		Date:        valueobject.FormatDate(c.Date),
	}
}
