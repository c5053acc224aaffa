package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
	"github.com/boi-gordo/backend/internal/domain/valueobject"
)

// IngestMonthInput represents the input for ingesting a month of source records.
type IngestMonthInput struct {
	Month valueobject.Month
}

// IngestMonthOutput summarizes an ingestion run.
type IngestMonthOutput struct {
	Month    string
	Created  int
	Updated  int
	Skipped  int
	Warnings []string
}

// IngestMonthUseCase normalizes the settled source records of a month into ledger transactions.
type IngestMonthUseCase struct {
	revenues    adapter.RevenueRepository
	expenses    adapter.ExpenseRepository
	mortalities adapter.MortalityRepository
	lots        adapter.LotRepository
	costEvents  adapter.LotCostEventRepository
	uow         adapter.UnitOfWork
}

// NewIngestMonthUseCase creates a new IngestMonthUseCase instance.
func NewIngestMonthUseCase(
	revenues adapter.RevenueRepository,
	expenses adapter.ExpenseRepository,
	mortalities adapter.MortalityRepository,
	lots adapter.LotRepository,
	costEvents adapter.LotCostEventRepository,
	uow adapter.UnitOfWork,
) *IngestMonthUseCase {
	return &IngestMonthUseCase{
		revenues:    revenues,
		expenses:    expenses,
		mortalities: mortalities,
		lots:        lots,
		costEvents:  costEvents,
		uow:         uow,
	}
}

// sourceRecords holds what was read for one month.
type sourceRecords struct {
	revenues    []*entity.Revenue
	purchases   []*entity.Lot
	expenses    []*entity.Expense
	mortalities []*entity.MortalityRecord
}

// candidate is a transaction ready to be upserted, plus the mortality record
// whose unit cost must be frozen in the same store transaction.
type candidate struct {
	tx     *entity.Transaction
	freeze *entity.MortalityRecord
}

// Execute reads the month's settled records and upserts one transaction per record.
// Records that cannot be mapped are skipped with a warning; store failures abort the run.
func (uc *IngestMonthUseCase) Execute(ctx context.Context, input IngestMonthInput) (*IngestMonthOutput, error) {
	start, end := input.Month.Start(), input.Month.End()
	logger := slog.With("month", input.Month.String())

	records, err := uc.readSources(ctx, start, end)
	if err != nil {
		return nil, err
	}

	output := &IngestMonthOutput{Month: input.Month.String()}
	skip := func(kind string, id uuid.UUID, reason error) {
		output.Skipped++
		output.Warnings = append(output.Warnings, fmt.Sprintf("%s %s skipped: %v", kind, id, reason))
		logger.Warn("Skipping source record", "kind", kind, "id", id, "reason", reason)
	}

	linked, err := uc.linkedLots(ctx, records)
	if err != nil {
		return nil, err
	}

	candidates := make([]candidate, 0, len(records.revenues)+len(records.purchases)+len(records.expenses)+len(records.mortalities))

	for _, r := range records.revenues {
		if r.LotID != nil && !linked[*r.LotID] {
			skip("revenue", r.ID, domainerror.ErrSourceReferenceMissing)
			continue
		}
		tx, err := revenueTransaction(r)
		if err != nil {
			skip("revenue", r.ID, err)
			continue
		}
		candidates = append(candidates, candidate{tx: tx})
	}

	for _, l := range records.purchases {
		tx, err := purchaseTransaction(l)
		if err != nil {
			skip("purchase", l.ID, err)
			continue
		}
		candidates = append(candidates, candidate{tx: tx})
	}

	for _, e := range records.expenses {
		if e.LotID != nil && !linked[*e.LotID] {
			skip("expense", e.ID, domainerror.ErrSourceReferenceMissing)
			continue
		}
		tx, err := expenseTransaction(e)
		if err != nil {
			skip("expense", e.ID, err)
			continue
		}
		candidates = append(candidates, candidate{tx: tx})
	}

	mortalityCandidates, err := uc.valueMortalities(ctx, records.mortalities, skip)
	if err != nil {
		return nil, err
	}
	candidates = append(candidates, mortalityCandidates...)

	for _, c := range candidates {
		created, err := uc.upsert(ctx, c)
		if err != nil {
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodeLedgerInternalError,
				"failed to upsert ledger transaction",
				err,
			)
		}
		if created {
			output.Created++
		} else {
			output.Updated++
		}
	}

	logger.Info("Ledger ingestion completed",
		"created", output.Created,
		"updated", output.Updated,
		"skipped", output.Skipped,
	)

	return output, nil
}

// readSources fans out the four source queries.
func (uc *IngestMonthUseCase) readSources(ctx context.Context, start, end time.Time) (*sourceRecords, error) {
	records := &sourceRecords{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		records.revenues, err = uc.revenues.FindReceivedBetween(gctx, start, end)
		if err != nil {
			return fmt.Errorf("failed to read revenues: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records.purchases, err = uc.lots.FindPurchasedBetween(gctx, start, end)
		if err != nil {
			return fmt.Errorf("failed to read purchases: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records.expenses, err = uc.expenses.FindPaidBetween(gctx, start, end)
		if err != nil {
			return fmt.Errorf("failed to read expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records.mortalities, err = uc.mortalities.FindBetween(gctx, start, end)
		if err != nil {
			return fmt.Errorf("failed to read mortality records: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeLedgerInternalError,
			"failed to read source records",
			err,
		)
	}
	return records, nil
}

// linkedLots returns the set of lot ids referenced by revenues and expenses that still resolve.
func (uc *IngestMonthUseCase) linkedLots(ctx context.Context, records *sourceRecords) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	for _, r := range records.revenues {
		if r.LotID != nil {
			ids = append(ids, *r.LotID)
		}
	}
	for _, e := range records.expenses {
		if e.LotID != nil {
			ids = append(ids, *e.LotID)
		}
	}

	linked := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return linked, nil
	}

	lots, err := uc.lots.FindByIDs(ctx, ids)
	if err != nil {
		return nil, domainerror.NewLedgerError(domainerror.ErrCodeLedgerInternalError, "failed to read lots", err)
	}
	for _, l := range lots {
		linked[l.ID] = true
	}
	return linked, nil
}

// valueMortalities resolves the lots of mortality records and values records that
// were never valued at the lot's current cost per head.
func (uc *IngestMonthUseCase) valueMortalities(
	ctx context.Context,
	records []*entity.MortalityRecord,
	skip func(kind string, id uuid.UUID, reason error),
) ([]candidate, error) {
	if len(records) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(records))
	seen := make(map[uuid.UUID]bool, len(records))
	for _, m := range records {
		if !seen[m.LotID] {
			seen[m.LotID] = true
			ids = append(ids, m.LotID)
		}
	}

	lots, err := uc.lots.FindByIDs(ctx, ids)
	if err != nil {
		return nil, domainerror.NewLedgerError(domainerror.ErrCodeLedgerInternalError, "failed to read lots", err)
	}
	lotByID := make(map[uuid.UUID]*entity.Lot, len(lots))
	for _, l := range lots {
		lotByID[l.ID] = l
	}

	totals, err := uc.costEvents.TotalsByLots(ctx, ids)
	if err != nil {
		return nil, domainerror.NewLedgerError(domainerror.ErrCodeLedgerInternalError, "failed to read lot costs", err)
	}

	candidates := make([]candidate, 0, len(records))
	for _, m := range records {
		lot, ok := lotByID[m.LotID]
		if !ok {
			skip("mortality", m.ID, domainerror.ErrSourceReferenceMissing)
			continue
		}

		var freeze *entity.MortalityRecord
		if freezeUnitCost(m, lot, totals[lot.ID]) {
			freeze = m
		}

		tx, err := mortalityTransaction(m)
		if err != nil {
			skip("mortality", m.ID, err)
			continue
		}
		candidates = append(candidates, candidate{tx: tx, freeze: freeze})
	}
	return candidates, nil
}

// upsert writes one candidate atomically. It returns true when a new transaction was created.
func (uc *IngestMonthUseCase) upsert(ctx context.Context, c candidate) (bool, error) {
	created := false

	err := uc.uow.Within(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		existing, err := repos.Ledger.FindBySource(ctx, c.tx.SourceType, *c.tx.SourceID)
		if err != nil {
			return err
		}
		if existing == nil {
			existing, err = repos.Ledger.FindByIdentity(ctx, c.tx)
			if err != nil {
				return err
			}
			// An identical entry owned by another source record is not ours to overwrite.
			if existing != nil && existing.SourceID != nil && !sameSource(existing, c.tx) {
				existing = nil
			}
		}

		if existing == nil {
			created = true
			if err := repos.Ledger.Create(ctx, c.tx); err != nil {
				return err
			}
		} else {
			c.tx.ID = existing.ID
			c.tx.CreatedAt = existing.CreatedAt
			c.tx.UpdatedAt = time.Now().UTC()
			if err := repos.Ledger.Update(ctx, c.tx); err != nil {
				return err
			}
		}

		if c.freeze != nil {
			return repos.Mortalities.Update(ctx, c.freeze)
		}
		return nil
	})

	return created, err
}

func sameSource(a, b *entity.Transaction) bool {
	return a.SourceType == b.SourceType && a.SourceID != nil && b.SourceID != nil && *a.SourceID == *b.SourceID
}
