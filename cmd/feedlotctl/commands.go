package main

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/boi-gordo/backend/internal/application/usecase/allocation"
	"github.com/boi-gordo/backend/internal/application/usecase/ledger"
	"github.com/boi-gordo/backend/internal/application/usecase/reconciliation"
	"github.com/boi-gordo/backend/internal/domain/entity"
	"github.com/boi-gordo/backend/internal/domain/valueobject"
)

func runIngest(c *cli.Context) error {
	uc, err := useCases(c)
	if err != nil {
		return err
	}

	month, err := valueobject.ParseMonth(c.String("month"))
	if err != nil {
		return fmt.Errorf("invalid --month: %w", err)
	}

	output, err := uc.IngestMonth.Execute(c.Context, ledger.IngestMonthInput{Month: month})
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d created, %d updated, %d skipped\n", output.Month, output.Created, output.Updated, output.Skipped)
	for _, warning := range output.Warnings {
		fmt.Printf("  warning: %s\n", warning)
	}
	return nil
}

func runReconcile(c *cli.Context) error {
	uc, err := useCases(c)
	if err != nil {
		return err
	}

	first, err := valueobject.ParseMonth(c.String("from"))
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	last := first
	if raw := c.String("to"); raw != "" {
		if last, err = valueobject.ParseMonth(raw); err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
	}
	months := valueobject.MonthsBetween(first, last)
	if len(months) == 0 {
		return fmt.Errorf("--to %s is before --from %s", last, first)
	}

	var (
		mu      sync.Mutex
		results = make(map[string]*reconciliation.ReconcilePeriodOutput, len(months))
	)

	g, ctx := errgroup.WithContext(c.Context)
	g.SetLimit(max(c.Int("parallel"), 1))
	for _, month := range months {
		month := month
		g.Go(func() error {
			output, err := uc.ReconcilePeriod.Execute(ctx, reconciliation.ReconcilePeriodInput{Month: month.String()})
			if err != nil {
				return fmt.Errorf("reconcile %s: %w", month, err)
			}
			mu.Lock()
			results[month.String()] = output
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, month := range months {
		analysis := results[month.String()].Analysis
		fmt.Printf("%s: net income %s, net cash flow %s, difference %s\n",
			analysis.ReferenceMonth,
			analysis.NetIncome.StringFixed(2),
			analysis.NetCashFlow.StringFixed(2),
			analysis.ReconciliationDifference.StringFixed(2),
		)
		for _, warning := range analysis.Warnings {
			fmt.Printf("  warning: %s\n", warning)
		}
	}
	return nil
}

func runAllocate(c *cli.Context) error {
	uc, err := useCases(c)
	if err != nil {
		return err
	}

	date, err := valueobject.ParseDate(c.String("date"))
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}

	output, err := uc.AllocateDailyCosts.Execute(c.Context, allocation.AllocateDailyCostsInput{
		Date:  date,
		Basis: entity.AllocationBasis(c.String("basis")),
	})
	if err != nil {
		return err
	}

	if output.Skipped {
		fmt.Printf("%s: skipped, %s\n", valueobject.FormatDate(output.Date), output.SkipReason)
		return nil
	}
	fmt.Printf("%s: %s allocated across %d lots by %s\n",
		valueobject.FormatDate(output.Date),
		output.TotalAllocated.StringFixed(2),
		len(output.Allocations),
		output.Basis,
	)
	return nil
}

func runFeedPrice(c *cli.Context) error {
	uc, err := useCases(c)
	if err != nil {
		return err
	}

	effectiveFrom, err := valueobject.ParseDate(c.String("from"))
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	price, err := decimal.NewFromString(c.String("price"))
	if err != nil {
		return fmt.Errorf("invalid --price: %w", err)
	}

	if err := uc.SetFeedPrice.Execute(c.Context, allocation.SetFeedPriceInput{
		EffectiveFrom: effectiveFrom,
		PricePerKg:    price,
	}); err != nil {
		return err
	}

	fmt.Printf("feed price %s/kg effective from %s\n", price.String(), valueobject.FormatDate(effectiveFrom))
	return nil
}
