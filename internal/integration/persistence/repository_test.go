package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLedgerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewLedgerRepository(newTestDB(t))

	paid := day(time.June, 10)
	operating := entity.CashFlowOperating
	feed := entity.NewTransaction(day(time.June, 5), "Racao", dec("-1200.50"), entity.CategoryFeedCosts, true, &paid, &operating)
	sourceID := uuid.New()
	feed.WithSource(entity.SourceExpense, sourceID)
	depreciation := entity.NewTransaction(day(time.June, 30), "Depreciacao", dec("-300"), entity.CategoryDepreciation, false, nil, nil)
	lotID, penID := uuid.New(), uuid.New()
	feed.WithLinks(&lotID, &penID)
	july := entity.NewTransaction(day(time.July, 1), "Venda", dec("5000"), entity.CategoryCattleSales, false, nil, nil)

	for _, tx := range []*entity.Transaction{depreciation, feed, july} {
		if err := repo.Create(ctx, tx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	t.Run("find by source", func(t *testing.T) {
		got, err := repo.FindBySource(ctx, entity.SourceExpense, sourceID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got == nil || got.ID != feed.ID {
			t.Fatalf("expected transaction %s, got %+v", feed.ID, got)
		}
		if !got.Amount.Equal(dec("-1200.50")) {
			t.Errorf("expected amount -1200.50, got %s", got.Amount)
		}
		if got.CashFlowDate == nil || !got.CashFlowDate.Equal(paid) {
			t.Errorf("expected cash flow date %v, got %v", paid, got.CashFlowDate)
		}
		if got.CashFlowClass == nil || *got.CashFlowClass != entity.CashFlowOperating {
			t.Errorf("expected OPERATING class, got %v", got.CashFlowClass)
		}
	})

	t.Run("missing source returns nil", func(t *testing.T) {
		got, err := repo.FindBySource(ctx, entity.SourceRevenue, uuid.New())
		if err != nil || got != nil {
			t.Errorf("expected nil, nil; got %+v, %v", got, err)
		}
	})

	t.Run("find by natural key", func(t *testing.T) {
		probe := entity.NewTransaction(day(time.June, 30), "Depreciacao", dec("-300.00"), entity.CategoryDepreciation, false, nil, nil)
		got, err := repo.FindByIdentity(ctx, probe)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got == nil || got.ID != depreciation.ID {
			t.Errorf("expected depreciation transaction, got %+v", got)
		}
	})

	t.Run("reference range is inclusive and ordered", func(t *testing.T) {
		end := day(time.June, 30).Add(24*time.Hour - time.Nanosecond)
		got, err := repo.FindByReferenceRange(ctx, day(time.June, 1), end)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 transactions, got %d", len(got))
		}
		if got[0].ID != feed.ID || got[1].ID != depreciation.ID {
			t.Errorf("expected feed then depreciation, got %s then %s", got[0].Description, got[1].Description)
		}
	})

	t.Run("filter by cash impact", func(t *testing.T) {
		nonCash := false
		got, err := repo.FindByFilter(ctx, entity.TransactionFilter{ImpactsCash: &nonCash})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 non-cash transactions, got %d", len(got))
		}
	})

	t.Run("filter by lot keeps the links", func(t *testing.T) {
		got, err := repo.FindByFilter(ctx, entity.TransactionFilter{LotID: &lotID})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 transaction for the lot, got %d", len(got))
		}
		if got[0].PenID == nil || *got[0].PenID != penID {
			t.Errorf("expected pen %s, got %v", penID, got[0].PenID)
		}
	})

	t.Run("update overwrites", func(t *testing.T) {
		feed.Amount = dec("-1300")
		if err := repo.Update(ctx, feed); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got, _ := repo.FindBySource(ctx, entity.SourceExpense, sourceID)
		if !got.Amount.Equal(dec("-1300")) {
			t.Errorf("expected -1300, got %s", got.Amount)
		}
	})
}

func TestPeriodAnalysisRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPeriodAnalysisRepository(newTestDB(t))

	first := &entity.PeriodAnalysis{
		ID:               uuid.New(),
		ReferenceMonth:   "2024-06",
		Year:             2024,
		TotalRevenue:     dec("1000"),
		NetIncome:        dec("1000"),
		TransactionCount: 1,
		Warnings:         []string{"difference of 10.00 not explained by non-cash items"},
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	t.Run("upsert overwrites the month and keeps its ID", func(t *testing.T) {
		second := *first
		second.ID = uuid.New()
		second.TotalRevenue = dec("2500")
		second.TransactionCount = 4
		second.Warnings = nil
		if err := repo.Upsert(ctx, &second); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.FindByMonth(ctx, "2024-06")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.ID != first.ID {
			t.Errorf("expected ID %s kept, got %s", first.ID, got.ID)
		}
		if !got.TotalRevenue.Equal(dec("2500")) || got.TransactionCount != 4 {
			t.Errorf("expected revenue 2500 and 4 transactions, got %s and %d", got.TotalRevenue, got.TransactionCount)
		}
		if len(got.Warnings) != 0 {
			t.Errorf("expected warnings cleared, got %v", got.Warnings)
		}
	})

	t.Run("warnings round trip", func(t *testing.T) {
		may := &entity.PeriodAnalysis{
			ID:             uuid.New(),
			ReferenceMonth: "2024-05",
			Year:           2024,
			Warnings:       []string{"a", "b, with comma"},
			CreatedAt:      time.Now().UTC(),
			UpdatedAt:      time.Now().UTC(),
		}
		if err := repo.Upsert(ctx, may); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got, err := repo.FindByMonth(ctx, "2024-05")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got.Warnings) != 2 || got.Warnings[1] != "b, with comma" {
			t.Errorf("expected two warnings, got %v", got.Warnings)
		}
	})

	t.Run("list by year ordered by month", func(t *testing.T) {
		got, err := repo.FindByYear(ctx, 2024)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 2 || got[0].ReferenceMonth != "2024-05" {
			t.Errorf("expected 2024-05 first of 2, got %d analyses", len(got))
		}
	})

	t.Run("missing month", func(t *testing.T) {
		_, err := repo.FindByMonth(ctx, "2023-01")
		if !errors.Is(err, domainerror.ErrPeriodAnalysisNotFound) {
			t.Errorf("expected ErrPeriodAnalysisNotFound, got %v", err)
		}
	})
}

func TestLotRepositories(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	lots := NewLotRepository(db)
	events := NewLotCostEventRepository(db)

	purchased := day(time.June, 3)
	a := entity.NewLot("L-02", 10, dec("3000"), dec("20000"), &purchased)
	b := entity.NewLot("L-01", 5, dec("1500"), dec("9000"), nil)
	b.Status = entity.LotStatusConfined
	for _, lot := range []*entity.Lot{a, b} {
		if err := lots.Create(ctx, lot); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	t.Run("finders order by code", func(t *testing.T) {
		got, err := lots.FindByIDs(ctx, []uuid.UUID{a.ID, b.ID})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 2 || got[0].Code != "L-01" {
			t.Errorf("expected L-01 first, got %+v", got)
		}

		confined, err := lots.FindByStatus(ctx, entity.LotStatusConfined)
		if err != nil || len(confined) != 1 || confined[0].ID != b.ID {
			t.Errorf("expected only L-01 confined, got %v (%v)", confined, err)
		}

		bought, err := lots.FindPurchasedBetween(ctx, day(time.June, 1), day(time.June, 30))
		if err != nil || len(bought) != 1 || bought[0].ID != a.ID {
			t.Errorf("expected only L-02 purchased in June, got %v (%v)", bought, err)
		}
	})

	t.Run("unknown lot", func(t *testing.T) {
		_, err := lots.FindByIDForUpdate(ctx, uuid.New())
		if !errors.Is(err, domainerror.ErrLotNotFound) {
			t.Errorf("expected ErrLotNotFound, got %v", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		a.CurrentQuantity = 9
		a.CurrentWeight = dec("2700")
		if err := lots.Update(ctx, a); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got, err := lots.FindByID(ctx, a.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.CurrentQuantity != 9 || !got.CurrentWeight.Equal(dec("2700")) {
			t.Errorf("expected 9 head and 2700 kg, got %d and %s", got.CurrentQuantity, got.CurrentWeight)
		}
		if got.PurchaseDate == nil || !got.PurchaseDate.Equal(purchased) {
			t.Errorf("expected purchase date %v, got %v", purchased, got.PurchaseDate)
		}
	})

	t.Run("cost totals by bucket", func(t *testing.T) {
		err := events.CreateBatch(ctx, []*entity.LotCostEvent{
			entity.NewLotCostEvent(a.ID, entity.CostBucketFeed, dec("100.5"), entity.CostSourceDailyAllocation, nil, day(time.June, 10)),
			entity.NewLotCostEvent(a.ID, entity.CostBucketFeed, dec("50.25"), entity.CostSourceDailyAllocation, nil, day(time.June, 11)),
			entity.NewLotCostEvent(a.ID, entity.CostBucketLabor, dec("20"), entity.CostSourceDailyAllocation, nil, day(time.June, 10)),
			entity.NewLotCostEvent(b.ID, entity.CostBucketHealth, dec("75"), entity.CostSourceExpense, nil, day(time.June, 10)),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		totals, err := events.TotalsByLots(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(totals) != 2 {
			t.Fatalf("expected totals for 2 lots, got %d", len(totals))
		}
		if !totals[a.ID].Feed.Equal(dec("150.75")) {
			t.Errorf("expected feed 150.75, got %s", totals[a.ID].Feed)
		}
		if !totals[a.ID].Operational().Equal(dec("170.75")) {
			t.Errorf("expected operational 170.75, got %s", totals[a.ID].Operational())
		}

		single, err := events.TotalsByLot(ctx, b.ID)
		if err != nil || !single.Health.Equal(dec("75")) {
			t.Errorf("expected health 75, got %s (%v)", single.Health, err)
		}
	})

	t.Run("delete by source and day", func(t *testing.T) {
		if err := events.DeleteBySourceOn(ctx, entity.CostSourceDailyAllocation, day(time.June, 10)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		totals, err := events.TotalsByLot(ctx, a.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !totals.Feed.Equal(dec("50.25")) || !totals.Labor.IsZero() {
			t.Errorf("expected only the June 11 feed left, got feed %s labor %s", totals.Feed, totals.Labor)
		}

		other, _ := events.TotalsByLot(ctx, b.ID)
		if !other.Health.Equal(dec("75")) {
			t.Errorf("expected expense events kept, got %s", other.Health)
		}
	})
}

func TestPenRepositories(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	pens := NewPenRepository(db)
	allocations := NewPenAllocationRepository(db)

	p2 := entity.NewPen("P-02", 100)
	p1 := entity.NewPen("P-01", 50)
	closed := entity.NewPen("P-03", 10)
	closed.IsActive = false
	for _, pen := range []*entity.Pen{p2, p1, closed} {
		if err := pens.Create(ctx, pen); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	t.Run("inactive flag is stored", func(t *testing.T) {
		got, err := pens.FindByID(ctx, closed.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.IsActive {
			t.Error("expected pen to stay inactive")
		}

		active, err := pens.FindActive(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(active) != 2 || active[0].Number != "P-01" {
			t.Errorf("expected P-01 and P-02, got %+v", active)
		}
	})

	t.Run("unknown pen", func(t *testing.T) {
		_, err := pens.FindByIDForUpdate(ctx, uuid.New())
		if !errors.Is(err, domainerror.ErrPenNotFound) {
			t.Errorf("expected ErrPenNotFound, got %v", err)
		}
	})

	lotID := uuid.New()
	first := entity.NewPenAllocation(lotID, p1.ID, 30, day(time.June, 1))
	second := entity.NewPenAllocation(uuid.New(), p1.ID, 15, day(time.June, 2))
	gone := entity.NewPenAllocation(lotID, p1.ID, 5, day(time.May, 20))
	gone.Close(day(time.May, 25))
	for _, a := range []*entity.PenAllocation{first, second, gone} {
		if err := allocations.Create(ctx, a); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	t.Run("occupancy counts active allocations only", func(t *testing.T) {
		total, err := allocations.SumActiveByPen(ctx, p1.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if total != 45 {
			t.Errorf("expected 45 head, got %d", total)
		}

		empty, err := allocations.SumActiveByPen(ctx, p2.ID)
		if err != nil || empty != 0 {
			t.Errorf("expected 0 head, got %d (%v)", empty, err)
		}
	})

	t.Run("active by lot", func(t *testing.T) {
		got, err := allocations.FindActiveByLot(ctx, lotID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 1 || got[0].ID != first.ID {
			t.Errorf("expected only the open allocation, got %+v", got)
		}
	})

	t.Run("closing an allocation", func(t *testing.T) {
		first.Close(day(time.June, 15))
		if err := allocations.Update(ctx, first); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got, err := allocations.FindByID(ctx, first.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Status != entity.AllocationStatusRemoved || got.RemovalDate == nil {
			t.Errorf("expected removed with a date, got %s %v", got.Status, got.RemovalDate)
		}

		active, _ := allocations.FindActiveByPen(ctx, p1.ID)
		if len(active) != 1 || active[0].ID != second.ID {
			t.Errorf("expected only the second allocation active, got %+v", active)
		}
	})

	t.Run("unknown allocation", func(t *testing.T) {
		_, err := allocations.FindByID(ctx, uuid.New())
		if !errors.Is(err, domainerror.ErrAllocationNotFound) {
			t.Errorf("expected ErrAllocationNotFound, got %v", err)
		}
	})
}

func TestDailyAllocationAndFeedPrices(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	daily := NewDailyAllocationRepository(db)

	lotA, lotB := uuid.New(), uuid.New()
	rows := []*entity.DailyCostAllocation{
		entity.NewDailyCostAllocation(lotA, day(time.June, 10), entity.AllocationBasisWeight, dec("3000"), dec("0.6"), dec("90"), dec("60"), dec("30"), dec("12"), decimal.Zero),
		entity.NewDailyCostAllocation(lotB, day(time.June, 10), entity.AllocationBasisWeight, dec("2000"), dec("0.4"), dec("60"), dec("40"), dec("20"), dec("8"), dec("15")),
		entity.NewDailyCostAllocation(lotA, day(time.June, 11), entity.AllocationBasisWeight, dec("3000"), dec("1"), dec("90"), dec("100"), dec("50"), dec("20"), decimal.Zero),
	}
	if err := daily.CreateBatch(ctx, rows); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	t.Run("find by date", func(t *testing.T) {
		got, err := daily.FindByDate(ctx, day(time.June, 10))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(got))
		}
		var total decimal.Decimal
		for _, r := range got {
			total = total.Add(r.TotalCost)
		}
		if !total.Equal(dec("335")) {
			t.Errorf("expected 335 allocated, got %s", total)
		}
	})

	t.Run("one row per lot and day", func(t *testing.T) {
		dup := entity.NewDailyCostAllocation(lotA, day(time.June, 10), entity.AllocationBasisWeight, dec("1"), dec("1"), decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)
		if err := daily.CreateBatch(ctx, []*entity.DailyCostAllocation{dup}); err == nil {
			t.Error("expected unique violation, got nil")
		}
	})

	t.Run("delete by date", func(t *testing.T) {
		if err := daily.DeleteByDate(ctx, day(time.June, 10)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got, _ := daily.FindByDate(ctx, day(time.June, 10))
		if len(got) != 0 {
			t.Errorf("expected no rows, got %d", len(got))
		}
		kept, _ := daily.FindByDate(ctx, day(time.June, 11))
		if len(kept) != 1 {
			t.Errorf("expected June 11 kept, got %d rows", len(kept))
		}
	})

	t.Run("feed price in effect", func(t *testing.T) {
		fallback := dec("1.10")
		prices := NewFeedPriceRepository(db, &fallback)

		got, err := prices.PriceOn(ctx, day(time.June, 1))
		if err != nil || got == nil || !got.Equal(fallback) {
			t.Fatalf("expected fallback 1.10, got %v (%v)", got, err)
		}

		for _, p := range []struct {
			from  time.Time
			price string
		}{
			{day(time.May, 1), "1.20"},
			{day(time.June, 15), "1.35"},
			{day(time.June, 15), "1.40"},
		} {
			if err := prices.SetPrice(ctx, p.from, dec(p.price)); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}

		cases := []struct {
			on   time.Time
			want string
		}{
			{day(time.June, 14), "1.2"},
			{day(time.June, 15), "1.4"},
			{day(time.July, 1), "1.4"},
		}
		for _, c := range cases {
			got, err := prices.PriceOn(ctx, c.on)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got == nil || !got.Equal(dec(c.want)) {
				t.Errorf("on %s expected %s, got %v", c.on.Format("2006-01-02"), c.want, got)
			}
		}
	})

	t.Run("no price and no fallback", func(t *testing.T) {
		got, err := NewFeedPriceRepository(newTestDB(t), nil).PriceOn(ctx, day(time.June, 1))
		if err != nil || got != nil {
			t.Errorf("expected nil, nil; got %v, %v", got, err)
		}
	})
}

func TestSourceRepositories(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(newTestDB(t))
	lotID := uuid.New()

	received := entity.NewRevenue("Venda L-01", dec("5000"), day(time.June, 5), &lotID)
	received.MarkReceived(day(time.June, 20))
	pending := entity.NewRevenue("Venda L-02", dec("8000"), day(time.June, 5), nil)
	for _, r := range []*entity.Revenue{received, pending} {
		if err := repos.Revenues.Create(ctx, r); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	paid := entity.NewExpense("Racao", entity.ExpenseCategoryFeed, dec("1200"), day(time.June, 1), true, nil)
	paid.MarkPaid(day(time.June, 2))
	depreciation := entity.NewExpense("Depreciacao", entity.ExpenseCategoryDepreciation, dec("300"), day(time.June, 30), false, nil)
	depreciation.MarkPaid(day(time.June, 30))
	unpaid := entity.NewExpense("Frete", entity.ExpenseCategoryFreight, dec("400"), day(time.June, 10), true, nil)
	for _, e := range []*entity.Expense{paid, depreciation, unpaid} {
		if err := repos.Expenses.Create(ctx, e); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	end := day(time.June, 30).Add(24*time.Hour - time.Nanosecond)

	t.Run("received revenues by receipt date", func(t *testing.T) {
		got, err := repos.Revenues.FindReceivedBetween(ctx, day(time.June, 1), end)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 1 || got[0].ID != received.ID {
			t.Errorf("expected only the received revenue, got %+v", got)
		}
		if got[0].LotID == nil || *got[0].LotID != lotID {
			t.Errorf("expected lot link kept, got %v", got[0].LotID)
		}
	})

	t.Run("paid expenses keep the cash flag", func(t *testing.T) {
		got, err := repos.Expenses.FindPaidBetween(ctx, day(time.June, 1), end)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 paid expenses, got %d", len(got))
		}
		if got[1].ImpactsCash {
			t.Error("expected depreciation stored as non-cash")
		}
	})

	t.Run("mortality unit cost is persisted", func(t *testing.T) {
		record := entity.NewMortalityRecord(lotID, nil, 2, day(time.June, 8), "pneumonia")
		if err := repos.Mortalities.Create(ctx, record); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		unitCost := dec("2150.5")
		record.UnitCost = &unitCost
		if err := repos.Mortalities.Update(ctx, record); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repos.Mortalities.FindBetween(ctx, day(time.June, 1), end)
		if err != nil || len(got) != 1 {
			t.Fatalf("expected 1 record, got %d (%v)", len(got), err)
		}
		if got[0].UnitCost == nil || !got[0].UnitCost.Equal(unitCost) {
			t.Errorf("expected unit cost 2150.5, got %v", got[0].UnitCost)
		}

		byLot, err := repos.Mortalities.FindByLots(ctx, []uuid.UUID{lotID})
		if err != nil || len(byLot) != 1 {
			t.Errorf("expected 1 record by lot, got %d (%v)", len(byLot), err)
		}
	})

	t.Run("sales by lot", func(t *testing.T) {
		sale := entity.NewSale(lotID, 3, dec("15000"), day(time.June, 25))
		if err := repos.Sales.Create(ctx, sale); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got, err := repos.Sales.FindByLots(ctx, []uuid.UUID{lotID})
		if err != nil || len(got) != 1 || got[0].Quantity != 3 {
			t.Errorf("expected one sale of 3 head, got %+v (%v)", got, err)
		}

		none, err := repos.Sales.FindByLots(ctx, nil)
		if err != nil || len(none) != 0 {
			t.Errorf("expected empty result, got %+v (%v)", none, err)
		}
	})

	t.Run("contributions and interventions by date", func(t *testing.T) {
		if err := repos.Contributions.Create(ctx, entity.NewContribution("Socio A", dec("10000"), day(time.June, 4))); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := repos.Contributions.Create(ctx, entity.NewContribution("Socio B", dec("500"), day(time.July, 4))); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		contributions, err := repos.Contributions.FindBetween(ctx, day(time.June, 1), end)
		if err != nil || len(contributions) != 1 {
			t.Errorf("expected 1 June contribution, got %d (%v)", len(contributions), err)
		}

		if err := repos.HealthInterventions.Create(ctx, entity.NewHealthIntervention(lotID, "Vacina", dec("320"), day(time.June, 12))); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		interventions, err := repos.HealthInterventions.FindBetween(ctx, day(time.June, 12), day(time.June, 12))
		if err != nil || len(interventions) != 1 {
			t.Errorf("expected 1 intervention on June 12, got %d (%v)", len(interventions), err)
		}
	})
}

func TestUnitOfWork(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	uow := NewUnitOfWork(db)
	lots := NewLotRepository(db)

	t.Run("commit", func(t *testing.T) {
		lot := entity.NewLot("L-10", 10, dec("3000"), dec("1000"), nil)
		err := uow.Within(ctx, func(ctx context.Context, repos adapter.Repositories) error {
			return repos.Lots.Create(ctx, lot)
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := lots.FindByID(ctx, lot.ID); err != nil {
			t.Errorf("expected committed lot, got %v", err)
		}
	})

	t.Run("rollback on error", func(t *testing.T) {
		lot := entity.NewLot("L-11", 10, dec("3000"), dec("1000"), nil)
		boom := errors.New("boom")
		err := uow.Within(ctx, func(ctx context.Context, repos adapter.Repositories) error {
			if err := repos.Lots.Create(ctx, lot); err != nil {
				return err
			}
			if err := repos.Pens.Create(ctx, entity.NewPen("P-10", 20)); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if _, err := lots.FindByID(ctx, lot.ID); !errors.Is(err, domainerror.ErrLotNotFound) {
			t.Errorf("expected lot rolled back, got %v", err)
		}
		pens, _ := NewPenRepository(db).FindActive(ctx)
		if len(pens) != 0 {
			t.Errorf("expected pen rolled back, got %d pens", len(pens))
		}
	})
}
