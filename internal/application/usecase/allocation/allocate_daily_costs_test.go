package allocation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/application/adapter/adaptertest"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
)

func date(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func seedLot(t *testing.T, store *adaptertest.Store, code string, head int, weight string, status entity.LotStatus) *entity.Lot {
	t.Helper()
	purchased := date(1)
	lot := entity.NewLot(code, head, dec(weight), decimal.NewFromInt(int64(head)*2000), &purchased)
	lot.Status = status
	if status == entity.LotStatusConfined {
		confined := date(1)
		lot.ConfinedAt = &confined
	}
	must(t, store.Repositories().Lots.Create(context.Background(), lot))
	return lot
}

func seedPen(t *testing.T, store *adaptertest.Store, number string, capacity int) *entity.Pen {
	t.Helper()
	pen := entity.NewPen(number, capacity)
	must(t, store.Repositories().Pens.Create(context.Background(), pen))
	return pen
}

func defaultRates() entity.DailyRates {
	price := dec("1.5")
	return entity.DailyRates{
		Labor:          dec("100.01"),
		Infrastructure: decimal.Zero,
		Veterinary:     dec("50"),
		FeedPricePerKg: &price,
	}
}

func newAllocator(store *adaptertest.Store, cache *adaptertest.MemoryCache, feed adaptertest.FixedFeedPrice) *AllocateDailyCostsUseCase {
	if cache == nil {
		cache = adaptertest.NewMemoryCache()
	}
	repos := store.Repositories()
	return NewAllocateDailyCostsUseCase(repos.Lots, repos.HealthInterventions, repos.DailyAllocations, feed, store, cache, defaultRates())
}

func rowFor(rows []*entity.DailyCostAllocation, lotID uuid.UUID) *entity.DailyCostAllocation {
	for _, r := range rows {
		if r.LotID == lotID {
			return r
		}
	}
	return nil
}

func TestAllocateDailyCostsUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("splits shared costs by weight and charges health directly", func(t *testing.T) {
		store := adaptertest.NewStore()
		heavy := seedLot(t, store, "A", 20, "6000", entity.LotStatusConfined)
		light := seedLot(t, store, "B", 15, "4000", entity.LotStatusConfined)
		seedLot(t, store, "C", 10, "9000", entity.LotStatusReceived)
		must(t, store.Repositories().HealthInterventions.Create(ctx,
			entity.NewHealthIntervention(light.ID, "Deworming", dec("25"), date(10))))

		out, err := newAllocator(store, adaptertest.NewMemoryCache(), adaptertest.FixedFeedPrice{}).
			Execute(ctx, AllocateDailyCostsInput{Date: date(10)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(out.Allocations) != 2 {
			t.Fatalf("expected 2 rows for the confined lots, got %d", len(out.Allocations))
		}
		if !out.FarmTotal.Equal(dec("10000")) {
			t.Errorf("expected farm total 10000, got %s", out.FarmTotal)
		}

		a := rowFor(out.Allocations, heavy.ID)
		b := rowFor(out.Allocations, light.ID)
		if !a.Percentage.Equal(dec("0.6")) {
			t.Errorf("expected 0.6 share, got %s", a.Percentage)
		}
		if !a.FeedCost.Equal(dec("270")) || !b.FeedCost.Equal(dec("180")) {
			t.Errorf("expected feed 270/180, got %s/%s", a.FeedCost, b.FeedCost)
		}
		if !a.LaborCost.Equal(dec("60.01")) || !b.LaborCost.Equal(dec("40")) {
			t.Errorf("expected labor 60.01/40.00, got %s/%s", a.LaborCost, b.LaborCost)
		}
		if !b.DirectHealthCost.Equal(dec("25")) || !a.DirectHealthCost.IsZero() {
			t.Errorf("expected direct health only on lot B, got %s/%s", a.DirectHealthCost, b.DirectHealthCost)
		}
		if !out.TotalAllocated.Equal(dec("625.01")) {
			t.Errorf("expected total 625.01, got %s", out.TotalAllocated)
		}

		totals, _ := store.Repositories().CostEvents.TotalsByLot(ctx, light.ID)
		if !totals.Health.Equal(dec("45")) {
			t.Errorf("expected health bucket 45 (20 vet + 25 direct), got %s", totals.Health)
		}
	})

	t.Run("shared amounts sum exactly to the rate", func(t *testing.T) {
		store := adaptertest.NewStore()
		seedLot(t, store, "A", 10, "1000", entity.LotStatusConfined)
		seedLot(t, store, "B", 10, "1000", entity.LotStatusConfined)
		seedLot(t, store, "C", 10, "1000", entity.LotStatusConfined)

		out, err := newAllocator(store, nil, adaptertest.FixedFeedPrice{}).Execute(ctx, AllocateDailyCostsInput{Date: date(3)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		labor := decimal.Zero
		for _, r := range out.Allocations {
			labor = labor.Add(r.LaborCost)
		}
		if !labor.Equal(dec("100.01")) {
			t.Errorf("expected labor shares to sum to 100.01, got %s", labor)
		}
	})

	t.Run("rerunning a date replaces its rows and events", func(t *testing.T) {
		store := adaptertest.NewStore()
		lot := seedLot(t, store, "A", 20, "6000", entity.LotStatusConfined)
		uc := newAllocator(store, nil, adaptertest.FixedFeedPrice{})

		_, err := uc.Execute(ctx, AllocateDailyCostsInput{Date: date(10)})
		must(t, err)
		eventsAfterFirst := len(store.Events())

		out, err := uc.Execute(ctx, AllocateDailyCostsInput{Date: date(10)})
		must(t, err)

		if !out.ReplacedPrevious {
			t.Error("expected the second run to replace the first")
		}
		rows, _ := store.Repositories().DailyAllocations.FindByDate(ctx, date(10))
		if len(rows) != 1 {
			t.Errorf("expected 1 row for the date, got %d", len(rows))
		}
		if len(store.Events()) != eventsAfterFirst {
			t.Errorf("expected %d events, got %d", eventsAfterFirst, len(store.Events()))
		}
		totals, _ := store.Repositories().CostEvents.TotalsByLot(ctx, lot.ID)
		if !totals.Operational().Equal(out.TotalAllocated) {
			t.Errorf("expected lot costs %s, got %s", out.TotalAllocated, totals.Operational())
		}
	})

	t.Run("skips the day without active lots", func(t *testing.T) {
		store := adaptertest.NewStore()
		seedLot(t, store, "A", 20, "6000", entity.LotStatusReceived)

		out, err := newAllocator(store, nil, adaptertest.FixedFeedPrice{}).Execute(ctx, AllocateDailyCostsInput{Date: date(10)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Skipped || len(out.Allocations) != 0 {
			t.Errorf("expected a skipped run, got %+v", out)
		}
	})

	t.Run("feed price from the provider and zero when missing", func(t *testing.T) {
		store := adaptertest.NewStore()
		seedLot(t, store, "A", 20, "1000", entity.LotStatusConfined)
		rates := defaultRates()
		rates.FeedPricePerKg = nil

		price := dec("2")
		out, err := newAllocator(store, nil, adaptertest.FixedFeedPrice{Price: &price}).
			Execute(ctx, AllocateDailyCostsInput{Date: date(4), Rates: &rates})
		must(t, err)
		if !out.Allocations[0].FeedCost.Equal(dec("60")) {
			t.Errorf("expected feed 60, got %s", out.Allocations[0].FeedCost)
		}

		out, err = newAllocator(store, nil, adaptertest.FixedFeedPrice{}).
			Execute(ctx, AllocateDailyCostsInput{Date: date(5), Rates: &rates})
		must(t, err)
		if !out.Allocations[0].FeedCost.IsZero() {
			t.Errorf("expected zero feed without a price, got %s", out.Allocations[0].FeedCost)
		}
	})

	t.Run("head count and days bases", func(t *testing.T) {
		store := adaptertest.NewStore()
		lot := seedLot(t, store, "A", 30, "6000", entity.LotStatusConfined)
		uc := newAllocator(store, nil, adaptertest.FixedFeedPrice{})

		out, err := uc.Execute(ctx, AllocateDailyCostsInput{Date: date(10), Basis: entity.AllocationBasisHeadCount})
		must(t, err)
		if !out.Allocations[0].BasisValue.Equal(dec("30")) {
			t.Errorf("expected head count 30, got %s", out.Allocations[0].BasisValue)
		}

		out, err = uc.Execute(ctx, AllocateDailyCostsInput{Date: date(10), Basis: entity.AllocationBasisDays})
		must(t, err)
		if !out.Allocations[0].BasisValue.Equal(dec("10")) {
			t.Errorf("expected 10 days since %s, got %s", lot.ConfinedAt, out.Allocations[0].BasisValue)
		}
	})

	t.Run("validation errors", func(t *testing.T) {
		uc := newAllocator(adaptertest.NewStore(), nil, adaptertest.FixedFeedPrice{})
		negative := defaultRates()
		negative.Labor = dec("-1")

		tests := []struct {
			name  string
			input AllocateDailyCostsInput
			code  domainerror.AllocationErrorCode
		}{
			{"missing date", AllocateDailyCostsInput{}, domainerror.ErrCodeInvalidAllocationDate},
			{"unknown basis", AllocateDailyCostsInput{Date: date(1), Basis: "value"}, domainerror.ErrCodeInvalidAllocationBasis},
			{"negative rate", AllocateDailyCostsInput{Date: date(1), Rates: &negative}, domainerror.ErrCodeNegativeRate},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				_, err := uc.Execute(ctx, tt.input)

				var allocErr *domainerror.AllocationError
				if !errors.As(err, &allocErr) || allocErr.Code != tt.code {
					t.Errorf("expected code %s, got %v", tt.code, err)
				}
			})
		}
	})

	t.Run("store failure leaves nothing behind", func(t *testing.T) {
		store := adaptertest.NewStore()
		seedLot(t, store, "A", 20, "6000", entity.LotStatusConfined)
		store.Fail("CostEvents.CreateBatch", errors.New("disk full"))

		_, err := newAllocator(store, nil, adaptertest.FixedFeedPrice{}).Execute(ctx, AllocateDailyCostsInput{Date: date(10)})

		var allocErr *domainerror.AllocationError
		if !errors.As(err, &allocErr) || allocErr.Code != domainerror.ErrCodeAllocationInternalError {
			t.Fatalf("expected internal error, got %v", err)
		}
		rows, _ := store.Repositories().DailyAllocations.FindByDate(ctx, date(10))
		if len(rows) != 0 {
			t.Errorf("expected no rows after rollback, got %d", len(rows))
		}
	})

	t.Run("invalidates cached reports", func(t *testing.T) {
		store := adaptertest.NewStore()
		seedLot(t, store, "A", 20, "6000", entity.LotStatusConfined)
		cache := adaptertest.NewMemoryCache()
		must(t, cache.Set(ctx, "reports:pen-occupancy", map[string]int{"occupied": 1}))

		_, err := newAllocator(store, cache, adaptertest.FixedFeedPrice{}).Execute(ctx, AllocateDailyCostsInput{Date: date(10)})
		must(t, err)

		if keys := cache.Keys(); len(keys) != 0 {
			t.Errorf("expected an empty cache, got %v", keys)
		}
	})
}

func TestGetDailyAllocationsUseCase_Execute(t *testing.T) {
	store := adaptertest.NewStore()
	seedLot(t, store, "A", 20, "6000", entity.LotStatusConfined)
	_, err := newAllocator(store, nil, adaptertest.FixedFeedPrice{}).Execute(context.Background(), AllocateDailyCostsInput{Date: date(10)})
	must(t, err)

	rows, err := NewGetDailyAllocationsUseCase(store.Repositories().DailyAllocations).
		Execute(context.Background(), GetDailyAllocationsInput{Date: date(10).Add(15 * time.Hour)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(rows))
	}
}
