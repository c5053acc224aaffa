// Package adaptertest provides an in-memory implementation of the repository
// adapters for use case tests.
package adaptertest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boi-gordo/backend/internal/application/adapter"
	"github.com/boi-gordo/backend/internal/domain/entity"
	domainerror "github.com/boi-gordo/backend/internal/domain/error"
)

// Store keeps every aggregate in memory. Entities are copied on the way in and
// out so callers cannot mutate stored state without going through a repository.
type Store struct {
	mu    sync.Mutex
	state state
	fail  map[string]error
}

type state struct {
	transactions  map[uuid.UUID]entity.Transaction
	analyses      map[string]entity.PeriodAnalysis
	lots          map[uuid.UUID]entity.Lot
	events        []entity.LotCostEvent
	pens          map[uuid.UUID]entity.Pen
	allocations   map[uuid.UUID]entity.PenAllocation
	daily         []entity.DailyCostAllocation
	revenues      map[uuid.UUID]entity.Revenue
	expenses      map[uuid.UUID]entity.Expense
	mortalities   map[uuid.UUID]entity.MortalityRecord
	sales         map[uuid.UUID]entity.Sale
	contributions map[uuid.UUID]entity.Contribution
	interventions map[uuid.UUID]entity.HealthIntervention
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		state: state{
			transactions:  map[uuid.UUID]entity.Transaction{},
			analyses:      map[string]entity.PeriodAnalysis{},
			lots:          map[uuid.UUID]entity.Lot{},
			pens:          map[uuid.UUID]entity.Pen{},
			allocations:   map[uuid.UUID]entity.PenAllocation{},
			revenues:      map[uuid.UUID]entity.Revenue{},
			expenses:      map[uuid.UUID]entity.Expense{},
			mortalities:   map[uuid.UUID]entity.MortalityRecord{},
			sales:         map[uuid.UUID]entity.Sale{},
			contributions: map[uuid.UUID]entity.Contribution{},
			interventions: map[uuid.UUID]entity.HealthIntervention{},
		},
		fail: map[string]error{},
	}
}

// Fail makes the named operation (e.g. "Ledger.Create") return err until cleared.
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = err
}

// ClearFailures removes every injected failure.
func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = map[string]error{}
}

func (s *Store) check(op string) error {
	return s.fail[op]
}

// Repositories returns every repository backed by the store.
func (s *Store) Repositories() adapter.Repositories {
	return adapter.Repositories{
		Ledger:              &ledgerRepo{s},
		PeriodAnalyses:      &analysisRepo{s},
		Lots:                &lotRepo{s},
		CostEvents:          &costEventRepo{s},
		Pens:                &penRepo{s},
		Allocations:         &allocationRepo{s},
		DailyAllocations:    &dailyRepo{s},
		Revenues:            &revenueRepo{s},
		Expenses:            &expenseRepo{s},
		Mortalities:         &mortalityRepo{s},
		Sales:               &saleRepo{s},
		Contributions:       &contributionRepo{s},
		HealthInterventions: &interventionRepo{s},
	}
}

// Within runs fn against the store and restores the previous state if fn fails.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, repos adapter.Repositories) error) error {
	s.mu.Lock()
	if err := s.check("UnitOfWork.Within"); err != nil {
		s.mu.Unlock()
		return err
	}
	snapshot := s.state.clone()
	s.mu.Unlock()

	if err := fn(ctx, s.Repositories()); err != nil {
		s.mu.Lock()
		s.state = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (st state) clone() state {
	return state{
		transactions:  cloneMap(st.transactions),
		analyses:      cloneMap(st.analyses),
		lots:          cloneMap(st.lots),
		events:        append([]entity.LotCostEvent(nil), st.events...),
		pens:          cloneMap(st.pens),
		allocations:   cloneMap(st.allocations),
		daily:         append([]entity.DailyCostAllocation(nil), st.daily...),
		revenues:      cloneMap(st.revenues),
		expenses:      cloneMap(st.expenses),
		mortalities:   cloneMap(st.mortalities),
		sales:         cloneMap(st.sales),
		contributions: cloneMap(st.contributions),
		interventions: cloneMap(st.interventions),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func between(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// Ensure the store satisfies the unit of work contract.
var _ adapter.UnitOfWork = (*Store)(nil)

// ledgerRepo implements adapter.LedgerRepository.
type ledgerRepo struct{ s *Store }

func (r *ledgerRepo) Create(_ context.Context, t *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("Ledger.Create"); err != nil {
		return err
	}
	r.s.state.transactions[t.ID] = *t
	return nil
}

func (r *ledgerRepo) Update(_ context.Context, t *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("Ledger.Update"); err != nil {
		return err
	}
	r.s.state.transactions[t.ID] = *t
	return nil
}

func (r *ledgerRepo) FindBySource(_ context.Context, sourceType entity.SourceType, sourceID uuid.UUID) (*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.state.transactions {
		if t.SourceType == sourceType && t.SourceID != nil && *t.SourceID == sourceID {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

func (r *ledgerRepo) FindByIdentity(_ context.Context, tx *entity.Transaction) (*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.state.transactions {
		t := t
		if t.SameIdentity(tx) {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

func (r *ledgerRepo) FindByReferenceRange(_ context.Context, start, end time.Time) ([]*entity.Transaction, error) {
	return r.find(func(t entity.Transaction) bool { return between(t.ReferenceDate, start, end) })
}

func (r *ledgerRepo) FindByFilter(_ context.Context, f entity.TransactionFilter) ([]*entity.Transaction, error) {
	return r.find(func(t entity.Transaction) bool {
		if f.StartDate != nil && t.ReferenceDate.Before(*f.StartDate) {
			return false
		}
		if f.EndDate != nil && t.ReferenceDate.After(*f.EndDate) {
			return false
		}
		if f.Category != nil && t.Category != *f.Category {
			return false
		}
		if f.ImpactsCash != nil && t.ImpactsCash != *f.ImpactsCash {
			return false
		}
		if f.LotID != nil && (t.LotID == nil || *t.LotID != *f.LotID) {
			return false
		}
		return true
	})
}

func (r *ledgerRepo) find(match func(entity.Transaction) bool) ([]*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("Ledger.Find"); err != nil {
		return nil, err
	}
	out := []*entity.Transaction{}
	for _, t := range r.s.state.transactions {
		if match(t) {
			found := t
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReferenceDate.Equal(out[j].ReferenceDate) {
			return out[i].Description < out[j].Description
		}
		return out[i].ReferenceDate.Before(out[j].ReferenceDate)
	})
	return out, nil
}

// analysisRepo implements adapter.PeriodAnalysisRepository.
type analysisRepo struct{ s *Store }

func (r *analysisRepo) Upsert(_ context.Context, a *entity.PeriodAnalysis) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("PeriodAnalyses.Upsert"); err != nil {
		return err
	}
	if existing, ok := r.s.state.analyses[a.ReferenceMonth]; ok {
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
	}
	r.s.state.analyses[a.ReferenceMonth] = *a
	return nil
}

func (r *analysisRepo) FindByMonth(_ context.Context, month string) (*entity.PeriodAnalysis, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.state.analyses[month]
	if !ok {
		return nil, domainerror.ErrPeriodAnalysisNotFound
	}
	return &a, nil
}

func (r *analysisRepo) FindByYear(_ context.Context, year int) ([]*entity.PeriodAnalysis, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.PeriodAnalysis{}
	for _, a := range r.s.state.analyses {
		if a.Year == year {
			found := a
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReferenceMonth < out[j].ReferenceMonth })
	return out, nil
}

// lotRepo implements adapter.LotRepository.
type lotRepo struct{ s *Store }

func (r *lotRepo) Create(_ context.Context, l *entity.Lot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("Lots.Create"); err != nil {
		return err
	}
	r.s.state.lots[l.ID] = *l
	return nil
}

func (r *lotRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Lot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.state.lots[id]
	if !ok {
		return nil, domainerror.ErrLotNotFound
	}
	return &l, nil
}

func (r *lotRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Lot, error) {
	return r.FindByID(ctx, id)
}

func (r *lotRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.Lot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Lot{}
	for _, id := range ids {
		if l, ok := r.s.state.lots[id]; ok {
			found := l
			out = append(out, &found)
		}
	}
	return out, nil
}

func (r *lotRepo) FindByStatus(_ context.Context, statuses ...entity.LotStatus) ([]*entity.Lot, error) {
	return r.find(func(l entity.Lot) bool {
		for _, s := range statuses {
			if l.Status == s {
				return true
			}
		}
		return false
	})
}

func (r *lotRepo) FindAll(_ context.Context) ([]*entity.Lot, error) {
	return r.find(func(entity.Lot) bool { return true })
}

func (r *lotRepo) FindPurchasedBetween(_ context.Context, start, end time.Time) ([]*entity.Lot, error) {
	return r.find(func(l entity.Lot) bool {
		return l.PurchaseDate != nil && between(*l.PurchaseDate, start, end)
	})
}

func (r *lotRepo) find(match func(entity.Lot) bool) ([]*entity.Lot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("Lots.Find"); err != nil {
		return nil, err
	}
	out := []*entity.Lot{}
	for _, l := range r.s.state.lots {
		if match(l) {
			found := l
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *lotRepo) Update(_ context.Context, l *entity.Lot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("Lots.Update"); err != nil {
		return err
	}
	if _, ok := r.s.state.lots[l.ID]; !ok {
		return domainerror.ErrLotNotFound
	}
	r.s.state.lots[l.ID] = *l
	return nil
}

// costEventRepo implements adapter.LotCostEventRepository.
type costEventRepo struct{ s *Store }

func (r *costEventRepo) CreateBatch(_ context.Context, events []*entity.LotCostEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("CostEvents.CreateBatch"); err != nil {
		return err
	}
	for _, e := range events {
		r.s.state.events = append(r.s.state.events, *e)
	}
	return nil
}

func (r *costEventRepo) TotalsByLot(_ context.Context, lotID uuid.UUID) (entity.LotCostTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	totals := zeroTotals()
	for _, e := range r.s.state.events {
		if e.LotID == lotID {
			totals.Add(e.Bucket, e.Amount)
		}
	}
	return totals, nil
}

func (r *costEventRepo) TotalsByLots(_ context.Context, lotIDs []uuid.UUID) (map[uuid.UUID]entity.LotCostTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("CostEvents.Totals"); err != nil {
		return nil, err
	}
	wanted := map[uuid.UUID]bool{}
	for _, id := range lotIDs {
		wanted[id] = true
	}
	out := map[uuid.UUID]entity.LotCostTotals{}
	for _, e := range r.s.state.events {
		if !wanted[e.LotID] {
			continue
		}
		totals, ok := out[e.LotID]
		if !ok {
			totals = zeroTotals()
		}
		totals.Add(e.Bucket, e.Amount)
		out[e.LotID] = totals
	}
	return out, nil
}

func (r *costEventRepo) DeleteBySourceOn(_ context.Context, source entity.CostEventSource, date time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.state.events[:0:0]
	for _, e := range r.s.state.events {
		if e.Source == source && sameDay(e.OccurredOn, date) {
			continue
		}
		kept = append(kept, e)
	}
	r.s.state.events = kept
	return nil
}

// Events returns every stored cost event.
func (s *Store) Events() []entity.LotCostEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.LotCostEvent(nil), s.state.events...)
}

func zeroTotals() entity.LotCostTotals {
	return entity.LotCostTotals{
		Feed:           decimal.Zero,
		Health:         decimal.Zero,
		Labor:          decimal.Zero,
		Infrastructure: decimal.Zero,
		Freight:        decimal.Zero,
		Other:          decimal.Zero,
	}
}

// penRepo implements adapter.PenRepository.
type penRepo struct{ s *Store }

func (r *penRepo) Create(_ context.Context, p *entity.Pen) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.pens[p.ID] = *p
	return nil
}

func (r *penRepo) Update(_ context.Context, p *entity.Pen) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("Pens.Update"); err != nil {
		return err
	}
	if _, ok := r.s.state.pens[p.ID]; !ok {
		return domainerror.ErrPenNotFound
	}
	r.s.state.pens[p.ID] = *p
	return nil
}

func (r *penRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Pen, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.state.pens[id]
	if !ok {
		return nil, domainerror.ErrPenNotFound
	}
	return &p, nil
}

func (r *penRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Pen, error) {
	return r.FindByID(ctx, id)
}

func (r *penRepo) FindActive(_ context.Context) ([]*entity.Pen, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("Pens.FindActive"); err != nil {
		return nil, err
	}
	out := []*entity.Pen{}
	for _, p := range r.s.state.pens {
		if p.IsActive {
			found := p
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// allocationRepo implements adapter.PenAllocationRepository.
type allocationRepo struct{ s *Store }

func (r *allocationRepo) Create(_ context.Context, a *entity.PenAllocation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("Allocations.Create"); err != nil {
		return err
	}
	r.s.state.allocations[a.ID] = *a
	return nil
}

func (r *allocationRepo) Update(_ context.Context, a *entity.PenAllocation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("Allocations.Update"); err != nil {
		return err
	}
	r.s.state.allocations[a.ID] = *a
	return nil
}

func (r *allocationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.PenAllocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.state.allocations[id]
	if !ok {
		return nil, domainerror.ErrAllocationNotFound
	}
	return &a, nil
}

func (r *allocationRepo) FindActiveByLot(_ context.Context, lotID uuid.UUID) ([]*entity.PenAllocation, error) {
	return r.active(func(a entity.PenAllocation) bool { return a.LotID == lotID }), nil
}

func (r *allocationRepo) FindActiveByPen(_ context.Context, penID uuid.UUID) ([]*entity.PenAllocation, error) {
	return r.active(func(a entity.PenAllocation) bool { return a.PenID == penID }), nil
}

func (r *allocationRepo) FindActive(_ context.Context) ([]*entity.PenAllocation, error) {
	return r.active(func(entity.PenAllocation) bool { return true }), nil
}

func (r *allocationRepo) SumActiveByPen(ctx context.Context, penID uuid.UUID) (int, error) {
	total := 0
	for _, a := range r.active(func(a entity.PenAllocation) bool { return a.PenID == penID }) {
		total += a.Quantity
	}
	return total, nil
}

func (r *allocationRepo) active(match func(entity.PenAllocation) bool) []*entity.PenAllocation {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.PenAllocation{}
	for _, a := range r.s.state.allocations {
		a := a
		if a.IsActive() && match(a) {
			found := a
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].EntryDate.Before(out[j].EntryDate)
	})
	return out
}

// dailyRepo implements adapter.DailyAllocationRepository.
type dailyRepo struct{ s *Store }

func (r *dailyRepo) CreateBatch(_ context.Context, rows []*entity.DailyCostAllocation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("DailyAllocations.CreateBatch"); err != nil {
		return err
	}
	for _, row := range rows {
		r.s.state.daily = append(r.s.state.daily, *row)
	}
	return nil
}

func (r *dailyRepo) FindByDate(_ context.Context, date time.Time) ([]*entity.DailyCostAllocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.DailyCostAllocation{}
	for _, row := range r.s.state.daily {
		if sameDay(row.Date, date) {
			found := row
			out = append(out, &found)
		}
	}
	return out, nil
}

func (r *dailyRepo) DeleteByDate(_ context.Context, date time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.state.daily[:0:0]
	for _, row := range r.s.state.daily {
		if !sameDay(row.Date, date) {
			kept = append(kept, row)
		}
	}
	r.s.state.daily = kept
	return nil
}

// revenueRepo implements adapter.RevenueRepository.
type revenueRepo struct{ s *Store }

func (r *revenueRepo) Create(_ context.Context, rev *entity.Revenue) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.revenues[rev.ID] = *rev
	return nil
}

func (r *revenueRepo) FindReceivedBetween(_ context.Context, start, end time.Time) ([]*entity.Revenue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("Revenues.Find"); err != nil {
		return nil, err
	}
	out := []*entity.Revenue{}
	for _, rev := range r.s.state.revenues {
		if rev.IsReceived && rev.ReceiptDate != nil && between(*rev.ReceiptDate, start, end) {
			found := rev
			out = append(out, &found)
		}
	}
	return out, nil
}

// expenseRepo implements adapter.ExpenseRepository.
type expenseRepo struct{ s *Store }

func (r *expenseRepo) Create(_ context.Context, e *entity.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("Expenses.Create"); err != nil {
		return err
	}
	r.s.state.expenses[e.ID] = *e
	return nil
}

func (r *expenseRepo) FindPaidBetween(_ context.Context, start, end time.Time) ([]*entity.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Expense{}
	for _, e := range r.s.state.expenses {
		if e.IsPaid && e.PaymentDate != nil && between(*e.PaymentDate, start, end) {
			found := e
			out = append(out, &found)
		}
	}
	return out, nil
}

// mortalityRepo implements adapter.MortalityRepository.
type mortalityRepo struct{ s *Store }

func (r *mortalityRepo) Create(_ context.Context, m *entity.MortalityRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("Mortalities.Create"); err != nil {
		return err
	}
	r.s.state.mortalities[m.ID] = *m
	return nil
}

func (r *mortalityRepo) Update(_ context.Context, m *entity.MortalityRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.mortalities[m.ID] = *m
	return nil
}

func (r *mortalityRepo) FindBetween(_ context.Context, start, end time.Time) ([]*entity.MortalityRecord, error) {
	return r.find(func(m entity.MortalityRecord) bool { return between(m.DeathDate, start, end) }), nil
}

func (r *mortalityRepo) FindByLots(_ context.Context, lotIDs []uuid.UUID) ([]*entity.MortalityRecord, error) {
	r.s.mu.Lock()
	err := r.s.check("Mortalities.Find")
	r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	wanted := map[uuid.UUID]bool{}
	for _, id := range lotIDs {
		wanted[id] = true
	}
	return r.find(func(m entity.MortalityRecord) bool { return wanted[m.LotID] }), nil
}

func (r *mortalityRepo) find(match func(entity.MortalityRecord) bool) []*entity.MortalityRecord {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.MortalityRecord{}
	for _, m := range r.s.state.mortalities {
		if match(m) {
			found := m
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeathDate.Before(out[j].DeathDate) })
	return out
}

// Mortalities returns every stored mortality record.
func (s *Store) Mortalities() []entity.MortalityRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.MortalityRecord, 0, len(s.state.mortalities))
	for _, m := range s.state.mortalities {
		out = append(out, m)
	}
	return out
}

// saleRepo implements adapter.SaleRepository.
type saleRepo struct{ s *Store }

func (r *saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.sales[sale.ID] = *sale
	return nil
}

func (r *saleRepo) FindByLots(_ context.Context, lotIDs []uuid.UUID) ([]*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("Sales.Find"); err != nil {
		return nil, err
	}
	wanted := map[uuid.UUID]bool{}
	for _, id := range lotIDs {
		wanted[id] = true
	}
	out := []*entity.Sale{}
	for _, sale := range r.s.state.sales {
		if wanted[sale.LotID] {
			found := sale
			out = append(out, &found)
		}
	}
	return out, nil
}

// contributionRepo implements adapter.ContributionRepository.
type contributionRepo struct{ s *Store }

func (r *contributionRepo) Create(_ context.Context, c *entity.Contribution) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.contributions[c.ID] = *c
	return nil
}

func (r *contributionRepo) FindBetween(_ context.Context, start, end time.Time) ([]*entity.Contribution, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Contribution{}
	for _, c := range r.s.state.contributions {
		if between(c.Date, start, end) {
			found := c
			out = append(out, &found)
		}
	}
	return out, nil
}

// interventionRepo implements adapter.HealthInterventionRepository.
type interventionRepo struct{ s *Store }

func (r *interventionRepo) Create(_ context.Context, h *entity.HealthIntervention) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.interventions[h.ID] = *h
	return nil
}

func (r *interventionRepo) FindBetween(_ context.Context, start, end time.Time) ([]*entity.HealthIntervention, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.HealthIntervention{}
	for _, h := range r.s.state.interventions {
		if between(h.AppliedOn, start, end) {
			found := h
			out = append(out, &found)
		}
	}
	return out, nil
}
