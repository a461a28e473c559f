package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
)

var testNow = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

type fixture struct {
	t       *testing.T
	ctx     context.Context
	store   *sqlite.SQLiteStore
	engine  *Engine
	metrics *metrics.Collector
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if opts.Metrics == nil {
		opts.Metrics = metrics.NewCollector()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	return &fixture{
		t:       t,
		ctx:     context.Background(),
		store:   store,
		engine:  New(store, opts),
		metrics: opts.Metrics,
	}
}

// user registers a user with the given display name and returns its ID.
func (f *fixture) user(name string) string {
	f.t.Helper()
	u := models.NewUser(strings.ToLower(name)+"@example.com", name, "hash")
	if err := f.store.CreateUser(f.ctx, u); err != nil {
		f.t.Fatalf("CreateUser(%s) failed: %v", name, err)
	}
	return u.ID
}

func (f *fixture) group(owner, name string, members ...string) string {
	f.t.Helper()
	g, err := f.engine.CreateGroup(f.ctx, owner, name, "", members)
	if err != nil {
		f.t.Fatalf("CreateGroup failed: %v", err)
	}
	return g.ID
}

func (f *fixture) expense(caller string, draft ExpenseDraft) *models.Expense {
	f.t.Helper()
	if draft.SplitType == "" {
		draft.SplitType = models.SplitExact
	}
	e, err := f.engine.SubmitExpense(f.ctx, caller, draft)
	if err != nil {
		f.t.Fatalf("SubmitExpense failed: %v", err)
	}
	return e
}

func (f *fixture) settle(caller string, draft SettlementDraft) *models.Settlement {
	f.t.Helper()
	s, err := f.engine.SubmitSettlement(f.ctx, caller, draft)
	if err != nil {
		f.t.Fatalf("SubmitSettlement failed: %v", err)
	}
	return s
}

func split(uid string, amount float64) models.Split {
	return models.Split{ParticipantID: uid, Amount: amount}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSubmitExpense_Validation(t *testing.T) {
	f := newFixture(t, Options{})
	u, a, b, outsider := f.user("U"), f.user("A"), f.user("B"), f.user("Outsider")
	g := f.group(u, "Flat", a)

	tests := []struct {
		name    string
		caller  string
		draft   ExpenseDraft
		wantErr error
	}{
		{
			name:    "zero amount",
			caller:  u,
			draft:   ExpenseDraft{Amount: 0, PayerID: u, SplitType: models.SplitEqual, Splits: []models.Split{split(a, 1)}},
			wantErr: ErrValidation,
		},
		{
			name:    "NaN amount",
			caller:  u,
			draft:   ExpenseDraft{Amount: math.NaN(), PayerID: u, SplitType: models.SplitExact, Splits: []models.Split{split(a, math.NaN())}},
			wantErr: ErrValidation,
		},
		{
			name:    "infinite amount",
			caller:  u,
			draft:   ExpenseDraft{Amount: math.Inf(1), PayerID: u, SplitType: models.SplitExact, Splits: []models.Split{split(a, math.Inf(1))}},
			wantErr: ErrValidation,
		},
		{
			name:    "NaN split",
			caller:  u,
			draft:   ExpenseDraft{Amount: 10, PayerID: u, SplitType: models.SplitExact, Splits: []models.Split{split(a, 10), split(b, math.NaN())}},
			wantErr: ErrValidation,
		},
		{
			name:    "unknown split type",
			caller:  u,
			draft:   ExpenseDraft{Amount: 10, PayerID: u, SplitType: "shares", Splits: []models.Split{split(a, 10)}},
			wantErr: ErrValidation,
		},
		{
			name:    "non-positive split",
			caller:  u,
			draft:   ExpenseDraft{Amount: 10, PayerID: u, SplitType: models.SplitExact, Splits: []models.Split{split(a, 10), split(b, 0)}},
			wantErr: ErrValidation,
		},
		{
			name:    "splits do not add up",
			caller:  u,
			draft:   ExpenseDraft{Amount: 10, PayerID: u, SplitType: models.SplitExact, Splits: []models.Split{split(a, 5), split(b, 4.98)}},
			wantErr: ErrValidation,
		},
		{
			name:    "caller is neither payer nor participant",
			caller:  outsider,
			draft:   ExpenseDraft{Amount: 10, PayerID: u, SplitType: models.SplitExact, Splits: []models.Split{split(a, 10)}},
			wantErr: ErrAuthorization,
		},
		{
			name:    "missing group",
			caller:  u,
			draft:   ExpenseDraft{Amount: 10, PayerID: u, SplitType: models.SplitExact, GroupID: "grp_missing", Splits: []models.Split{split(a, 10)}},
			wantErr: ErrNotFound,
		},
		{
			name:    "caller outside the group",
			caller:  b,
			draft:   ExpenseDraft{Amount: 10, PayerID: b, SplitType: models.SplitExact, GroupID: g, Splits: []models.Split{split(a, 10)}},
			wantErr: ErrAuthorization,
		},
		{
			name:    "split participant outside the group",
			caller:  u,
			draft:   ExpenseDraft{Amount: 10, PayerID: u, SplitType: models.SplitExact, GroupID: g, Splits: []models.Split{split(a, 5), split(b, 5)}},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.SubmitExpense(f.ctx, tt.caller, tt.draft)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SubmitExpense() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Rejected expenses leave no trace.
	for _, uid := range []string{u, a, b, outsider} {
		items, err := f.engine.RecentActivity(f.ctx, uid)
		if err != nil {
			t.Fatalf("RecentActivity failed: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("Expected no activity for %s, got %d items", uid, len(items))
		}
	}

	want := `
# HELP splitledger_writes_total The number of write operations by outcome.
# TYPE splitledger_writes_total counter
splitledger_writes_total{operation="CreateGroup",result="ok"} 1
splitledger_writes_total{operation="SubmitExpense",result="authorization"} 2
splitledger_writes_total{operation="SubmitExpense",result="not_found"} 1
splitledger_writes_total{operation="SubmitExpense",result="validation"} 8
`
	if err := testutil.CollectAndCompare(f.metrics, strings.NewReader(want), "splitledger_writes_total"); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestSubmitExpense_Defaults(t *testing.T) {
	f := newFixture(t, Options{})
	u, a := f.user("U"), f.user("A")

	// A records an expense U paid; A is in the splits so this is allowed.
	e := f.expense(a, ExpenseDraft{
		Description: "  Groceries ",
		Amount:      100,
		PayerID:     u,
		SplitType:   models.SplitEqual,
		Splits:      []models.Split{split(u, 33.34), split(a, 33.33), {ParticipantID: "usr_c", Amount: 33.33, Paid: true}},
	})

	if e.Category != models.DefaultCategory {
		t.Errorf("Category = %q, want %q", e.Category, models.DefaultCategory)
	}
	if e.Description != "Groceries" {
		t.Errorf("Description = %q", e.Description)
	}
	if e.Date != testNow.UnixMilli() {
		t.Errorf("Date = %d, want %d", e.Date, testNow.UnixMilli())
	}
	if e.CreatedBy != a {
		t.Errorf("CreatedBy = %s, want %s", e.CreatedBy, a)
	}
	if !strings.HasPrefix(e.ID, "exp_") {
		t.Errorf("ID = %q, want exp_ prefix", e.ID)
	}

	// Paid splits never count.
	b, err := f.engine.Balances(f.ctx, u)
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	if !approx(b.Owed, 33.33) || len(b.OwedBy) != 1 || b.OwedBy[0].ID != a {
		t.Errorf("Balances(U) = %+v", b)
	}
}

func TestDashboardScenario(t *testing.T) {
	f := newFixture(t, Options{})
	u, a, b := f.user("U"), f.user("A"), f.user("B")

	f.expense(u, ExpenseDraft{
		Description: "Dinner", Amount: 30, PayerID: u, SplitType: models.SplitEqual,
		Splits: []models.Split{split(u, 10), split(a, 10), split(b, 10)},
	})

	got, err := f.engine.Balances(f.ctx, u)
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	if !approx(got.Owed, 20) || got.Owing != 0 || !approx(got.Total, 20) {
		t.Errorf("Owed/Owing/Total = %v/%v/%v, want 20/0/20", got.Owed, got.Owing, got.Total)
	}
	if len(got.OwedBy) != 2 {
		t.Fatalf("OwedBy = %+v, want 2 entries", got.OwedBy)
	}
	for _, c := range got.OwedBy {
		if !approx(c.Amount, 10) {
			t.Errorf("%s owes %v, want 10", c.Name, c.Amount)
		}
	}

	f.settle(a, SettlementDraft{Amount: 10, PayerID: a, ReceiverID: u})

	got, err = f.engine.Balances(f.ctx, u)
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	if !approx(got.Owed, 10) || len(got.OwedBy) != 1 || got.OwedBy[0].ID != b || got.OwedBy[0].Name != "B" {
		t.Errorf("after settlement Balances(U) = %+v, want only B owing 10", got)
	}

	again, err := f.engine.Balances(f.ctx, u)
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	if !reflect.DeepEqual(got, again) {
		t.Errorf("Balances is not idempotent: %+v vs %+v", got, again)
	}
}

func TestSubmitSettlement_Ungrouped(t *testing.T) {
	f := newFixture(t, Options{})
	u, a, b := f.user("U"), f.user("A"), f.user("B")

	f.expense(u, ExpenseDraft{Amount: 10, PayerID: u, Splits: []models.Split{split(a, 10)}})
	f.expense(b, ExpenseDraft{Amount: 20, PayerID: b, Splits: []models.Split{split(u, 20)}})

	tests := []struct {
		name    string
		caller  string
		draft   SettlementDraft
		wantErr error
	}{
		{"zero amount", a, SettlementDraft{Amount: 0, PayerID: a, ReceiverID: u}, ErrValidation},
		{"NaN amount", a, SettlementDraft{Amount: math.NaN(), PayerID: a, ReceiverID: u}, ErrValidation},
		{"infinite amount", a, SettlementDraft{Amount: math.Inf(1), PayerID: a, ReceiverID: u}, ErrValidation},
		{"negative infinite amount", a, SettlementDraft{Amount: math.Inf(-1), PayerID: a, ReceiverID: u}, ErrValidation},
		{"self settlement", a, SettlementDraft{Amount: 1, PayerID: a, ReceiverID: a}, ErrValidation},
		{"caller not a party", b, SettlementDraft{Amount: 1, PayerID: a, ReceiverID: u}, ErrAuthorization},
		{"over-settlement", a, SettlementDraft{Amount: 15, PayerID: a, ReceiverID: u}, ErrConflict},
		{"nothing to settle", a, SettlementDraft{Amount: 1, PayerID: a, ReceiverID: b}, ErrConflict},
		{"unknown related expense", a, SettlementDraft{Amount: 1, PayerID: a, ReceiverID: u, RelatedExpenseIDs: []string{"exp_missing"}}, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.SubmitSettlement(f.ctx, tt.caller, tt.draft)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SubmitSettlement() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("within tolerance of the balance", func(t *testing.T) {
		s := f.settle(a, SettlementDraft{Amount: 10.005, PayerID: a, ReceiverID: u, Note: " thanks "})
		if s.Date != testNow.UnixMilli() || s.Note != "thanks" || s.CreatedBy != a {
			t.Errorf("unexpected settlement %+v", s)
		}

		_, err := f.engine.SubmitSettlement(f.ctx, a, SettlementDraft{Amount: 1, PayerID: a, ReceiverID: u})
		if !errors.Is(err, ErrConflict) {
			t.Errorf("Expected ErrConflict once settled, got %v", err)
		}
	})

	t.Run("debtor pays creditor", func(t *testing.T) {
		f.settle(u, SettlementDraft{Amount: 20, PayerID: u, ReceiverID: b})

		pair, err := f.engine.Pair(f.ctx, u, b)
		if err != nil {
			t.Fatalf("Pair failed: %v", err)
		}
		if !approx(pair.Net, 0) {
			t.Errorf("Net = %v, want 0", pair.Net)
		}
	})
}

func TestSubmitSettlement_ConcurrentCannotOverSettle(t *testing.T) {
	f := newFixture(t, Options{})
	u, a := f.user("U"), f.user("A")
	f.expense(u, ExpenseDraft{Amount: 10, PayerID: u, Splits: []models.Split{split(a, 10)}})

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.engine.SubmitSettlement(f.ctx, a, SettlementDraft{Amount: 10, PayerID: a, ReceiverID: u})
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case !errors.Is(err, ErrConflict):
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("%d settlements admitted, want 1", ok)
	}
}

func TestSubmitSettlement_Grouped(t *testing.T) {
	for _, policy := range []GroupSettlementPolicy{PolicyUnbounded, PolicyBounded} {
		t.Run(string(policy), func(t *testing.T) {
			f := newFixture(t, Options{GroupSettlementPolicy: policy})
			u, a, outsider := f.user("U"), f.user("A"), f.user("Outsider")
			g := f.group(u, "Trip", a)
			f.expense(u, ExpenseDraft{Amount: 10, PayerID: u, GroupID: g, Splits: []models.Split{split(a, 10)}})

			_, err := f.engine.SubmitSettlement(f.ctx, u, SettlementDraft{Amount: 5, PayerID: u, ReceiverID: outsider, GroupID: g})
			if !errors.Is(err, ErrValidation) {
				t.Errorf("non-member party: error = %v, want ErrValidation", err)
			}
			_, err = f.engine.SubmitSettlement(f.ctx, outsider, SettlementDraft{Amount: 5, PayerID: outsider, ReceiverID: u, GroupID: g})
			if !errors.Is(err, ErrAuthorization) {
				t.Errorf("non-member caller: error = %v, want ErrAuthorization", err)
			}

			_, err = f.engine.SubmitSettlement(f.ctx, a, SettlementDraft{Amount: 500, PayerID: a, ReceiverID: u, GroupID: g})
			switch policy {
			case PolicyUnbounded:
				if err != nil {
					t.Errorf("unbounded policy rejected a grouped settlement: %v", err)
				}
			case PolicyBounded:
				if !errors.Is(err, ErrConflict) {
					t.Errorf("bounded policy: error = %v, want ErrConflict", err)
				}
				f.settle(a, SettlementDraft{Amount: 10, PayerID: a, ReceiverID: u, GroupID: g})
			}

			// Grouped settlements never touch the one-to-one balance.
			if _, err := f.engine.SubmitSettlement(f.ctx, a, SettlementDraft{Amount: 1, PayerID: a, ReceiverID: u}); !errors.Is(err, ErrConflict) {
				t.Errorf("ungrouped settlement: error = %v, want ErrConflict", err)
			}
		})
	}
}

func TestPair(t *testing.T) {
	f := newFixture(t, Options{})
	u, a, b := f.user("U"), f.user("A"), f.user("B")

	f.expense(u, ExpenseDraft{Amount: 30, Date: 1000, PayerID: u, Splits: []models.Split{split(u, 10), split(a, 10), split(b, 10)}})
	f.expense(a, ExpenseDraft{Amount: 8, Date: 3000, PayerID: a, Splits: []models.Split{split(u, 4), split(a, 4)}})
	f.expense(b, ExpenseDraft{Amount: 50, Date: 2000, PayerID: b, Splits: []models.Split{split(a, 50)}})
	f.settle(a, SettlementDraft{Amount: 2.5, PayerID: a, ReceiverID: u})

	pair, err := f.engine.Pair(f.ctx, u, a)
	if err != nil {
		t.Fatalf("Pair failed: %v", err)
	}
	if pair.Counterparty.Name != "A" {
		t.Errorf("Counterparty = %+v", pair.Counterparty)
	}
	if len(pair.Expenses) != 2 || pair.Expenses[0].Date != 3000 {
		t.Errorf("Expenses = %+v, want 2 newest first", pair.Expenses)
	}
	if len(pair.Settlements) != 1 {
		t.Errorf("Settlements = %+v", pair.Settlements)
	}
	if want := 10 - 4 - 2.5; !approx(pair.Net, want) || !approx(pair.YouAreOwed, want) || pair.YouOwe != 0 {
		t.Errorf("Net/YouAreOwed/YouOwe = %v/%v/%v, want %v/%v/0", pair.Net, pair.YouAreOwed, pair.YouOwe, want, want)
	}

	reverse, err := f.engine.Pair(f.ctx, a, u)
	if err != nil {
		t.Fatalf("Pair failed: %v", err)
	}
	if !approx(reverse.Net, -pair.Net) || !approx(reverse.YouOwe, pair.YouAreOwed) {
		t.Errorf("reverse Net = %v, want %v", reverse.Net, -pair.Net)
	}

	// The dashboard agrees with every pair view.
	for _, uid := range []string{u, a, b} {
		dash, err := f.engine.Balances(f.ctx, uid)
		if err != nil {
			t.Fatalf("Balances failed: %v", err)
		}
		signed := map[string]float64{}
		for _, c := range dash.OwedBy {
			signed[c.ID] = c.Amount
		}
		for _, c := range dash.OwingTo {
			signed[c.ID] = -c.Amount
		}
		for _, other := range []string{u, a, b} {
			if other == uid {
				continue
			}
			p, err := f.engine.Pair(f.ctx, uid, other)
			if err != nil {
				t.Fatalf("Pair failed: %v", err)
			}
			if math.Abs(p.Net-signed[other]) > 1e-9 {
				t.Errorf("Pair(%s, %s) = %v, dashboard says %v", uid, other, p.Net, signed[other])
			}
		}
	}

	if _, err := f.engine.Pair(f.ctx, u, u); !errors.Is(err, ErrValidation) {
		t.Errorf("Pair with self: error = %v, want ErrValidation", err)
	}
	if _, err := f.engine.Pair(f.ctx, u, "usr_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Pair with unknown user: error = %v, want ErrNotFound", err)
	}
}

func TestGroupBalancesScenario(t *testing.T) {
	f := newFixture(t, Options{})
	u, a, b, outsider := f.user("U"), f.user("A"), f.user("B"), f.user("Outsider")
	g := f.group(u, "Trip", a, b)

	f.expense(u, ExpenseDraft{
		Amount: 60, PayerID: u, GroupID: g, SplitType: models.SplitEqual,
		Splits: []models.Split{split(u, 20), split(a, 20), split(b, 20)},
	})

	got, err := f.engine.GroupBalances(f.ctx, u, g)
	if err != nil {
		t.Fatalf("GroupBalances failed: %v", err)
	}
	if len(got.Members) != 2 {
		t.Fatalf("Members = %+v, want A and B", got.Members)
	}
	for i, want := range []string{a, b} {
		m := got.Members[i]
		if m.ID != want || !approx(m.Owed, 20) || m.Owing != 0 {
			t.Errorf("member %d = %+v, want %s owed 20 owing 0", i, m, want)
		}
	}
	if len(got.Suggested) != 2 || got.Suggested[0].To.ID != u {
		t.Errorf("Suggested = %+v", got.Suggested)
	}

	// Grouped records stay out of the dashboard.
	dash, err := f.engine.Balances(f.ctx, u)
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	if dash.Owed != 0 || dash.Owing != 0 {
		t.Errorf("Balances(U) = %+v, want empty", dash)
	}

	groups, err := f.engine.ListGroups(f.ctx, u)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(groups) != 1 || !approx(groups[0].Balance, 40) {
		t.Errorf("ListGroups = %+v, want one group with balance 40", groups)
	}

	if _, err := f.engine.GroupBalances(f.ctx, outsider, g); !errors.Is(err, ErrAuthorization) {
		t.Errorf("non-member: error = %v, want ErrAuthorization", err)
	}
	if _, err := f.engine.GroupBalances(f.ctx, u, "grp_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing group: error = %v, want ErrNotFound", err)
	}
}

func TestDeleteExpense_Cascade(t *testing.T) {
	f := newFixture(t, Options{})
	u, a, b := f.user("U"), f.user("A"), f.user("B")

	// A records an expense U paid.
	e1 := f.expense(a, ExpenseDraft{Amount: 20, PayerID: u, Splits: []models.Split{split(a, 10), split(b, 10)}})
	e2 := f.expense(u, ExpenseDraft{Amount: 10, PayerID: u, Splits: []models.Split{split(a, 10)}})

	s1 := f.settle(a, SettlementDraft{Amount: 5, PayerID: a, ReceiverID: u, RelatedExpenseIDs: []string{e1.ID}})
	s2 := f.settle(a, SettlementDraft{Amount: 5, PayerID: a, ReceiverID: u, RelatedExpenseIDs: []string{e1.ID, e2.ID}})

	if err := f.engine.DeleteExpense(f.ctx, b, e1.ID); !errors.Is(err, ErrAuthorization) {
		t.Fatalf("participant delete: error = %v, want ErrAuthorization", err)
	}
	if err := f.engine.DeleteExpense(f.ctx, u, "exp_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing expense: error = %v, want ErrNotFound", err)
	}

	// The payer may delete an expense someone else recorded.
	if err := f.engine.DeleteExpense(f.ctx, u, e1.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}

	err := f.store.ReadTx(f.ctx, func(tx storage.Tx) error {
		if _, err := tx.GetExpense(e1.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expense still present: %v", err)
		}
		remaining, err := tx.ListUngroupedSettlementsBetween(a, u)
		if err != nil {
			return err
		}
		if len(remaining) != 1 || remaining[0].ID != s2.ID {
			t.Fatalf("remaining settlements = %+v, want only %s", remaining, s2.ID)
		}
		if !reflect.DeepEqual(remaining[0].RelatedExpenseIDs, []string{e2.ID}) {
			t.Errorf("RelatedExpenseIDs = %v, want [%s]", remaining[0].RelatedExpenseIDs, e2.ID)
		}
		for _, s := range remaining {
			if s.ID == s1.ID {
				t.Errorf("settlement %s should have been deleted", s1.ID)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ReadTx failed: %v", err)
	}

	want := `
# HELP splitledger_cascade_settlements_total Settlements deleted or trimmed by expense deletion.
# TYPE splitledger_cascade_settlements_total counter
splitledger_cascade_settlements_total{action="deleted"} 1
splitledger_cascade_settlements_total{action="trimmed"} 1
`
	if err := testutil.CollectAndCompare(f.metrics, strings.NewReader(want), "splitledger_cascade_settlements_total"); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}

	// Removing the last reference deletes s2 as well.
	if err := f.engine.DeleteExpense(f.ctx, u, e2.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	err = f.store.ReadTx(f.ctx, func(tx storage.Tx) error {
		remaining, err := tx.ListUngroupedSettlementsBetween(a, u)
		if err != nil {
			return err
		}
		if len(remaining) != 0 {
			t.Errorf("remaining settlements = %+v, want none", remaining)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ReadTx failed: %v", err)
	}
}

func TestRecentActivity(t *testing.T) {
	f := newFixture(t, Options{ActivityWindow: 4, ActivityLimit: 2})
	u, a, b := f.user("U"), f.user("A"), f.user("B")
	g := f.group(u, "Flat", a)

	f.expense(b, ExpenseDraft{Description: "oldest", Amount: 1, Date: 1, PayerID: b, Splits: []models.Split{split(u, 1)}})
	f.expense(u, ExpenseDraft{Description: "rent", Amount: 2, Date: 2, PayerID: u, GroupID: g, Splits: []models.Split{split(a, 2)}})
	f.expense(a, ExpenseDraft{Description: "not mine", Amount: 3, Date: 3, PayerID: a, Splits: []models.Split{split(b, 3)}})
	f.expense(b, ExpenseDraft{Description: "taxi", Amount: 4, Date: 4, PayerID: b, Splits: []models.Split{split(u, 4)}})
	f.expense(a, ExpenseDraft{Description: "also not mine", Amount: 5, Date: 5, PayerID: a, Splits: []models.Split{split(b, 5)}})

	items, err := f.engine.RecentActivity(f.ctx, u)
	if err != nil {
		t.Fatalf("RecentActivity failed: %v", err)
	}

	var got []string
	for _, it := range items {
		got = append(got, fmt.Sprintf("%s/%s/%s", it.Description, it.PayerName, it.GroupName))
	}
	// The window holds dates 5..2, so "oldest" is out of reach.
	want := []string{"taxi/B/", "rent/U/Flat"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RecentActivity() = %v, want %v", got, want)
	}
}

func TestSpending(t *testing.T) {
	f := newFixture(t, Options{})
	u, a := f.user("U"), f.user("A")

	march := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC).UnixMilli()
	f.expense(u, ExpenseDraft{Amount: 30, Date: march, PayerID: u, Splits: []models.Split{split(u, 10), split(a, 20)}})
	f.expense(a, ExpenseDraft{Amount: 5, Date: march, PayerID: a, Splits: []models.Split{split(u, 5)}})

	got, err := f.engine.Spending(f.ctx, u, 0)
	if err != nil {
		t.Fatalf("Spending failed: %v", err)
	}
	if got.Year != 2026 || !approx(got.Total, 15) || !approx(got.Months[2].Total, 15) {
		t.Errorf("Spending() = %+v", got)
	}
}

func TestObserver(t *testing.T) {
	var adjustments []calculator.Adjustment
	f := newFixture(t, Options{Observer: func(a calculator.Adjustment) {
		adjustments = append(adjustments, a)
	}})
	u, a := f.user("U"), f.user("A")
	e := f.expense(u, ExpenseDraft{Amount: 10, PayerID: u, Splits: []models.Split{split(a, 10)}})

	if _, err := f.engine.Balances(f.ctx, u); err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	want := []calculator.Adjustment{{Counterparty: a, Source: calculator.SourceExpense, RecordID: e.ID, Delta: 10, Balance: 10}}
	if !reflect.DeepEqual(adjustments, want) {
		t.Errorf("adjustments = %+v, want %+v", adjustments, want)
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]GroupSettlementPolicy{
		"":          PolicyUnbounded,
		"unbounded": PolicyUnbounded,
		"bounded":   PolicyBounded,
	} {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParsePolicy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePolicy("strict"); err == nil {
		t.Error("Expected error for unknown policy")
	}
}
