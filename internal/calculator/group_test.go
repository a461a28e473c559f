package calculator

import (
	"math"
	"reflect"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
)

func groupExpense(id, group, payer string, shares map[string]float64, order ...string) models.Expense {
	e := expense(id, payer, 1, shares, order...)
	e.GroupID = group
	return e
}

func TestComputeGroupBalances(t *testing.T) {
	group := &models.Group{ID: "g1", Members: []string{"U", "A", "B"}}

	tests := []struct {
		name        string
		expenses    []models.Expense
		settlements []models.Settlement
		want        []MemberBalance
	}{
		{
			name: "caller paid an equal split",
			expenses: []models.Expense{
				groupExpense("e1", "g1", "U", map[string]float64{"U": 20, "A": 20, "B": 20}, "U", "A", "B"),
			},
			want: []MemberBalance{
				{UserID: "A", Owed: 20, Owing: 0, Net: 20},
				{UserID: "B", Owed: 20, Owing: 0, Net: 20},
			},
		},
		{
			name: "another member paid",
			expenses: []models.Expense{
				groupExpense("e1", "g1", "A", map[string]float64{"U": 15, "B": 15}, "U", "B"),
			},
			want: []MemberBalance{
				{UserID: "A", Owed: 0, Owing: 15, Net: -15},
				{UserID: "B", Owed: 0, Owing: 0, Net: 0},
			},
		},
		{
			name: "settlements adjust the counterparty",
			expenses: []models.Expense{
				groupExpense("e1", "g1", "U", map[string]float64{"A": 20, "B": 20}, "A", "B"),
			},
			settlements: []models.Settlement{
				{ID: "s1", GroupID: "g1", PayerID: "A", ReceiverID: "U", Amount: 5},
				{ID: "s2", GroupID: "g1", PayerID: "U", ReceiverID: "B", Amount: 1},
				{ID: "s3", GroupID: "g1", PayerID: "A", ReceiverID: "B", Amount: 100},
			},
			want: []MemberBalance{
				{UserID: "A", Owed: 15, Owing: 0, Net: 15},
				{UserID: "B", Owed: 21, Owing: 0, Net: 21},
			},
		},
		{
			name: "non-member payer and other groups are ignored",
			expenses: []models.Expense{
				groupExpense("e1", "g1", "X", map[string]float64{"U": 9}, "U"),
				groupExpense("e2", "g2", "A", map[string]float64{"U": 9}, "U"),
			},
			want: []MemberBalance{
				{UserID: "A"},
				{UserID: "B"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeGroupBalances("U", group, tt.expenses, tt.settlements, nil)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ComputeGroupBalances() = %+v, want %+v", got, tt.want)
			}

			var sum float64
			for _, m := range got {
				sum += m.Net
			}
			scalar := GroupBalance("U", group, tt.expenses, tt.settlements)
			if math.Abs(scalar-sum) > 1e-9 {
				t.Errorf("GroupBalance() = %v, sum of members = %v", scalar, sum)
			}
		})
	}
}

func TestSuggestSettlements(t *testing.T) {
	group := &models.Group{ID: "g1", Members: []string{"U", "A", "B"}}

	tests := []struct {
		name        string
		expenses    []models.Expense
		settlements []models.Settlement
		want        []Transfer
	}{
		{
			name: "two debtors one creditor",
			expenses: []models.Expense{
				groupExpense("e1", "g1", "U", map[string]float64{"U": 20, "A": 20, "B": 20}, "U", "A", "B"),
			},
			want: []Transfer{
				{From: "A", To: "U", Amount: 20},
				{From: "B", To: "U", Amount: 20},
			},
		},
		{
			name: "chains collapse",
			expenses: []models.Expense{
				groupExpense("e1", "g1", "U", map[string]float64{"A": 10}, "A"),
				groupExpense("e2", "g1", "A", map[string]float64{"B": 10}, "B"),
			},
			want: []Transfer{
				{From: "B", To: "U", Amount: 10},
			},
		},
		{
			name: "settled group suggests nothing",
			expenses: []models.Expense{
				groupExpense("e1", "g1", "U", map[string]float64{"A": 10}, "A"),
			},
			settlements: []models.Settlement{
				{ID: "s1", GroupID: "g1", PayerID: "A", ReceiverID: "U", Amount: 10},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestSettlements(group, tt.expenses, tt.settlements)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SuggestSettlements() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
