package calculator

import (
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

// MonthTotal is the user's share of expenses within one calendar month.
type MonthTotal struct {
	Start int64 // first instant of the month, Unix milliseconds (UTC)
	Total float64
}

// Spending is the user's own share of expenses over one calendar year.
type Spending struct {
	Year   int
	Total  float64
	Months [12]MonthTotal
}

// YearRange returns the [from, to) bounds of year in Unix milliseconds (UTC).
func YearRange(year int) (from, to int64) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start.UnixMilli(), start.AddDate(1, 0, 0).UnixMilli()
}

// ComputeSpending sums userID's own split amounts, paid or not, over the
// expenses dated within year. Expenses where the user only paid for others
// contribute nothing.
func ComputeSpending(userID string, year int, expenses []models.Expense) Spending {
	sp := Spending{Year: year}
	for m := range sp.Months {
		sp.Months[m].Start = time.Date(year, time.Month(m+1), 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	}

	from, to := YearRange(year)
	for i := range expenses {
		e := &expenses[i]
		if e.Date < from || e.Date >= to {
			continue
		}
		s := e.SplitFor(userID)
		if s == nil {
			continue
		}
		month := time.UnixMilli(e.Date).UTC().Month()
		sp.Months[month-1].Total += s.Amount
		sp.Total += s.Amount
	}
	return sp
}
