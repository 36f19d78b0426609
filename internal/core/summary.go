package core

import "github.com/shopspring/decimal"

// Summary holds aggregate totals over a collection of entries.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal
	Count        int
}

// Summarize computes totals from scratch. Order of entries does not matter.
// Entries with an unknown kind are counted but belong to neither total.
func Summarize(entries []Entry) Summary {
	income := decimal.Zero
	expense := decimal.Zero
	for _, e := range entries {
		switch e.Kind {
		case Income:
			income = income.Add(e.Amount)
		case Expense:
			expense = expense.Add(e.Amount)
		}
	}
	return Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
		Count:        len(entries),
	}
}

// FilterByKind returns the entries of the given kind, keeping their order.
// An empty kind returns a copy of all entries.
func FilterByKind(entries []Entry, kind Kind) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if kind == "" || e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// CountByKind returns the number of entries per kind.
func CountByKind(entries []Entry) map[Kind]int {
	counts := map[Kind]int{Income: 0, Expense: 0}
	for _, e := range entries {
		counts[e.Kind]++
	}
	return counts
}
