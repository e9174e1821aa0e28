package ledger

import (
	"sort"

	"github.com/theirongolddev/envel/internal/model"
)

// SourceBalance is the unspent remainder of one income after the FIFO walk.
type SourceBalance struct {
	Income model.Income
	Left   float64
}

// SourcesRemaining attributes realised spending to realised incomes in
// chronological order: each expense consumes the oldest income with balance
// left, spilling into the next when one is exhausted. When total expenses
// exceed total income the walk stops early and the excess stays
// unattributed; that partial attribution is the documented behavior, not an
// error.
//
// Realised here includes today's transactions, so on days with same-day
// activity the summed balances differ from AvailableFunds, which counts
// only days strictly before today. The walk answers "what is left of each
// income right now", not "what was available at the start of the day".
func (l *Ledger) SourcesRemaining() []SourceBalance {
	today := l.clock.Today()

	var incomes []model.Income
	for _, in := range l.snap.Incomes {
		if in.RealisedAsOf(today) {
			incomes = append(incomes, in)
		}
	}
	sort.SliceStable(incomes, func(i, j int) bool {
		return model.ChronoKey(incomes[i].Date, incomes[i].Time) <
			model.ChronoKey(incomes[j].Date, incomes[j].Time)
	})

	var expenses []model.Expense
	for _, ex := range l.snap.Expenses {
		if ex.RealisedAsOf(today) {
			expenses = append(expenses, ex)
		}
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		return model.ChronoKey(expenses[i].Date, expenses[i].Time) <
			model.ChronoKey(expenses[j].Date, expenses[j].Time)
	})

	balances := make([]SourceBalance, len(incomes))
	for i, in := range incomes {
		balances[i] = SourceBalance{Income: in, Left: in.Amount}
	}

	cursor := 0
	for _, ex := range expenses {
		cost := ex.Cost()
		for cost > 0 && cursor < len(balances) {
			b := &balances[cursor]
			if b.Left >= cost {
				b.Left -= cost
				cost = 0
			} else {
				cost -= b.Left
				b.Left = 0
				cursor++
			}
		}
		if cursor >= len(balances) {
			break
		}
	}

	return balances
}
