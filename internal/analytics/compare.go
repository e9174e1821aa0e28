// Package analytics builds the read-side historical series: trailing
// weekly/monthly comparison buckets and frequency tables for the UI.
package analytics

import (
	"fmt"
	"time"

	"github.com/theirongolddev/envel/internal/dates"
	"github.com/theirongolddev/envel/internal/ledger"
	"github.com/theirongolddev/envel/internal/stats"
)

// PeriodType selects the comparison granularity.
type PeriodType string

const (
	Weekly  PeriodType = "weekly"
	Monthly PeriodType = "monthly"
)

// Bucket counts per-period comparison series.
const (
	weeklyBuckets  = 4
	monthlyBuckets = 6
)

// Bucket holds the totals for one trailing period.
type Bucket struct {
	Label            string
	Start            string // first day of the period
	End              string // last day of the period
	IncomeSum        float64
	ExpenseSum       float64
	TransactionCount int
	AvgDailySpend    float64
}

// Comparisons builds the trailing period series: 4 weekly or 6 monthly
// buckets, oldest first. Planned transactions dated after today are
// excluded from every bucket; only movements realised as of now count.
// A non-empty userFilter restricts to that user's transactions.
func Comparisons(snap ledger.Snapshot, clock dates.Clock, period PeriodType, userFilter string) []Bucket {
	today := clock.Today()

	var buckets []Bucket
	if period == Monthly {
		buckets = monthlyRanges(today)
	} else {
		buckets = weeklyRanges(today)
	}

	for i := range buckets {
		b := &buckets[i]
		for _, in := range snap.Incomes {
			if userFilter != "" && in.UserID != userFilter {
				continue
			}
			if !in.RealisedAsOf(today) {
				continue
			}
			if in.Date >= b.Start && in.Date <= b.End {
				b.IncomeSum += in.Amount
				b.TransactionCount++
			}
		}
		for _, ex := range snap.Expenses {
			if userFilter != "" && ex.UserID != userFilter {
				continue
			}
			if !ex.RealisedAsOf(today) {
				continue
			}
			if ex.Date >= b.Start && ex.Date <= b.End {
				b.ExpenseSum += ex.Cost()
				b.TransactionCount++
			}
		}
		days := dates.DaysBetween(b.Start, b.End)
		if days > 0 {
			b.AvgDailySpend = b.ExpenseSum / float64(days)
		}
	}

	return buckets
}

func weeklyRanges(today string) []Bucket {
	currentStart := dates.WeekStart(today)
	buckets := make([]Bucket, 0, weeklyBuckets)
	for i := weeklyBuckets - 1; i >= 0; i-- {
		start := dates.AddDays(currentStart, -7*i)
		end := dates.AddDays(start, 6)
		buckets = append(buckets, Bucket{
			Label: fmt.Sprintf("wk %s", start),
			Start: start,
			End:   end,
		})
	}
	return buckets
}

func monthlyRanges(today string) []Bucket {
	t, err := time.Parse("2006-01-02", today)
	if err != nil {
		return nil
	}
	buckets := make([]Bucket, 0, monthlyBuckets)
	for i := monthlyBuckets - 1; i >= 0; i-- {
		first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		last := first.AddDate(0, 1, -1)
		buckets = append(buckets, Bucket{
			Label: first.Format("Jan 2006"),
			Start: first.Format("2006-01-02"),
			End:   last.Format("2006-01-02"),
		})
	}
	return buckets
}

// SpendVolatility is the standard deviation of per-day realised expense
// totals over the trailing 30 days, a companion figure to the median.
func SpendVolatility(l *ledger.Ledger) float64 {
	return stats.StdDev(l.DailySpendSeries(30))
}
