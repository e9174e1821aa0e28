package analytics

import (
	"sort"

	"github.com/theirongolddev/envel/internal/ledger"
)

// CategoryCount pairs a category with how often it was used.
type CategoryCount struct {
	Category string
	Count    int
}

// TopCategories returns the n most used expense categories by transaction
// count, descending, ties broken by first appearance in the snapshot.
func TopCategories(snap ledger.Snapshot, n int) []CategoryCount {
	counts := make(map[string]int)
	order := make(map[string]int)
	for i, ex := range snap.Expenses {
		if ex.Category == "" {
			continue
		}
		if _, seen := counts[ex.Category]; !seen {
			order[ex.Category] = i
		}
		counts[ex.Category]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for cat, c := range counts {
		out = append(out, CategoryCount{Category: cat, Count: c})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return order[out[i].Category] < order[out[j].Category]
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// CategoryCounts returns the raw category frequency table.
func CategoryCounts(snap ledger.Snapshot) map[string]int {
	counts := make(map[string]int)
	for _, ex := range snap.Expenses {
		if ex.Category != "" {
			counts[ex.Category]++
		}
	}
	return counts
}

// DescriptionCounts returns the expense description frequency table, used
// for input autosuggestion.
func DescriptionCounts(snap ledger.Snapshot) map[string]int {
	counts := make(map[string]int)
	for _, ex := range snap.Expenses {
		if ex.Description != "" {
			counts[ex.Description]++
		}
	}
	return counts
}
