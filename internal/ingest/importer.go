package ingest

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/envel/internal/store"
)

// ProgressFunc reports files processed out of the total.
type ProgressFunc func(done, total int)

// Result summarizes one import run.
type Result struct {
	TotalFiles  int
	Skipped     int // unchanged since the last run
	Imported    int // files parsed this run
	FileErrors  int
	RowErrors   int
	NewIncomes  int
	NewExpenses int
}

// Importer loads bank CSV exports into the store, skipping files whose
// fingerprint has not changed since the previous run.
type Importer struct {
	st     *store.Store
	userID string
	dryRun bool
}

// New builds an importer writing rows for the given user. With dryRun set
// it parses and counts but never writes.
func New(st *store.Store, userID string, dryRun bool) *Importer {
	return &Importer{st: st, userID: userID, dryRun: dryRun}
}

// Run discovers CSV files under root, diffs against the tracked file
// fingerprints, parses only changed files in parallel, and inserts their
// rows. Row IDs are content-derived, so reruns replace rather than
// duplicate.
func (im *Importer) Run(ctx context.Context, root string, progressFn ProgressFunc) (*Result, error) {
	files, err := ScanDir(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	res := &Result{TotalFiles: len(files)}
	if len(files) == 0 {
		return res, nil
	}

	tracked, err := im.st.TrackedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading import state: %w", err)
	}

	var toParse []DiscoveredFile
	states := make(map[string]store.FileState)
	for _, f := range files {
		info, err := os.Stat(f.Path)
		if err != nil {
			res.FileErrors++
			continue
		}
		prev, ok := tracked[f.Path]
		if ok && prev.MtimeNs == info.ModTime().UnixNano() && prev.SizeBytes == info.Size() {
			res.Skipped++
			continue
		}
		states[f.Path] = store.FileState{
			Path:      f.Path,
			MtimeNs:   info.ModTime().UnixNano(),
			SizeBytes: info.Size(),
		}
		toParse = append(toParse, f)
	}

	if len(toParse) == 0 {
		return res, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(toParse) {
		numWorkers = len(toParse)
	}

	work := make(chan int, len(toParse))
	results := make([]ParseResult, len(toParse))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range toParse {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = ParseFile(toParse[idx], im.userID)
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n)+res.Skipped, res.TotalFiles)
				}
			}
		}()
	}
	wg.Wait()

	for i, pr := range results {
		if pr.Err != nil {
			res.FileErrors++
			continue
		}
		res.Imported++
		res.RowErrors += pr.RowErrors
		res.NewIncomes += len(pr.Incomes)
		res.NewExpenses += len(pr.Expenses)

		if im.dryRun {
			continue
		}
		for _, in := range pr.Incomes {
			if err := im.st.AddIncome(ctx, in); err != nil {
				return nil, fmt.Errorf("inserting income from %s: %w", toParse[i].Path, err)
			}
		}
		for _, ex := range pr.Expenses {
			if err := im.st.AddExpense(ctx, ex); err != nil {
				return nil, fmt.Errorf("inserting expense from %s: %w", toParse[i].Path, err)
			}
		}
		fs := states[toParse[i].Path]
		fs.ImportedRows = len(pr.Incomes) + len(pr.Expenses)
		if err := im.st.SaveFileState(ctx, fs); err != nil {
			return nil, fmt.Errorf("recording import state: %w", err)
		}
	}

	return res, nil
}
