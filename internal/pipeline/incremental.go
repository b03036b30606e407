package pipeline

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/tend/internal/source"
	"github.com/theirongolddev/tend/internal/state"
	"github.com/theirongolddev/tend/internal/store"
)

// importLogKey records which dumps have been imported. It lives beside the
// feature keys but is not part of the snapshot.
const importLogKey = "importLog"

// importedFile is what the import log remembers about a dump.
type importedFile struct {
	MtimeNs   int64 `json:"mtimeNs"`
	SizeBytes int64 `json:"sizeBytes"`
}

// ImportResult summarizes an import run.
type ImportResult struct {
	TotalFiles  int
	ParsedFiles int
	// Unchanged counts dumps skipped because they were already imported.
	Unchanged   int
	FileErrors  int
	ParseErrors int
	UnknownKeys int
	// Keys lists the feature keys replaced, sorted.
	Keys []string
}

// Import parses the given dumps in parallel and applies them oldest first,
// so for each key the newest dump that carries it wins. Dumps already
// imported with the same mtime and size are skipped unless force is set.
func Import(st *state.State, kv *store.Store, files []source.DiscoveredFile, force bool, progressFn ProgressFunc) (*ImportResult, error) {
	result := &ImportResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	tracked := make(map[string]importedFile)
	if err := store.Load(kv, importLogKey, &tracked); err != nil {
		return nil, fmt.Errorf("reading import log: %w", err)
	}

	// Diff: partition into changed and unchanged
	var toParse []source.DiscoveredFile
	for _, f := range files {
		prev, ok := tracked[f.Path]
		if !force && ok && prev.MtimeNs == f.ModTime.UnixNano() && prev.SizeBytes == f.Size {
			result.Unchanged++
			continue
		}
		toParse = append(toParse, f)
	}
	if len(toParse) == 0 {
		return result, nil
	}
	sort.SliceStable(toParse, func(i, j int) bool {
		return toParse[i].ModTime.Before(toParse[j].ModTime)
	})

	results := parseAll(toParse, func(n int) {
		if progressFn != nil {
			progressFn(n+result.Unchanged, result.TotalFiles)
		}
	})

	snap := st.Snapshot()
	replaced := make(map[string]bool)
	for i, pr := range results {
		if pr.Err != nil {
			result.FileErrors++
			continue
		}
		result.ParsedFiles++
		result.ParseErrors += pr.ParseErrors
		result.UnknownKeys += len(pr.Unknown)
		if err := source.Apply(&snap, pr.Values); err != nil {
			return nil, err
		}
		for k := range pr.Values {
			replaced[k] = true
		}
		tracked[toParse[i].Path] = importedFile{
			MtimeNs:   toParse[i].ModTime.UnixNano(),
			SizeBytes: toParse[i].Size,
		}
	}

	if len(replaced) > 0 {
		if err := st.Replace(snap); err != nil {
			return nil, fmt.Errorf("saving import: %w", err)
		}
	}
	if err := store.Save(kv, importLogKey, tracked); err != nil {
		return nil, fmt.Errorf("saving import log: %w", err)
	}

	for k := range replaced {
		result.Keys = append(result.Keys, k)
	}
	sort.Strings(result.Keys)
	return result, nil
}

// parseAll parses files with a bounded worker pool, keeping input order.
func parseAll(files []source.DiscoveredFile, progress func(n int)) []source.ParseResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx])
				progress(int(processed.Add(1)))
			}
		}()
	}
	wg.Wait()

	return results
}
