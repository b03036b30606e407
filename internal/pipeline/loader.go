package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/theirongolddev/tend/internal/state"
	"github.com/theirongolddev/tend/internal/store"
)

// LoadResult holds the output of loading the persisted state.
type LoadResult struct {
	State *state.State
	// Keys counts the feature keys that held data.
	Keys    int
	Elapsed time.Duration
}

// ProgressFunc is called during long operations to report progress.
// current is the number of items processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load reads every feature collection from kv.
func Load(kv *store.Store, opts ...state.Option) (*LoadResult, error) {
	t0 := time.Now()

	st, err := state.Load(kv, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}

	present, err := kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	known := make(map[string]bool, len(store.AllKeys))
	for _, k := range store.AllKeys {
		known[k] = true
	}
	result := &LoadResult{State: st}
	for _, k := range present {
		if known[k] {
			result.Keys++
		}
	}
	result.Elapsed = time.Since(t0)

	slog.Debug("state loaded", "keys", result.Keys, "elapsed", result.Elapsed)
	return result, nil
}

// Open opens the store at dbPath and loads it. The caller closes the
// returned store.
func Open(dbPath string, opts ...state.Option) (*store.Store, *LoadResult, error) {
	kv, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", dbPath, err)
	}
	result, err := Load(kv, opts...)
	if err != nil {
		_ = kv.Close()
		return nil, nil, err
	}
	return kv, result, nil
}
