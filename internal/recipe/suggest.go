package recipe

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/theirongolddev/tend/internal/config"
	"github.com/theirongolddev/tend/internal/model"
)

// FromConfig returns the providers that have credentials configured.
func FromConfig(cfg config.Config) []Provider {
	var providers []Provider
	appID, appKey := config.GetEdamamCredentials(cfg)
	if c := NewEdamam(appID, appKey, cfg.Recipes.EdamamURL); c != nil {
		providers = append(providers, c)
	}
	if c := NewSpoonacular(config.GetSpoonacularKey(cfg), cfg.Recipes.SpoonacularURL); c != nil {
		providers = append(providers, c)
	}
	return providers
}

// Suggest queries every provider concurrently and merges what succeeds, in
// provider order, dropping duplicate names. Provider errors are logged and
// otherwise ignored, so the worst case is no suggestions.
func Suggest(ctx context.Context, providers []Provider, q Query) []model.Meal {
	results := make([][]model.Meal, len(providers))
	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			meals, err := p.Search(ctx, q)
			if err != nil {
				slog.Warn("recipe lookup failed", "provider", p.Name(), "err", err)
				return
			}
			results[i] = meals
		}(i, p)
	}
	wg.Wait()

	seen := make(map[string]bool)
	var out []model.Meal
	for _, meals := range results {
		for _, m := range meals {
			key := strings.ToLower(m.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, m)
			if q.Limit > 0 && len(out) == q.Limit {
				return out
			}
		}
	}
	return out
}
