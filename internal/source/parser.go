// Package source reads key/value dumps exported from the mobile app: one JSON
// object mapping each storage key to its value, where the value is either
// the JSON-encoded string the app stored or the raw JSON itself.
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/store"
)

// maxDumpSize bounds how much of a dump is read into memory.
const maxDumpSize = 64 << 20

// ParseFile reads a dump and validates every recognized key against the
// record type it holds. Unknown keys are collected and skipped. A value that
// does not decode counts as a parse error and is left out.
func ParseFile(df DiscoveredFile) ParseResult {
	res := ParseResult{File: df}

	if df.Size > maxDumpSize {
		res.Err = fmt.Errorf("%s is %d bytes, larger than the %d byte limit", df.Path, df.Size, maxDumpSize)
		return res
	}
	data, err := os.ReadFile(df.Path)
	if err != nil {
		res.Err = err
		return res
	}

	values, unknown, parseErrors, err := Parse(data)
	if err != nil {
		res.Err = fmt.Errorf("parsing %s: %w", df.Path, err)
		return res
	}
	res.Values = values
	res.Unknown = unknown
	res.ParseErrors = parseErrors
	return res
}

// Parse decodes a dump held in memory.
func Parse(data []byte) (values map[string]json.RawMessage, unknown []string, parseErrors int, err error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, nil, 0, fmt.Errorf("dump is not a JSON object: %w", err)
	}

	values = make(map[string]json.RawMessage)
	for rawKey, raw := range top {
		key, ok := featureKey(rawKey)
		if !ok {
			unknown = append(unknown, rawKey)
			continue
		}

		inner, err := unwrap(raw)
		if err != nil {
			slog.Warn("skipping malformed import value", "key", rawKey, "err", err)
			parseErrors++
			continue
		}
		if inner == nil {
			continue
		}

		var scratch model.Snapshot
		if err := json.Unmarshal(inner, Target(&scratch, key)); err != nil {
			slog.Warn("skipping malformed import value", "key", rawKey, "err", err)
			parseErrors++
			continue
		}
		values[key] = inner
	}

	sort.Strings(unknown)
	if len(unknown) > 0 {
		slog.Debug("ignoring unknown import keys", "keys", unknown)
	}
	return values, unknown, parseErrors, nil
}

// Apply decodes values into snap, replacing each collection present.
func Apply(snap *model.Snapshot, values map[string]json.RawMessage) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		dst := Target(snap, key)
		if dst == nil {
			continue
		}
		if err := json.Unmarshal(values[key], dst); err != nil {
			return fmt.Errorf("applying %s: %w", key, err)
		}
	}
	return nil
}

// Target returns a pointer to the snapshot field stored under key, or nil.
func Target(snap *model.Snapshot, key string) any {
	switch key {
	case store.KeyTransactions:
		snap.Transactions = nil
		return &snap.Transactions
	case store.KeyBudgetSettings:
		snap.BudgetSettings = model.BudgetSettings{}
		return &snap.BudgetSettings
	case store.KeyScheduledPayments:
		snap.ScheduledPayments = nil
		return &snap.ScheduledPayments
	case store.KeyCalendarEvents:
		snap.Events = nil
		return &snap.Events
	case store.KeyTodos:
		snap.Todos = nil
		return &snap.Todos
	case store.KeyHabits:
		snap.Habits = nil
		return &snap.Habits
	case store.KeyMealPlan:
		snap.MealPlan = nil
		return &snap.MealPlan
	case store.KeyCustomMeals:
		snap.CustomMeals = nil
		return &snap.CustomMeals
	case store.KeyCycleSettings:
		snap.CycleSettings = model.CycleSettings{}
		return &snap.CycleSettings
	case store.KeyCycleLog:
		snap.CycleLog = nil
		return &snap.CycleLog
	case store.KeySleepLog:
		snap.SleepLog = nil
		return &snap.SleepLog
	case store.KeyWaterLog:
		snap.WaterLog = nil
		return &snap.WaterLog
	case store.KeyProfile:
		snap.Profile = model.Profile{}
		return &snap.Profile
	}
	return nil
}

// featureKey maps a dump key to a feature key. Namespaced keys such as
// "@tend:habits" or "tend/habits" match on their last segment.
func featureKey(raw string) (string, bool) {
	k := strings.TrimSpace(raw)
	if i := strings.LastIndexAny(k, ":/"); i >= 0 {
		k = k[i+1:]
	}
	for _, known := range store.AllKeys {
		if strings.EqualFold(k, known) {
			return known, true
		}
	}
	return "", false
}

// unwrap returns the JSON a value holds. Strings are decoded once and their
// contents parsed as JSON, matching how the app serialized values. A JSON
// null yields nil.
func unwrap(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '"' {
		return trimmed, nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, err
	}
	inner := bytes.TrimSpace([]byte(s))
	if len(inner) == 0 || bytes.Equal(inner, []byte("null")) {
		return nil, nil
	}
	if !json.Valid(inner) {
		return nil, errors.New("string value is not JSON")
	}
	return inner, nil
}
