package source

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/store"
)

// writeDump creates a temp dump file and returns a DiscoveredFile for it.
func writeDump(t *testing.T, body string) DiscoveredFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return DiscoveredFile{Path: path, Size: int64(len(body))}
}

const sampleDump = `{
  "transactions": "[{\"id\":\"t1\",\"type\":\"expense\",\"category\":\"Food\",\"date\":\"2024-01-02\",\"amount\":\"12.50\",\"isVariable\":true}]",
  "@tend:habits": [{"id":"h1","name":"Walk","type":"daily_boolean","history":{"2024-01-01":1}}],
  "cycleSettings": "{\"startDate\":\"2024-01-01\",\"cycleLength\":30,\"periodDuration\":4}",
  "waterLog": "not json at all",
  "sleepLog": {"oops": 1},
  "profile": null,
  "theme": "dark",
  "onboardingSeen": true
}`

func TestParseFile_KnownAndUnknownKeys(t *testing.T) {
	res := ParseFile(writeDump(t, sampleDump))
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	if len(res.Values) != 3 {
		t.Errorf("recognized %d keys, want 3: %v", len(res.Values), keysOf(res.Values))
	}
	for _, k := range []string{store.KeyTransactions, store.KeyHabits, store.KeyCycleSettings} {
		if _, ok := res.Values[k]; !ok {
			t.Errorf("missing %s", k)
		}
	}
	if res.ParseErrors != 2 {
		t.Errorf("ParseErrors = %d, want 2 (waterLog, sleepLog)", res.ParseErrors)
	}
	if len(res.Unknown) != 2 || res.Unknown[0] != "onboardingSeen" || res.Unknown[1] != "theme" {
		t.Errorf("Unknown = %v, want [onboardingSeen theme]", res.Unknown)
	}
}

func TestApply(t *testing.T) {
	res := ParseFile(writeDump(t, sampleDump))
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	snap := model.Snapshot{
		Transactions: []model.Transaction{{ID: "old"}},
		Todos:        []model.Todo{{ID: "keep"}},
	}
	if err := Apply(&snap, res.Values); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if len(snap.Transactions) != 1 || snap.Transactions[0].ID != "t1" {
		t.Fatalf("Transactions = %+v", snap.Transactions)
	}
	tx := snap.Transactions[0]
	if tx.Amount.String() != "12.5" || !tx.Variable || !tx.Pending() {
		t.Errorf("transaction decoded wrong: %+v", tx)
	}
	if len(snap.Habits) != 1 || snap.Habits[0].History["2024-01-01"] != 1 {
		t.Errorf("Habits = %+v", snap.Habits)
	}
	if snap.CycleSettings.Length != 30 || snap.CycleSettings.PeriodDuration != 4 {
		t.Errorf("CycleSettings = %+v", snap.CycleSettings)
	}
	if len(snap.Todos) != 1 {
		t.Errorf("keys absent from the dump must be left alone, todos = %+v", snap.Todos)
	}
}

func TestParseFile_NotAnObject(t *testing.T) {
	for _, body := range []string{`[1,2,3]`, `{"transactions":`, ``} {
		if res := ParseFile(writeDump(t, body)); res.Err == nil {
			t.Errorf("ParseFile(%q) succeeded", body)
		}
	}
}

func TestParseFile_Missing(t *testing.T) {
	res := ParseFile(DiscoveredFile{Path: filepath.Join(t.TempDir(), "nope.json")})
	if res.Err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFeatureKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"transactions", store.KeyTransactions, true},
		{"@tend:mealPlan", store.KeyMealPlan, true},
		{"wellness/WATERLOG", store.KeyWaterLog, true},
		{" profile ", store.KeyProfile, true},
		{"settings", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := featureKey(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("featureKey(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.json")
	recent := filepath.Join(dir, "recent.JSON")
	for _, p := range []string{old, recent, filepath.Join(dir, "notes.txt")} {
		if err := os.WriteFile(p, []byte(`{}`), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.json"), 0o750); err != nil {
		t.Fatal(err)
	}
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(old, base, base); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(recent, base.Add(time.Hour), base.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("found %d dumps, want 2", len(files))
	}
	newest, ok := Newest(files)
	if !ok || newest.Path != recent {
		t.Errorf("Newest = %s, want %s", newest.Path, recent)
	}

	missing, err := ScanDir(filepath.Join(dir, "does-not-exist"))
	if err != nil || missing != nil {
		t.Errorf("missing dir = %v, %v; want nil, nil", missing, err)
	}
}

func keysOf(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// FuzzParse checks the dump parser never panics on arbitrary input.
func FuzzParse(f *testing.F) {
	f.Add([]byte(sampleDump))
	f.Add([]byte(`{}`))
	f.Add([]byte(`{"habits":"\"nested string\""}`))
	f.Add([]byte(`{"profile":"{"}`))
	f.Add([]byte(`null`))
	f.Add([]byte(``))

	f.Fuzz(func(t *testing.T, data []byte) {
		values, _, _, err := Parse(data)
		if err != nil {
			return
		}
		var snap model.Snapshot
		if err := Apply(&snap, values); err != nil {
			t.Errorf("Apply failed on values Parse accepted: %v", err)
		}
	})
}
