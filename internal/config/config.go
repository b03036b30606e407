package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all tend configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Budget     BudgetConfig     `toml:"budget"`
	Cycle      CycleConfig      `toml:"cycle"`
	Water      WaterConfig      `toml:"water"`
	Sleep      SleepConfig      `toml:"sleep"`
	Recipes    RecipesConfig    `toml:"recipes"`
	Reminders  RemindersConfig  `toml:"reminders"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	WeekStart   string `toml:"week_start"`
	DefaultDays int    `toml:"default_days"`
	DataPath    string `toml:"data_path,omitempty"`
}

// BudgetConfig holds budget display settings. The income and category limits
// themselves live with the data, not here.
type BudgetConfig struct {
	Period   string `toml:"period"`
	Currency string `toml:"currency"`
}

// CycleConfig holds the defaults used until the user sets cycle settings.
type CycleConfig struct {
	Length         int  `toml:"length"`
	PeriodDuration int  `toml:"period_duration"`
	Predict        bool `toml:"predict"`
}

// WaterConfig holds hydration goals.
type WaterConfig struct {
	DailyGoalML int `toml:"daily_goal_ml"`
	GlassML     int `toml:"glass_ml"`
}

// SleepConfig holds sleep goals.
type SleepConfig struct {
	TargetHours float64 `toml:"target_hours"`
}

// RecipesConfig holds the optional recipe provider credentials.
type RecipesConfig struct {
	EdamamAppID    string `toml:"edamam_app_id,omitempty"`
	EdamamAppKey   string `toml:"edamam_app_key,omitempty"`
	EdamamURL      string `toml:"edamam_url,omitempty"`
	SpoonacularKey string `toml:"spoonacular_key,omitempty"`
	SpoonacularURL string `toml:"spoonacular_url,omitempty"`
	MaxSuggestions int    `toml:"max_suggestions"`
}

// RemindersConfig holds reminder daemon settings.
type RemindersConfig struct {
	Addr         string `toml:"addr"`
	IntervalSec  int    `toml:"interval_sec"`
	EventsBuffer int    `toml:"events_buffer"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			WeekStart:   "monday",
			DefaultDays: 7,
		},
		Budget: BudgetConfig{
			Period:   "monthly",
			Currency: "$",
		},
		Cycle: CycleConfig{
			Length:         28,
			PeriodDuration: 5,
			Predict:        true,
		},
		Water: WaterConfig{
			DailyGoalML: 2000,
			GlassML:     250,
		},
		Sleep: SleepConfig{
			TargetHours: 8,
		},
		Recipes: RecipesConfig{
			MaxSuggestions: 5,
		},
		Reminders: RemindersConfig{
			Addr:         "127.0.0.1:8787",
			IntervalSec:  30,
			EventsBuffer: 200,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tend")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tend")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tend")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "tend")
}

// DBPath returns the database location, honoring data_path.
func DBPath(cfg Config) string {
	if cfg.General.DataPath != "" {
		return cfg.General.DataPath
	}
	return filepath.Join(DataDir(), "tend.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
// A .env file next to it is loaded into the environment first.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	envFile := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("loading %s: %w", envFile, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// GetEdamamCredentials returns the Edamam app id and key from env or config.
func GetEdamamCredentials(cfg Config) (appID, appKey string) {
	appID = firstNonEmpty(os.Getenv("TEND_EDAMAM_APP_ID"), cfg.Recipes.EdamamAppID)
	appKey = firstNonEmpty(os.Getenv("TEND_EDAMAM_APP_KEY"), cfg.Recipes.EdamamAppKey)
	return appID, appKey
}

// GetSpoonacularKey returns the Spoonacular API key from env or config.
func GetSpoonacularKey(cfg Config) string {
	return firstNonEmpty(os.Getenv("TEND_SPOONACULAR_KEY"), cfg.Recipes.SpoonacularKey)
}

// WeekStartDay parses general.week_start. Anything but "sunday" is Monday.
func (c Config) WeekStartDay() time.Weekday {
	if strings.EqualFold(strings.TrimSpace(c.General.WeekStart), "sunday") {
		return time.Sunday
	}
	return time.Monday
}

// PollInterval returns the reminder poll interval.
func (c Config) PollInterval() time.Duration {
	if c.Reminders.IntervalSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Reminders.IntervalSec) * time.Second
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
