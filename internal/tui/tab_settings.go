package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/tend/internal/config"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/tui/components"
	"github.com/theirongolddev/tend/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldTheme = iota
	settingsFieldWeekStart
	settingsFieldDays
	settingsFieldCurrency
	settingsFieldWaterGoal
	settingsFieldGlass
	settingsFieldSleepTarget
	settingsFieldSpoonacular
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := a.cfg
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldWeekStart:
		ti.Placeholder = "monday or sunday"
		ti.SetValue(cfg.General.WeekStart)
	case settingsFieldDays:
		ti.Placeholder = "7"
		ti.SetValue(strconv.Itoa(cfg.General.DefaultDays))
	case settingsFieldCurrency:
		ti.Placeholder = "$"
		ti.SetValue(cfg.Budget.Currency)
	case settingsFieldWaterGoal:
		ti.Placeholder = "2000 (ml)"
		ti.SetValue(strconv.Itoa(cfg.Water.DailyGoalML))
	case settingsFieldGlass:
		ti.Placeholder = "250 (ml)"
		ti.SetValue(strconv.Itoa(cfg.Water.GlassML))
	case settingsFieldSleepTarget:
		ti.Placeholder = "8 (hours)"
		ti.SetValue(strconv.FormatFloat(cfg.Sleep.TargetHours, 'f', -1, 64))
	case settingsFieldSpoonacular:
		ti.Placeholder = "Spoonacular API key (empty to clear)"
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
		ti.SetValue(cfg.Recipes.SpoonacularKey)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// applySetting validates val for field and returns the updated config.
func applySetting(cfg config.Config, field int, val string) (config.Config, error) {
	atoi := func(name string, lo, hi int) (int, error) {
		n, err := strconv.Atoi(val)
		if err != nil || n < lo || n > hi {
			return 0, model.Invalid(name, "must be a whole number between %d and %d", lo, hi)
		}
		return n, nil
	}

	switch field {
	case settingsFieldTheme:
		if _, ok := theme.Lookup(val); !ok {
			return cfg, model.Invalid("theme", "unknown theme %q, choose one of %s", val, strings.Join(theme.Names(), ", "))
		}
		cfg.Appearance.Theme = val
	case settingsFieldWeekStart:
		v := strings.ToLower(val)
		if v != "monday" && v != "sunday" {
			return cfg, model.Invalid("week start", "must be monday or sunday")
		}
		cfg.General.WeekStart = v
	case settingsFieldDays:
		n, err := atoi("default days", 1, 365)
		if err != nil {
			return cfg, err
		}
		cfg.General.DefaultDays = n
	case settingsFieldCurrency:
		if val == "" {
			return cfg, model.Invalid("currency", "required")
		}
		cfg.Budget.Currency = val
	case settingsFieldWaterGoal:
		n, err := atoi("water goal", 250, 10000)
		if err != nil {
			return cfg, err
		}
		cfg.Water.DailyGoalML = n
	case settingsFieldGlass:
		n, err := atoi("glass size", 1, 5000)
		if err != nil {
			return cfg, err
		}
		cfg.Water.GlassML = n
	case settingsFieldSleepTarget:
		h, err := strconv.ParseFloat(val, 64)
		if err != nil || h < 1 || h > 16 {
			return cfg, model.Invalid("sleep target", "must be between 1 and 16 hours")
		}
		cfg.Sleep.TargetHours = h
	case settingsFieldSpoonacular:
		cfg.Recipes.SpoonacularKey = val
	}
	return cfg, nil
}

func (a *App) settingsSave() {
	cfg, err := applySetting(a.cfg, a.settings.cursor, strings.TrimSpace(a.settings.input.Value()))
	if err != nil {
		a.settings.saveErr = err
		return
	}
	if err := config.Save(cfg); err != nil {
		a.settings.saveErr = err
		return
	}
	a.cfg = cfg
	a.settings.saveErr = nil
	theme.SetActive(cfg.Appearance.Theme)
	a.recompute()
}

func maskKey(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) > 12:
		return key[:8] + "..." + key[len(key)-4:]
	default:
		return "****"
	}
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := a.cfg

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	fields := []struct{ label, value string }{
		{"Theme", cfg.Appearance.Theme},
		{"Week Starts", cfg.General.WeekStart},
		{"Default Days", strconv.Itoa(cfg.General.DefaultDays)},
		{"Currency", cfg.Budget.Currency},
		{"Water Goal", fmt.Sprintf("%d ml", cfg.Water.DailyGoalML)},
		{"Glass Size", fmt.Sprintf("%d ml", cfg.Water.GlassML)},
		{"Sleep Target", fmt.Sprintf("%.1f h", cfg.Sleep.TargetHours)},
		{"Spoonacular Key", maskKey(config.GetSpoonacularKey(cfg))},
	}

	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if padLen := components.CardInnerWidth(cw) - usedWidth; padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Not saved: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Config file:   ") + valueStyle.Render(config.Path()) + "\n")
	infoBody.WriteString(labelStyle.Render("Database:      ") + valueStyle.Render(a.dbPath) + "\n")
	infoBody.WriteString(labelStyle.Render("Budget period: ") + valueStyle.Render(string(a.today.Period)) + "\n")
	infoBody.WriteString(labelStyle.Render("Load time:     ") + valueStyle.Render(a.loadTime.String()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))
	return b.String()
}
