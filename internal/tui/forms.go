package tui

import (
	"strconv"
	"strings"

	"github.com/theirongolddev/tend/internal/budget"
	"github.com/theirongolddev/tend/internal/config"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// setupValues receives the first-run wizard answers.
type setupValues struct {
	weekStart string
	period    string
	currency  string
	waterGoal string
	theme     string
}

// txValues receives the quick-add transaction answers.
type txValues struct {
	kind     string
	amount   string
	category string
	name     string
	variable bool
}

func validWaterGoal(s string) error {
	ml, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || ml < 250 || ml > 10000 {
		return model.Invalid("water goal", "enter a number of ml between 250 and 10000")
	}
	return nil
}

func newSetupForm(cfg config.Config, vals *setupValues) *huh.Form {
	*vals = setupValues{
		weekStart: cfg.General.WeekStart,
		period:    cfg.Budget.Period,
		currency:  cfg.Budget.Currency,
		waterGoal: strconv.Itoa(cfg.Water.DailyGoalML),
		theme:     cfg.Appearance.Theme,
	}

	themeOpts := huh.NewOptions(theme.Names()...)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to tend").
				Description("A few preferences to get started.\nRun `tend setup` or use the Settings tab to change them later."),
			huh.NewSelect[string]().
				Title("First day of the week").
				Options(
					huh.NewOption("Monday", "monday"),
					huh.NewOption("Sunday", "sunday"),
				).
				Value(&vals.weekStart),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Budget period").
				Options(
					huh.NewOption("Monthly", string(model.Monthly)),
					huh.NewOption("Weekly", string(model.Weekly)),
				).
				Value(&vals.period),
			huh.NewInput().
				Title("Currency symbol").
				Value(&vals.currency),
			huh.NewInput().
				Title("Daily water goal (ml)").
				Value(&vals.waterGoal).
				Validate(validWaterGoal),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
		),
	).WithShowHelp(true)
}

// applySetup merges the wizard answers into cfg.
func applySetup(cfg config.Config, vals setupValues) config.Config {
	cfg.General.WeekStart = vals.weekStart
	cfg.Budget.Period = vals.period
	if c := strings.TrimSpace(vals.currency); c != "" {
		cfg.Budget.Currency = c
	}
	if ml, err := strconv.Atoi(strings.TrimSpace(vals.waterGoal)); err == nil {
		cfg.Water.DailyGoalML = ml
	}
	cfg.Appearance.Theme = vals.theme
	return cfg
}

func newTransactionForm(vals *txValues, currency string) *huh.Form {
	*vals = txValues{kind: string(model.Expense)}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Expense", string(model.Expense)),
					huh.NewOption("Income", string(model.Income)),
				).
				Value(&vals.kind),
			huh.NewInput().
				Title("Amount ("+currency+")").
				Value(&vals.amount).
				Validate(func(s string) error {
					_, err := budget.ParseAmount("amount", s)
					return err
				}),
			huh.NewInput().
				Title("Category").
				Value(&vals.category).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return model.Invalid("category", "required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Name (optional)").
				Value(&vals.name),
			huh.NewConfirm().
				Title("Variable amount?").
				Description("Variable expenses count once the actual amount is logged.").
				Value(&vals.variable),
		),
	).WithShowHelp(true)
}

// transactionFrom converts the form answers into a transaction dated day.
func transactionFrom(vals txValues, day string) (model.Transaction, error) {
	amount, err := budget.ParseAmount("amount", vals.amount)
	if err != nil {
		return model.Transaction{}, err
	}
	tx := model.Transaction{
		Type:     model.TxType(vals.kind),
		Category: strings.TrimSpace(vals.category),
		Name:     strings.TrimSpace(vals.name),
		Date:     day,
		Amount:   amount,
		Variable: vals.variable && vals.kind == string(model.Expense),
	}
	return tx, budget.ValidateTransaction(tx)
}

func (a *App) openForm(kind formKind) tea.Cmd {
	switch kind {
	case formSetup:
		a.setupVals = &setupValues{}
		a.form = newSetupForm(a.cfg, a.setupVals)
	case formTransaction:
		a.txVals = &txValues{}
		a.form = newTransactionForm(a.txVals, a.cfg.Budget.Currency)
	default:
		return nil
	}
	a.formKind = kind
	if a.width > 0 {
		a.form = a.form.WithWidth(a.width).WithHeight(a.height)
	}
	return a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		a.finishForm()
		a.closeForm()
		return a, nil
	case huh.StateAborted:
		a.closeForm()
		return a, nil
	}
	return a, cmd
}

func (a *App) closeForm() {
	if a.formKind == formSetup {
		a.needSetup = false
	}
	a.form = nil
	a.formKind = formNone
}

func (a *App) finishForm() {
	switch a.formKind {
	case formSetup:
		a.cfg = applySetup(a.cfg, *a.setupVals)
		theme.SetActive(a.cfg.Appearance.Theme)
		if err := config.Save(a.cfg); err != nil {
			a.flashErr(err)
		} else {
			a.flash("Preferences saved")
		}
		a.recompute()

	case formTransaction:
		tx, err := transactionFrom(*a.txVals, model.DayKey(a.today.Day))
		if err == nil {
			tx, err = a.st.AddTransaction(tx)
		}
		if err != nil {
			a.flashErr(err)
			return
		}
		a.recompute()
		a.flash("Added " + txLabel(tx))
	}
}
