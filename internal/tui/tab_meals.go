package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tend/internal/meal"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/tui/components"
	"github.com/theirongolddev/tend/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const shoppingListVisible = 14

func (a App) renderMealsTab(cw int) string {
	t := theme.Active
	days := meal.WeekDays(a.today.Day, a.cfg.WeekStartDay())
	plan := a.st.MealPlan()
	catalog := a.st.Catalog()

	nutrition := make(map[string]model.Nutrition)
	for _, dn := range meal.PlanNutrition(plan, catalog) {
		nutrition[dn.Day] = dn.Total
	}

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	dayStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	todayStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	inner := components.CardInnerWidth(cw)
	colW := (inner - 12 - 10) / len(model.Slots)
	if colW < 8 {
		colW = 8
	}

	var b strings.Builder
	b.WriteString(headStyle.Render(fmt.Sprintf("%-12s", "Day")))
	for _, slot := range model.Slots {
		b.WriteString(headStyle.Render(fmt.Sprintf("%-*s", colW, slot)))
	}
	b.WriteString(headStyle.Render(fmt.Sprintf("%10s", "kcal")))
	b.WriteString("\n")

	todayKey := model.DayKey(a.today.Day)
	for _, d := range days {
		key := model.DayKey(d)
		style := dayStyle
		if key == todayKey {
			style = todayStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%-12s", d.Format("Mon Jan 2"))))

		entries := meal.ForDay(plan, key)
		for _, slot := range model.Slots {
			e, ok := entries[slot]
			if !ok {
				b.WriteString(dimStyle.Render(fmt.Sprintf("%-*s", colW, "·")))
				continue
			}
			name := e.MealName
			if e.Servings > 1 {
				name = fmt.Sprintf("%s ×%d", name, e.Servings)
			}
			b.WriteString(cellStyle.Render(fmt.Sprintf("%-*s", colW, truncStr(name, colW-1))))
		}
		if n, ok := nutrition[key]; ok {
			b.WriteString(cellStyle.Render(fmt.Sprintf("%10.0f", n.Calories)))
		} else {
			b.WriteString(dimStyle.Render(fmt.Sprintf("%10s", "-")))
		}
		b.WriteString("\n")
	}

	planCard := components.ContentCard("This week", strings.TrimRight(b.String(), "\n"), cw)

	from := days[0]
	to := days[len(days)-1].AddDate(0, 0, 1)
	items := meal.ShoppingList(meal.InWindow(plan, from, to), catalog)
	var shop string
	if len(items) == 0 {
		shop = components.EmptyState("Plan meals with `tend meal set` to build a list")
	} else {
		lines := meal.Lines(items)
		more := 0
		if len(lines) > shoppingListVisible {
			more = len(lines) - shoppingListVisible
			lines = lines[:shoppingListVisible]
		}
		for i, l := range lines {
			lines[i] = cellStyle.Render("• " + l)
		}
		if more > 0 {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("… and %d more", more)))
		}
		shop = strings.Join(lines, "\n")
	}

	tags := catalog.Tags()
	catalogBody := cellStyle.Render(fmt.Sprintf("%d meals", catalog.Len())) + "\n" +
		dimStyle.Render(truncStr(strings.Join(tags, ", "), components.CardInnerWidth(cw/2)*3))

	if a.isCompactLayout() {
		return planCard + "\n" +
			components.ContentCard("Shopping list", shop, cw) + "\n" +
			components.ContentCard("Catalog", catalogBody, cw)
	}
	widths := components.LayoutRow(cw, 2)
	return planCard + "\n" + components.CardRow([]string{
		components.ContentCard("Shopping list", shop, widths[0]),
		components.ContentCard("Catalog", catalogBody, widths[1]),
	})
}
