package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByNameFallsBack(t *testing.T) {
	assert.Equal(t, "tokyo-night", ByName("tokyo-night").Name)
	assert.Equal(t, FlexokiDark.Name, ByName("no-such-theme").Name)

	_, ok := Lookup("no-such-theme")
	assert.False(t, ok)
}

func TestEveryThemeHasDomainRoles(t *testing.T) {
	for _, th := range All {
		assert.NotEmpty(t, th.Period, th.Name)
		assert.NotEmpty(t, th.Fertile, th.Name)
		assert.NotEmpty(t, th.Income, th.Name)
		assert.NotEmpty(t, th.Water, th.Name)
	}
	assert.Equal(t, []string{"flexoki-dark", "catppuccin-mocha", "tokyo-night", "terminal"}, Names())
}

func TestSetActive(t *testing.T) {
	orig := Active
	t.Cleanup(func() { Active = orig })

	SetActive("terminal")
	assert.Equal(t, "terminal", Active.Name)
}
