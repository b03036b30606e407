package recipe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/tend/internal/config"
	"github.com/theirongolddev/tend/internal/model"
)

const edamamBody = `{
  "hits": [
    {"recipe": {
      "label": "Lemon Chicken",
      "url": "https://example.com/lemon-chicken",
      "source": "Example Kitchen",
      "yield": 4,
      "calories": 2000,
      "totalTime": 35,
      "dietLabels": ["High-Protein"],
      "healthLabels": ["Gluten-Free", "Dairy-Free"],
      "mealType": ["lunch/dinner"],
      "ingredients": [
        {"food": "chicken thigh", "quantity": 800, "measure": "gram", "weight": 800},
        {"food": "lemon", "quantity": 2, "measure": "<unit>", "weight": 120},
        {"food": "salt", "quantity": 0, "measure": "", "weight": 4}
      ],
      "totalNutrients": {
        "PROCNT": {"quantity": 160, "unit": "g"},
        "CHOCDF": {"quantity": 20, "unit": "g"},
        "FAT": {"quantity": 100, "unit": "g"}
      }
    }},
    {"recipe": {"label": ""}}
  ]
}`

func TestEdamamSearch(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/recipes/v2", r.URL.Path)
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(edamamBody))
	}))
	defer srv.Close()

	c := NewEdamam("id", "key", srv.URL)
	require.NotNil(t, c)

	meals, err := c.Search(context.Background(), Query{Text: "chicken", Diet: "high-protein", Health: []string{"gluten-free"}})
	require.NoError(t, err)
	require.Len(t, meals, 1)

	assert.Equal(t, []string{"public"}, gotQuery["type"])
	assert.Equal(t, []string{"chicken"}, gotQuery["q"])
	assert.Equal(t, []string{"id"}, gotQuery["app_id"])
	assert.Equal(t, []string{"gluten-free"}, gotQuery["health"])

	m := meals[0]
	assert.Equal(t, "Lemon Chicken", m.Name)
	assert.Equal(t, 35, m.PrepMinutes)
	assert.Equal(t, model.Nutrition{Calories: 500, Protein: 40, Carbs: 5, Fat: 25}, m.Nutrition)
	assert.Equal(t, []string{"high-protein", "gluten-free", "dairy-free", "lunch", "dinner"}, m.Tags)

	require.Len(t, m.Ingredients, 3)
	assert.Equal(t, model.Ingredient{Name: "chicken thigh", Quantity: 200, Unit: "g", PerPerson: true}, m.Ingredients[0])
	assert.Equal(t, "pc", m.Ingredients[1].Unit)
	assert.Equal(t, model.Ingredient{Name: "salt", Quantity: 1, Unit: "g", PerPerson: true}, m.Ingredients[2])
}

const spoonacularBody = `{
  "results": [{
    "id": 7,
    "title": "Chickpea Curry",
    "readyInMinutes": 25,
    "servings": 2,
    "sourceUrl": "https://example.com/curry",
    "summary": "A <b>quick</b> curry.<script>x()</script> Serves <a href=\"#\">two</a>.",
    "diets": ["vegan"],
    "dishTypes": ["Dinner"],
    "extendedIngredients": [
      {"name": "chickpeas", "amount": 400, "unit": "g"},
      {"name": "coconut milk", "amount": 1, "unit": "cup"}
    ],
    "nutrition": {"nutrients": [
      {"name": "Calories", "amount": 512.34, "unit": "kcal"},
      {"name": "Protein", "amount": 18, "unit": "g"},
      {"name": "Carbohydrates", "amount": 55, "unit": "g"},
      {"name": "Fat", "amount": 24, "unit": "g"}
    ]}
  }]
}`

func TestSpoonacularSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/complexSearch", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, "true", r.URL.Query().Get("addRecipeInformation"))
		assert.Equal(t, "3", r.URL.Query().Get("number"))
		_, _ = w.Write([]byte(spoonacularBody))
	}))
	defer srv.Close()

	c := NewSpoonacular("secret", srv.URL)
	require.NotNil(t, c)

	meals, err := c.Search(context.Background(), Query{Text: "curry", Limit: 3})
	require.NoError(t, err)
	require.Len(t, meals, 1)

	m := meals[0]
	assert.Equal(t, "A quick curry. Serves two.", m.Summary)
	assert.Equal(t, model.Nutrition{Calories: 512.3, Protein: 18, Carbs: 55, Fat: 24}, m.Nutrition)
	assert.Equal(t, []string{"vegan", "dinner"}, m.Tags)
	assert.Equal(t, model.Ingredient{Name: "chickpeas", Quantity: 200, Unit: "g", PerPerson: true}, m.Ingredients[0])
	assert.Equal(t, "cup", m.Ingredients[1].Unit)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusPaymentRequired, ErrRateLimited},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := NewSpoonacular("k", srv.URL).Search(context.Background(), Query{Text: "x"})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	_, err := NewEdamam("a", "b", srv.URL).Search(context.Background(), Query{Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hits": [`))
	}))
	defer srv.Close()
	_, err := NewEdamam("a", "b", srv.URL).Search(context.Background(), Query{Text: "x"})
	assert.Error(t, err)
}

func TestConstructorsRequireCredentials(t *testing.T) {
	assert.Nil(t, NewEdamam("", "key", ""))
	assert.Nil(t, NewEdamam("id", "  ", ""))
	assert.Nil(t, NewSpoonacular("", ""))

	t.Setenv("TEND_EDAMAM_APP_ID", "")
	t.Setenv("TEND_EDAMAM_APP_KEY", "")
	t.Setenv("TEND_SPOONACULAR_KEY", "")
	cfg := config.DefaultConfig()
	assert.Empty(t, FromConfig(cfg))

	cfg.Recipes.SpoonacularKey = "k"
	providers := FromConfig(cfg)
	require.Len(t, providers, 1)
	assert.Equal(t, "spoonacular", providers[0].Name())
}

type fakeProvider struct {
	name  string
	meals []model.Meal
	err   error
}

func (f fakeProvider) Name() string { return f.name }

func (f fakeProvider) Search(context.Context, Query) ([]model.Meal, error) {
	return f.meals, f.err
}

func TestSuggestIsBestEffort(t *testing.T) {
	providers := []Provider{
		fakeProvider{name: "a", meals: []model.Meal{{Name: "Soup"}, {Name: "Salad"}}},
		fakeProvider{name: "broken", err: errors.New("boom")},
		fakeProvider{name: "b", meals: []model.Meal{{Name: "soup"}, {Name: "Stew"}}},
	}

	got := Suggest(context.Background(), providers, Query{Text: "x"})
	var names []string
	for _, m := range got {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Soup", "Salad", "Stew"}, names)

	limited := Suggest(context.Background(), providers, Query{Text: "x", Limit: 2})
	assert.Len(t, limited, 2)

	assert.Empty(t, Suggest(context.Background(), providers[1:2], Query{Text: "x"}))
	assert.Empty(t, Suggest(context.Background(), nil, Query{Text: "x"}))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "plain text", StripHTML("  plain \n text "))
	assert.Equal(t, "Fish & chips", StripHTML("<p>Fish &amp; chips</p>"))
}
