package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"foody/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(items []models.MenuItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestRecommend_DropsHardFailsAndSortsDescending(t *testing.T) {
	catalog := []models.MenuItem{
		dish("fifty", models.DietaryVeg, models.PortionShareable, models.SpiceNone, 500),
		dish("fail", models.DietaryNonVeg, models.PortionShareable, models.SpiceNone, 500),
		dish("hundred", models.DietaryVegan, models.PortionShareable, models.SpiceNone, 500),
	}
	prefs := Preferences{Dietary: models.DietaryVegan}

	require.Equal(t, 50, Score(catalog[0], prefs))
	require.Equal(t, HardFail, Score(catalog[1], prefs))
	require.Equal(t, 100, Score(catalog[2], prefs))

	got := Recommend(catalog, prefs, 3)
	assert.Equal(t, []string{"hundred", "fifty"}, ids(got))
}

func TestRecommend_TopNTruncation(t *testing.T) {
	catalog := make([]models.MenuItem, 0, 10)
	for i := 0; i < 10; i++ {
		catalog = append(catalog, dish(fmt.Sprintf("item-%d", i), models.DietaryVeg, models.PortionRegular, models.SpiceNone, float64(100+50*i)))
	}

	// 100 and 150 fit the low band, 200 and 250 are near misses, the rest are over
	got := Recommend(catalog, Preferences{Budget: BudgetLow}, 3)
	assert.Equal(t, []string{"item-0", "item-1", "item-2"}, ids(got))
}

func TestRecommend_TiesKeepCatalogOrder(t *testing.T) {
	catalog := []models.MenuItem{
		dish("c", models.DietaryVeg, models.PortionRegular, models.SpiceNone, 10),
		dish("a", models.DietaryVeg, models.PortionRegular, models.SpiceNone, 10),
		dish("b", models.DietaryVeg, models.PortionRegular, models.SpiceNone, 10),
		dish("d", models.DietaryVeg, models.PortionRegular, models.SpiceNone, 10),
	}

	got := Recommend(catalog, Preferences{}, 3)
	assert.Equal(t, []string{"c", "a", "b"}, ids(got))
}

func TestRecommend_NoPaddingWhenFewSurvive(t *testing.T) {
	catalog := []models.MenuItem{
		dish("veg", models.DietaryVeg, models.PortionRegular, models.SpiceNone, 10),
		dish("meat-1", models.DietaryNonVeg, models.PortionRegular, models.SpiceNone, 10),
		dish("meat-2", models.DietaryNonVeg, models.PortionRegular, models.SpiceNone, 10),
	}
	catalog[1].Category = models.CategoryCombos

	res := NewEngine().Rank(catalog, Preferences{Dietary: models.DietaryVeg}, 3)
	assert.False(t, res.Fallback)
	assert.Equal(t, []string{"veg"}, ids(res.Items))
}

func TestRecommend_DefaultTopN(t *testing.T) {
	catalog := make([]models.MenuItem, 0, 5)
	for i := 0; i < 5; i++ {
		catalog = append(catalog, dish(fmt.Sprintf("i%d", i), models.DietaryVeg, models.PortionRegular, models.SpiceNone, 10))
	}

	assert.Len(t, Recommend(catalog, Preferences{}, 0), DefaultTopN)
	assert.Len(t, NewEngine(WithTopN(4)).Rank(catalog, Preferences{}, -1).Items, 4)
	assert.Len(t, NewEngine(WithTopN(4)).Rank(catalog, Preferences{}, 2).Items, 2)

	assert.Equal(t, DefaultTopN, NewEngine().TopN())
	assert.Equal(t, 4, NewEngine(WithTopN(4)).TopN())
	assert.Equal(t, DefaultTopN, NewEngine(WithTopN(0)).TopN())
}

func fallbackCatalog() []models.MenuItem {
	burger := dish("burger", models.DietaryNonVeg, models.PortionRegular, models.SpiceMedium, 189)
	burger.Category = models.CategoryBurgers
	combo := dish("combo", models.DietaryNonVeg, models.PortionShareable, models.SpiceBold, 399)
	combo.Category = models.CategoryCombos
	wrap := dish("wrap", models.DietaryNonVeg, models.PortionLight, models.SpiceMild, 149)
	wrap.Category = models.CategoryWraps
	special := dish("special", models.DietaryNonVeg, models.PortionRegular, models.SpiceBold, 349)
	special.Category = models.CategorySpecials
	combo2 := dish("combo-2", models.DietaryNonVeg, models.PortionShareable, models.SpiceMild, 449)
	combo2.Category = models.CategoryCombos
	combo3 := dish("combo-3", models.DietaryNonVeg, models.PortionShareable, models.SpiceMild, 449)
	combo3.Category = models.CategoryCombos

	return []models.MenuItem{burger, combo, wrap, special, combo2, combo3}
}

func TestRecommend_FallbackOnlyOnTotalExclusion(t *testing.T) {
	catalog := fallbackCatalog()
	prefs := Preferences{Dietary: models.DietaryVegan}

	for _, item := range catalog {
		require.Equal(t, HardFail, Score(item, prefs))
	}

	res := NewEngine().Rank(catalog, prefs, 3)
	assert.True(t, res.Fallback)
	assert.Empty(t, res.Candidates)
	assert.Equal(t, []string{"combo", "special", "combo-2"}, ids(res.Items))
	assert.Equal(t, ids(res.Items), ids(Recommend(catalog, prefs, 3)))

	// a single survivor disables the fallback
	catalog = append(catalog, dish("salad", models.DietaryVegan, models.PortionLight, models.SpiceNone, 120))
	res = NewEngine().Rank(catalog, prefs, 3)
	assert.False(t, res.Fallback)
	assert.Equal(t, []string{"salad"}, ids(res.Items))
}

func TestRecommend_DietaryFallbackRespectsRestriction(t *testing.T) {
	vegan := Preferences{Dietary: models.DietaryVegan}

	strict := NewEngine(WithFallback(DietaryFallback))
	res := strict.Rank(fallbackCatalog(), vegan, 3)
	assert.True(t, res.Fallback)
	assert.Empty(t, res.Items, "vegan diner must not see non-veg fallbacks")

	catalog := fallbackCatalog()
	vegCombo := dish("veg-combo", models.DietaryVeg, models.PortionShareable, models.SpiceMild, 299)
	vegCombo.Category = models.CategoryCombos
	catalog = append(catalog, vegCombo)

	assert.Equal(t, []string{"veg-combo"}, ids(DietaryFallback(catalog, vegan, 3)))
	assert.Equal(t, []string{"combo", "special", "combo-2"}, ids(CategoryFallback(catalog, vegan, 3)))
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	res := NewEngine().Rank(nil, Preferences{Dietary: models.DietaryVeg}, 3)
	assert.True(t, res.Fallback)
	assert.True(t, res.Empty())
}

func TestRecommend_Determinism(t *testing.T) {
	catalog := fallbackCatalog()
	catalog = append(catalog,
		dish("a", models.DietaryVeg, models.PortionLight, models.SpiceMild, 120),
		dish("b", models.DietaryVeg, models.PortionLight, models.SpiceMild, 120),
	)
	prefs := Preferences{Mood: MoodFilling, Spice: SpiceSpicy, Budget: BudgetMedium}

	first := Recommend(catalog, prefs, 3)
	second := Recommend(catalog, prefs, 3)
	assert.Equal(t, first, second)
}

func TestRecommend_DoesNotMutateCatalog(t *testing.T) {
	catalog := fallbackCatalog()
	before := append([]models.MenuItem(nil), catalog...)

	Recommend(catalog, Preferences{Spice: SpiceSpicy}, 2)
	assert.Equal(t, before, catalog)
}

func TestRecommend_Scenario(t *testing.T) {
	a := dish("A", models.DietaryVeg, models.PortionLight, models.SpiceMild, 120)
	b := dish("B", models.DietaryNonVeg, models.PortionShareable, models.SpiceBold, 300)
	c := dish("C", models.DietaryVegan, models.PortionRegular, models.SpiceMedium, 180)
	d := dish("D", models.DietaryVeg, models.PortionRegular, models.SpiceBold, 90)
	d.ChefNote = "Save 15% on this pairing"
	e := dish("E", models.DietaryNonVeg, models.PortionLight, models.SpiceMild, 400)
	catalog := []models.MenuItem{a, b, c, d, e}

	prefs := Preferences{Dietary: models.DietaryVeg, Mood: MoodLight, Spice: SpiceMild, Budget: BudgetLow}

	assert.Equal(t, 320, Score(a, prefs))
	assert.Equal(t, HardFail, Score(b, prefs))
	assert.Equal(t, HardFail, Score(c, prefs))
	// 100 dietary + 40 light/regular + 0 bold vs mild + 60 budget + 30 chef note
	assert.Equal(t, 230, Score(d, prefs))
	assert.Equal(t, HardFail, Score(e, prefs))

	res := NewEngine().Rank(catalog, prefs, 3)
	assert.False(t, res.Fallback)
	assert.Equal(t, []string{"A", "D"}, ids(res.Items))
	assert.Equal(t, []ScoredCandidate{{Item: a, Score: 320}, {Item: d, Score: 230}}, res.Candidates)
}

func TestRecommend_ConcurrentCalls(t *testing.T) {
	catalog := fallbackCatalog()
	catalog = append(catalog, dish("veg", models.DietaryVeg, models.PortionLight, models.SpiceMild, 99))
	engine := NewEngine()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			prefs := Preferences{Dietary: models.DietaryVeg}
			if i%2 == 0 {
				prefs = Preferences{Dietary: models.DietaryNonVeg, Spice: SpiceSpicy}
			}
			res := engine.Rank(catalog, prefs, 3)
			assert.NotEmpty(t, res.Items)
		}(i)
	}
	wg.Wait()
}

type stubCatalog struct {
	items []models.MenuItem
	err   error
}

func (s stubCatalog) Catalog(context.Context) ([]models.MenuItem, error) {
	return s.items, s.err
}

func TestRankFrom(t *testing.T) {
	engine := NewEngine()

	res, err := engine.RankFrom(context.Background(), stubCatalog{items: fallbackCatalog()}, Preferences{Dietary: models.DietaryNonVeg}, 2)
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)

	boom := errors.New("boom")
	_, err = engine.RankFrom(context.Background(), stubCatalog{err: boom}, Preferences{}, 2)
	assert.ErrorIs(t, err, boom)
}
