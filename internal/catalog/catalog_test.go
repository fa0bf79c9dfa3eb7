package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	localstore "groundwater-backend/internal/shared/storage/object/local"
)

func mustDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	require.NoError(t, err)
	return c
}

func TestDefaultCatalogShape(t *testing.T) {
	c := mustDefault(t)

	assert.Equal(t, 36, c.Len())
	names := c.Names()
	assert.Equal(t, "Punjab", names[0])
	assert.Equal(t, "Haryana", names[1])
	assert.Equal(t, "Lakshadweep", names[len(names)-1])

	for _, r := range c.Regions() {
		assert.NotEmpty(t, r.History, r.Key)
		_, ok := r.Year(AssessmentYear)
		assert.True(t, ok, "%s has no %d entry", r.Key, AssessmentYear)
	}
}

func TestByCategoryKeepsDeclarationOrder(t *testing.T) {
	c := mustDefault(t)

	var over []string
	for _, r := range c.ByCategory(CategoryOverExploited) {
		over = append(over, r.Key)
	}
	assert.Equal(t, []string{"punjab", "rajasthan", "tamilnadu", "delhi", "chandigarh"}, over)

	critical := c.ByCategory(CategoryCritical)
	require.Len(t, critical, 1)
	assert.Equal(t, "haryana", critical[0].Key)
}

func TestEveryNameResolvesToItsRegion(t *testing.T) {
	c := mustDefault(t)
	for _, r := range c.Regions() {
		got, ok := c.FirstMentioned(strings.ToLower(r.Name))
		require.True(t, ok, r.Name)
		assert.Equal(t, r.Key, got.Key, "name %q", r.Name)
	}
}

func TestAliasVariants(t *testing.T) {
	c := mustDefault(t)

	tests := []struct {
		text string
		want string
	}{
		{"panjab water", "punjab"},
		{"maharastra status", "maharashtra"},
		{"gujrat", "gujarat"},
		{"tamil nadu groundwater", "tamilnadu"},
		{"tamilnadu", "tamilnadu"},
		{"jammu kashmir", "jammukashmir"},
		{"jammu and kashmir", "jammukashmir"},
		{"daman diu", "damananddiu"},
		{"dadra nagar haveli", "dadraandnagarhaveli"},
		{"west bengal", "westbengal"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := c.FirstMentioned(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Key)
		})
	}
}

func TestAllMentionedIsCatalogOrdered(t *testing.T) {
	c := mustDefault(t)

	got := c.AllMentioned("compare haryana vs punjab vs haryana")
	require.Len(t, got, 2)
	assert.Equal(t, "punjab", got[0].Key)
	assert.Equal(t, "haryana", got[1].Key)

	assert.Empty(t, c.AllMentioned("show critical areas"))
}

func TestResolveFallsBackToAssessmentYear(t *testing.T) {
	c := mustDefault(t)
	punjab, ok := c.Lookup("Punjab")
	require.True(t, ok)

	rec2021 := punjab.Resolve(2021)
	assert.Equal(t, 2021, rec2021.Year)

	rec := punjab.Resolve(2030)
	assert.Equal(t, AssessmentYear, rec.Year)
	assert.Equal(t, punjab.Resolve(AssessmentYear), rec)
}

func TestCategorySlugAndEmoji(t *testing.T) {
	tests := []struct {
		cat   Category
		slug  string
		emoji string
	}{
		{CategoryOverExploited, "over-exploited", "🔴"},
		{CategoryCritical, "critical", "🟠"},
		{CategorySemiCritical, "semi-critical", "🟡"},
		{CategorySafe, "safe", "🟢"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.slug, tt.cat.Slug())
		assert.Equal(t, tt.emoji, tt.cat.Emoji())
		assert.True(t, tt.cat.Valid())
	}
	assert.False(t, Category("Dire").Valid())
}

func TestLoadRejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"no regions", "regions: []\n"},
		{"bad yaml", "regions: [\n"},
		{"unknown field", "regions:\n  - key: a\n    colour: blue\n"},
		{"unknown category", `regions:
  - key: a
    name: A
    category: Dire
    history: [{year: 2023, extraction_pct: 1, category: Safe}]
`},
		{"missing assessment year", `regions:
  - key: a
    name: A
    category: Safe
    history: [{year: 2021, extraction_pct: 1, category: Safe}]
`},
		{"duplicate key", `regions:
  - key: a
    name: A
    category: Safe
    history: [{year: 2023, extraction_pct: 1, category: Safe}]
  - key: A
    name: Again
    category: Safe
    history: [{year: 2023, extraction_pct: 1, category: Safe}]
`},
		{"duplicate year", `regions:
  - key: a
    name: A
    category: Safe
    history:
      - {year: 2023, extraction_pct: 1, category: Safe}
      - {year: 2023, extraction_pct: 2, category: Safe}
`},
		{"no name", `regions:
  - key: a
    category: Safe
    history: [{year: 2023, extraction_pct: 1, category: Safe}]
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestHistoryKeepsFileOrder(t *testing.T) {
	doc := `regions:
  - key: x
    name: Xland
    category: Safe
    extraction_pct: 40
    status: Good
    history:
      - {year: 2025, extraction_pct: 45, category: Safe}
      - {year: 2023, extraction_pct: 40, category: Safe}
      - {year: 2019, extraction_pct: 30, category: Safe}
`
	c, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	x, _ := c.Lookup("x")
	var years []int
	for _, rec := range x.History {
		years = append(years, rec.Year)
	}
	assert.Equal(t, []int{2025, 2023, 2019}, years)
}

func TestLoadFromStore(t *testing.T) {
	ctx := context.Background()
	store := localstore.New(t.TempDir())
	_, err := store.Put(ctx, "catalog/regions.yaml", "application/yaml", strings.NewReader(string(embeddedRegions)))
	require.NoError(t, err)

	c, err := LoadFromStore(ctx, store, "catalog/regions.yaml")
	require.NoError(t, err)
	assert.Equal(t, 36, c.Len())

	_, err = LoadFromStore(ctx, store, "catalog/missing.yaml")
	assert.Error(t, err)
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want Category
		ok   bool
	}{
		{"over-exploited", CategoryOverExploited, true},
		{"Over-Exploited", CategoryOverExploited, true},
		{" semi-critical ", CategorySemiCritical, true},
		{"SAFE", CategorySafe, true},
		{"critical", CategoryCritical, true},
		{"dire", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseCategory(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}
