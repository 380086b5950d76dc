package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []Record {
	return []Record{
		{Company: "Acme Corp", Sector: "Technology", Country: "USA", Year: 2022,
			EnvironmentalScore: 70, SocialScore: 65, GovernanceScore: 80, TotalESGScore: 71.6},
		{Company: "Acme Corp", Sector: "Technology", Country: "USA", Year: 2023,
			EnvironmentalScore: 72, SocialScore: 66, GovernanceScore: 82, TotalESGScore: 73.3},
		{Company: "Borealis Energy", Sector: "Energy", Country: "Norway", Year: 2022,
			EnvironmentalScore: 55, SocialScore: 60, GovernanceScore: 70, TotalESGScore: 61.6},
		{Company: "Borealis Energy", Sector: "Energy", Country: "Norway", Year: 2023,
			EnvironmentalScore: 58, SocialScore: 61, GovernanceScore: 71, TotalESGScore: 63.3},
		{Company: "Cobalt Mining", Sector: "Energy", Country: "Canada", Year: 2023,
			EnvironmentalScore: 40, SocialScore: 45, GovernanceScore: 55, TotalESGScore: 46.6},
	}
}

func TestStoreDistinctValues(t *testing.T) {
	store := NewStore(testRecords())

	assert.Equal(t, []string{"Acme Corp", "Borealis Energy", "Cobalt Mining"}, store.Companies())
	assert.Equal(t, []string{"Energy", "Technology"}, store.Sectors())
	assert.Equal(t, []string{"Canada", "Norway", "USA"}, store.Countries())
	assert.Equal(t, []int{2022, 2023}, store.Years())
}

func TestStoreApplyFilter(t *testing.T) {
	store := NewStore(testRecords())

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"no filter matches all", Filter{}, 5},
		{"by sector", Filter{Sectors: []string{"Energy"}}, 3},
		{"by company", Filter{Companies: []string{"Acme Corp"}}, 2},
		{"by country", Filter{Countries: []string{"Norway"}}, 2},
		{"by year range", Filter{YearFrom: 2023, YearTo: 2023}, 3},
		{"combined", Filter{Sectors: []string{"Energy"}, YearFrom: 2023}, 2},
		{"no match returns empty", Filter{Sectors: []string{"Utilities"}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, store.Apply(tt.filter), tt.want)
		})
	}
}

func TestStoreLatest(t *testing.T) {
	store := NewStore(testRecords())

	latest := store.Latest()
	require.Len(t, latest, 3)
	for _, r := range latest {
		assert.Equal(t, 2023, r.Year)
	}
	// Sorted by company
	assert.Equal(t, "Acme Corp", latest[0].Company)
	assert.Equal(t, "Cobalt Mining", latest[2].Company)
}

func TestStoreHistory(t *testing.T) {
	store := NewStore(testRecords())

	history := store.History("Acme Corp")
	require.Len(t, history, 2)
	assert.Equal(t, 2022, history[0].Year)
	assert.Equal(t, 2023, history[1].Year)

	assert.Empty(t, store.History("Ghost Inc"))

	latest, ok := store.LatestFor("Acme Corp")
	require.True(t, ok)
	assert.Equal(t, 2023, latest.Year)

	_, ok = store.LatestFor("Ghost Inc")
	assert.False(t, ok)
}

func TestSectorAverages(t *testing.T) {
	store := NewStore(testRecords())

	averages := store.SectorAverages()
	require.Len(t, averages, 4) // Energy x2 years, Technology x2 years

	// Energy 2023: Borealis (58) and Cobalt (40) => 49.0
	var energy2023 *SectorAverage
	for i := range averages {
		if averages[i].Sector == "Energy" && averages[i].Year == 2023 {
			energy2023 = &averages[i]
		}
	}
	require.NotNil(t, energy2023)
	assert.Equal(t, 49.0, energy2023.EnvironmentalScore)
	assert.Equal(t, 2, energy2023.Companies)
}

func TestYearHelpers(t *testing.T) {
	store := NewStore(testRecords())

	assert.Equal(t, 2023, store.MaxYear())

	min, max := store.YearRange()
	assert.Equal(t, 2022, min)
	assert.Equal(t, 2023, max)

	assert.Len(t, store.SectorRecords("Energy", 2023), 2)
	assert.Empty(t, store.SectorRecords("Energy", 2020))
}
