package dataset

import (
	"math"
	"sort"
)

// Store holds the full in-memory dataset and answers filter and
// aggregation queries over it. A Store is immutable once built.
type Store struct {
	records []Record
}

// NewStore builds a Store over the given records
func NewStore(records []Record) *Store {
	return &Store{records: records}
}

// Records returns all records in the store
func (s *Store) Records() []Record {
	return s.records
}

// Len returns the number of records
func (s *Store) Len() int {
	return len(s.records)
}

// Companies returns the sorted unique company names
func (s *Store) Companies() []string {
	return s.distinct(func(r Record) string { return r.Company })
}

// Sectors returns the sorted unique sector names
func (s *Store) Sectors() []string {
	return s.distinct(func(r Record) string { return r.Sector })
}

// Countries returns the sorted unique country names
func (s *Store) Countries() []string {
	return s.distinct(func(r Record) string { return r.Country })
}

// Years returns the sorted unique years in the dataset
func (s *Store) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, r := range s.records {
		if !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
	}
	sort.Ints(years)
	return years
}

func (s *Store) distinct(key func(Record) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, r := range s.records {
		v := key(r)
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}

// Filter selects records by categorical and year-range predicates.
// Zero-valued fields match everything.
type Filter struct {
	Companies []string `json:"companies,omitempty"`
	Sectors   []string `json:"sectors,omitempty"`
	Countries []string `json:"countries,omitempty"`
	YearFrom  int      `json:"year_from,omitempty"`
	YearTo    int      `json:"year_to,omitempty"`
}

// Apply returns the records matching the filter
func (s *Store) Apply(f Filter) []Record {
	companies := toSet(f.Companies)
	sectors := toSet(f.Sectors)
	countries := toSet(f.Countries)

	var matched []Record
	for _, r := range s.records {
		if len(companies) > 0 && !companies[r.Company] {
			continue
		}
		if len(sectors) > 0 && !sectors[r.Sector] {
			continue
		}
		if len(countries) > 0 && !countries[r.Country] {
			continue
		}
		if f.YearFrom > 0 && r.Year < f.YearFrom {
			continue
		}
		if f.YearTo > 0 && r.Year > f.YearTo {
			continue
		}
		matched = append(matched, r)
	}
	return matched
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// Latest returns the most recent record for each company, sorted by company
func (s *Store) Latest() []Record {
	latest := make(map[string]Record)
	for _, r := range s.records {
		if current, ok := latest[r.Company]; !ok || r.Year > current.Year {
			latest[r.Company] = r
		}
	}

	records := make([]Record, 0, len(latest))
	for _, r := range latest {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Company < records[j].Company })
	return records
}

// History returns a company's records sorted by year ascending
func (s *Store) History(company string) []Record {
	var history []Record
	for _, r := range s.records {
		if r.Company == company {
			history = append(history, r)
		}
	}
	sort.Slice(history, func(i, j int) bool { return history[i].Year < history[j].Year })
	return history
}

// LatestFor returns the most recent record for a single company
func (s *Store) LatestFor(company string) (Record, bool) {
	history := s.History(company)
	if len(history) == 0 {
		return Record{}, false
	}
	return history[len(history)-1], true
}

// SectorAverage holds mean pillar scores for one sector and year
type SectorAverage struct {
	Sector             string  `json:"sector"`
	Year               int     `json:"year"`
	EnvironmentalScore float64 `json:"environmental_score"`
	SocialScore        float64 `json:"social_score"`
	GovernanceScore    float64 `json:"governance_score"`
	TotalESGScore      float64 `json:"total_esg_score"`
	Companies          int     `json:"companies"`
}

// SectorAverages computes mean pillar scores grouped by sector and year,
// sorted by sector then year
func (s *Store) SectorAverages() []SectorAverage {
	type key struct {
		sector string
		year   int
	}
	sums := make(map[key]*SectorAverage)

	for _, r := range s.records {
		k := key{r.Sector, r.Year}
		avg, ok := sums[k]
		if !ok {
			avg = &SectorAverage{Sector: r.Sector, Year: r.Year}
			sums[k] = avg
		}
		avg.EnvironmentalScore += r.EnvironmentalScore
		avg.SocialScore += r.SocialScore
		avg.GovernanceScore += r.GovernanceScore
		avg.TotalESGScore += r.TotalESGScore
		avg.Companies++
	}

	averages := make([]SectorAverage, 0, len(sums))
	for _, avg := range sums {
		n := float64(avg.Companies)
		avg.EnvironmentalScore = round1(avg.EnvironmentalScore / n)
		avg.SocialScore = round1(avg.SocialScore / n)
		avg.GovernanceScore = round1(avg.GovernanceScore / n)
		avg.TotalESGScore = round1(avg.TotalESGScore / n)
		averages = append(averages, *avg)
	}

	sort.Slice(averages, func(i, j int) bool {
		if averages[i].Sector != averages[j].Sector {
			return averages[i].Sector < averages[j].Sector
		}
		return averages[i].Year < averages[j].Year
	})
	return averages
}

// SectorRecords returns all records for a sector in the given year
func (s *Store) SectorRecords(sector string, year int) []Record {
	var matched []Record
	for _, r := range s.records {
		if r.Sector == sector && r.Year == year {
			matched = append(matched, r)
		}
	}
	return matched
}

// MaxYear returns the most recent year present in the dataset
func (s *Store) MaxYear() int {
	max := 0
	for _, r := range s.records {
		if r.Year > max {
			max = r.Year
		}
	}
	return max
}

// YearRange returns the earliest and latest years in the dataset
func (s *Store) YearRange() (int, int) {
	if len(s.records) == 0 {
		return 0, 0
	}
	min, max := math.MaxInt, 0
	for _, r := range s.records {
		if r.Year < min {
			min = r.Year
		}
		if r.Year > max {
			max = r.Year
		}
	}
	return min, max
}
