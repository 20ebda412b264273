package dataprocessing

import (
	"log/slog"
	"sort"
)

// CategoryCount is one row of a categorical summary table.
type CategoryCount struct {
	Label string
	Count int
}

// DemographicGroup is one row of the victim demographics summary.
type DemographicGroup struct {
	AgeGroup string
	Sex      string
	Descent  string
	Count    int
	// Percent of cleaned rows with a known victim age.
	Percent float64
}

// MonthCount is one point of the monthly trend series.
type MonthCount struct {
	Year  int
	Month int
	Count int
}

// Heatmap is the hour-by-day incident matrix: 7 weekday rows in
// Monday-first order, 24 hour columns. Always fully populated.
type Heatmap struct {
	Counts [7][24]int
}

// Max returns the largest cell value.
func (h *Heatmap) Max() int {
	max := 0
	for _, day := range h.Counts {
		for _, n := range day {
			if n > max {
				max = n
			}
		}
	}
	return max
}

// ageBucket is one victim age bin. Max < 0 means open-ended.
type ageBucket struct {
	Label string
	Min   int
	Max   int
}

// ageBuckets are the victim age bins, matching the published analysis.
var ageBuckets = []ageBucket{
	{"0-17", 0, 17},
	{"18-25", 18, 25},
	{"26-34", 26, 34},
	{"35-44", 35, 44},
	{"45-54", 45, 54},
	{"55-64", 55, 64},
	{"65+", 65, -1},
}

// AgeGroupLabel returns the bucket label for a known age.
func AgeGroupLabel(age int) string {
	for _, b := range ageBuckets {
		if age >= b.Min && (b.Max < 0 || age <= b.Max) {
			return b.Label
		}
	}
	return ageBuckets[len(ageBuckets)-1].Label
}

// Aggregator turns the cleaned table into fixed-shape summary tables.
// All outputs are deterministically ordered: ties in count-descending
// sorts break by label ascending.
type Aggregator struct {
	logger    *slog.Logger
	incidents []Incident
}

// NewAggregator creates an aggregator over a cleaned table.
func NewAggregator(logger *slog.Logger, incidents []Incident) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger, incidents: incidents}
}

// sortCounts orders counts descending with label-ascending tie break.
func sortCounts(counts []CategoryCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Label < counts[j].Label
	})
}

// countsFromMap converts a tally map into a sorted slice.
func countsFromMap(tally map[string]int) []CategoryCount {
	counts := make([]CategoryCount, 0, len(tally))
	for label, n := range tally {
		counts = append(counts, CategoryCount{Label: label, Count: n})
	}
	sortCounts(counts)
	return counts
}

// CrimeTypeDistribution returns the full crime-type tally, excluding rows
// whose crime type is missing, so the counts sum to the number of cleaned
// rows with a non-missing crime type.
func (a *Aggregator) CrimeTypeDistribution() []CategoryCount {
	tally := make(map[string]int)
	for _, inc := range a.incidents {
		if inc.CrimeType == CategoryUnknown {
			continue
		}
		tally[inc.CrimeType]++
	}
	return countsFromMap(tally)
}

// TopCrimeTypes returns the n most frequent canonical crime types.
func (a *Aggregator) TopCrimeTypes(n int) []CategoryCount {
	distribution := a.CrimeTypeDistribution()
	if n < len(distribution) {
		distribution = distribution[:n]
	}
	return distribution
}

// Demographics groups victims by (age bucket, sex, descent). Rows without
// a plausible age are excluded from the table and from the percentage
// denominator; unknown sex and descent appear as explicit Unknown buckets
// so the remaining breakdown still sums to the valid-age row count.
func (a *Aggregator) Demographics() []DemographicGroup {
	type key struct {
		ageGroup string
		sex      string
		descent  string
	}

	tally := make(map[key]int)
	validAge := 0
	for _, inc := range a.incidents {
		if !inc.AgeKnown {
			continue
		}
		validAge++
		tally[key{AgeGroupLabel(inc.VictimAge), inc.VictimSex, inc.VictimDescent}]++
	}

	bucketOrder := make(map[string]int, len(ageBuckets))
	for i, b := range ageBuckets {
		bucketOrder[b.Label] = i
	}

	groups := make([]DemographicGroup, 0, len(tally))
	for k, n := range tally {
		group := DemographicGroup{
			AgeGroup: k.ageGroup,
			Sex:      k.sex,
			Descent:  k.descent,
			Count:    n,
		}
		if validAge > 0 {
			group.Percent = float64(n) / float64(validAge) * 100
		}
		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool {
		if bucketOrder[groups[i].AgeGroup] != bucketOrder[groups[j].AgeGroup] {
			return bucketOrder[groups[i].AgeGroup] < bucketOrder[groups[j].AgeGroup]
		}
		if groups[i].Sex != groups[j].Sex {
			return groups[i].Sex < groups[j].Sex
		}
		return groups[i].Descent < groups[j].Descent
	})

	return groups
}

// MonthlyTrend returns one entry per calendar month between the minimum
// and maximum observed months, inclusive and chronological. Months with
// zero incidents appear with count 0 so the series has no silent gaps.
func (a *Aggregator) MonthlyTrend() []MonthCount {
	if len(a.incidents) == 0 {
		return []MonthCount{}
	}

	tally := make(map[[2]int]int)
	minKey := [2]int{a.incidents[0].Year, a.incidents[0].Month}
	maxKey := minKey
	for _, inc := range a.incidents {
		k := [2]int{inc.Year, inc.Month}
		tally[k]++
		if k[0] < minKey[0] || (k[0] == minKey[0] && k[1] < minKey[1]) {
			minKey = k
		}
		if k[0] > maxKey[0] || (k[0] == maxKey[0] && k[1] > maxKey[1]) {
			maxKey = k
		}
	}

	var trend []MonthCount
	year, month := minKey[0], minKey[1]
	for {
		trend = append(trend, MonthCount{Year: year, Month: month, Count: tally[[2]int{year, month}]})
		if year == maxKey[0] && month == maxKey[1] {
			break
		}
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return trend
}

// HourDayHeatmap returns the 7x24 incident matrix. Every cell is
// populated, including on empty input.
func (a *Aggregator) HourDayHeatmap() *Heatmap {
	var heatmap Heatmap
	for _, inc := range a.incidents {
		heatmap.Counts[WeekdayIndex(inc.DayOfWeek)][inc.Hour]++
	}
	return &heatmap
}

// HourlyDistribution returns incident counts per hour of day, always 24
// entries in hour order.
func (a *Aggregator) HourlyDistribution() [24]int {
	var hours [24]int
	for _, inc := range a.incidents {
		hours[inc.Hour]++
	}
	return hours
}

// PeakHour returns the hour with the most incidents; ties resolve to the
// earliest hour.
func (a *Aggregator) PeakHour() int {
	hours := a.HourlyDistribution()
	peak := 0
	for h, n := range hours {
		if n > hours[peak] {
			peak = h
		}
	}
	return peak
}

// NightCrimeByArea tallies incidents during the night-hour window by area,
// excluding rows with an unknown area.
func (a *Aggregator) NightCrimeByArea(nightHours []int) []CategoryCount {
	night := make(map[int]bool, len(nightHours))
	for _, h := range nightHours {
		night[h] = true
	}

	tally := make(map[string]int)
	for _, inc := range a.incidents {
		if !night[inc.Hour] || inc.AreaName == CategoryUnknown {
			continue
		}
		tally[inc.AreaName]++
	}
	return countsFromMap(tally)
}

// WeaponUsage tallies incidents by canonical weapon. Rows without a
// recorded weapon are excluded here but remain in every other aggregate.
func (a *Aggregator) WeaponUsage() []CategoryCount {
	tally := make(map[string]int)
	for _, inc := range a.incidents {
		if inc.Weapon == WeaponNoneRecorded {
			continue
		}
		tally[inc.Weapon]++
	}
	return countsFromMap(tally)
}

// AgeGroupDistribution returns victim counts per age bucket in fixed
// bucket order, including empty buckets. Rows without a plausible age are
// excluded.
func (a *Aggregator) AgeGroupDistribution() []CategoryCount {
	tally := make(map[string]int)
	for _, inc := range a.incidents {
		if !inc.AgeKnown {
			continue
		}
		tally[AgeGroupLabel(inc.VictimAge)]++
	}

	counts := make([]CategoryCount, 0, len(ageBuckets))
	for _, b := range ageBuckets {
		counts = append(counts, CategoryCount{Label: b.Label, Count: tally[b.Label]})
	}
	return counts
}
