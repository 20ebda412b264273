package dataprocessing

import "time"

// Column names of the raw incident file. Header matching is
// case-insensitive and whitespace-trimmed, so these are the canonical
// spellings, not the only accepted ones.
const (
	ColDateOccurred  = "DATE OCC"
	ColTimeOccurred  = "TIME OCC"
	ColCrimeType     = "Crm Cd Desc"
	ColVictimAge     = "Vict Age"
	ColVictimSex     = "Vict Sex"
	ColVictimDescent = "Vict Descent"
	ColWeapon        = "Weapon Desc"
	ColPremise       = "Premis Desc"
	ColAreaName      = "AREA NAME"
	ColLatitude      = "LAT"
	ColLongitude     = "LON"
)

// RequiredColumns must be present in the input header; a missing one is a
// fatal schema error. The remaining columns degrade to Unknown per row.
var RequiredColumns = []string{ColDateOccurred, ColTimeOccurred, ColCrimeType}

// OptionalColumns complete the documented header contract.
var OptionalColumns = []string{
	ColVictimAge, ColVictimSex, ColVictimDescent,
	ColWeapon, ColPremise, ColAreaName,
	ColLatitude, ColLongitude,
}

// DropReason classifies why a row was excluded from the cleaned table.
type DropReason string

const (
	DropUnparseableTimestamp DropReason = "unparseable_timestamp"
	DropMissingRequiredField DropReason = "missing_required_field"
	DropOutOfRangeValue      DropReason = "out_of_range_value"
)

// Incident is one cleaned crime record. OccurredAt is always a valid
// parsed timestamp; rows that cannot produce one never become Incidents.
// Hour, DayOfWeek, Month and Year are pure functions of OccurredAt.
type Incident struct {
	OccurredAt time.Time
	Hour       int
	DayOfWeek  time.Weekday
	Month      int
	Year       int

	CrimeType     string
	VictimAge     int
	AgeKnown      bool
	VictimSex     string
	VictimDescent string
	Weapon        string
	Premise       string
	AreaName      string

	Latitude      float64
	Longitude     float64
	LocationKnown bool
}

// CleanResult is the output of the cleaning stage: the cleaned table plus
// the bookkeeping the run summary reports.
type CleanResult struct {
	Incidents []Incident

	TotalRaw int
	Dropped  map[DropReason]int

	// Per-dimension exclusions. The rows themselves are retained.
	UnknownAge      int
	UnknownLocation int
}

// DroppedTotal returns the number of rows excluded from the cleaned table.
func (r *CleanResult) DroppedTotal() int {
	total := 0
	for _, n := range r.Dropped {
		total += n
	}
	return total
}
