package dataprocessing

import "strings"

// Canonical labels shared by every vocabulary.
const (
	CategoryUnknown = "Unknown"
	CategoryOther   = "Other"

	// WeaponNoneRecorded is the canonical label for an empty weapon field,
	// which in the source data means no weapon was recorded rather than
	// "weapon unknown".
	WeaponNoneRecorded = "None Recorded"
)

// Vocabulary maps raw text variants of one categorical field to canonical
// labels. Normalization is a lookup table rather than scattered
// conditionals so the rules stay auditable and testable in one place.
//
// Closed vocabularies (sex, descent) map every raw variant through
// Synonyms; unmapped non-empty values become Other. Open vocabularies
// (crime type, weapon, premise, area) accept any value and canonicalize
// its spelling: whitespace trimmed and collapsed, consistent upper case.
type Vocabulary struct {
	Field string

	// Synonyms maps the folded form of a raw variant to its canonical
	// label.
	Synonyms map[string]string

	// Open marks high-cardinality fields whose folded form is itself the
	// canonical label when no synonym matches.
	Open bool

	// Empty is the canonical label assigned to empty or sentinel input.
	Empty string
}

// fold produces the lookup form of raw text: trimmed, internal whitespace
// collapsed, upper-cased.
func fold(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), " "))
}

// Normalize maps raw text to its canonical category label.
func (v *Vocabulary) Normalize(raw string) string {
	folded := fold(raw)
	if folded == "" || folded == "-" {
		return v.Empty
	}
	if canonical, ok := v.Synonyms[folded]; ok {
		return canonical
	}
	if v.Open {
		return folded
	}
	return CategoryOther
}

// Vocabularies bundles the per-field lookup tables the cleaner applies.
type Vocabularies struct {
	Sex       *Vocabulary
	Descent   *Vocabulary
	CrimeType *Vocabulary
	Weapon    *Vocabulary
	Premise   *Vocabulary
	Area      *Vocabulary
}

// DefaultVocabularies returns the lookup tables for the LAPD open-data
// code books.
func DefaultVocabularies() *Vocabularies {
	return &Vocabularies{
		Sex: &Vocabulary{
			Field: ColVictimSex,
			Synonyms: map[string]string{
				"M":      "Male",
				"MALE":   "Male",
				"F":      "Female",
				"FEMALE": "Female",
				// X and H appear in the source data as unknown markers.
				"X": CategoryUnknown,
				"H": CategoryUnknown,
				"N": CategoryUnknown,
			},
			Empty: CategoryUnknown,
		},
		Descent: &Vocabulary{
			Field: ColVictimDescent,
			// LAPD descent code book.
			Synonyms: map[string]string{
				"A": "Other Asian",
				"B": "Black",
				"C": "Chinese",
				"D": "Cambodian",
				"F": "Filipino",
				"G": "Guamanian",
				"H": "Hispanic/Latin/Mexican",
				"I": "American Indian/Alaskan Native",
				"J": "Japanese",
				"K": "Korean",
				"L": "Laotian",
				"O": CategoryOther,
				"P": "Pacific Islander",
				"S": "Samoan",
				"U": "Hawaiian",
				"V": "Vietnamese",
				"W": "White",
				"X": CategoryUnknown,
				"Z": "Asian Indian",
			},
			Empty: CategoryUnknown,
		},
		CrimeType: &Vocabulary{
			Field:    ColCrimeType,
			Synonyms: map[string]string{},
			Open:     true,
			Empty:    CategoryUnknown,
		},
		Weapon: &Vocabulary{
			Field:    ColWeapon,
			Synonyms: map[string]string{},
			Open:     true,
			Empty:    WeaponNoneRecorded,
		},
		Premise: &Vocabulary{
			Field:    ColPremise,
			Synonyms: map[string]string{},
			Open:     true,
			Empty:    CategoryUnknown,
		},
		Area: &Vocabulary{
			Field:    ColAreaName,
			Synonyms: map[string]string{},
			Open:     true,
			Empty:    CategoryUnknown,
		},
	}
}
