package constants

import (
	"strings"
)

type Unit string

const (
	SquareFeet  Unit = "SF"
	Squares     Unit = "SQ" // roofing square, 100 SF
	LinearFeet  Unit = "LF"
	Each        Unit = "EA"
	Hours       Unit = "HR"
	SquareYards Unit = "SY"
	CubicFeet   Unit = "CF"
	CubicYards  Unit = "CY"
	Gallons     Unit = "GAL"
	LumpSum     Unit = "LS"
)

var allUnits = []Unit{
	SquareFeet,
	Squares,
	LinearFeet,
	Each,
	Hours,
	SquareYards,
	CubicFeet,
	CubicYards,
	Gallons,
	LumpSum,
}

func UnitsAsStringSlice() []string {
	result := make([]string, len(allUnits))
	for i, u := range allUnits {
		result[i] = string(u)
	}
	return result
}

// UnitPattern is the regexp alternation of every recognized unit code, in declaration order.
func UnitPattern() string {
	return strings.Join(UnitsAsStringSlice(), "|")
}

// CanonicalUnit upper-cases a unit token and reports whether it is recognized.
func CanonicalUnit(input string) (Unit, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(input))
	for _, u := range allUnits {
		if normalized == string(u) {
			return u, true
		}
	}
	return Unit(normalized), false
}
