package lineitem

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/waste-estimator/constants"
)

// candidate is the normalized capture of one matcher.
type candidate struct {
	lineNumber  *int
	description string
	quantity    string
	unit        string
}

// matcher is one layout strategy: a line either yields a candidate or it doesn't.
type matcher struct {
	name string
	re   *regexp.Regexp
}

const (
	reQty  = `([\d,]+\.?\d*)`
	reCode = `[A-Z]{2,6}`
)

var reUnit = `((?i:` + constants.UnitPattern() + `))`

// matchers are tried in order, most structured first; the first hit wins.
var matchers = []matcher{
	// 1. Remove shingles 100.00 SF 1,234.56
	{name: "numbered", re: regexp.MustCompile(`^(\d+)\.\s+(.+?)\s+` + reQty + `\s+` + reUnit + `\s`)},
	// 1. RFG LABO - Remove shingles 100.00 SF
	{name: "numbered-coded", re: regexp.MustCompile(`^(\d+)\.\s+(` + reCode + `\s+` + reCode + `\s*[-–]\s*.+?)\s+` + reQty + `\s+` + reUnit)},
	// Remove shingles and felt 100.00 SF 1,234.56
	{name: "described", re: regexp.MustCompile(`^([A-Z][^0-9]{10,}?)\s+` + reQty + `\s+` + reUnit + `\s`)},
	// RFG LABO Remove shingles 100.00 SF
	{name: "coded", re: regexp.MustCompile(`^(` + reCode + `\s+` + reCode + `)\s+(.+?)\s+` + reQty + `\s+` + reUnit)},
}

// match applies the matcher to line and normalizes its groups. A purely numeric
// first group is the document's line number; otherwise the leading groups form
// the description.
func (m matcher) match(line string) (candidate, bool) {
	groups := m.re.FindStringSubmatch(line)
	if groups == nil {
		return candidate{}, false
	}
	groups = groups[1:]

	var c candidate
	switch len(groups) {
	case 4:
		if isDigits(groups[0]) {
			// an index too large for int still leaves a well-formed item
			if n, err := strconv.Atoi(groups[0]); err == nil {
				c.lineNumber = &n
			}
			c.description = strings.TrimSpace(groups[1])
		} else {
			c.description = strings.TrimSpace(groups[0] + " " + groups[1])
		}
		c.quantity, c.unit = groups[2], groups[3]
	case 3:
		c.description = strings.TrimSpace(groups[0])
		c.quantity, c.unit = groups[1], groups[2]
	default:
		return candidate{}, false
	}
	c.unit = strings.ToUpper(c.unit)
	return c, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseQuantity strips thousands separators and requires a positive number.
func parseQuantity(s string) (float64, bool) {
	q, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || q <= 0 {
		return 0, false
	}
	return q, true
}
