package lineitem

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/waste-estimator/constants"
	"github.com/joseph-ayodele/waste-estimator/internal/entity"
	"github.com/joseph-ayodele/waste-estimator/internal/lexicon"
)

// reLooseQty finds the first "<number><unit>" pair anywhere in a line. The unit
// may run into the following word ("12 EACH", "200SFT").
var reLooseQty = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*((?i:` + constants.UnitPattern() + `))`)

// recoverRemoval picks up removal language that no layout matcher accepted,
// typically narrative or wrapped lines. A line counts as already captured when
// the first 30 characters of any existing description occur in it.
func recoverRemoval(raw string, items []entity.LineItem) (entity.LineItem, bool) {
	lower := strings.ToLower(raw)
	if !lexicon.IsRemoval(lower) {
		return entity.LineItem{}, false
	}
	for _, it := range items {
		if strings.Contains(lower, truncateRunes(strings.ToLower(it.Description), capturedPrefixLen)) {
			return entity.LineItem{}, false
		}
	}

	m := reLooseQty.FindStringSubmatch(raw)
	if m == nil {
		return entity.LineItem{}, false
	}
	qty, ok := parseQuantity(m[1])
	if !ok {
		return entity.LineItem{}, false
	}
	return entity.LineItem{
		Description: strings.TrimSpace(truncateRunes(raw, fallbackDescription)),
		Quantity:    qty,
		Unit:        strings.ToUpper(m[2]),
		IsRemoval:   true,
	}, true
}
