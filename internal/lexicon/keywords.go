package lexicon

import "strings"

// removalKeywords mark a description as taking material out rather than installing it.
// "r&r" is remove-and-replace.
var removalKeywords = []string{
	"tear off", "tearoff", "tear-off",
	"remove", "removal",
	"demo", "demolish", "demolition",
	"strip", "rip out", "rip-out",
	"dispose", "disposal",
	"haul", "hauling",
	"detach", "take out",
	"r&r",
	"pull",
}

// boilerplatePhrases mark header/footer lines that never carry a line item.
var boilerplatePhrases = []string{
	"page ",
	"total",
	"subtotal",
	"grand total",
	"claim #",
	"date of loss",
}

func RemovalKeywords() []string {
	return append([]string(nil), removalKeywords...)
}

func BoilerplatePhrases() []string {
	return append([]string(nil), boilerplatePhrases...)
}

// IsRemoval reports whether any removal keyword occurs in s, ignoring case.
func IsRemoval(s string) bool {
	return containsAny(strings.ToLower(s), removalKeywords)
}

// IsBoilerplate reports whether s is a page header, footer or total line.
func IsBoilerplate(s string) bool {
	return containsAny(strings.ToLower(s), boilerplatePhrases)
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
