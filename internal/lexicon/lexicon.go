package lexicon

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/waste-estimator/constants"
)

//go:embed materials.json
var defaultMaterials []byte

// MaterialEntry maps a lower-case phrase to a disposal weight in pounds per unit.
type MaterialEntry struct {
	Keyword       string  `json:"keyword"`
	WeightPerUnit float64 `json:"weight_per_unit"`
	Unit          string  `json:"unit"`
	Label         string  `json:"label"`
}

type document struct {
	Version   int             `json:"version"`
	Materials []MaterialEntry `json:"materials"`
}

// Lexicon is an ordered, read-only material table. Build it once and share it.
type Lexicon struct {
	entries []MaterialEntry
}

// Default returns the built-in lexicon.
func Default() (*Lexicon, error) {
	return Parse(defaultMaterials)
}

// Load reads a lexicon document from path, or the built-in one when path is empty.
func Load(path string, logger *slog.Logger) (*Lexicon, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		lex, err := Default()
		if err != nil {
			return nil, err
		}
		logger.Info("lexicon.loaded", "source", "embedded", "materials", lex.Len())
		return lex, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %q: %w", path, err)
	}
	lex, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("lexicon %q: %w", path, err)
	}
	logger.Info("lexicon.loaded", "source", path, "materials", lex.Len())
	return lex, nil
}

// Parse validates a lexicon document and builds a Lexicon in declaration order.
func Parse(data []byte) (*Lexicon, error) {
	if err := ValidateJSONAgainstSchema(BuildLexiconJSONSchema(), data); err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Materials))
	entries := make([]MaterialEntry, 0, len(doc.Materials))
	for _, m := range doc.Materials {
		kw := strings.ToLower(strings.TrimSpace(m.Keyword))
		if kw == "" {
			return nil, fmt.Errorf("blank keyword for %q", m.Label)
		}
		if _, dup := seen[kw]; dup {
			return nil, fmt.Errorf("duplicate keyword %q", kw)
		}
		seen[kw] = struct{}{}
		unit, _ := constants.CanonicalUnit(m.Unit)
		entries = append(entries, MaterialEntry{
			Keyword:       kw,
			WeightPerUnit: m.WeightPerUnit,
			Unit:          string(unit),
			Label:         strings.TrimSpace(m.Label),
		})
	}
	return &Lexicon{entries: entries}, nil
}

// Len is the number of materials.
func (l *Lexicon) Len() int { return len(l.entries) }

// Entries returns a copy of the table in declaration order.
func (l *Lexicon) Entries() []MaterialEntry {
	out := make([]MaterialEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// LongestMatch returns the entry whose keyword is the longest case-insensitive
// substring of description. Equal lengths keep the entry declared first. A nil
// Lexicon matches nothing.
func (l *Lexicon) LongestMatch(description string) (MaterialEntry, bool) {
	if l == nil {
		return MaterialEntry{}, false
	}
	desc := strings.ToLower(description)
	best, bestLen := -1, 0
	for i, e := range l.entries {
		if !strings.Contains(desc, e.Keyword) {
			continue
		}
		if n := utf8.RuneCountInString(e.Keyword); n > bestLen {
			best, bestLen = i, n
		}
	}
	if best < 0 {
		return MaterialEntry{}, false
	}
	return l.entries[best], true
}
