package lineitem

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/waste-estimator/internal/entity"
	"github.com/joseph-ayodele/waste-estimator/internal/lexicon"
)

const (
	minLineLength       = 10
	minDescriptionLen   = 3 // exclusive
	dedupKeyLength      = 50
	capturedPrefixLen   = 30
	fallbackDescription = 100
)

// Result is what one extraction produced. FullText is kept for previews only.
type Result struct {
	Items    []entity.LineItem
	FullText string
}

// Extractor turns estimate text into line items. It holds no per-document state
// and is safe for concurrent use.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract parses fullText in two passes: the layout matchers over every content
// line, then a recovery pass for removal language the matchers missed.
func (e *Extractor) Extract(fullText string) Result {
	lines := strings.Split(fullText, "\n")

	items := make([]entity.LineItem, 0)
	seen := make(map[string]struct{})
	stats := map[string]int{}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if utf8.RuneCountInString(line) < minLineLength {
			continue
		}
		if lexicon.IsBoilerplate(line) {
			continue
		}

		item, key, via, ok := matchLine(line)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			stats["duplicate"]++
			continue
		}
		seen[key] = struct{}{}
		items = append(items, item)
		stats[via]++
	}

	structured := len(items)
	for _, raw := range lines {
		if item, ok := recoverRemoval(raw, items); ok {
			items = append(items, item)
		}
	}

	e.logger.Debug("lineitem.extract.done",
		"lines", len(lines),
		"structured", structured,
		"recovered", len(items)-structured,
		"by_matcher", stats,
	)
	return Result{Items: items, FullText: fullText}
}

// matchLine runs the matchers in priority order. A matcher whose capture fails
// validation does not stop the cascade.
func matchLine(line string) (entity.LineItem, string, string, bool) {
	for _, m := range matchers {
		c, ok := m.match(line)
		if !ok {
			continue
		}
		qty, ok := parseQuantity(c.quantity)
		if !ok {
			continue
		}
		if utf8.RuneCountInString(c.description) <= minDescriptionLen {
			continue
		}
		item := entity.LineItem{
			LineNumber:  c.lineNumber,
			Description: c.description,
			Quantity:    qty,
			Unit:        c.unit,
			IsRemoval:   lexicon.IsRemoval(c.description),
		}
		return item, dedupKey(c.description), m.name, true
	}
	return entity.LineItem{}, "", "", false
}

func dedupKey(description string) string {
	return truncateRunes(strings.ToLower(description), dedupKeyLength)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
