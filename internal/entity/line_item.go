package entity

// LineItem is one structured entry of an estimate: what is done, how much of it, in which unit.
type LineItem struct {
	LineNumber  *int    `json:"line_number"` // nil when the document's own index is unknown
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	IsRemoval   bool    `json:"is_removal"`
}

// HasLineNumber reports whether the document's own item index was recovered.
func (li LineItem) HasLineNumber() bool {
	return li.LineNumber != nil
}

// CountRemoval returns how many items are tagged as removal.
func CountRemoval(items []LineItem) int {
	n := 0
	for _, it := range items {
		if it.IsRemoval {
			n++
		}
	}
	return n
}
