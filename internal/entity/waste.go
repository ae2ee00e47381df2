package entity

// WasteItem is a removal line item priced against a lexicon material.
type WasteItem struct {
	Description   string  `json:"description"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	MaterialType  string  `json:"material_type"`
	WeightPerUnit float64 `json:"weight_per_unit"`
	TotalWeight   float64 `json:"total_weight"`
}

// UnmatchedItem is a removal line item no lexicon keyword recognized; it is
// weighted with the default rate.
type UnmatchedItem struct {
	Description     string  `json:"description"`
	Quantity        float64 `json:"quantity"`
	Unit            string  `json:"unit"`
	EstimatedWeight float64 `json:"estimated_weight"`
}

// WasteSummary is the disposal-weight estimate for one document.
type WasteSummary struct {
	WasteItems      []WasteItem     `json:"waste_items"`
	UnmatchedItems  []UnmatchedItem `json:"unmatched_items"`
	TotalWeightLbs  float64         `json:"total_weight_lbs"`
	TotalWeightTons float64         `json:"total_weight_tons"`
}
