package server

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/waste-estimator/internal/core"
	"github.com/joseph-ayodele/waste-estimator/internal/entity"
)

// NoTextPlaceholder stands in for text that a document or page did not yield.
const NoTextPlaceholder = "No text extracted"

// EstimateResponse is the body returned for a processed document.
type EstimateResponse struct {
	Success           bool                `json:"success"`
	RequestID         string              `json:"request_id,omitempty"`
	Filename          string              `json:"filename"`
	TotalLineItems    int                 `json:"total_line_items"`
	RemovalItemsFound int                 `json:"removal_items_found"`
	WasteSummary      entity.WasteSummary `json:"waste_summary"`
	AllLineItems      []entity.LineItem   `json:"all_line_items"`
	RawTextPreview    string              `json:"raw_text_preview,omitempty"`
}

// PageText is one entry of the per-page debug view.
type PageText struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewEstimateResponse builds the response body. previewChars <= 0 leaves the
// preview out.
func NewEstimateResponse(requestID, filename string, res core.Result, previewChars int) EstimateResponse {
	items := res.Items
	if items == nil {
		items = []entity.LineItem{}
	}
	resp := EstimateResponse{
		Success:           true,
		RequestID:         requestID,
		Filename:          filename,
		TotalLineItems:    res.TotalLineItems,
		RemovalItemsFound: res.RemovalItemsFound,
		WasteSummary:      res.Summary,
		AllLineItems:      items,
	}
	if previewChars > 0 {
		resp.RawTextPreview = preview(res.FullText, previewChars)
	}
	return resp
}

func preview(text string, n int) string {
	if text == "" {
		return NoTextPlaceholder
	}
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n])
}

// toStruct converts a JSON-shaped value into a protobuf Struct.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return structpb.NewStruct(m)
}
