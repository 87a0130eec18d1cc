package image

import (
	"encoding/json"

	"github.com/samber/lo"
)

// The upstream response is not one shape. Depending on endpoint family and
// model generation the image bytes show up as a flat prediction field, a
// prediction field under an alternate key name, an image object wrapping that
// field, or a candidate part with inline data. Extraction is an ordered table
// of strategies; the first one yielding a non-empty base64 string wins.

type upstreamResponse struct {
	Predictions []prediction `json:"predictions"`
	Candidates  []candidate  `json:"candidates"`
}

type prediction struct {
	BytesBase64Encoded string           `json:"bytesBase64Encoded"`
	ImageBytes         string           `json:"imageBytes"`
	B64JSON            string           `json:"b64Json"`
	Image              *predictionImage `json:"image"`
}

type predictionImage struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	ImageBytes         string `json:"imageBytes"`
}

type candidate struct {
	Content struct {
		Parts []part `json:"parts"`
	} `json:"content"`
}

type part struct {
	InlineData      *inlineData `json:"inline_data"`
	InlineDataCamel *inlineData `json:"inlineData"`
}

type inlineData struct {
	Data string `json:"data"`
}

type extractor struct {
	name string
	fn   func(upstreamResponse) []string
}

var extractors = []extractor{
	{"prediction array", extractPredictionArray},
	{"nested image object", extractNestedImageObject},
	{"candidate parts", extractCandidateParts},
}

// Extract decodes a 200 response body and runs the strategy table. It returns
// the images in upstream order plus the name of the strategy that matched.
func Extract(raw []byte) ([]string, string, bool) {
	var resp upstreamResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, "", false
	}
	for _, ex := range extractors {
		if images := ex.fn(resp); len(images) > 0 {
			return images, ex.name, true
		}
	}
	return nil, "", false
}

func extractPredictionArray(resp upstreamResponse) []string {
	return lo.FilterMap(resp.Predictions, func(p prediction, _ int) (string, bool) {
		data, ok := lo.Coalesce(p.BytesBase64Encoded, p.ImageBytes, p.B64JSON)
		return data, ok
	})
}

func extractNestedImageObject(resp upstreamResponse) []string {
	return lo.FilterMap(resp.Predictions, func(p prediction, _ int) (string, bool) {
		if p.Image == nil {
			return "", false
		}
		data, ok := lo.Coalesce(p.Image.BytesBase64Encoded, p.Image.ImageBytes)
		return data, ok
	})
}

func extractCandidateParts(resp upstreamResponse) []string {
	if len(resp.Candidates) == 0 {
		return nil
	}
	return lo.FilterMap(resp.Candidates[0].Content.Parts, func(p part, _ int) (string, bool) {
		for _, inline := range []*inlineData{p.InlineData, p.InlineDataCamel} {
			if inline != nil && inline.Data != "" {
				return inline.Data, true
			}
		}
		return "", false
	})
}
