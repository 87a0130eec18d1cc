package image

import (
	"context"

	"github.com/samber/lo"
)

const (
	ModelImagen3      = "imagen-3"
	ModelImagen4      = "imagen-4"
	ModelImagen4Fast  = "imagen-4-fast"
	ModelImagen4Ultra = "imagen-4-ultra"
	ModelGeminiFlash  = "gemini-2.5-flash-image"

	DefaultModel            = ModelImagen3
	DefaultAspectRatio      = "1:1"
	DefaultPersonGeneration = "allow_adult"

	MinSampleCount = 1
	MaxSampleCount = 4
)

// upstreamModels maps worker model names to the model ids the API expects.
var upstreamModels = map[string]string{
	ModelImagen3:      "imagen-3.0-generate-002",
	ModelImagen4:      "imagen-4.0-generate-001",
	ModelImagen4Fast:  "imagen-4.0-fast-generate-001",
	ModelImagen4Ultra: "imagen-4.0-ultra-generate-001",
	ModelGeminiFlash:  "gemini-2.5-flash-image",
}

var aspectRatios = []string{"1:1", "3:4", "4:3", "9:16", "16:9"}

var personGenerations = []string{"dont_allow", "allow_adult", "allow_all"}

type Params struct {
	Prompt           string
	Model            string
	SampleCount      int
	AspectRatio      string
	NegativePrompt   string
	PersonGeneration string
}

// Normalize coerces a caller-supplied Params into the documented value space.
// The policy is lenient on purpose: unknown enum values reset to their
// defaults and out-of-range counts are clamped, never rejected. The ultra
// model only ever renders a single image.
func (p Params) Normalize() Params {
	if _, ok := upstreamModels[p.Model]; !ok {
		p.Model = DefaultModel
	}
	p.SampleCount = min(max(p.SampleCount, MinSampleCount), MaxSampleCount)
	if p.Model == ModelImagen4Ultra {
		p.SampleCount = 1
	}
	p.AspectRatio = lo.Ternary(lo.Contains(aspectRatios, p.AspectRatio), p.AspectRatio, DefaultAspectRatio)
	p.PersonGeneration = lo.Ternary(lo.Contains(personGenerations, p.PersonGeneration), p.PersonGeneration, DefaultPersonGeneration)
	return p
}

// UpstreamModel returns the model id used in the request path.
func (p Params) UpstreamModel() string {
	return upstreamModels[p.Model]
}

type Generator interface {
	Generate(context.Context, Params) ([]string, error)
}
