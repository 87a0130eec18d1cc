package image

import (
	"context"
	"net/http"
	"time"

	"github.com/promptforge/imagen-worker/internal/log"
	"github.com/samber/do"
)

type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type predictInstance struct {
	Prompt string `json:"prompt"`
}

type predictParameters struct {
	SampleCount      int    `json:"sampleCount"`
	AspectRatio      string `json:"aspectRatio"`
	PersonGeneration string `json:"personGeneration"`
	NegativePrompt   string `json:"negativePrompt,omitempty"`
}

// ImagenGenerator drives the multi-model predict endpoint, the primary
// upstream contract for this worker.
type ImagenGenerator struct {
	Client   *http.Client
	Key      string
	Endpoint string
	Timeout  time.Duration
}

func NewImagenGenerator(i *do.Injector) (Generator, error) {
	return &ImagenGenerator{
		Client: do.MustInvoke[*http.Client](i),
		Key:    do.MustInvokeNamed[string](i, "api_key"),
	}, nil
}

func (g *ImagenGenerator) Generate(ctx context.Context, params Params) ([]string, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("imagen").With("model", params.Model)

	if g.Key == "" {
		return nil, &Error{Kind: KindMissingCredential, Msg: "Missing GEMINI_API_KEY"}
	}

	endpoint := g.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	url := endpoint + "/" + params.UpstreamModel() + ":predict"

	payload := predictRequest{
		Instances: []predictInstance{{Prompt: params.Prompt}},
		Parameters: predictParameters{
			SampleCount:      params.SampleCount,
			AspectRatio:      params.AspectRatio,
			PersonGeneration: params.PersonGeneration,
			NegativePrompt:   params.NegativePrompt,
		},
	}

	log.Info("calling predict endpoint", "sample_count", params.SampleCount)
	raw, err := postJSON(ctx, g.Client, url, g.Key, payload, g.Timeout)
	if err != nil {
		return nil, err
	}

	images, strategy, ok := Extract(raw)
	if !ok {
		return nil, &Error{Kind: KindUnparseable, Msg: "no images generated", Raw: raw}
	}

	log.Info("generated images", "count", len(images), "strategy", strategy)
	return images, nil
}
