package image

import (
	"context"
	"net/http"
	"time"

	"github.com/promptforge/imagen-worker/internal/log"
	"github.com/samber/do"
)

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateContent struct {
	Role  string         `json:"role"`
	Parts []generatePart `json:"parts"`
}

type generatePart struct {
	Text string `json:"text"`
}

// GeminiGenerator drives the chat-style generateContent endpoint. It is the
// legacy mode kept for the gemini image models: one image per call, and the
// sample count, aspect ratio and person settings predate it, so only the
// prompt is sent.
type GeminiGenerator struct {
	Client   *http.Client
	Key      string
	Endpoint string
	Timeout  time.Duration
}

func NewGeminiGenerator(i *do.Injector) (Generator, error) {
	return &GeminiGenerator{
		Client: do.MustInvoke[*http.Client](i),
		Key:    do.MustInvokeNamed[string](i, "api_key"),
	}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, params Params) ([]string, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("gemini").With("model", params.Model)

	if g.Key == "" {
		return nil, &Error{Kind: KindMissingCredential, Msg: "Missing GEMINI_API_KEY"}
	}

	endpoint := g.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	url := endpoint + "/" + params.UpstreamModel() + ":generateContent"

	payload := generateRequest{
		Contents: []generateContent{{
			Role:  "user",
			Parts: []generatePart{{Text: params.Prompt}},
		}},
	}

	log.Info("calling generate endpoint")
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
