package handler

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/promptforge/imagen-worker/internal/image"
	"github.com/promptforge/imagen-worker/internal/log"
	"github.com/samber/do"
)

// Job is the invocation payload delivered by the hosting runtime. Caller
// parameters live in the nested input mapping.
type Job struct {
	ID    string `json:"id,omitempty"`
	Input Input  `json:"input"`
}

type Input struct {
	Prompt           string `json:"prompt"`
	Model            string `json:"model,omitempty"`
	SampleCount      int    `json:"sample_count,omitempty"`
	AspectRatio      string `json:"aspect_ratio,omitempty"`
	NegativePrompt   string `json:"negative_prompt,omitempty"`
	PersonGeneration string `json:"person_generation,omitempty"`
}

func (i Input) toParams() image.Params {
	return image.Params{
		Prompt:           strings.TrimSpace(i.Prompt),
		Model:            i.Model,
		SampleCount:      i.SampleCount,
		AspectRatio:      i.AspectRatio,
		NegativePrompt:   i.NegativePrompt,
		PersonGeneration: i.PersonGeneration,
	}
}

// Output is the flat result shape returned to the runtime. Exactly one of
// the success fields or Error is populated, never both.
type Output struct {
	Prompt         string   `json:"prompt,omitempty"`
	Model          string   `json:"model,omitempty"`
	AspectRatio    string   `json:"aspect_ratio,omitempty"`
	NegativePrompt string   `json:"negative_prompt,omitempty"`
	Images         []string `json:"images,omitempty"`
	Count          int      `json:"count,omitempty"`

	Error string          `json:"error,omitempty"`
	Kind  string          `json:"kind,omitempty"`
	Raw   json.RawMessage `json:"raw,omitempty"`
}

type Handler struct {
	generator image.Generator
}

func NewHandler(i *do.Injector) (*Handler, error) {
	return &Handler{
		generator: do.MustInvoke[image.Generator](i),
	}, nil
}

// Handle runs one invocation: validate, call upstream once, normalize the
// response. Failures come back inside the Output; the error return is always
// nil so the runtime never sees the invocation itself as failed.
func (h *Handler) Handle(ctx context.Context, job Job) (Output, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	log := log.FromContextOrDiscard(ctx).WithGroup("Handler").With("job", job.ID)
	log.Info("handling invocation", "model", job.Input.Model)

	params := job.Input.toParams()
	if params.Prompt == "" {
		log.Warn("rejecting job without prompt")
		return failure(&image.Error{Kind: image.KindMissingPrompt, Msg: "Missing prompt"}), nil
	}
	params = params.Normalize()

	images, err := h.generator.Generate(ctx, params)
	if err != nil {
		log.Error("generation failed", "error", err)
		return failure(err), nil
	}

	log.Info("generation succeeded", "count", len(images))
	return Output{
		Prompt:         params.Prompt,
		Model:          params.Model,
		AspectRatio:    params.AspectRatio,
		NegativePrompt: params.NegativePrompt,
		Images:         images,
		Count:          len(images),
	}, nil
}

func failure(err error) Output {
	var genErr *image.Error
	if !errors.As(err, &genErr) {
		genErr = &image.Error{Kind: image.KindUnexpected, Msg: err.Error()}
	}
	return Output{
		Error: genErr.Msg,
		Kind:  string(genErr.Kind),
		Raw:   rawPayload(genErr.Raw),
	}
}

// rawPayload embeds the upstream body in the result. The upstream does not
// always send JSON (HTML error pages, plain text); invalid bytes are carried
// as a JSON string so the Output itself always marshals.
func rawPayload(raw []byte) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	if json.Valid(raw) {
		return json.RawMessage(raw)
	}
	quoted, err := json.Marshal(string(raw))
	if err != nil {
		return nil
	}
	return quoted
}
