package handler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/promptforge/imagen-worker/internal/image"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	calls  int
	last   image.Params
	images []string
	err    error
}

func (s *stubGenerator) Generate(_ context.Context, params image.Params) ([]string, error) {
	s.calls++
	s.last = params
	return s.images, s.err
}

func TestHandleMissingPrompt(t *testing.T) {
	tests := []struct {
		name string
		job  Job
	}{
		{"empty input", Job{}},
		{"empty prompt", Job{Input: Input{Prompt: ""}}},
		{"whitespace prompt", Job{Input: Input{Prompt: "   "}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{}
			h := &Handler{generator: gen}

			out, err := h.Handle(context.Background(), tt.job)
			require.NoError(t, err)

			assert.Equal(t, "Missing prompt", out.Error)
			assert.Equal(t, string(image.KindMissingPrompt), out.Kind)
			assert.Empty(t, out.Images)
			assert.Zero(t, gen.calls)
		})
	}
}

func TestHandleSuccess(t *testing.T) {
	gen := &stubGenerator{images: []string{"AAA", "BBB"}}
	h := &Handler{generator: gen}

	out, err := h.Handle(context.Background(), Job{Input: Input{
		Prompt:      "a red fox",
		Model:       "imagen-4",
		SampleCount: 2,
		AspectRatio: "16:9",
	}})
	require.NoError(t, err)

	assert.Empty(t, out.Error)
	assert.Empty(t, out.Kind)
	assert.Equal(t, "a red fox", out.Prompt)
	assert.Equal(t, "imagen-4", out.Model)
	assert.Equal(t, "16:9", out.AspectRatio)
	assert.Equal(t, []string{"AAA", "BBB"}, out.Images)
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, 1, gen.calls)
}

func TestHandleNormalizesBeforeGenerating(t *testing.T) {
	gen := &stubGenerator{images: []string{"AAA"}}
	h := &Handler{generator: gen}

	_, err := h.Handle(context.Background(), Job{Input: Input{
		Prompt:           "a red fox",
		Model:            "not-a-model",
		SampleCount:      99,
		AspectRatio:      "7:3",
		PersonGeneration: "everyone",
	}})
	require.NoError(t, err)

	assert.Equal(t, image.DefaultModel, gen.last.Model)
	assert.Equal(t, 4, gen.last.SampleCount)
	assert.Equal(t, "1:1", gen.last.AspectRatio)
	assert.Equal(t, "allow_adult", gen.last.PersonGeneration)
}

func TestHandleGeneratorFailure(t *testing.T) {
	raw := json.RawMessage(`{"error":{"message":"quota"}}`)
	gen := &stubGenerator{err: &image.Error{
		Kind:   image.KindUpstream,
		Msg:    "upstream returned status 429",
		Status: 429,
		Raw:    raw,
	}}
	h := &Handler{generator: gen}

	out, err := h.Handle(context.Background(), Job{Input: Input{Prompt: "x"}})
	require.NoError(t, err)

	assert.Equal(t, "upstream returned status 429", out.Error)
	assert.Equal(t, string(image.KindUpstream), out.Kind)
	assert.Equal(t, raw, out.Raw)
	assert.Empty(t, out.Images)
	assert.Empty(t, out.Prompt)
}

func TestHandleFailureWithNonJSONBody(t *testing.T) {
	// Upstream error pages are not always JSON. The failure Output must
	// still marshal, with the body preserved for debugging.
	tests := []struct {
		name string
		err  *image.Error
	}{
		{
			name: "html error page on 500",
			err: &image.Error{
				Kind:   image.KindUpstream,
				Msg:    "upstream returned status 500",
				Status: 500,
				Raw:    []byte("<html>Internal Server Error</html>"),
			},
		},
		{
			name: "plain text body on 200",
			err: &image.Error{
				Kind: image.KindUnparseable,
				Msg:  "no images generated",
				Raw:  []byte("model warming up, try again"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handler{generator: &stubGenerator{err: tt.err}}

			out, err := h.Handle(context.Background(), Job{Input: Input{Prompt: "x"}})
			require.NoError(t, err)

			data, err := json.Marshal(out)
			require.NoError(t, err)

			var decoded struct {
				Error string `json:"error"`
				Kind  string `json:"kind"`
				Raw   string `json:"raw"`
			}
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.err.Msg, decoded.Error)
			assert.Equal(t, string(tt.err.Kind), decoded.Kind)
			assert.Equal(t, string(tt.err.Raw), decoded.Raw)
		})
	}
}

func TestHandleUnexpectedFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("nil pointer somewhere")}
	h := &Handler{generator: gen}

	out, err := h.Handle(context.Background(), Job{Input: Input{Prompt: "x"}})
	require.NoError(t, err)

	assert.Equal(t, "nil pointer somewhere", out.Error)
	assert.Equal(t, string(image.KindUnexpected), out.Kind)
}

func TestOutputSerialization(t *testing.T) {
	t.Run("success omits error fields", func(t *testing.T) {
		data, err := json.Marshal(Output{
			Prompt:      "x",
			Model:       "imagen-3",
			AspectRatio: "1:1",
			Images:      []string{"AAA"},
			Count:       1,
		})
		require.NoError(t, err)
		assert.NotContains(t, string(data), `"error"`)
		assert.NotContains(t, string(data), `"kind"`)
		assert.NotContains(t, string(data), `"raw"`)
	})

	t.Run("failure omits success fields", func(t *testing.T) {
		data, err := json.Marshal(Output{Error: "Missing prompt", Kind: "missing_prompt"})
		require.NoError(t, err)
		assert.NotContains(t, string(data), `"images"`)
		assert.NotContains(t, string(data), `"count"`)
		assert.NotContains(t, string(data), `"prompt"`)
	})
}

func TestJobDecoding(t *testing.T) {
	var job Job
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "job-1",
		"input": {
			"prompt": "a red fox",
			"model": "imagen-4-ultra",
			"sample_count": 3,
			"aspect_ratio": "3:4",
			"negative_prompt": "blurry",
			"person_generation": "dont_allow"
		}
	}`), &job))

	assert.Equal(t, "job-1", job.ID)
	assert.Equal(t, "a red fox", job.Input.Prompt)
	assert.Equal(t, "imagen-4-ultra", job.Input.Model)
	assert.Equal(t, 3, job.Input.SampleCount)
	assert.Equal(t, "3:4", job.Input.AspectRatio)
	assert.Equal(t, "blurry", job.Input.NegativePrompt)
	assert.Equal(t, "dont_allow", job.Input.PersonGeneration)
}
