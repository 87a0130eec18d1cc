package image

import (
	"context"
	"strings"

	"github.com/samber/do"
)

// ModelRouter keeps both endpoint families behind one Generator. The gemini
// models go through the legacy generate endpoint; everything else uses
// predict.
type ModelRouter struct {
	Predict Generator
	Legacy  Generator
}

func NewModelRouter(i *do.Injector) (Generator, error) {
	return &ModelRouter{
		Predict: do.MustInvokeNamed[Generator](i, "predict"),
		Legacy:  do.MustInvokeNamed[Generator](i, "generate"),
	}, nil
}

func (r *ModelRouter) Generate(ctx context.Context, params Params) ([]string, error) {
	if strings.HasPrefix(params.Model, "gemini") {
		return r.Legacy.Generate(ctx, params)
	}
	return r.Predict.Generate(ctx, params)
}
