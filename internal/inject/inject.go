package inject

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/promptforge/imagen-worker/internal/handler"
	"github.com/promptforge/imagen-worker/internal/image"
	"github.com/promptforge/imagen-worker/internal/log"
	"github.com/promptforge/imagen-worker/internal/param"
	"github.com/samber/do"
)

// Setup wires the worker. Everything is a lazy singleton; the AWS config and
// SSM client are only built when the key actually comes from Parameter Store.
func Setup(ctx context.Context) *do.Injector {
	log := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			log.Info(fmt.Sprintf(format, args...))
		},
	})

	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return config.LoadDefaultConfig(ctx)
	})
	do.Provide[*ssm.Client](injector, func(i *do.Injector) (*ssm.Client, error) {
		return ssm.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.ProvideValue[*http.Client](injector, http.DefaultClient)

	do.Provide[param.Fetcher](injector, func(i *do.Injector) (param.Fetcher, error) {
		if os.Getenv("GEMINI_API_KEY_PARAM") != "" {
			return param.NewParameterStoreFetcher(i)
		}
		return param.NewEnvFetcher(i)
	})
	do.ProvideNamed[string](injector, "api_key", func(i *do.Injector) (string, error) {
		name := os.Getenv("GEMINI_API_KEY_PARAM")
		if name == "" {
			name = "GEMINI_API_KEY"
		}
		return do.MustInvoke[param.Fetcher](i).Fetch(ctx, name)
	})

	do.ProvideNamed[image.Generator](injector, "predict", image.NewImagenGenerator)
	do.ProvideNamed[image.Generator](injector, "generate", image.NewGeminiGenerator)
	do.Provide[image.Generator](injector, image.NewModelRouter)

	do.Provide[*handler.Handler](injector, handler.NewHandler)

	return injector
}
