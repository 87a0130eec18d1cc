package param

import (
	"context"
	"os"

	"github.com/samber/do"
)

// EnvFetcher resolves values from the process environment. An unset variable
// yields an empty string, not an error; the worker reports a missing
// credential per invocation rather than refusing to start.
type EnvFetcher struct{}

func NewEnvFetcher(*do.Injector) (Fetcher, error) {
	return &EnvFetcher{}, nil
}

func (*EnvFetcher) Fetch(_ context.Context, name string) (string, error) {
	return os.Getenv(name), nil
}
