package param

import "context"

// Fetcher resolves a named configuration value, such as the upstream API key.
// An empty value with a nil error means the value is simply not configured;
// callers decide whether that is fatal.
type Fetcher interface {
	Fetch(context.Context, string) (string, error)
}
