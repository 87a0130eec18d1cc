package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/lo"
)

type contextKey struct{}

var discardLogger = New(io.Discard)

// New builds a JSON logger for the hosting runtime. The runtime stamps every
// line itself, so the time attribute is dropped. LOG_LEVEL=debug enables
// debug output.
func New(w io.Writer) *slog.Logger {
	level := lo.Ternary[slog.Level](strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug"), slog.LevelDebug, slog.LevelInfo)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return lo.Ternary(a.Key == slog.TimeKey, slog.Attr{}, a)
		},
	}))
}

func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

func FromContextOrDiscard(ctx context.Context) *slog.Logger {
	if v, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return v
	}
	return discardLogger
}
