package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"github.com/promptforge/imagen-worker/internal/handler"
	"github.com/promptforge/imagen-worker/internal/inject"
	"github.com/promptforge/imagen-worker/internal/log"
	"github.com/samber/do"
)

func main() {
	_ = godotenv.Load()

	ctx := log.NewContext(context.Background(), log.New(os.Stderr))
	injector := inject.Setup(ctx)
	handler := do.MustInvoke[*handler.Handler](injector)
	lambda.StartWithOptions(handler.Handle, lambda.WithContext(ctx), lambda.WithEnableSIGTERM(func() {
		_ = injector.Shutdown()
	}))
}
