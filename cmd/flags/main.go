// Command flags is the Lambda function behind /flags: feature flags per environment, cached for the life of the container.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/smartgolf/smartgolf-api/internal/app"
	"github.com/smartgolf/smartgolf-api/internal/config"
	"github.com/smartgolf/smartgolf-api/internal/logger"
)

func main() {
	cfg := config.Load()
	zl := logger.New(cfg.LogLevel).Named("flags")

	a, err := app.New(context.Background(), cfg, zl)
	if err != nil {
		log.Fatal(err)
	}

	lambda.Start(a.FlagsHandler())
}
