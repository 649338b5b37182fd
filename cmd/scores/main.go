// Command scores is the Lambda function behind /scores and /scores/averages: round submission, recent rounds and per-hole averages.
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
	zl := logger.New(cfg.LogLevel).Named("scores")

	a, err := app.New(context.Background(), cfg, zl)
	if err != nil {
		log.Fatal(err)
	}

	lambda.Start(a.ScoresHandler())
}
