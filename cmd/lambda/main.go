// Command lambda runs the waitlist API as an AWS Lambda function.
package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/autoforge/waitlist-api/pkg/app"
	awslambda "github.com/autoforge/waitlist-api/pkg/lambda"
)

func main() {
	deps, err := app.Build(prometheus.NewRegistry())
	if err != nil {
		panic(err)
	}
	defer deps.Log.Sync()

	handler, err := awslambda.NewHandler(deps.Router, deps.Config.LambdaEventFormat)
	if err != nil {
		deps.Log.Fatal("error creating lambda handler", zap.Error(err))
	}

	deps.Log.Info("starting lambda handler",
		zap.String("mode", deps.Config.Mode),
		zap.String("event_format", deps.Config.LambdaEventFormat),
	)
	lambda.Start(handler)
}
