package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"groundwater-backend/internal/bootstrap"
	"groundwater-backend/internal/shared/config"
	"groundwater-backend/internal/shared/telemetry"
)

var (
	initOnce  sync.Once
	initErr   error
	ginLambda *ginadapter.GinLambdaV2
)

func initApp(ctx context.Context) {
	cfg := config.Load()
	telemetry.SetLevel(cfg.LogLevel)
	app, err := bootstrap.BuildWithOptions(ctx, cfg, bootstrap.Options{})
	if err != nil {
		initErr = err
		return
	}
	ginLambda = ginadapter.NewV2(app.Router)
	telemetry.Info("lambda.ready", map[string]any{
		"version": bootstrap.Version,
		"regions": app.Catalog.Len(),
	})
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	initOnce.Do(func() { initApp(ctx) })
	if initErr != nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{"error": initErr})
		return jsonError(`{"error":"bootstrap_failed"}`), initErr
	}
	if ginLambda == nil {
		return jsonError(`{"error":"router_not_initialized"}`), nil
	}
	return ginLambda.ProxyWithContext(ctx, req)
}

func jsonError(body string) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       body,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func main() {
	defer telemetry.Sync()
	lambda.Start(handler)
}
