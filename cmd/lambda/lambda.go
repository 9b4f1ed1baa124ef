package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"wa-highlighter/core"
	"wa-highlighter/infrastructure/loggers"
	"wa-highlighter/infrastructure/servers"
)

var (
	logger        core.Logger
	webhookServer *servers.WebhookServer
)

func init() {
	ctx := context.Background()

	log.Println("initializing settings")
	mySettings, err := servers.LoadSettings(ctx)
	if err != nil {
		log.Fatalf("error on load settings: %v\n", err)
	}

	log.Println("initializing loggers")
	logger, err = loggers.InitializeMultiLogger(mySettings.DoLogToStdout, mySettings.LogLevel)
	if err != nil {
		log.Fatalf("error on initializing multilogger: %v\n", err)
	}

	webhookServer, err = servers.Bootstrap(ctx, mySettings, logger)
	if err != nil {
		logger.Fatal("error on bootstrap: %v", err)
	}
}

func main() {
	adapter := httpadapter.NewV2(webhookServer)
	lambda.Start(adapter.ProxyWithContext)
}
