package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.uber.org/zap"

	"portfolio-site/internal/app"
	"portfolio-site/internal/config"
	"portfolio-site/internal/integrations/paramstore"
	"portfolio-site/internal/logging"
	"portfolio-site/internal/repository"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cfg.RequireLambda(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, syncLogs, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer syncLogs()

	// ---- AWS SDK config ----
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Fatal("failed to load AWS config", zap.Error(err))
	}

	// ---- Clients ----
	ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		logger.Fatal("failed to create SSM client", zap.Error(err))
	}
	prefs, err := repository.New(awsdynamodb.NewFromConfig(awsCfg), cfg.StateTable)
	if err != nil {
		logger.Fatal("failed to create preference store", zap.Error(err))
	}

	// ---- Handler ----
	h, err := app.NewHandler(cfg, app.Deps{
		Secrets:     ssmClient,
		ParamPrefix: cfg.ParamPrefix,
		Transcripts: repository.NewTranscripts(
			repository.WithTTL(cfg.TranscriptTTL),
			repository.WithMaxConversations(cfg.MaxConversations),
		),
		Preferences: prefs,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("failed to create handler", zap.Error(err))
	}

	lambda.Start(h.Handle)
}
