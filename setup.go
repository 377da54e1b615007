package main

import (
	"context"
	"fmt"

	"github.com/Yulian302/lfusys-services-notifier/config"
	logger "github.com/Yulian302/lfusys-services-notifier/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

type App struct {
	Config    config.Config
	AwsConfig aws.Config

	Services *Services
	Logger   logger.Logger
}

func SetupApp(ctx context.Context) (*App, error) {
	cfg := config.LoadConfig()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	awsCfg, err := initAWS(ctx, *cfg.AWSConfig)
	if err != nil {
		return nil, err
	}

	appLogger := logger.NewSlogLogger(logger.CreateAppLogger(cfg.Env, cfg.LogLevel))

	app := &App{
		Config:    cfg,
		AwsConfig: awsCfg,
		Logger:    appLogger,
	}

	app.Services = BuildServices(app)

	return app, nil
}

// initAWS loads the ambient configuration. Its credentials are only used to read
// the secret; signing uses the key pair stored in that secret.
func initAWS(ctx context.Context, cfg config.AWSConfig) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}
