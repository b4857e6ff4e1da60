package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"llm-notify-bridge/handler"
	"llm-notify-bridge/internal/config"
	"llm-notify-bridge/internal/extract"
	"llm-notify-bridge/internal/integrations/llm"
	"llm-notify-bridge/internal/integrations/paramstore"
	"llm-notify-bridge/internal/integrations/webhook"
	"llm-notify-bridge/internal/logging"
	"llm-notify-bridge/internal/usecase"
)

// lambdaRuntimeKey is set by the Lambda runtime; its presence selects the
// Lambda entry point instead of a one-shot run.
const lambdaRuntimeKey = "AWS_LAMBDA_RUNTIME_API"

func main() {
	_ = godotenv.Load()
	os.Exit(run(context.Background(), env.ToMap(os.Environ())))
}

// run exits 1 only when configuration is unusable. LLM and webhook failures
// are logged and still exit 0.
func run(ctx context.Context, environ map[string]string) int {
	// ---- Configuration ----
	cfg, err := config.LoadFrom(environ)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	if cfg.HasParamRefs() {
		if err := resolveParams(ctx, &cfg); err != nil {
			logger.Error("failed to resolve parameter store references", zap.Error(err))
			return 1
		}
	}

	// ---- Clients ----
	relay, err := newRelay(cfg, logger)
	if err != nil {
		logger.Error("failed to create relay", zap.Error(err))
		return 1
	}

	if environ[lambdaRuntimeKey] != "" {
		h, err := handler.NewHandler(relay, cfg.Message, logger)
		if err != nil {
			logger.Error("failed to create handler", zap.Error(err))
			return 1
		}
		lambda.Start(h.Handle)
		return 0
	}

	relay.Run(ctx, cfg.Message)
	return 0
}

func resolveParams(ctx context.Context, cfg *config.Config) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load AWS config: %w", err)
	}
	ps, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		return err
	}
	return cfg.ResolveParams(ctx, ps)
}

func newRelay(cfg config.Config, logger *zap.Logger) (*usecase.RelayService, error) {
	llmClient, err := llm.NewClient(cfg.LLMURL, cfg.LLMKey,
		llm.WithModel(cfg.Model),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.LLMTimeout}),
	)
	if err != nil {
		return nil, err
	}
	webhookClient, err := webhook.NewClient(cfg.WebhookURL,
		webhook.WithHTTPClient(&http.Client{Timeout: cfg.WebhookTimeout}),
	)
	if err != nil {
		return nil, err
	}
	return usecase.NewRelayService(llmClient, webhookClient, extract.ForMode(cfg.ExtractMode), logger)
}
