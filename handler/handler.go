package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"llm-notify-bridge/internal/usecase"
)

type Relayer interface {
	Run(ctx context.Context, message string) usecase.Report
}

type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

type runSummary struct {
	RunID         string `json:"runId"`
	LLMStatus     int    `json:"llmStatus"`
	WebhookStatus int    `json:"webhookStatus"`
	Delivered     bool   `json:"delivered"`
	Error         string `json:"error,omitempty"`
}

// Handler runs the relay once per Lambda invocation, typically from a
// scheduled EventBridge rule.
type Handler struct {
	relay   Relayer
	message string
	logger  *zap.Logger
}

func NewHandler(relay Relayer, message string, logger *zap.Logger) (*Handler, error) {
	if relay == nil {
		return nil, errors.New("handler: relay must not be nil")
	}
	if strings.TrimSpace(message) == "" {
		return nil, errors.New("handler: message must not be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{relay: relay, message: message, logger: logger}, nil
}

// Handle never returns an error: a failed delivery is reported in the
// response so the platform does not re-invoke the function.
func (h *Handler) Handle(ctx context.Context, event events.CloudWatchEvent) (Response, error) {
	h.logger.Info("invocation received",
		zap.String("event_id", event.ID),
		zap.String("source", event.Source),
		zap.String("detail_type", event.DetailType))

	rep := h.relay.Run(ctx, h.message)

	summary := runSummary{
		RunID:         rep.RunID,
		LLMStatus:     rep.LLMStatus,
		WebhookStatus: rep.WebhookStatus,
		Delivered:     rep.Delivered(),
	}
	status := http.StatusOK
	if !summary.Delivered {
		status = http.StatusBadGateway
		if rep.NotifyErr != nil {
			summary.Error = string(rep.NotifyErr.Code)
		}
	}

	body, err := json.Marshal(summary)
	if err != nil {
		h.logger.Error("failed to marshal run summary", zap.Error(err))
		body = []byte(`{}`)
	}
	return Response{
		StatusCode: status,
		Headers:    map[string]string{"content-type": "application/json", "x-run-id": rep.RunID},
		Body:       string(body),
	}, nil
}
