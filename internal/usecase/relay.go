package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"llm-notify-bridge/internal/extract"
	"llm-notify-bridge/internal/integrations/llm"
	"llm-notify-bridge/internal/integrations/webhook"
)

type LLMClient interface {
	Complete(ctx context.Context, message string) (llm.Completion, error)
}

type Notifier interface {
	Post(ctx context.Context, text string) (webhook.Delivery, error)
}

// Stage is a step of a single run. Runs only move forward.
type Stage int

const (
	StageStart Stage = iota
	StageLLMCalled
	StageContentExtracted
	StageNotifySent
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageLLMCalled:
		return "llm_called"
	case StageContentExtracted:
		return "content_extracted"
	case StageNotifySent:
		return "notify_sent"
	default:
		return "unknown"
	}
}

// Report is the outcome of one relay run.
type Report struct {
	RunID string
	Stage Stage

	LLMStatus int
	// Text is what was posted: the extracted reply or a fallback.
	Text      string
	FromReply bool

	WebhookStatus int

	LLMErr    *Error
	NotifyErr *Error
}

// Delivered reports whether the webhook accepted the payload.
func (r Report) Delivered() bool {
	return r.Stage >= StageNotifySent && r.NotifyErr == nil
}

type RelayService struct {
	llm      LLMClient
	notifier Notifier
	extract  extract.Func
	logger   *zap.Logger
}

func NewRelayService(l LLMClient, n Notifier, ex extract.Func, logger *zap.Logger) (*RelayService, error) {
	if l == nil {
		return nil, errors.New("usecase: llm client must not be nil")
	}
	if n == nil {
		return nil, errors.New("usecase: notifier must not be nil")
	}
	if ex == nil {
		ex = extract.JSON
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RelayService{llm: l, notifier: n, extract: ex, logger: logger}, nil
}

// Run forwards message to the LLM and posts the reply, or a fallback that
// describes the LLM failure, to the webhook. Each endpoint is tried once.
// Failures are recorded on the Report and logged.
func (s *RelayService) Run(ctx context.Context, message string) Report {
	rep := Report{RunID: newUUID(), Stage: StageStart}
	log := s.logger.With(zap.String("run_id", rep.RunID))
	log.Debug("relay started", zap.Stringer("stage", rep.Stage))

	rep.Text, rep.FromReply = s.callLLM(ctx, log, message, &rep)
	rep.Stage = StageContentExtracted
	log.Debug("content ready", zap.Stringer("stage", rep.Stage), zap.Bool("from_reply", rep.FromReply))

	s.notify(ctx, log, &rep)
	rep.Stage = StageNotifySent

	log.Info("relay finished",
		zap.Int("llm_status", rep.LLMStatus),
		zap.Int("webhook_status", rep.WebhookStatus),
		zap.Bool("delivered", rep.Delivered()))
	return rep
}

func (s *RelayService) callLLM(ctx context.Context, log *zap.Logger, message string, rep *Report) (string, bool) {
	out, err := s.llm.Complete(ctx, message)
	rep.Stage = StageLLMCalled
	rep.LLMStatus = out.StatusCode
	if err != nil {
		rep.LLMErr = newError(ErrorLLMUnavailable, "llm_transport_error", err)
		log.Warn("llm call failed, sending fallback", zap.Error(rep.LLMErr))
		return FallbackUnavailable, false
	}

	log.Info("llm response",
		zap.Stringer("stage", rep.Stage),
		zap.Int("status_code", out.StatusCode),
		zap.String("body", out.Body))

	if out.Truncated {
		log.Warn("llm response body exceeded read limit and was truncated",
			zap.Int("kept_bytes", len(out.Body)))
	}

	if !out.OK() {
		rep.LLMErr = newError(ErrorLLMStatus, "llm_non_200", nil)
		log.Warn("llm returned non-200, sending fallback", zap.Int("status_code", out.StatusCode))
		return FallbackForStatus(out.StatusCode), false
	}

	content := s.extract(out.Body)
	if strings.TrimSpace(content) == "" {
		log.Warn("llm reply had no content")
	}
	return content, true
}

func (s *RelayService) notify(ctx context.Context, log *zap.Logger, rep *Report) {
	out, err := s.notifier.Post(ctx, rep.Text)
	rep.WebhookStatus = out.StatusCode
	if err != nil {
		reason := "webhook_transport_error"
		if _, ok := upstreamStatusCode(err); ok {
			reason = "webhook_non_200"
		}
		rep.NotifyErr = newError(ErrorWebhook, reason, err)
		log.Error("webhook delivery failed",
			zap.Int("status_code", out.StatusCode),
			zap.String("body", out.Body),
			zap.Error(rep.NotifyErr))
		return
	}
	log.Info("webhook response",
		zap.Int("status_code", out.StatusCode),
		zap.String("body", out.Body))
}

var newUUID = func() string {
	return uuid.NewString()
}
