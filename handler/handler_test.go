package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/require"

	"llm-notify-bridge/internal/usecase"
)

type stubRelay struct {
	rep      usecase.Report
	messages []string
}

func (s *stubRelay) Run(_ context.Context, message string) usecase.Report {
	s.messages = append(s.messages, message)
	return s.rep
}

func makeEvent() events.CloudWatchEvent {
	return events.CloudWatchEvent{
		ID:         "evt-1",
		Source:     "aws.events",
		DetailType: "Scheduled Event",
	}
}

func parseBody[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

func TestNewHandler_ValidatesDependencies(t *testing.T) {
	_, err := NewHandler(nil, "hi", nil)
	require.Error(t, err)

	_, err = NewHandler(&stubRelay{}, "  ", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "message")
}

func TestHandle_Delivered(t *testing.T) {
	relay := &stubRelay{rep: usecase.Report{
		RunID:         "run-1",
		Stage:         usecase.StageNotifySent,
		LLMStatus:     http.StatusOK,
		WebhookStatus: http.StatusOK,
	}}
	h, err := NewHandler(relay, "Summarize deploys", nil)
	require.NoError(t, err)

	resp, err := h.Handle(context.Background(), makeEvent())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"Summarize deploys"}, relay.messages)
	require.Equal(t, map[string]string{"content-type": "application/json", "x-run-id": "run-1"}, resp.Headers)

	out := parseBody[runSummary](t, resp.Body)
	require.Equal(t, runSummary{RunID: "run-1", LLMStatus: 200, WebhookStatus: 200, Delivered: true}, out)
}

func TestHandle_LLMFailureStillDelivered(t *testing.T) {
	relay := &stubRelay{rep: usecase.Report{
		RunID:         "run-2",
		Stage:         usecase.StageNotifySent,
		LLMStatus:     http.StatusInternalServerError,
		Text:          usecase.FallbackForStatus(500),
		WebhookStatus: http.StatusOK,
		LLMErr:        &usecase.Error{Code: usecase.ErrorLLMStatus, Reason: "llm_non_200"},
	}}
	h, err := NewHandler(relay, "hi", nil)
	require.NoError(t, err)

	resp, err := h.Handle(context.Background(), makeEvent())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := parseBody[runSummary](t, resp.Body)
	require.Equal(t, 500, out.LLMStatus)
	require.True(t, out.Delivered)
}

func TestHandle_WebhookFailureIsNotAnError(t *testing.T) {
	relay := &stubRelay{rep: usecase.Report{
		RunID:     "run-3",
		Stage:     usecase.StageNotifySent,
		LLMStatus: http.StatusOK,
		NotifyErr: &usecase.Error{Code: usecase.ErrorWebhook, Reason: "webhook_transport_error"},
	}}
	h, err := NewHandler(relay, "hi", nil)
	require.NoError(t, err)

	resp, err := h.Handle(context.Background(), makeEvent())
	require.NoError(t, err)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	out := parseBody[runSummary](t, resp.Body)
	require.False(t, out.Delivered)
	require.Equal(t, string(usecase.ErrorWebhook), out.Error)
}
