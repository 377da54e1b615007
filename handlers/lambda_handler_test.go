package handlers

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	logger "github.com/Yulian302/lfusys-services-notifier/logging"
	"github.com/Yulian302/lfusys-services-notifier/models"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubRelay struct {
	res models.Result
	err error
}

func (s stubRelay) Relay(ctx context.Context, _ models.TriggerEvent) (models.Result, error) {
	logger.FromContext(ctx, logger.NewNullLogger()).Info("relaying")
	return s.res, s.err
}

func TestHandle_Handshake(t *testing.T) {
	h := NewLambdaHandler(stubRelay{res: models.Result{Outcome: models.OutcomeHandshake, Body: "abc123"}}, logger.NewNullLogger())

	out, err := h.Handle(context.Background(), models.TriggerEvent{})
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Equal(t, "abc123", *out)
}

func TestHandle_EmptyUploadReturnsNothing(t *testing.T) {
	h := NewLambdaHandler(stubRelay{res: models.Result{Outcome: models.OutcomeEmptyUpload}}, logger.NewNullLogger())

	out, err := h.Handle(context.Background(), models.TriggerEvent{})
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestHandle_Notified(t *testing.T) {
	h := NewLambdaHandler(stubRelay{res: models.Result{Outcome: models.OutcomeNotified, Body: "ok"}}, logger.NewNullLogger())

	out, err := h.Handle(context.Background(), models.TriggerEvent{})
	require.NoError(t, err)
	require.Equal(t, "ok", *out)
}

func TestHandle_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	h := NewLambdaHandler(stubRelay{err: boom}, logger.NewNullLogger())

	out, err := h.Handle(context.Background(), models.TriggerEvent{})
	require.ErrorIs(t, err, boom)
	require.Nil(t, out)
}

func TestInvocationID(t *testing.T) {
	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "req-1"})
	require.Equal(t, "req-1", invocationID(ctx))

	_, err := uuid.Parse(invocationID(context.Background()))
	require.NoError(t, err)
}

func TestHandle_ScopesLoggerToInvocation(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	h := NewLambdaHandler(stubRelay{res: models.Result{Outcome: models.OutcomeNotified, Body: "ok"}}, l)

	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "req-42"})
	_, err := h.Handle(ctx, models.TriggerEvent{})
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	require.Contains(t, string(lines[0]), `"msg":"relaying"`)
	for _, line := range lines {
		require.Contains(t, string(line), `"invocation_id":"req-42"`)
	}
}
