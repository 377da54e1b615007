package handlers

import (
	"context"

	logger "github.com/Yulian302/lfusys-services-notifier/logging"
	"github.com/Yulian302/lfusys-services-notifier/models"
	"github.com/Yulian302/lfusys-services-notifier/services"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
)

type LambdaHandler struct {
	relayService services.RelayService

	logger logger.Logger
}

func NewLambdaHandler(relaySvc services.RelayService, l logger.Logger) *LambdaHandler {
	return &LambdaHandler{
		relayService: relaySvc,
		logger:       l,
	}
}

// Handle returns the challenge token, nil for an ignored empty upload, or the
// webhook response body.
func (h *LambdaHandler) Handle(ctx context.Context, evt models.TriggerEvent) (*string, error) {
	l := h.logger.With("invocation_id", invocationID(ctx))
	ctx = logger.WithContext(ctx, l)

	res, err := h.relayService.Relay(ctx, evt)
	if err != nil {
		l.Error("invocation failed", "error", err)
		return nil, err
	}

	l.Info("invocation finished", "outcome", res.Outcome.String())

	if res.Outcome == models.OutcomeEmptyUpload {
		return nil, nil
	}
	return &res.Body, nil
}

func invocationID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.NewString()
}
