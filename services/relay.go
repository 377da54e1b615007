package services

import (
	"context"
	"fmt"
	"time"

	logger "github.com/Yulian302/lfusys-services-notifier/logging"
	"github.com/Yulian302/lfusys-services-notifier/models"
	"github.com/Yulian302/lfusys-services-notifier/notify"
	"github.com/Yulian302/lfusys-services-notifier/store"
)

type RelayService interface {
	Relay(ctx context.Context, evt models.TriggerEvent) (models.Result, error)
}

type RelayServiceImpl struct {
	credentialStore store.CredentialStore
	linkSigner      store.LinkSigner
	notifier        notify.Notifier

	secretID string
	linkTTL  time.Duration

	logger logger.Logger
}

func NewRelayServiceImpl(
	credentialStore store.CredentialStore,
	linkSigner store.LinkSigner,
	notifier notify.Notifier,
	secretID string,
	linkTTL time.Duration,
	l logger.Logger,
) *RelayServiceImpl {
	return &RelayServiceImpl{
		credentialStore: credentialStore,
		linkSigner:      linkSigner,
		notifier:        notifier,
		secretID:        secretID,
		linkTTL:         linkTTL,
		logger:          l,
	}
}

func (svc *RelayServiceImpl) Relay(ctx context.Context, evt models.TriggerEvent) (models.Result, error) {
	l := logger.FromContext(ctx, svc.logger)
	l.Info("event received", "event", evt)

	outcome, token, upload, err := evt.Classify()
	if err != nil {
		l.Error("rejected trigger event", "error", err)
		return models.Result{}, err
	}

	switch outcome {
	case models.OutcomeHandshake:
		l.Info("answering channel verification challenge")
		return models.Result{Outcome: outcome, Body: token}, nil
	case models.OutcomeEmptyUpload:
		l.Warn("zero-byte uploads are not relayed, please upload a non-empty file", "bucket", upload.Bucket, "key", upload.Key)
		return models.Result{Outcome: outcome}, nil
	}

	body, err := svc.relayUpload(ctx, upload)
	if err != nil {
		return models.Result{}, err
	}

	l.Info("upload relayed", "bucket", upload.Bucket, "key", upload.Key, "size", upload.Size)
	return models.Result{Outcome: models.OutcomeNotified, Body: body}, nil
}

func (svc *RelayServiceImpl) relayUpload(ctx context.Context, upload models.UploadEvent) (string, error) {
	creds, err := svc.credentialStore.GetCredentials(ctx, svc.secretID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve signing credentials: %w", err)
	}

	link, err := svc.linkSigner.Sign(ctx, creds, models.SignedLinkRequest{
		Bucket: upload.Bucket,
		Key:    upload.Key,
		TTL:    svc.linkTTL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign download link: %w", err)
	}

	msg := models.NewNotificationMessage(upload.Key, link)

	body, err := svc.notifier.Notify(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("failed to deliver notification: %w", err)
	}
	return body, nil
}
