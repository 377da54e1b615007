package store

import (
	"context"
	"errors"
	"fmt"

	cerr "github.com/Yulian302/lfusys-services-notifier/errors"
	logger "github.com/Yulian302/lfusys-services-notifier/logging"
	"github.com/Yulian302/lfusys-services-notifier/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
	"github.com/bytedance/sonic"
)

type CredentialStore interface {
	GetCredentials(ctx context.Context, secretID string) (models.Credentials, error)
}

// SecretsAPI is the part of the Secrets Manager client the store needs.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type SecretsManagerCredentialStoreImpl struct {
	newClient func() SecretsAPI

	logger logger.Logger
}

// NewSecretsManagerCredentialStoreImpl builds a fresh Secrets Manager client for every lookup.
func NewSecretsManagerCredentialStoreImpl(awsCfg aws.Config, l logger.Logger) *SecretsManagerCredentialStoreImpl {
	return &SecretsManagerCredentialStoreImpl{
		newClient: func() SecretsAPI {
			return secretsmanager.NewFromConfig(awsCfg)
		},
		logger: l,
	}
}

func NewSecretsManagerCredentialStoreWithClient(client SecretsAPI, l logger.Logger) *SecretsManagerCredentialStoreImpl {
	return &SecretsManagerCredentialStoreImpl{
		newClient: func() SecretsAPI { return client },
		logger:    l,
	}
}

func (s *SecretsManagerCredentialStoreImpl) GetCredentials(ctx context.Context, secretID string) (models.Credentials, error) {
	l := logger.FromContext(ctx, s.logger)

	if secretID == "" {
		return models.Credentials{}, fmt.Errorf("secretID cannot be empty")
	}

	out, err := s.newClient().GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		if isSecretNotFound(err) {
			l.Error("secret not found", "secret_id", secretID, "error", err)
			return models.Credentials{}, fmt.Errorf("%w: %s: %v", cerr.ErrSecretNotFound, secretID, err)
		}
		l.Error("failed to get secret value", "secret_id", secretID, "error", err)
		return models.Credentials{}, fmt.Errorf("failed to get secret value: %w", err)
	}

	if out.SecretString == nil {
		l.Error("secret has no string value", "secret_id", secretID)
		return models.Credentials{}, fmt.Errorf("%w: %s has no SecretString", cerr.ErrMalformedSecret, secretID)
	}

	var creds models.Credentials
	if err := sonic.UnmarshalString(*out.SecretString, &creds); err != nil {
		// the payload itself is never logged, only the fact that it did not parse
		l.Error("secret is not valid json", "secret_id", secretID)
		return models.Credentials{}, fmt.Errorf("%w: %s is not a JSON object", cerr.ErrMalformedSecret, secretID)
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		l.Error("secret is missing key fields", "secret_id", secretID)
		return models.Credentials{}, fmt.Errorf("%w: %s must contain accessKeyId and secretAccessKey", cerr.ErrMalformedSecret, secretID)
	}

	l.Info("resolved credentials", "secret_id", secretID, "credentials", creds)
	return creds, nil
}

func isSecretNotFound(err error) bool {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException"
}
