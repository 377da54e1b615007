package store

import (
	"context"
	"errors"
	"testing"

	cerr "github.com/Yulian302/lfusys-services-notifier/errors"
	logger "github.com/Yulian302/lfusys-services-notifier/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"
)

type fakeSecrets struct {
	out   *secretsmanager.GetSecretValueOutput
	err   error
	calls []string
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls = append(f.calls, aws.ToString(in.SecretId))
	return f.out, f.err
}

func secretString(s string) *secretsmanager.GetSecretValueOutput {
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(s)}
}

func TestGetCredentials(t *testing.T) {
	api := &fakeSecrets{out: secretString(`{"accessKeyId":"AKIAEXAMPLE","secretAccessKey":"shh","extra":1}`)}
	store := NewSecretsManagerCredentialStoreWithClient(api, logger.NewNullLogger())

	creds, err := store.GetCredentials(context.Background(), "prod/notifier")
	require.NoError(t, err)
	require.Equal(t, "AKIAEXAMPLE", creds.AccessKeyID)
	require.Equal(t, "shh", creds.SecretAccessKey)
	require.Equal(t, []string{"prod/notifier"}, api.calls)
}

func TestGetCredentials_FetchesEveryCall(t *testing.T) {
	api := &fakeSecrets{out: secretString(`{"accessKeyId":"A","secretAccessKey":"B"}`)}
	store := NewSecretsManagerCredentialStoreWithClient(api, logger.NewNullLogger())

	for i := 0; i < 3; i++ {
		_, err := store.GetCredentials(context.Background(), "s")
		require.NoError(t, err)
	}
	require.Len(t, api.calls, 3)
}

func TestGetCredentials_NotFound(t *testing.T) {
	tests := map[string]error{
		"typed":   &types.ResourceNotFoundException{Message: aws.String("Secrets Manager can't find the specified secret.")},
		"generic": &smithy.GenericAPIError{Code: "ResourceNotFoundException", Message: "not found"},
	}

	for name, apiErr := range tests {
		t.Run(name, func(t *testing.T) {
			store := NewSecretsManagerCredentialStoreWithClient(&fakeSecrets{err: apiErr}, logger.NewNullLogger())

			_, err := store.GetCredentials(context.Background(), "missing")
			require.ErrorIs(t, err, cerr.ErrSecretNotFound)
		})
	}
}

func TestGetCredentials_TransportError(t *testing.T) {
	boom := errors.New("dial tcp: i/o timeout")
	store := NewSecretsManagerCredentialStoreWithClient(&fakeSecrets{err: boom}, logger.NewNullLogger())

	_, err := store.GetCredentials(context.Background(), "s")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, cerr.ErrSecretNotFound)
}

func TestGetCredentials_Malformed(t *testing.T) {
	tests := map[string]*secretsmanager.GetSecretValueOutput{
		"binary secret":      {SecretBinary: []byte("raw")},
		"not json":           secretString("accessKeyId=A"),
		"missing secret key": secretString(`{"accessKeyId":"A"}`),
		"missing access key": secretString(`{"secretAccessKey":"B"}`),
	}

	for name, out := range tests {
		t.Run(name, func(t *testing.T) {
			store := NewSecretsManagerCredentialStoreWithClient(&fakeSecrets{out: out}, logger.NewNullLogger())

			_, err := store.GetCredentials(context.Background(), "s")
			require.ErrorIs(t, err, cerr.ErrMalformedSecret)
		})
	}
}

func TestGetCredentials_EmptySecretID(t *testing.T) {
	api := &fakeSecrets{}
	store := NewSecretsManagerCredentialStoreWithClient(api, logger.NewNullLogger())

	_, err := store.GetCredentials(context.Background(), "")
	require.Error(t, err)
	require.Empty(t, api.calls)
}
