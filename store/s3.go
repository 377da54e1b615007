package store

import (
	"context"
	"fmt"
	"time"

	logger "github.com/Yulian302/lfusys-services-notifier/logging"
	"github.com/Yulian302/lfusys-services-notifier/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type LinkSigner interface {
	Sign(ctx context.Context, creds models.Credentials, req models.SignedLinkRequest) (models.SignedLink, error)
}

// S3LinkSignerImpl presigns GET requests with the credentials it is handed,
// not with the identity the process runs under.
type S3LinkSignerImpl struct {
	awsCfg aws.Config
	now    func() time.Time

	logger logger.Logger
}

func NewS3LinkSignerImpl(awsCfg aws.Config, l logger.Logger) *S3LinkSignerImpl {
	return &S3LinkSignerImpl{
		awsCfg: awsCfg,
		now:    time.Now,
		logger: l,
	}
}

func (s *S3LinkSignerImpl) Sign(ctx context.Context, creds models.Credentials, req models.SignedLinkRequest) (models.SignedLink, error) {
	l := logger.FromContext(ctx, s.logger)

	if err := req.Validate(); err != nil {
		return models.SignedLink{}, err
	}

	signedAt := s.now().Truncate(time.Second)

	presigner := s3.NewPresignClient(s.client(creds))
	presigned, err := presigner.PresignGetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: aws.String(req.Bucket),
			Key:    aws.String(req.Key),
		},
		s3.WithPresignExpires(req.TTL),
	)
	if err != nil {
		l.Error("failed to presign object", "bucket", req.Bucket, "key", req.Key, "error", err)
		return models.SignedLink{}, fmt.Errorf("failed to presign %s/%s: %w", req.Bucket, req.Key, err)
	}

	link := models.SignedLink{
		URL:       presigned.URL,
		ExpiresAt: signedAt.Add(req.TTL),
	}

	l.Debug("presigned object", "bucket", req.Bucket, "key", req.Key, "ttl", req.TTL, "expires_at", link.ExpiresAt)
	return link, nil
}

// client is built per call; nothing derived from creds outlives Sign.
func (s *S3LinkSignerImpl) client(creds models.Credentials) *s3.Client {
	cfg := s.awsCfg.Copy()
	cfg.Credentials = credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, "")

	return s3.NewFromConfig(cfg)
}
