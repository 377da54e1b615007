package models

import (
	"fmt"
	"log/slog"
	"strings"

	cerr "github.com/Yulian302/lfusys-services-notifier/errors"
)

type Outcome int

const (
	OutcomeHandshake Outcome = iota + 1
	OutcomeEmptyUpload
	OutcomeNotified
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHandshake:
		return "handshake"
	case OutcomeEmptyUpload:
		return "empty_upload"
	case OutcomeNotified:
		return "notified"
	default:
		return "unknown"
	}
}

// TriggerEvent is either a channel verification request or an S3 event notification.
// Challenge is a pointer so that an empty token still counts as a handshake.
type TriggerEvent struct {
	Challenge *string         `json:"challenge,omitempty"`
	Records   []S3EventRecord `json:"Records,omitempty"`
}

type S3EventRecord struct {
	EventName string  `json:"eventName,omitempty"`
	AwsRegion string  `json:"awsRegion,omitempty"`
	S3        *S3Data `json:"s3"`
}

type S3Data struct {
	Bucket *S3BucketData `json:"bucket"`
	Object *S3ObjectData `json:"object"`
}

type S3BucketData struct {
	Name string `json:"name"`
}

type S3ObjectData struct {
	Key  string `json:"key"`
	Size *int64 `json:"size"`
	ETag string `json:"eTag,omitempty"`
}

// UploadEvent is the part of an S3 notification the relay acts on. Key is decoded.
type UploadEvent struct {
	Bucket string
	Key    string
	Size   int64
}

func (u UploadEvent) IsEmpty() bool {
	return u.Size == 0
}

// Classify decides what an invocation does with the event. For OutcomeHandshake the
// returned string is the challenge token. For the upload outcomes the UploadEvent is
// populated from Records[0].
func (e TriggerEvent) Classify() (Outcome, string, UploadEvent, error) {
	if e.Challenge != nil {
		return OutcomeHandshake, *e.Challenge, UploadEvent{}, nil
	}

	upload, err := e.Upload()
	if err != nil {
		return 0, "", UploadEvent{}, err
	}

	if upload.IsEmpty() {
		return OutcomeEmptyUpload, "", upload, nil
	}
	return OutcomeNotified, "", upload, nil
}

func (e TriggerEvent) Upload() (UploadEvent, error) {
	if len(e.Records) == 0 {
		return UploadEvent{}, fmt.Errorf("%w: no records", cerr.ErrMalformedEvent)
	}

	rec := e.Records[0]
	if rec.S3 == nil {
		return UploadEvent{}, fmt.Errorf("%w: records[0].s3 is missing", cerr.ErrMalformedEvent)
	}
	if rec.S3.Bucket == nil || rec.S3.Bucket.Name == "" {
		return UploadEvent{}, fmt.Errorf("%w: records[0].s3.bucket.name is missing", cerr.ErrMalformedEvent)
	}
	obj := rec.S3.Object
	if obj == nil || obj.Key == "" {
		return UploadEvent{}, fmt.Errorf("%w: records[0].s3.object.key is missing", cerr.ErrMalformedEvent)
	}
	if obj.Size == nil {
		return UploadEvent{}, fmt.Errorf("%w: records[0].s3.object.size is missing", cerr.ErrMalformedEvent)
	}
	if *obj.Size < 0 {
		return UploadEvent{}, fmt.Errorf("%w: negative object size %d", cerr.ErrMalformedEvent, *obj.Size)
	}

	return UploadEvent{
		Bucket: rec.S3.Bucket.Name,
		Key:    DecodeObjectKey(obj.Key),
		Size:   *obj.Size,
	}, nil
}

// DecodeObjectKey undoes the form encoding S3 applies to keys in notifications:
// "+" for space and "%XX" escapes. A "%" not followed by two hex digits is kept as is.
func DecodeObjectKey(raw string) string {
	raw = strings.ReplaceAll(raw, "+", " ")
	if !strings.Contains(raw, "%") {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '%' && i+2 < len(raw) && isHex(raw[i+1]) && isHex(raw[i+2]) {
			b.WriteByte(unhex(raw[i+1])<<4 | unhex(raw[i+2]))
			i += 2
			continue
		}
		b.WriteByte(raw[i])
	}
	return strings.ToValidUTF8(b.String(), "\uFFFD")
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// LogValue renders the fields the relay reads instead of the pointer-heavy structs.
func (e TriggerEvent) LogValue() slog.Value {
	if e.Challenge != nil {
		return slog.GroupValue(slog.String("type", "challenge"))
	}

	attrs := []slog.Attr{
		slog.String("type", "s3"),
		slog.Int("records", len(e.Records)),
	}
	if len(e.Records) == 0 {
		return slog.GroupValue(attrs...)
	}

	rec := e.Records[0]
	attrs = append(attrs,
		slog.String("event_name", rec.EventName),
		slog.String("aws_region", rec.AwsRegion),
	)
	if rec.S3 != nil && rec.S3.Bucket != nil {
		attrs = append(attrs, slog.String("bucket", rec.S3.Bucket.Name))
	}
	if rec.S3 != nil && rec.S3.Object != nil {
		obj := rec.S3.Object
		attrs = append(attrs, slog.String("key", obj.Key), slog.String("etag", obj.ETag))
		if obj.Size != nil {
			attrs = append(attrs, slog.Int64("size", *obj.Size))
		}
	}
	return slog.GroupValue(attrs...)
}

// Result is what one invocation produced. Body is the challenge token for a
// handshake and the webhook response for a delivered notification.
type Result struct {
	Outcome Outcome
	Body    string
}
