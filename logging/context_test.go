package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	fallback := NewNullLogger()
	require.Equal(t, Logger(fallback), FromContext(context.Background(), fallback))

	var buf bytes.Buffer
	scoped := NewSlogLogger(createLogger(&buf, "production", "info")).With("invocation_id", "req-1")
	ctx := WithContext(context.Background(), scoped)

	FromContext(ctx, fallback).Info("signed")
	require.Contains(t, buf.String(), `"invocation_id":"req-1"`)
}
