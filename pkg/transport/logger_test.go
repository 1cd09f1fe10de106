package transport_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"productbot/pkg/logger"
	"productbot/pkg/transport"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newRequest(t *testing.T, ctx context.Context) *http.Request {
	t.Helper()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.example.com/2/tweets?secret=1", strings.NewReader(`{}`))
	require.NoError(t, err)

	return req
}

func TestWithLogger_LogsStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	rt := transport.WithLogger(transport.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusCreated, Body: io.NopCloser(strings.NewReader(""))}, nil
	}))

	resp, err := rt.RoundTrip(newRequest(t, ctx))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.DebugLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	require.Equal(t, "POST", fields["method"])
	require.Equal(t, "api.example.com", fields["host"])
	require.Equal(t, "/2/tweets", fields["path"])
	require.EqualValues(t, http.StatusCreated, fields["status_code"])
	for _, v := range fields {
		if s, ok := v.(string); ok {
			require.NotContains(t, s, "secret")
		}
	}
}

func TestWithLogger_LogsErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))
	sendErr := errors.New("connection refused")

	rt := transport.WithLogger(transport.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return nil, sendErr
	}))

	_, err := rt.RoundTrip(newRequest(t, ctx))
	require.ErrorIs(t, err, sendErr)

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestNewClient(t *testing.T) {
	c := transport.NewClient(3 * time.Second)
	require.Equal(t, 3*time.Second, c.Timeout)
	require.NotNil(t, c.Transport)
}
