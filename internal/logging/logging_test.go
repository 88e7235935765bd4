package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestMaskingHandler(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewMaskingHandler(slog.NewTextHandler(&buf, nil)))

	log.With("Token", "abc").Info("login", "username", "bob", "password", "hunter22")

	out := buf.String()
	assert.Contains(t, out, "username=bob")
	assert.Contains(t, out, "password=***")
	assert.Contains(t, out, "Token=***")
	assert.NotContains(t, out, "hunter22")
	assert.NotContains(t, out, "abc")
}

type credentials struct {
	user, password string
}

func (c credentials) LogValue() slog.Value {
	return slog.GroupValue(slog.String("user", c.user), slog.String("password", c.password))
}

func TestMaskingHandler_NestedGroups(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewMaskingHandler(slog.NewTextHandler(&buf, nil)))

	log.Info("oidc callback",
		slog.Group("auth", "token", "abc", slog.Group("upstream", "secret", "s3cr3t", "issuer", "https://id.example")),
		"creds", credentials{user: "bob", password: "hunter22"},
	)
	log.With(slog.Group("request", "cookie", "sid=xyz")).Info("served")

	out := buf.String()
	assert.Contains(t, out, "auth.token=***")
	assert.Contains(t, out, "auth.upstream.secret=***")
	assert.Contains(t, out, "auth.upstream.issuer=https://id.example")
	assert.Contains(t, out, "creds.user=bob")
	assert.Contains(t, out, "creds.password=***")
	assert.Contains(t, out, "request.cookie=***")
	for _, secret := range []string{"abc", "s3cr3t", "hunter22", "sid=xyz"} {
		assert.NotContains(t, out, secret)
	}
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bmitrack.log")
	log, closer, err := New(Options{Level: "debug", Format: "json", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	log.Debug("hello", "weight", 70.5)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"weight":70.5`)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, _, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))

	ctx, id := WithRequestID(ctx)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, RequestID(ctx))

	var buf bytes.Buffer
	FromContext(ctx, slog.New(slog.NewTextHandler(&buf, nil))).Info("x")
	assert.Contains(t, buf.String(), "request_id="+id)
}
