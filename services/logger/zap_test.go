package logsvc

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/trezcool/register/core"
)

func newObservedLogger() (*ZapLogger, *observer.ObservedLogs) {
	obs, logs := observer.New(zapcore.DebugLevel)
	return NewZapLoggerFrom(zap.New(obs)), logs
}

func TestZapLogger(t *testing.T) {
	logger, logs := newObservedLogger()

	logger.With("service", "api").Info("attendance recorded", "date", "2024-03-01", "changed", 2)
	logger.Error("login failed", "user", "otieno", "password", "hunter2", "X-Auth-Token", "abc")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, map[string]interface{}{"service": "api", "date": "2024-03-01", "changed": int64(2)}, entries[0].ContextMap())

	fields := entries[1].ContextMap()
	assert.Equal(t, "otieno", fields["user"])
	assert.Equal(t, "[REDACTED]", fields["password"])
	assert.Equal(t, "[REDACTED]", fields["X-Auth-Token"])
}

func TestRedact(t *testing.T) {
	tests := []struct {
		name string
		in   []interface{}
		want []interface{}
	}{
		{name: "empty", in: nil, want: nil},
		{name: "single", in: []interface{}{"token"}, want: []interface{}{"token"}},
		{name: "plain", in: []interface{}{"month", "2024-03"}, want: []interface{}{"month", "2024-03"}},
		{name: "secret", in: []interface{}{"DB_PASSWORD", "s3cret", "month", "2024-03"}, want: []interface{}{"DB_PASSWORD", "[REDACTED]", "month", "2024-03"}},
		{name: "dangling", in: []interface{}{"authorization", "Bearer x", "extra"}, want: []interface{}{"authorization", "[REDACTED]", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, redact(tt.in))
		})
	}

	in := []interface{}{"secret", "value"}
	_ = redact(in)
	assert.Equal(t, "value", in[1], "redact should not modify its input")
}

func TestRollbarLogger_prepare(t *testing.T) {
	std, logs := newObservedLogger()
	conf := &core.Config{Env: "TEST", Build: "test"}
	logger := NewRollbarLogger(std, conf)

	errBoom := errors.New("boom")
	args := logger.prepare("generating monthly summary failed", []interface{}{"month", "2024-03", "error", errBoom, "token", "abc"})
	require.Len(t, args, 3)
	assert.Equal(t, "generating monthly summary failed", args[0])
	assert.Equal(t, errBoom, args[1])
	assert.Equal(t, map[string]interface{}{"month": "2024-03", "error": errBoom, "token": "[REDACTED]"}, args[2])

	logger.Warn("reading summary cache failed", "month", "2024-03")
	require.Equal(t, 1, logs.Len(), "entries should be mirrored to the zap logger")
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}
