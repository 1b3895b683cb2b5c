package logsvc

import (
	"strings"

	"go.uber.org/zap"

	"github.com/trezcool/register/core"
)

// ZapLogger is the structured logger used everywhere; other loggers mirror to it.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

var _ core.Logger = (*ZapLogger)(nil)

// NewZapLogger builds a production (JSON) logger in "prod" mode and a development (console) logger otherwise.
func NewZapLogger(mode string) (*ZapLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)

	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &ZapLogger{sugar: zl.Sugar()}, nil
}

// NewZapLoggerFrom wraps an existing zap logger (e.g. zaptest or zap.NewNop in tests).
func NewZapLoggerFrom(zl *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: zl.Sugar()}
}

func (l *ZapLogger) Sync() {
	_ = l.sugar.Sync()
}

func (l *ZapLogger) With(keysAndValues ...interface{}) *ZapLogger {
	return &ZapLogger{sugar: l.sugar.With(redact(keysAndValues)...)}
}

func (l *ZapLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, redact(keysAndValues)...)
}

func (l *ZapLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, redact(keysAndValues)...)
}

func (l *ZapLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, redact(keysAndValues)...)
}

func (l *ZapLogger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, redact(keysAndValues)...)
}

func (l *ZapLogger) Fatal(msg string, keysAndValues ...interface{}) {
	l.sugar.Fatalw(msg, redact(keysAndValues)...)
}

// redact hides the values of secret-looking keys.
func redact(kv []interface{}) []interface{} {
	if len(kv) < 2 {
		return kv
	}
	out := make([]interface{}, len(kv))
	copy(out, kv)
	for i := 0; i+1 < len(out); i += 2 {
		key, ok := out[i].(string)
		if ok && isSecretKey(key) {
			out[i+1] = "[REDACTED]"
		}
	}
	return out
}

func isSecretKey(key string) bool {
	key = strings.ToLower(key)
	for _, s := range []string{"password", "token", "secret", "authorization"} {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}
