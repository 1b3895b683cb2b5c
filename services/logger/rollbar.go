package logsvc

import (
	"fmt"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/register/core"
)

// RollbarLogger reports to Rollbar and mirrors every entry to a zap logger.
type RollbarLogger struct {
	std *ZapLogger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *ZapLogger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.Debug)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// prepare turns key/value pairs into rollbar's expected fmt: msg, error, map[string]interface{}
func (l RollbarLogger) prepare(msg string, keysAndValues []interface{}) []interface{} {
	args := []interface{}{msg}
	extras := make(map[string]interface{}, len(keysAndValues)/2)

	kv := redact(keysAndValues)
	for i := 0; i < len(kv); i += 2 {
		if i+1 == len(kv) {
			extras["extra"] = kv[i]
			break
		}
		if err, ok := kv[i+1].(error); ok {
			args = append(args, err)
		}
		extras[fmt.Sprint(kv[i])] = kv[i+1]
	}
	if len(extras) > 0 {
		args = append(args, extras)
	}
	return args
}

func (l RollbarLogger) Debug(msg string, keysAndValues ...interface{}) {
	rollbar.Debug(l.prepare(msg, keysAndValues)...)
	l.std.Debug(msg, keysAndValues...)
}

func (l RollbarLogger) Info(msg string, keysAndValues ...interface{}) {
	rollbar.Info(l.prepare(msg, keysAndValues)...)
	l.std.Info(msg, keysAndValues...)
}

func (l RollbarLogger) Warn(msg string, keysAndValues ...interface{}) {
	rollbar.Warning(l.prepare(msg, keysAndValues)...)
	l.std.Warn(msg, keysAndValues...)
}

func (l RollbarLogger) Error(msg string, keysAndValues ...interface{}) {
	rollbar.Error(l.prepare(msg, keysAndValues)...)
	l.std.Error(msg, keysAndValues...)
}

func (l RollbarLogger) Fatal(msg string, keysAndValues ...interface{}) {
	rollbar.Critical(l.prepare(msg, keysAndValues)...)
	rollbar.Wait()
	l.std.Fatal(msg, keysAndValues...)
}
