package logging

import (
	"fmt"

	"github.com/rs/zerolog"
)

// LinkLogger adapts a zerolog.Logger to the link.Logger interface.
type LinkLogger struct {
	logger zerolog.Logger
}

// NewLinkLogger returns a link.Logger writing to logger.
func NewLinkLogger(logger zerolog.Logger) *LinkLogger {
	return &LinkLogger{logger: logger}
}

func (l *LinkLogger) Debug(msg string, keysAndValues ...interface{}) {
	withFields(l.logger.Debug(), keysAndValues).Msg(msg)
}

func (l *LinkLogger) Info(msg string, keysAndValues ...interface{}) {
	withFields(l.logger.Info(), keysAndValues).Msg(msg)
}

func (l *LinkLogger) Error(msg string, keysAndValues ...interface{}) {
	withFields(l.logger.Error(), keysAndValues).Msg(msg)
}

// withFields adds alternating key/value pairs. A trailing key without value
// is logged under "extra".
func withFields(e *zerolog.Event, kv []interface{}) *zerolog.Event {
	for i := 0; i < len(kv); i += 2 {
		if i+1 >= len(kv) {
			e = e.Interface("extra", kv[i])
			break
		}
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		switch v := kv[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	return e
}
