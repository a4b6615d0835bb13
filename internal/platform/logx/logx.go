// Package logx centraliza el logging de subtrace sobre zerolog.
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Level representa el nivel de logging.
type Level uint8

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// Fields representa pares clave-valor para structured logging.
type Fields map[string]any

var (
	mu     sync.RWMutex
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).With().Timestamp().Logger()
)

// SetVerbosity configura el nivel: 0/1=info, 2=debug, 3+=trace.
func SetVerbosity(v int) {
	switch {
	case v <= 1:
		SetLevel(LevelInfo)
	case v == 2:
		SetLevel(LevelDebug)
	default:
		SetLevel(LevelTrace)
	}
}

// SetLevel cambia el nivel mínimo de logging.
func SetLevel(l Level) {
	var zlevel zerolog.Level
	switch l {
	case LevelError:
		zlevel = zerolog.ErrorLevel
	case LevelWarn:
		zlevel = zerolog.WarnLevel
	case LevelInfo:
		zlevel = zerolog.InfoLevel
	case LevelDebug:
		zlevel = zerolog.DebugLevel
	case LevelTrace:
		zlevel = zerolog.TraceLevel
	default:
		zlevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(zlevel)
}

// ParseLevel convierte un string a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "err":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "trace":
		return LevelTrace, nil
	default:
		return 0, fmt.Errorf("logx: nivel desconocido %q", s)
	}
}

// SetOutput redirige la salida del logger (útil en tests).
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    true,
	}).With().Timestamp().Logger()
}

func event(l Level) *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	switch l {
	case LevelError:
		return logger.Error()
	case LevelWarn:
		return logger.Warn()
	case LevelDebug:
		return logger.Debug()
	case LevelTrace:
		return logger.Trace()
	default:
		return logger.Info()
	}
}

func logFields(l Level, msg string, fields Fields) {
	ev := event(l)
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// Error loggea un mensaje con campos estructurados.
func Error(msg string, fields ...Fields) { logFields(LevelError, msg, merge(fields)) }

// Warn loggea un warning con campos estructurados.
func Warn(msg string, fields ...Fields) { logFields(LevelWarn, msg, merge(fields)) }

// Info loggea info con campos estructurados.
func Info(msg string, fields ...Fields) { logFields(LevelInfo, msg, merge(fields)) }

// Debug loggea debug con campos estructurados.
func Debug(msg string, fields ...Fields) { logFields(LevelDebug, msg, merge(fields)) }

// Trace loggea trace con campos estructurados.
func Trace(msg string, fields ...Fields) { logFields(LevelTrace, msg, merge(fields)) }

// Errorf y compañía mantienen la API printf clásica.
func Errorf(format string, a ...any) { logFields(LevelError, fmt.Sprintf(format, a...), nil) }
func Warnf(format string, a ...any)  { logFields(LevelWarn, fmt.Sprintf(format, a...), nil) }
func Infof(format string, a ...any)  { logFields(LevelInfo, fmt.Sprintf(format, a...), nil) }
func Debugf(format string, a ...any) { logFields(LevelDebug, fmt.Sprintf(format, a...), nil) }
func Tracef(format string, a ...any) { logFields(LevelTrace, fmt.Sprintf(format, a...), nil) }

func merge(fields []Fields) Fields {
	if len(fields) == 0 {
		return nil
	}
	if len(fields) == 1 {
		return fields[0]
	}
	out := Fields{}
	for _, f := range fields {
		for k, v := range f {
			out[k] = v
		}
	}
	return out
}
