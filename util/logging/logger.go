package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var (
	defaultLogger     zerolog.Logger
	defaultLoggerOnce sync.Once

	subsystemLoggers   = map[string]*zerolog.Logger{}
	subsystemLoggersMu sync.Mutex
)

func initDefaultLogger() {
	defaultLoggerOnce.Do(func() {
		var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		if os.Getenv("LOG_FORMAT") == "json" {
			out = os.Stderr
		}
		defaultLogger = zerolog.New(out).With().Timestamp().Logger()
		if lvl, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL"))); err == nil && lvl != zerolog.NoLevel {
			defaultLogger = defaultLogger.Level(lvl)
		} else {
			defaultLogger = defaultLogger.Level(zerolog.InfoLevel)
		}
	})
}

// GetDefaultLogger returns the process-wide logger.
func GetDefaultLogger() *zerolog.Logger {
	initDefaultLogger()
	return &defaultLogger
}

// GetSubsystemLogger returns a logger tagged with component=name. Loggers
// are cached per name.
func GetSubsystemLogger(name string) *zerolog.Logger {
	initDefaultLogger()

	subsystemLoggersMu.Lock()
	defer subsystemLoggersMu.Unlock()
	if l, ok := subsystemLoggers[name]; ok {
		return l
	}
	l := defaultLogger.With().Str("component", name).Logger()
	subsystemLoggers[name] = &l
	return &l
}

// SetLevel changes the level of the default logger and every subsystem
// logger handed out so far. Unknown levels are ignored.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		return
	}
	initDefaultLogger()

	subsystemLoggersMu.Lock()
	defer subsystemLoggersMu.Unlock()
	defaultLogger = defaultLogger.Level(lvl)
	for name, l := range subsystemLoggers {
		updated := l.Level(lvl)
		*subsystemLoggers[name] = updated
	}
}

// GinLogger logs one line per request on the "http" subsystem logger.
func GinLogger() gin.HandlerFunc {
	logger := GetSubsystemLogger("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		} else if status >= 400 {
			event = logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
