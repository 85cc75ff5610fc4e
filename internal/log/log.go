package log

import (
	"io"
	"os"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type Options struct {
	Level   string // trace, debug, info, warn, error
	Console bool   // human-readable output instead of JSON lines
	File    string // optional extra sink
}

var (
	mu     sync.RWMutex
	logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// Setup configures the process logger. The returned closer releases the
// log file, if one was opened.
func Setup(o Options) (io.Closer, error) {
	var w io.Writer = os.Stdout
	if o.Console {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	var closer io.Closer = nopCloser{}
	if o.File != "" {
		f, err := os.OpenFile(o.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return closer, err
		}
		w = zerolog.MultiLevelWriter(w, f)
		closer = f
	}
	lvl, err := zerolog.ParseLevel(o.Level)
	if err != nil || o.Level == "" {
		lvl = zerolog.InfoLevel
	}
	set(zerolog.New(w).Level(lvl).With().Timestamp().Logger())
	return closer, nil
}

// SetOutput redirects JSON lines to w, mainly for tests capturing entries.
func SetOutput(w io.Writer) {
	set(zerolog.New(w).With().Timestamp().Logger())
}

func set(l zerolog.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

// L returns the process logger for code running outside a request.
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

func write(ev *zerolog.Event, c *fiber.Ctx, action string, err error, fields map[string]any) {
	ev = ev.Str("action", action)
	if c != nil {
		ev = ev.Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.Path())
		if st := c.Response().StatusCode(); st != 0 {
			ev = ev.Int("status", st)
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			ev = ev.Str("req_id", rid)
		}
		if uid, ok := c.Locals("user_id").(int64); ok && uid != 0 {
			ev = ev.Int64("user_id", uid)
		}
	}
	if err != nil {
		ev = ev.Err(err)
	}
	if len(fields) > 0 {
		ev = ev.Interface("fields", fields)
	}
	ev.Send()
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(L().Info(), c, action, nil, fields)
}

// Audit records a state change performed by an authenticated caller.
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(L().Info().Str("kind", "audit"), c, action, nil, fields)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(L().Warn().Str("kind", "security"), c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(L().Error(), c, action, err, fields)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
