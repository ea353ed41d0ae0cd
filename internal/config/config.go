// Package config loads engine settings from the environment.
package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/sasha-s/go-deadlock"

	"github.com/plus3/strata/ecs"
)

const (
	DefaultLogLevel     = "info"
	DefaultTickRate     = 60
	DefaultWindowWidth  = 1280
	DefaultWindowHeight = 720
)

// Config holds every environment setting. Zero values are replaced by the
// defaults above.
type Config struct {
	LogLevel      string `config:"LOG_LEVEL"`
	LogPretty     bool   `config:"LOG_PRETTY"`
	LockChecks    bool   `config:"LOCK_CHECKS"`
	StatsdAddress string `config:"STATSD_ADDRESS"`
	TickRate      int    `config:"TICK_RATE"`
	WindowWidth   int    `config:"WINDOW_WIDTH"`
	WindowHeight  int    `config:"WINDOW_HEIGHT"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := config.FromEnv().To(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "load config from environment")
	}
	cfg.applyDefaults()
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err != nil {
		return Config{}, eris.Wrapf(err, "invalid LOG_LEVEL %q", cfg.LogLevel)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.TickRate <= 0 {
		c.TickRate = DefaultTickRate
	}
	if c.WindowWidth <= 0 {
		c.WindowWidth = DefaultWindowWidth
	}
	if c.WindowHeight <= 0 {
		c.WindowHeight = DefaultWindowHeight
	}
}

// TickInterval is the time between two ticks at TickRate.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// Logger builds a logger writing to stderr.
func (c Config) Logger() zerolog.Logger {
	return c.LoggerTo(os.Stderr)
}

// LoggerTo builds a logger writing to w, using the console writer when
// LogPretty is set.
func (c Config) LoggerTo(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if c.LogPretty {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ApplyLockChecks switches component lock diagnostics on or off. Lock
// diagnostics go to logger and a potential deadlock aborts the process.
func (c Config) ApplyLockChecks(logger zerolog.Logger) {
	ecs.SetLockChecks(c.LockChecks)
	if !c.LockChecks {
		return
	}
	deadlock.Opts.LogBuf = logWriter{logger: logger}
	deadlock.Opts.OnPotentialDeadlock = func() {
		logger.Fatal().Msg("potential deadlock on component lock")
	}
}

type logWriter struct {
	logger zerolog.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	w.logger.Warn().Str("source", "deadlock").Msg(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
