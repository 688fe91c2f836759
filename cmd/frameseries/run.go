package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rlstats/frameseries/internal/config"
	"github.com/rlstats/frameseries/internal/logging"
	intOtel "github.com/rlstats/frameseries/internal/otel"
	"github.com/rlstats/frameseries/internal/parser"
	"github.com/rlstats/frameseries/internal/session"
	"github.com/rlstats/frameseries/internal/storage"
)

// AppName names log files and the OTel service default.
const AppName = "frameseries"

// Config is the command line configuration. Everything else comes from
// the config file.
type Config struct {
	ConfigDir string
	Storage   string
	OutputDir string
	LogLevel  string
	Stdout    bool
	Inputs    []string
}

// ParseConfig parses args into a Config. At least one input file is
// required.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.ConfigDir, "config", ".", "directory containing "+config.ConfigFileName)
	fs.StringVar(&cfg.Storage, "storage", "", "storage backend override (memory, sqlite, postgres, influx)")
	fs.StringVar(&cfg.OutputDir, "out", "", "output directory override for the memory backend")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "log level override")
	fs.BoolVar(&cfg.Stdout, "stdout", false, "log to stdout instead of the logs directory")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.Inputs = fs.Args()
	if len(cfg.Inputs) == 0 {
		return Config{}, errors.New("no frame stream files given")
	}
	return cfg, nil
}

// Run processes every input in order. Processing stops at the first input
// that fails to parse, aggregate or save.
func Run(ctx context.Context, cfg Config) error {
	if err := loadConfig(cfg); err != nil {
		return err
	}

	startTime := time.Now()
	var current string

	var logFile *os.File
	if !cfg.Stdout {
		var err error
		logFile, err = logging.OpenLogFile(viper.GetString("logsDir"), AppName, startTime)
		if err != nil {
			return err
		}
		defer logFile.Close()
	}

	otelProvider, err := newOTelProvider(logFile)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelProvider.Shutdown(context.Background()); err != nil {
			slog.Error("OTel shutdown failed", "error", err)
		}
	}()

	// a nil *os.File must not reach Setup as a non-nil io.Writer
	var logOut io.Writer
	if logFile != nil {
		logOut = logFile
	}
	slogManager := logging.NewSlogManager()
	slogManager.Setup(logOut, viper.GetString("logLevel"), otelProvider.LoggerProvider(), func() []slog.Attr {
		return []slog.Attr{slog.String("input", current)}
	})
	logger := slogManager.Logger()
	defer slogManager.Flush(context.Background())

	backend, err := createStorageBackend(config.GetStorageConfig(), logger)
	if err != nil {
		logger.Error("Failed to create storage backend", "error", err)
		return err
	}
	if err := backend.Init(); err != nil {
		logger.Error("Failed to initialize storage backend", "error", err)
		return err
	}
	defer backend.Close()

	p := parser.NewParser(logger)
	for _, path := range cfg.Inputs {
		current = path
		if err := processFile(ctx, p, backend, logger, path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	logger.Info("All inputs processed", "inputs", len(cfg.Inputs), "duration", time.Since(startTime))
	return nil
}

func processFile(ctx context.Context, p *parser.Parser, backend storage.Backend, logger *slog.Logger, path string) error {
	stream, err := p.ParseFile(path)
	if err != nil {
		return err
	}

	name := stream.Name
	if name == "" {
		name = streamName(path)
	}

	s, err := session.New(session.Options{
		Name:       name,
		FrameCount: stream.FrameCount,
		Logger:     logger,
		LogUpdates: viper.GetBool("logUpdates"),
	})
	if err != nil {
		return err
	}
	if err := s.Run(ctx, stream.Frames); err != nil {
		return err
	}

	if err := backend.Save(ctx, s.Result()); err != nil {
		logger.Error("Failed to save session", "session", s.Meta().ID, "error", err)
		return err
	}
	if exp, ok := backend.(storage.Exporter); ok && exp.ExportedFilePath() != "" {
		logger.Info("Series exported", "session", s.Meta().ID, "path", exp.ExportedFilePath())
	}
	return nil
}

// streamName derives a session name from a file path.
func streamName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// loadConfig reads the config file, falling back to defaults when there is
// none, and applies the command line overrides.
func loadConfig(cfg Config) error {
	if err := config.Load(cfg.ConfigDir); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	if cfg.Storage != "" {
		viper.Set("storage.type", cfg.Storage)
	}
	if cfg.OutputDir != "" {
		viper.Set("storage.memory.outputDir", cfg.OutputDir)
	}
	if cfg.LogLevel != "" {
		viper.Set("logLevel", cfg.LogLevel)
	}
	return nil
}

func newOTelProvider(logFile *os.File) (*intOtel.Provider, error) {
	otelCfg := config.GetOTelConfig()
	c := intOtel.Config{
		Enabled:      otelCfg.Enabled,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		Endpoint:     otelCfg.Endpoint,
		Insecure:     otelCfg.Insecure,
	}
	if logFile != nil {
		c.LogWriter = logFile
	}
	p, err := intOtel.New(c)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTel provider: %w", err)
	}
	return p, nil
}
