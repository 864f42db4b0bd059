package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"subcue/internal/api"
	"subcue/internal/config"
	"subcue/internal/logging"
	"subcue/internal/srt"
	"subcue/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// loggerValue builds the command logger on first use. Logging setup failures
// fall back to a no-op logger so commands still produce output.
func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) indexPolicy(lenient bool) srt.IndexPolicy {
	if lenient {
		return srt.IndexLenient
	}
	if cfg := c.configValue(); cfg != nil {
		return srt.ParseIndexPolicy(cfg.Parser.IndexPolicy)
	}
	return srt.IndexStrict
}

// withTrackService opens the document cache for the duration of fn.
func (c *commandContext) withTrackService(fn func(*api.TrackService) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open document cache: %w", err)
	}
	defer st.Close()
	return fn(api.NewTrackServiceFromConfig(cfg, st, c.loggerValue()))
}

// readDocument loads an SRT document from a path or "-" for stdin.
func (c *commandContext) readDocument(cmd *cobra.Command, source string) (string, error) {
	var (
		raw []byte
		err error
	)
	if source == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		path, expandErr := config.ExpandPath(source)
		if expandErr != nil {
			return "", expandErr
		}
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", source, err)
	}
	if cfg := c.configValue(); cfg != nil && cfg.Fetch.MaxBytes > 0 && int64(len(raw)) > cfg.Fetch.MaxBytes {
		return "", fmt.Errorf("%s exceeds max_bytes (%d)", source, cfg.Fetch.MaxBytes)
	}
	return srt.Decode(raw)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
