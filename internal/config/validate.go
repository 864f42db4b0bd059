package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateParser(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateQuiz(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateParser() error {
	switch c.Parser.IndexPolicy {
	case "strict", "lenient":
		return nil
	default:
		return fmt.Errorf("parser.index_policy must be strict or lenient, got %q", c.Parser.IndexPolicy)
	}
}

func (c *Config) validateFetch() error {
	if c.Fetch.MaxBytes < 0 {
		return errors.New("fetch.max_bytes must be positive")
	}
	return nil
}

func (c *Config) validateQuiz() error {
	if c.Quiz.MinWords < 2 {
		return errors.New("quiz.min_words must be at least 2")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
