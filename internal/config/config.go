// Package config loads the YAML configuration shared by the commands.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"blockrsa/internal/ctxlog"
	"blockrsa/internal/history"
	"blockrsa/internal/pipeline"

	"github.com/goccy/go-yaml"
)

// DefaultFile is read from the working directory when present.
const DefaultFile = "decrypt.yaml"

type Config struct {
	Output   string         `yaml:"output"`
	LogDir   string         `yaml:"logDir"`
	LogLevel string         `yaml:"logLevel"`
	History  history.Config `yaml:"history"`
}

func Default() Config {
	return Config{
		Output: pipeline.DefaultOutput,
	}
}

// Load reads filename over the defaults. A missing file is an error only
// when required is set.
func Load(ctx context.Context, filename string, required bool) (Config, error) {
	config := Default()

	file, err := os.Open(filename)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return Config{}, fmt.Errorf("open %q: %w", filename, err)
	}
	defer ctxlog.Close(ctx, "config file", file)

	dec := yaml.NewDecoder(file, yaml.Strict())

	err = dec.Decode(&config)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("yaml: %w", err)
	}

	if config.Output == "" {
		config.Output = pipeline.DefaultOutput
	}
	if _, err := config.Level(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) Level() (slog.Level, error) {
	return ctxlog.ParseLevel(c.LogLevel)
}

func (c Config) Logging() (ctxlog.Options, error) {
	level, err := c.Level()
	if err != nil {
		return ctxlog.Options{}, err
	}
	return ctxlog.Options{Dir: c.LogDir, Level: level}, nil
}
