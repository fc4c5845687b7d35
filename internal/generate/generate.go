// Package generate abstracts the optional asset generators that produce
// background images and loop videos from text prompts. Generators are
// pluggable: a local command line tool or a hosted HTTP endpoint, chosen per
// generator in configuration.
package generate

import (
	"context"
	"fmt"
	"strings"

	"chillmix/internal/config"
	"chillmix/internal/media"
)

// Generator produces one asset file at outputPath from a text prompt.
type Generator interface {
	Generate(ctx context.Context, prompt, outputPath string) error
}

// New builds a generator from its configuration block.
func New(cfg config.GeneratorConfig, runner media.Runner) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case "command":
		if len(cfg.Command) == 0 {
			return nil, fmt.Errorf("command generator needs a command")
		}
		return &CommandGenerator{Command: cfg.Command, Runner: runner}, nil
	case "http":
		if strings.TrimSpace(cfg.Endpoint) == "" {
			return nil, fmt.Errorf("http generator needs an endpoint")
		}
		return NewHTTPGenerator(cfg.Endpoint, cfg.APIKeyEnv, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown generator mode %q", cfg.Mode)
	}
}
