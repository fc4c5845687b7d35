package generate

import (
	"context"
	"fmt"
	"strings"

	"chillmix/internal/media"
	"chillmix/internal/paths"
)

// CommandGenerator shells out to a local tool. The configured argv template
// substitutes {prompt} and {output} before execution, so any image or video
// tool with a file-output mode can serve.
type CommandGenerator struct {
	Command []string
	Runner  media.Runner
}

func (g *CommandGenerator) Generate(ctx context.Context, prompt, outputPath string) error {
	if len(g.Command) == 0 {
		return fmt.Errorf("command generator: empty command")
	}

	argv := make([]string, len(g.Command))
	for i, arg := range g.Command {
		arg = strings.ReplaceAll(arg, "{prompt}", prompt)
		arg = strings.ReplaceAll(arg, "{output}", outputPath)
		argv[i] = arg
	}

	_, err := g.Runner.Run(ctx, argv[0], argv[1:], media.RunOptions{})
	if err != nil {
		return fmt.Errorf("generator command %s: %w", argv[0], err)
	}

	ok, err := paths.FileExists(outputPath)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("generator command %s produced no output at %s", argv[0], outputPath)
	}
	return nil
}

var _ Generator = (*CommandGenerator)(nil)
