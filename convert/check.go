package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"dxh/state"
	"dxh/styles"
)

// Check validates style map file and prints its canonical form. Every bad
// rule is logged, not only the first one.
func Check(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("check")

	name := cmd.Args().First()
	if len(name) == 0 {
		return errors.New("no style map file has been specified")
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("unable to read style map: %w", err)
	}
	sm, err := styles.ParseStyleMap(string(data))
	if err != nil {
		bad := multierr.Errors(err)
		for _, e := range bad {
			var re *styles.RuleError
			if errors.As(e, &re) {
				log.Error("Bad rule", zap.Int("line", re.Line), zap.String("rule", re.Rule), zap.Error(re.Err))
				continue
			}
			log.Error("Bad rule", zap.Error(e))
		}
		return fmt.Errorf("style map %s has %d bad rule(s)", name, len(bad))
	}

	if cmd.Bool("with-defaults") {
		sm = sm.Concat(styles.DefaultStyleMap())
	}
	log.Info("Style map is valid", zap.String("file", name), zap.Int("rules", sm.Len()))

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}
	if _, err := io.WriteString(out, sm.String()); err != nil {
		return fmt.Errorf("unable to write style map: %w", err)
	}
	return nil
}
