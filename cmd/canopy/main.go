// Command canopy renders a declarative UI payload to the terminal.
//
// The payload is a JSON element tree; variable bindings for its
// expressions come from an optional YAML data file:
//
//	canopy ui.json --data context.yaml
//	canopy ui.json --tree
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/canopyui/canopy"
	celeval "github.com/canopyui/canopy/cel"
	"github.com/canopyui/canopy/internal/logging"
	stareval "github.com/canopyui/canopy/starlark"
	"github.com/canopyui/canopy/termview"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		dataFile string
		backend  string
		showTree bool
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:          "canopy <payload.json>",
		Short:        "Render a declarative UI description to the terminal",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			root, err := canopy.DecodeJSON(payload)
			if err != nil {
				return err
			}

			if showTree {
				fmt.Fprint(cmd.OutOrStdout(), root.Tree())
				return nil
			}

			vars := map[string]any{}
			if dataFile != "" {
				raw, err := os.ReadFile(dataFile)
				if err != nil {
					return err
				}
				if err := yaml.Unmarshal(raw, &vars); err != nil {
					return fmt.Errorf("parsing data file: %w", err)
				}
			}
			ctx, err := canopy.ContextFromMap(vars)
			if err != nil {
				return err
			}

			var evaluator canopy.Evaluator
			switch backend {
			case "cel":
				evaluator = celeval.NewEvaluator()
			case "starlark":
				evaluator = stareval.NewEvaluator()
			default:
				return fmt.Errorf("unknown backend %q (want cel or starlark)", backend)
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := logging.New(level)

			engine := canopy.NewEngine(ctx, evaluator)
			factory := termview.New()

			// The CLI registers no native actions; activating
			// anything rendered here is a no-op.
			renderer := canopy.NewRenderer(engine, factory, canopy.Actions{},
				canopy.WithLogger(logger))

			if err := renderer.Precompile(root); err != nil {
				logger.Warn("some expressions failed to compile", "err", err)
			}

			handle := renderer.Render(root)
			if handle == nil {
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), factory.Render(handle))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "YAML file with data context values")
	cmd.Flags().StringVar(&backend, "backend", "cel", "expression backend (cel or starlark)")
	cmd.Flags().BoolVar(&showTree, "tree", false, "print the element tree instead of rendering")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}
