package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	starback "github.com/leapstack-labs/startpl/internal/starlark"
	"github.com/leapstack-labs/startpl/internal/watch"
	"github.com/leapstack-labs/startpl/pkg/template"
)

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	var (
		varFlags  []string
		watchFlag bool
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a template",
		Long: `Render a template file with named inputs and print the result.

Reads from stdin when the file is "-" or omitted. Inputs come from the
config file's vars section and --var flags; --var wins on conflicts.`,
		Example: `  startpl render greeting.tpl --var name=Ada
  echo 'Hello {{ name }}!' | startpl render --var name=Ada
  startpl render page.tpl --watch -o page.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runRender(cmd, path, varFlags, watchFlag)
		},
	}

	cmd.Flags().StringArrayVar(&varFlags, "var", nil, "Template input as name=value (repeatable)")
	cmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-render whenever the template file changes")

	return cmd
}

func runRender(cmd *cobra.Command, path string, varFlags []string, watchFlag bool) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	logger := GetLogger(ctx)

	if !cmd.Flags().Changed("watch") {
		watchFlag = cfg.Watch
	}

	vars, err := mergeVars(cfg.Vars, varFlags)
	if err != nil {
		return err
	}

	if path == "-" {
		if watchFlag {
			return fmt.Errorf("cannot watch stdin")
		}
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		return renderSource(cmd, "stdin", string(src), vars)
	}

	render := func() error {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template: %w", err)
		}
		return renderSource(cmd, path, string(src), vars)
	}

	if err := render(); err != nil {
		if !watchFlag {
			return err
		}
		// In watch mode the first render may legitimately fail; keep
		// watching so the author can fix the template.
		logger.Error("render failed", "error", err)
	}

	if !watchFlag {
		return nil
	}

	logger.Info("watching for changes", "path", path)
	wctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = watch.New(path, render, logger).Run(wctx)
	if err != nil && wctx.Err() != nil {
		// Cancelled by signal, a clean exit.
		return nil
	}
	return err
}

// renderSource compiles and renders a single template source, exposing a
// "tpl" struct with the template's name and path to the embedded code.
func renderSource(cmd *cobra.Command, name, src string, vars map[string]any) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	logger := GetLogger(ctx)

	tplInfo, err := starback.Struct("tpl", map[string]any{
		"name": filepath.Base(name),
		"path": name,
	})
	if err != nil {
		return err
	}

	opts := []template.Option{
		template.WithName(name),
		template.WithGlobals(map[string]any{"tpl": tplInfo}),
	}
	if d := cfg.Delims.Delims(); d != (template.Delims{}) {
		opts = append(opts, template.WithDelims(d))
	}

	logger.Debug("rendering template", "name", name, "vars", len(vars))

	out, err := template.Render(src, vars, opts...)
	if err != nil {
		return err
	}
	return writeOutput(cmd, cfg.Output, out)
}

// mergeVars overlays --var name=value pairs on the configured vars. Flag
// values are passed through as strings; the config file carries typed values.
func mergeVars(base map[string]any, flags []string) (map[string]any, error) {
	vars := make(map[string]any, len(base)+len(flags))
	for k, v := range base {
		vars[k] = v
	}
	for _, f := range flags {
		name, value, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q: expected name=value", f)
		}
		vars[name] = value
	}
	return vars, nil
}

// writeOutput writes rendered output to the configured file, or stdout when
// no output file is set.
func writeOutput(cmd *cobra.Command, path, out string) error {
	if path == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
