package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/startpl/pkg/template"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate templates without rendering",
		Long: `Check template files for lexical, structural, and syntax errors.

Validation stops before evaluation, so templates can be checked without
knowing their inputs. Exits non-zero if any file fails.`,
		Example: `  startpl check greeting.tpl
  startpl check templates/*.tpl`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args)
		},
	}
	return cmd
}

func runCheck(cmd *cobra.Command, paths []string) error {
	cfg := GetConfig(cmd.Context())

	var opts []template.Option
	if d := cfg.Delims.Delims(); d != (template.Delims{}) {
		opts = append(opts, template.WithDelims(d))
	}

	failed := 0
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			failed++
			continue
		}

		fileOpts := append(opts[:len(opts):len(opts)], template.WithName(path))
		if err := template.Check(string(src), fileOpts...); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d template(s) failed validation", failed, len(paths))
	}
	return nil
}
