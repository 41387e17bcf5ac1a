package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/startpl/pkg/template"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	var showSource bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show a template's token stream and generated program",
		Long: `Inspect the compilation pipeline for a template: the token stream the
lexer produces and, with --source, the program generated from it.`,
		Example: `  startpl inspect greeting.tpl
  startpl inspect greeting.tpl --source`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], showSource)
		},
	}

	cmd.Flags().BoolVar(&showSource, "source", false, "Also print the generated program")

	return cmd
}

func runInspect(cmd *cobra.Command, path string, showSource bool) error {
	cfg := GetConfig(cmd.Context())

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	opts := []template.Option{template.WithName(path)}
	if d := cfg.Delims.Delims(); d != (template.Delims{}) {
		opts = append(opts, template.WithDelims(d))
	}

	tokens, err := template.Tokenize(string(src), opts...)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Kind", "Pos", "Trim", "Opens", "Text"})
	for i, tok := range tokens {
		t.AppendRow(table.Row{
			i,
			tok.Kind.String(),
			fmt.Sprintf("%d:%d", tok.Pos.Line, tok.Pos.Column),
			trimMarks(tok),
			tok.Opens,
			truncate(strconv.Quote(tok.Text), 60),
		})
	}
	t.Render()

	if showSource {
		generated, err := template.GenerateSource(string(src), opts...)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprint(cmd.OutOrStdout(), generated)
	}
	return nil
}

// trimMarks renders the trim flags the way they appear in source.
func trimMarks(tok template.Token) string {
	switch {
	case tok.TrimBefore && tok.TrimAfter:
		return "-/-"
	case tok.TrimBefore:
		return "-/"
	case tok.TrimAfter:
		return "/-"
	default:
		return ""
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
