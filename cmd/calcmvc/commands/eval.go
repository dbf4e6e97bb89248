package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/calcmvc/internal/model"
)

func evalCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "eval EXPR...",
		Short: "Evaluate an expression the way the = key does",
		Long: `eval feeds its arguments to the calculator model as if they had been
typed, then calculates. A failed evaluation prints 0 unless --strict is set.`,
		Example: `  calcmvc eval 6*7
  calcmvc eval "(1 + 2) ** 10"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := model.New()
			for _, arg := range args {
				m.Event(arg)
			}
			out := m.Calculate()
			if !out.OK && strict {
				return fmt.Errorf("evaluating %q: %w", out.Input, out.Err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), m.Value())
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail instead of printing 0 when evaluation fails")
	return cmd
}
