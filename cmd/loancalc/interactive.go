package main

import (
	"github.com/iwvelando/loan-calculator/internal/interactive"
	"github.com/spf13/cobra"
)

func newInteractiveCmd(opts *rootOptions) *cobra.Command {
	var accessible bool
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Fill in the loan form in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, logger, err := opts.load(false)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()
			return interactive.Run(cmd.Context(), logger, cmd.OutOrStdout(), accessible)
		},
	}
	cmd.Flags().BoolVar(&accessible, "accessible", false, "use plain prompts instead of the full screen form")
	return cmd
}
