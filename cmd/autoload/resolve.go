package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResolveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve CLASS...",
		Short: "Print the file each class resolves to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, stack, err := buildRegistry(cmd.Context(), opts.configs)
			if err != nil {
				return err
			}
			missing := 0
			for _, class := range args {
				path, ok := stack.Resolve(class)
				if !ok {
					missing++
					path = "not found"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", class, path)
			}
			if missing > 0 {
				return fmt.Errorf("%d of %d: %w", missing, len(args), errUnresolved)
			}
			return nil
		},
	}
}
