package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/asthra-lang/asthrac/internal/config"
	"github.com/asthra-lang/asthrac/internal/diag"
)

func newCodesCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "codes",
		Short: "List every stable diagnostic code this compiler can emit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			codes := make([]string, 0, len(diag.CodeRegistry))
			for c := range diag.CodeRegistry {
				codes = append(codes, c)
			}
			sort.Strings(codes)

			for _, c := range codes {
				info := diag.CodeRegistry[c]
				fmt.Fprintf(os.Stdout, "%s  %-10s %-10s %s\n", bold(info.Code), yellow(info.Phase), info.Category, info.Description)
			}
			return nil
		},
	}
}
