package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"sheetmark/adapters/schemefile"

	"github.com/spf13/cobra"
)

func newSchemeCmd(appCtx *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scheme",
		Short: "Inspect mark schemes",
	}
	cmd.AddCommand(newSchemeListCmd(appCtx), newSchemeValidateCmd())
	return cmd
}

func newSchemeListCmd(appCtx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available mark schemes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemes, err := appCtx.schemes().ListSchemes(cmd.Context())
			if err != nil {
				return err
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME\tQUESTIONS\tTOTAL MARKS")
			for _, m := range schemes {
				fmt.Fprintf(writer, "%s\t%s\t%d\t%g\n", m.ID, m.Name, len(m.Questions), m.TotalMarks())
			}
			return writer.Flush()
		},
	}
}

func newSchemeValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scheme.yaml>",
		Short: "Check a mark scheme file for structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read scheme: %w", err)
			}

			m, err := schemefile.NewStore("").Parse(data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %s (%d questions, %g marks)\n",
				m.Name, len(m.Questions), m.TotalMarks())
			return nil
		},
	}
}
