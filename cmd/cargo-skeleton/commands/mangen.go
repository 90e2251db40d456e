package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"go.trai.ch/zerr"
)

func (c *CLI) newMangenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "mangen",
		Short:  "Generate man pages",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outPath, _ := cmd.Flags().GetString("out-path")
			if err := os.MkdirAll(outPath, 0o755); err != nil { //nolint:gosec // man pages are world readable
				return zerr.With(zerr.Wrap(err, "failed to create man page directory"), "path", outPath)
			}
			header := &doc.GenManHeader{
				Title:   "CARGO-SKELETON",
				Section: "1",
			}
			if err := doc.GenManTree(c.rootCmd, header, outPath); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to generate man pages"), "path", outPath)
			}
			return nil
		},
	}

	cmd.Flags().String("out-path", ".", "Directory the man pages are written to")

	return cmd
}
