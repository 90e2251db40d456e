package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/skeleton/internal/app"
)

func (c *CLI) newUnpackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpack",
		Short: "Reconstruct a skeleton workspace from an archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			archivePath, _ := cmd.Flags().GetString("archive-path")
			outPath, _ := cmd.Flags().GetString("out-path")

			return c.app.Unpack(cmd.Context(), app.UnpackOptions{
				Dir:         ".",
				ArchivePath: archivePath,
				OutPath:     outPath,
			})
		},
	}
	cmd.Flags().StringP("archive-path", "a", "", "Archive to read (default from skeleton.yaml, else skeleton.tar)")
	cmd.Flags().StringP("out-path", "o", "", "Directory to unpack into (default .)")
	return cmd
}
