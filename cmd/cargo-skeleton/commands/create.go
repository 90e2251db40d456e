package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/skeleton/internal/app"
)

func (c *CLI) newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Write a skeleton archive of the current workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manifestPath, _ := cmd.Flags().GetString("manifest-path")
			outPath, _ := cmd.Flags().GetString("out-path")
			features, _ := cmd.Flags().GetStringSlice("features")
			allFeatures, _ := cmd.Flags().GetBool("all-features")
			noDefaultFeatures, _ := cmd.Flags().GetBool("no-default-features")

			return c.app.Create(cmd.Context(), app.CreateOptions{
				Dir:               ".",
				ManifestPath:      manifestPath,
				OutPath:           outPath,
				Features:          features,
				AllFeatures:       allFeatures,
				NoDefaultFeatures: noDefaultFeatures,
			})
		},
	}
	cmd.Flags().String("manifest-path", "", "Path to the workspace Cargo.toml")
	cmd.Flags().StringP("out-path", "o", "", "Archive to write (default from skeleton.yaml, else skeleton.tar)")
	cmd.Flags().StringSliceP("features", "F", nil, "Features to activate while resolving")
	cmd.Flags().Bool("all-features", false, "Activate all available features")
	cmd.Flags().Bool("no-default-features", false, "Do not activate the default feature")
	return cmd
}
