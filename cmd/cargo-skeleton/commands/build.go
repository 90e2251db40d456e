package commands

import (
	"errors"

	"github.com/spf13/cobra"
	"go.trai.ch/skeleton/internal/app"
)

var errArgsBeforeDash = errors.New("cargo arguments must follow --")

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [-- cargo-args...]",
		Short: "Compile the external dependencies of workspace members",
		Args: func(cmd *cobra.Command, args []string) error {
			if dash := cmd.ArgsLenAtDash(); (dash == -1 && len(args) > 0) || dash > 0 {
				return errArgsBeforeDash
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			manifestPath, _ := cmd.Flags().GetString("manifest-path")
			packages, _ := cmd.Flags().GetStringArray("package")
			exclude, _ := cmd.Flags().GetStringArray("exclude")
			all, _ := cmd.Flags().GetBool("all")
			workspace, _ := cmd.Flags().GetBool("workspace")
			transitive, _ := cmd.Flags().GetBool("transitive")

			return c.app.Build(cmd.Context(), app.BuildOptions{
				Dir:          ".",
				ManifestPath: manifestPath,
				Packages:     packages,
				Exclude:      exclude,
				All:          all || workspace,
				Transitive:   transitive,
				Args:         args,
			})
		},
	}
	cmd.Flags().String("manifest-path", "", "Path to the workspace Cargo.toml")
	cmd.Flags().StringArrayP("package", "p", nil, "Package to build (repeatable)")
	cmd.Flags().StringArray("exclude", nil, "Package to exclude (repeatable)")
	cmd.Flags().Bool("all", false, "Build every workspace member")
	cmd.Flags().Bool("workspace", false, "Alias for --all")
	cmd.Flags().Bool("transitive", false, "Include every member reachable over local dependencies")
	return cmd
}
