package cmd

import (
	"github.com/spf13/cobra"

	"opencv-ci/internal/config"
)

// newEnvCommand prints shell exports for one OpenCV major version, for use as
// `eval "$(opencv-ci env 4.x)"` in the build scripts.
func newEnvCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "env <version>",
		Short:   "Print shell exports for an OpenCV version from the companion config",
		Example: `  eval "$(opencv-ci env 4.x)"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(a.settings.GetString(keyConfig))
			if err != nil {
				return err
			}
			return cfg.WriteExports(cmd.OutOrStdout(), args[0])
		},
	}
}
