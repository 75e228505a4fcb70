package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/cheynewallace/tabby"
	"github.com/spf13/cobra"

	"opencv-ci/internal/installer"
)

// newPlanCommand prints what the root command would do on this host, without
// deleting anything or running an installer.
func newPlanCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show the installer that would run on this host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := a.dispatcher().Plan(a.hostSignature(), a.env)
			if err != nil {
				return err
			}

			t := tabby.NewCustom(tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0))
			t.AddLine("host", plan.Signature)
			t.AddLine("family", plan.Family)
			t.AddLine("variant", plan.Variant)
			t.AddLine("installer", plan.Installer.Name())
			if script, ok := plan.Installer.(*installer.ScriptInstaller); ok {
				t.AddLine("script", script.Path())
			}
			if plan.RequiresConfig {
				t.AddLine("config", a.settings.GetString(keyConfig))
			} else {
				t.AddLine("config", "not required")
			}
			for _, o := range plan.Overrides {
				t.AddLine("set", fmt.Sprintf("%s=%s", o.Key, o.Value))
			}
			t.Print()
			return nil
		},
	}
}
