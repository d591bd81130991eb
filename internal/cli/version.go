package cli

import (
	"github.com/auralynx/auralynx/internal/version"
	"github.com/spf13/cobra"
)

// setVersion enables --version on cmd.
func setVersion(cmd *cobra.Command) {
	cmd.Version = version.Resolve()
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
}
