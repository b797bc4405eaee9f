package root

import (
	"github.com/spf13/cobra"
)

// RootCmd is the top-level printdesk command.
var RootCmd = &cobra.Command{
	Use:           "printdesk",
	Short:         "Printer helpdesk CLI",
	Long:          "Command line interface for the printer helpdesk API: login, users and the audit log.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// GetRoot returns the RootCmd.
func GetRoot() *cobra.Command {
	return RootCmd
}
