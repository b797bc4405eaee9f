package main

import (
	"fmt"
	"os"

	"github.com/crucial707/printdesk/cmd/cli/audit"
	"github.com/crucial707/printdesk/cmd/cli/auth"
	"github.com/crucial707/printdesk/cmd/cli/root"
	"github.com/crucial707/printdesk/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	users.InitUsers(rootCmd)
	audit.InitAudit(rootCmd)

	// Execute the root Cobra command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
