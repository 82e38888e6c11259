package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resolveit/internal/cli"
	"resolveit/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "resolveit",
		Short:   "ResolveIT - complaint management from the terminal",
		Version: version.String(),
		Long: `ResolveIT is a client for the ResolveIT complaint management backend.
It submits and tracks complaints, enforces role-based permissions locally,
and can run as a watch daemon pushing Telegram notifications.`,
	}

	// Session
	rootCmd.AddCommand(cli.LoginCmd())
	rootCmd.AddCommand(cli.LogoutCmd())
	rootCmd.AddCommand(cli.WhoamiCmd())
	rootCmd.AddCommand(cli.RegisterCmd())

	// Complaint workflow
	rootCmd.AddCommand(cli.ComplaintsCmd())
	rootCmd.AddCommand(cli.FilesCmd())
	rootCmd.AddCommand(cli.StaffCmd())
	rootCmd.AddCommand(cli.EscalationsCmd())
	rootCmd.AddCommand(cli.ReportsCmd())

	// Daemon
	rootCmd.AddCommand(cli.WatchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
