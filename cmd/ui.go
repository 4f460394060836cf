// ABOUTME: UI command for campus-admin CLI
// ABOUTME: Starts the interactive terminal interface with logs sent to a file

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/campus-admin/internal/config"
	"github.com/markalston/campus-admin/internal/logger"
	"github.com/markalston/campus-admin/internal/tui"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Start the interactive interface",
	Long: `Start the full-screen interface for logging in and managing every collection.

Logs are written to debug.log in the config directory.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runUI(ctx, os.Stderr)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

// runUI runs the TUI until it exits and returns exit code
func runUI(ctx context.Context, w io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	// stderr belongs to the TUI while it runs
	if err := logger.InitFile(cfg.ConfigDir, cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	defer logger.Close()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	defer a.Close()

	err = tui.Run(tui.Options{
		Session:        a.session,
		Guard:          a.guard,
		Catalog:        a.catalog,
		APIURL:         a.gateway.BaseURL(),
		OnUnauthorized: a.gateway.OnUnauthorized,
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}
