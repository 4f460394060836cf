// ABOUTME: Health command for campus-admin CLI
// ABOUTME: Checks API reachability, the credential store and the session

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check API connectivity and local session",
	Long:  `Check that the administration API answers, which credential store is in use and whether a session is stored.`,
	Args:  cobra.NoArgs,
	Run: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) int {
		return runHealth(ctx, a, os.Stdout)
	}),
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// healthReport is the structured form of the health output
type healthReport struct {
	API             string `json:"api" yaml:"api"`
	Reachable       bool   `json:"reachable" yaml:"reachable"`
	Status          int    `json:"status,omitempty" yaml:"status,omitempty"`
	Error           string `json:"error,omitempty" yaml:"error,omitempty"`
	CredentialStore string `json:"credentialStore" yaml:"credentialStore"`
	Session         string `json:"session" yaml:"session"`
	User            string `json:"user,omitempty" yaml:"user,omitempty"`
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, a *app, w io.Writer) int {
	s := a.session.Snapshot()
	report := healthReport{
		API:             a.gateway.BaseURL(),
		CredentialStore: a.cfg.CredentialStore,
		Session:         s.State.String(),
	}
	if s.CurrentUser != nil {
		report.User = s.CurrentUser.Username
	}

	status, err := a.gateway.Ping(ctx)
	if err != nil {
		report.Error = err.Error()
	} else {
		report.Reachable = true
		report.Status = status
	}

	if code := writeResult(w, report, formatHealthHuman); code != exitOK {
		return code
	}
	if !report.Reachable {
		return exitError
	}
	return exitOK
}

// formatHealthHuman formats the health report for human readability
func formatHealthHuman(r healthReport) string {
	api := fmt.Sprintf("reachable (HTTP %d)", r.Status)
	if !r.Reachable {
		api = "unreachable: " + r.Error
	}
	session := r.Session
	if r.User != "" {
		session += " as " + r.User
	}
	return renderKeyValues([][2]string{
		{"API", r.API},
		{"Status", api},
		{"Credential store", r.CredentialStore},
		{"Session", session},
	})
}
