// ABOUTME: Status command for campus-admin CLI
// ABOUTME: Shows who is logged in and headline counts for every collection

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/markalston/campus-admin/internal/resources"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session and collection totals",
	Long:  `Display the logged-in user and the number of users, roles, classes, professors, modules and rooms, with active and inactive counts.`,
	Args:  cobra.NoArgs,
	Run: withApp(requireSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) int {
		return runStatus(ctx, a, os.Stdout)
	})),
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusReport is the structured form of the status output
type statusReport struct {
	API      string                    `json:"api" yaml:"api"`
	User     string                    `json:"user" yaml:"user"`
	Entities []resources.EntitySummary `json:"entities" yaml:"entities"`
}

// runStatus loads the summaries and returns exit code
func runStatus(ctx context.Context, a *app, w io.Writer) int {
	summaries, err := a.catalog.Summarize(ctx)
	if err != nil {
		return reportError(w, err)
	}

	report := statusReport{API: a.gateway.BaseURL(), Entities: summaries}
	if u := a.session.Snapshot().CurrentUser; u != nil {
		report.User = u.Username
	}
	return writeResult(w, report, formatStatusHuman)
}

// formatStatusHuman formats the status report for human readability
func formatStatusHuman(r statusReport) string {
	rows := make([][]string, 0, len(r.Entities))
	for _, s := range r.Entities {
		rows = append(rows, []string{
			s.Title,
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Active),
			strconv.Itoa(s.Inactive),
		})
	}
	return fmt.Sprintf("Logged in as %s at %s\n\n%s",
		r.User, r.API,
		renderTable([]string{"Collection", "Total", "Active", "Inactive"}, rows))
}
