// ABOUTME: Account lifecycle commands under "campus-admin users"
// ABOUTME: Activate, deactivate and reset the password of a user

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/markalston/campus-admin/internal/resources"
	"github.com/spf13/cobra"
)

// userAction is one lifecycle call on the user repository
type userAction struct {
	use, short, done string
	call             func(r *resources.UserRepository, ctx context.Context, id int64) error
}

var userActions = []userAction{
	{"activate ID", "Activate a user account", "Activated user %d", (*resources.UserRepository).Activate},
	{"deactivate ID", "Deactivate a user account", "Deactivated user %d", (*resources.UserRepository).Deactivate},
	{"reset-password ID", "Have the API issue a new password for a user", "Password reset requested for user %d", (*resources.UserRepository).ResetPassword},
}

// addUserActions attaches the lifecycle commands to the users group
func addUserActions(group *cobra.Command) {
	for _, action := range userActions {
		group.AddCommand(&cobra.Command{
			Use:   action.use,
			Short: action.short,
			Args:  cobra.ExactArgs(1),
			Run: withApp(requireSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) int {
				return runUserAction(ctx, a.catalog.Users, action, args[0], os.Stdout)
			})),
		})
	}
}

// runUserAction performs action on the user in idArg and returns exit code
func runUserAction(ctx context.Context, users *resources.UserRepository, action userAction, idArg string, w io.Writer) int {
	id, err := parseID(idArg)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitRejected
	}
	if err := action.call(users, ctx, id); err != nil {
		return reportError(w, err)
	}
	fmt.Fprintf(w, action.done+"\n", id)
	return exitOK
}
