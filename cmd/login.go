// ABOUTME: Login, logout and passwd commands for campus-admin CLI
// ABOUTME: Drives the session through sign-in, forced password change and sign-out

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/markalston/campus-admin/internal/credstore"
	"github.com/markalston/campus-admin/internal/session"
	"github.com/spf13/cobra"
)

var (
	loginUsername      string
	loginPasswordStdin bool
	passwdUsername     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the administration API",
	Long: `Log in and keep the session for later commands.

When the account must change its password first, the new password is asked
for right away on a terminal; log in again afterwards.`,
	Args: cobra.NoArgs,
	Run: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) int {
		return runLogin(ctx, a, newPrompter(os.Stdin, os.Stderr), os.Stdout)
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	Run: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) int {
		return runLogout(a, os.Stdout)
	}),
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change a password",
	Long: `Change the password of an account. Works without a session, so accounts
that must change their password before logging in can use it.`,
	Args: cobra.NoArgs,
	Run: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) int {
		return runPasswd(ctx, a, newPrompter(os.Stdin, os.Stderr), os.Stdout)
	}),
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(passwdCmd)

	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (prompted when omitted)")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from stdin")
	passwdCmd.Flags().StringVarP(&passwdUsername, "username", "u", "", "Account to change (defaults to the logged-in user)")
}

// runLogin signs in and returns exit code
func runLogin(ctx context.Context, a *app, p *prompter, w io.Writer) int {
	username := strings.TrimSpace(loginUsername)
	if username == "" {
		var err error
		if username, err = p.line("Username"); err != nil {
			return reportError(w, err)
		}
		username = strings.TrimSpace(username)
	}
	if username == "" {
		fmt.Fprintln(w, "Error: username is required")
		return exitRejected
	}

	password, err := readLoginPassword(p)
	if err != nil {
		return reportError(w, err)
	}

	profile, err := a.session.Login(ctx, username, password)
	switch {
	case err == nil:
		return writeResult(w, profile, formatLoginHuman)
	case errors.Is(err, session.ErrPasswordChangeRequired):
		fmt.Fprintf(w, "Password change required for %s.\n", username)
		if !p.interactive {
			fmt.Fprintf(w, "Run: campus-admin passwd --username %s\n", username)
			return exitRejected
		}
		if code := changePassword(ctx, a, p, w, username); code != exitOK {
			return code
		}
		return exitRejected
	default:
		return reportError(w, err)
	}
}

// readLoginPassword takes the password from stdin or a hidden prompt
func readLoginPassword(p *prompter) (string, error) {
	if loginPasswordStdin {
		s, err := p.in.ReadString('\n')
		if err != nil && s == "" {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		return strings.TrimRight(s, "\r\n"), nil
	}
	return p.secret("Password")
}

// runLogout clears the session and returns exit code
func runLogout(a *app, w io.Writer) int {
	if err := a.session.Logout(); err != nil {
		return reportError(w, err)
	}
	fmt.Fprintln(w, "Logged out.")
	return exitOK
}

// runPasswd changes a password and returns exit code
func runPasswd(ctx context.Context, a *app, p *prompter, w io.Writer) int {
	username := strings.TrimSpace(passwdUsername)
	if username == "" {
		if u := a.session.Snapshot().CurrentUser; u != nil {
			username = u.Username
		}
	}
	if username == "" {
		var err error
		if username, err = p.line("Username"); err != nil {
			return reportError(w, err)
		}
		username = strings.TrimSpace(username)
	}
	if username == "" {
		fmt.Fprintln(w, "Error: username is required")
		return exitRejected
	}
	return changePassword(ctx, a, p, w, username)
}

// changePassword prompts for current, new and confirmed passwords
func changePassword(ctx context.Context, a *app, p *prompter, w io.Writer, username string) int {
	oldPassword, err := p.secret("Current password")
	if err != nil {
		return reportError(w, err)
	}
	newPassword, err := p.secret("New password")
	if err != nil {
		return reportError(w, err)
	}
	confirm, err := p.secret("Confirm new password")
	if err != nil {
		return reportError(w, err)
	}

	err = a.session.ChangePassword(ctx, session.PasswordChange{
		Username:        username,
		OldPassword:     oldPassword,
		NewPassword:     newPassword,
		ConfirmPassword: &confirm,
	})
	if err != nil {
		return reportError(w, err)
	}
	fmt.Fprintln(w, session.MsgPasswordChanged)
	return exitOK
}

// formatLoginHuman formats a successful login
func formatLoginHuman(profile *credstore.UserProfile) string {
	roles := "none"
	if len(profile.Roles) > 0 {
		roles = strings.Join(profile.Roles, ", ")
	}
	return fmt.Sprintf("Logged in as %s (%s)\nRoles: %s", profile.DisplayName(), profile.Username, roles)
}

// writeResult prints v as text via human, or structured per --output
func writeResult[T any](w io.Writer, v T, human func(T) string) int {
	if format := OutputFormat(); format != formatText {
		if err := writeStructured(w, format, v); err != nil {
			return reportError(w, err)
		}
		return exitOK
	}
	fmt.Fprintln(w, human(v))
	return exitOK
}
