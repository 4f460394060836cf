// ABOUTME: Whoami command for campus-admin CLI
// ABOUTME: Prints the stored profile and what the access token claims

package cmd

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/markalston/campus-admin/internal/credstore"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	Run: withApp(requireSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) int {
		return runWhoami(a, os.Stdout)
	})),
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// whoamiInfo is the structured form of the whoami output
type whoamiInfo struct {
	API     string                `json:"api" yaml:"api"`
	Profile credstore.UserProfile `json:"profile" yaml:"profile"`
	Token   *tokenInfo            `json:"token,omitempty" yaml:"token,omitempty"`
}

// tokenInfo is what could be read from the access token without verifying it
type tokenInfo struct {
	Subject   string     `json:"subject,omitempty" yaml:"subject,omitempty"`
	IssuedAt  *time.Time `json:"issuedAt,omitempty" yaml:"issuedAt,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
	Expired   bool       `json:"expired" yaml:"expired"`
}

// runWhoami prints the current identity and returns exit code
func runWhoami(a *app, w io.Writer) int {
	s := a.session.Snapshot()
	info := whoamiInfo{API: a.gateway.BaseURL(), Token: inspectToken(s.AccessToken, time.Now())}
	if s.CurrentUser != nil {
		info.Profile = *s.CurrentUser
	}
	return writeResult(w, info, formatWhoamiHuman)
}

// inspectToken decodes JWT claims without checking the signature; the API
// remains the authority. Opaque tokens yield nil.
func inspectToken(token string, now time.Time) *tokenInfo {
	if token == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}

	info := &tokenInfo{}
	info.Subject, _ = claims.GetSubject()
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		info.IssuedAt = &t
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
		info.Expired = !now.Before(t)
	}
	return info
}

// formatWhoamiHuman formats the identity for human readability
func formatWhoamiHuman(info whoamiInfo) string {
	p := info.Profile
	roles := "none"
	if len(p.Roles) > 0 {
		roles = strings.Join(p.Roles, ", ")
	}
	pairs := [][2]string{
		{"User", p.Username},
		{"Name", p.DisplayName()},
		{"Email", p.Email},
		{"ID", strconv.FormatInt(p.IDUser, 10)},
		{"Roles", roles},
		{"API", info.API},
	}
	if t := info.Token; t != nil {
		if t.Subject != "" {
			pairs = append(pairs, [2]string{"Token subject", t.Subject})
		}
		if t.ExpiresAt != nil {
			expiry := t.ExpiresAt.Local().Format(time.RFC1123)
			if t.Expired {
				expiry += " (expired)"
			}
			pairs = append(pairs, [2]string{"Token expires", expiry})
		}
	}
	return renderKeyValues(pairs)
}
