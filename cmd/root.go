// ABOUTME: Root command for campus-admin CLI
// ABOUTME: Handles global flags and configuration

package cmd

import (
	"strings"

	"github.com/markalston/campus-admin/internal/config"
	"github.com/spf13/cobra"
)

var (
	apiURL       string
	jsonOutput   bool
	outputFormat string
	queryExpr    string
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "campus-admin",
	Short: "CLI for the campus administration API",
	Long: `campus-admin manages users, roles, classes, professors, modules and rooms
of a school administration API from the terminal.

Log in once with "campus-admin login"; the session is kept until you log out
or the API rejects it.

Exit codes:
  0 - Success
  1 - Rejected by the API or invalid input
  2 - Error (connectivity, unexpected response)
  3 - Not logged in or session expired

Environment Variables:
  CAMPUS_API_URL           API URL (default: http://localhost:8080)
  CAMPUS_TIMEOUT           Request timeout (default: 10s)
  CAMPUS_CONFIG_DIR        Directory for session and debug log
  CAMPUS_CREDENTIAL_STORE  file, redis or memory (default: file)
  CAMPUS_REDIS_ADDR        Redis address for the redis credential store
  CAMPUS_LOG_LEVEL         debug, info, warn, error (default: warn)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API URL (overrides CAMPUS_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json or yaml")
	rootCmd.PersistentFlags().StringVar(&queryExpr, "query", "", "JMESPath expression applied to json/yaml output")
}

// resolveAPIURL returns the API URL from flag, then config (env, .env, default)
func resolveAPIURL(cfg *config.Config) string {
	if apiURL != "" {
		return strings.TrimRight(apiURL, "/")
	}
	return cfg.APIURL
}

// OutputFormat returns the requested output format; --json wins over --output
func OutputFormat() string {
	if jsonOutput {
		return formatJSON
	}
	switch strings.ToLower(outputFormat) {
	case formatJSON:
		return formatJSON
	case formatYAML, "yml":
		return formatYAML
	default:
		return formatText
	}
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return OutputFormat() == formatJSON
}
