// ABOUTME: Test helpers for config tests
// ABOUTME: Provides utilities for environment variable management

package config

import (
	"os"
	"strings"
	"testing"
)

// withCleanEnv unsets every CAMPUS_* variable, points XDG_CONFIG_HOME at a
// temp dir, applies extra, and restores the original values on cleanup.
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    withCleanEnv(t, map[string]string{"CAMPUS_API_URL": "http://api.test"})
//	}
func withCleanEnv(t *testing.T, extra map[string]string) {
	t.Helper()

	saved := map[string]string{}
	for _, kv := range os.Environ() {
		key, value, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, EnvPrefix) || key == "XDG_CONFIG_HOME" {
			saved[key] = value
			os.Unsetenv(key)
		}
	}
	t.Cleanup(func() {
		for key := range extra {
			os.Unsetenv(key)
		}
		os.Unsetenv("XDG_CONFIG_HOME")
		for key, value := range saved {
			os.Setenv(key, value)
		}
	})

	os.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for key, value := range extra {
		os.Setenv(key, value)
	}
}
