// ABOUTME: Structured and tabular output for every command
// ABOUTME: Renders text tables with lipgloss, JSON and YAML with optional JMESPath query

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	jmespath "github.com/jmespath-community/go-jmespath"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// writeStructured writes v as JSON or YAML, applying --query when set
func writeStructured(w io.Writer, format string, v any) error {
	data, err := applyQuery(v, queryExpr)
	if err != nil {
		return err
	}

	switch format {
	case formatYAML:
		out, err := yaml.Marshal(data)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}
}

// applyQuery runs a JMESPath expression over the JSON form of v
func applyQuery(v any, expr string) (any, error) {
	generic, err := toGeneric(v)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(expr) == "" {
		return generic, nil
	}
	result, err := jmespath.Search(expr, generic)
	if err != nil {
		return nil, fmt.Errorf("invalid --query %q: %w", expr, err)
	}
	return result, nil
}

// toGeneric converts typed values into maps and slices so JSON tags drive
// both the query and the YAML keys
func toGeneric(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	return generic, nil
}

// renderTable draws rows under headers with a rounded border
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

// renderKeyValues lays out label/value pairs with aligned labels
func renderKeyValues(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		if len(p[0]) > width {
			width = len(p[0])
		}
	}
	var sb strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&sb, "%-*s  %s\n", width+1, p[0]+":", p[1])
	}
	return strings.TrimRight(sb.String(), "\n")
}
